package domain

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var usdPrinter = message.NewPrinter(language.AmericanEnglish)

// FormatUSD renders an amount the way the storefront always has: whole
// dollars with grouped thousands, e.g. "$1,299".
func FormatUSD(d decimal.Decimal) string {
	return usdPrinter.Sprintf("$%d", d.Round(0).IntPart())
}
