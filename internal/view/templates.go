package view

import (
	"html/template"
	"strings"

	"github.com/marketboost/storefront/internal/domain"
)

// Fragment names pushed to connected pages.
const (
	FragmentBadge  = "badge"
	FragmentDrawer = "drawer"
	FragmentToast  = "toast"
)

var templates = template.Must(template.New("cart").Funcs(template.FuncMap{
	"usd": domain.FormatUSD,
	"categoryNames": func(cats []domain.Category) string {
		names := make([]string, 0, len(cats))
		for _, c := range cats {
			names = append(names, c.Name)
		}
		return strings.Join(names, ", ")
	},
}).Parse(`
{{define "badge"}}<span class="cart-count{{if eq .TotalItems 0}} hidden{{end}}">{{.TotalItems}}</span>{{end}}

{{define "toast"}}{{if .}}<div class="cart-toast"><span>Added {{.}} to cart!</span></div>{{end}}{{end}}

{{define "drawer"}}<div class="cart-drawer{{if .Open}} open{{end}}"{{if .Open}} data-body-scroll="locked"{{end}}>
  <div class="cart-header"><h3>Shopping Cart</h3><button class="cart-close">&times;</button></div>
  {{if .Summary.IsEmpty}}
  <div class="cart-empty">
    <p>Your cart is empty</p>
    <button class="cart-continue-shopping">Continue Shopping</button>
  </div>
  {{else}}
  <div class="cart-items-container">
    {{range .Summary.Items}}
    <div class="cart-item" data-product-id="{{.ProductID}}">
      {{if .ImageURL}}<img src="{{.ImageURL}}" alt="{{.Name}}">{{else}}<div class="cart-item-placeholder"></div>{{end}}
      <div class="cart-item-body">
        <h4>{{.Name}}</h4>
        <p class="cart-item-categories">{{categoryNames .Categories}}</p>
        <div class="cart-item-quantity">
          <button class="quantity-decrease">-</button>
          <span class="quantity-display">{{.Quantity}}</span>
          <button class="quantity-increase">+</button>
        </div>
      </div>
      <div class="cart-item-totals">
        <div class="cart-item-total">{{usd .LineTotal}}</div>
        <div class="cart-item-each">{{usd .UnitPrice}} each</div>
        <button class="remove-item">Remove</button>
      </div>
    </div>
    {{end}}
  </div>
  <div class="cart-footer">
    {{if .Bundles}}
    <div class="bundle-suggestions">
      <span class="bundle-title">Bundle &amp; Save!</span>
      {{range .Bundles}}
      <div class="bundle-suggestion">
        <p><strong>{{.Name}}</strong></p>
        <p>{{.Description}}</p>
        <button class="bundle-add">Add Bundle</button>
      </div>
      {{end}}
    </div>
    {{end}}
    <div class="cart-totals"><span>Total:</span><span class="cart-total">{{usd .Summary.Subtotal}}</span></div>
    <button class="cart-checkout">Proceed to Checkout</button>
    <button class="cart-continue-shopping">Continue Shopping</button>
  </div>
  {{end}}
</div>{{end}}
`))
