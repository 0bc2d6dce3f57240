package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/marketboost/storefront/internal/domain"
)

// FileStorage keeps the record in a single JSON file. It is the default
// backend and the closest analog to the per-browser local storage the
// cart originally lived in.
type FileStorage struct {
	path string
}

// NewFileStorage stores the record at dir/<Key>.json, creating dir as
// needed.
func NewFileStorage(dir string) (*FileStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage dir: %w", err)
	}
	return &FileStorage{path: filepath.Join(dir, Key+".json")}, nil
}

func (f *FileStorage) Load(_ context.Context) (*domain.CartRecord, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cart file: %w", err)
	}

	var rec domain.CartRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to parse cart file: %w", err)
	}
	return &rec, nil
}

func (f *FileStorage) Save(_ context.Context, rec domain.CartRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal cart record: %w", err)
	}
	if err := os.WriteFile(f.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write cart file: %w", err)
	}
	return nil
}
