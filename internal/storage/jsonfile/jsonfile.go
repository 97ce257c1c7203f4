// Package jsonfile keeps the todo collection in a single human-readable JSON file.
package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/xyz-asif/jsontodo/internal/features/todos"
)

// Store reads and writes the collection as a JSON array at Path.
type Store struct {
	Path string
}

func New(path string) *Store {
	return &Store{Path: path}
}

// Load returns an empty collection when the file does not exist yet.
func (s *Store) Load(ctx context.Context) ([]todos.Todo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	b, err := os.ReadFile(s.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []todos.Todo{}, nil
		}
		return nil, fmt.Errorf("read file: %w", err)
	}

	var items []todos.Todo
	if err := json.Unmarshal(b, &items); err != nil {
		return nil, fmt.Errorf("json unmarshal %s: %w", s.Path, err)
	}
	if items == nil {
		items = []todos.Todo{}
	}
	return items, nil
}

// Save replaces the file in one rename so readers never see a half written array.
func (s *Store) Save(ctx context.Context, items []todos.Todo) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if items == nil {
		items = []todos.Todo{}
	}

	b, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}
	b = append(b, '\n')

	dir := filepath.Dir(s.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.Path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		return fmt.Errorf("write file: %w", err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close file: %w", err)
	}
	if err := os.Rename(tmpName, s.Path); err != nil {
		return fmt.Errorf("rename file: %w", err)
	}
	return nil
}
