package todos

import (
	"context"
	"fmt"
	"sync"

	"github.com/xyz-asif/jsontodo/internal/pkg/logger"
	apperrors "github.com/xyz-asif/jsontodo/pkg/errors"
)

// Store loads and saves the whole collection as one document.
// Load returns an empty collection and no error when nothing was saved yet.
type Store interface {
	Load(ctx context.Context) ([]Todo, error)
	Save(ctx context.Context, items []Todo) error
}

// FailMode decides what a storage error does to the request.
type FailMode int

const (
	// FailOpen logs storage errors and carries on: a failed load reads as an
	// empty collection and a failed save still answers success.
	FailOpen FailMode = iota
	// FailClosed returns storage errors to the caller.
	FailClosed
)

// ParseFailMode maps "open" or "closed" to a FailMode.
func ParseFailMode(s string) (FailMode, error) {
	switch s {
	case "open", "":
		return FailOpen, nil
	case "closed":
		return FailClosed, nil
	}
	return FailOpen, fmt.Errorf("unknown fail mode %q", s)
}

// Repository runs every load-mutate-save cycle under one lock so concurrent
// writers cannot overwrite each other.
type Repository struct {
	store Store
	mode  FailMode
	mu    sync.RWMutex
}

func NewRepository(store Store, mode FailMode) *Repository {
	return &Repository{store: store, mode: mode}
}

func (r *Repository) load(ctx context.Context) ([]Todo, error) {
	items, err := r.store.Load(ctx)
	if err != nil {
		if r.mode == FailClosed {
			return nil, fmt.Errorf("load todos: %w: %v", apperrors.ErrStorage, err)
		}
		logger.Error("could not read todos, continuing with an empty list: %v", err)
		return []Todo{}, nil
	}
	if items == nil {
		items = []Todo{}
	}
	logger.Debug("loaded %d todos", len(items))
	return items, nil
}

func (r *Repository) save(ctx context.Context, items []Todo) error {
	if err := r.store.Save(ctx, items); err != nil {
		if r.mode == FailClosed {
			return fmt.Errorf("save todos: %w: %v", apperrors.ErrStorage, err)
		}
		logger.Error("could not save todos: %v", err)
		return nil
	}
	logger.Debug("saved %d todos", len(items))
	return nil
}

// List returns the filtered and sorted collection.
func (r *Repository) List(ctx context.Context, query func([]Todo) []Todo) ([]Todo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	return query(items), nil
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*Todo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	i := FindTodo(items, id)
	if i < 0 {
		return nil, apperrors.ErrNotFound
	}
	return &items[i], nil
}

func (r *Repository) Create(ctx context.Context, req CreateTodoRequest) (*Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	items, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	items, todo := AddTodo(items, req)
	if err := r.save(ctx, items); err != nil {
		return nil, err
	}
	return &todo, nil
}

func (r *Repository) Update(ctx context.Context, id int64, req UpdateTodoRequest) (*Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	items, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	todo, ok := ApplyUpdate(items, id, req)
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	if req.IsEmpty() {
		return &todo, nil
	}
	if err := r.save(ctx, items); err != nil {
		return nil, err
	}
	return &todo, nil
}

func (r *Repository) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	items, err := r.load(ctx)
	if err != nil {
		return err
	}
	kept, removed := RemoveTodo(items, id)
	if !removed {
		return apperrors.ErrNotFound
	}
	return r.save(ctx, kept)
}
