package db

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"studentcp-server-go/models"
)

// ErrTrashEmpty is returned by Pop when nothing is left to restore.
var ErrTrashEmpty = errors.New("nothing to restore")

// Trash remembers deleted students, newest first, so a delete can be undone.
type Trash interface {
	Push(ctx context.Context, students ...models.Student) error
	Pop(ctx context.Context) (models.Student, error)
}

// MemoryTrash is a bounded in-process Trash.
type MemoryTrash struct {
	mu    sync.Mutex
	size  int
	items []models.Student // newest last
}

var _ Trash = (*MemoryTrash)(nil)

// NewMemoryTrash keeps at most size students; size <= 0 means 1.
func NewMemoryTrash(size int) *MemoryTrash {
	if size <= 0 {
		size = 1
	}
	return &MemoryTrash{size: size}
}

func (t *MemoryTrash) Push(_ context.Context, students ...models.Student) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	for _, st := range students {
		t.items = append(t.items, st.Clone())
	}
	if over := len(t.items) - t.size; over > 0 {
		t.items = append([]models.Student(nil), t.items[over:]...)
	}
	return nil
}

func (t *MemoryTrash) Pop(_ context.Context) (models.Student, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if len(t.items) == 0 {
		return models.Student{}, ErrTrashEmpty
	}
	last := t.items[len(t.items)-1]
	t.items = t.items[:len(t.items)-1]
	return last, nil
}
