package jsonfile

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xyz-asif/jsontodo/internal/features/todos"
)

func strPtr(s string) *string { return &s }

func TestLoadMissingFileIsEmpty(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "simple_todos.json"))

	items, err := s.Load(context.Background())
	require.NoError(t, err)
	require.NotNil(t, items)
	require.Empty(t, items)
}

func TestLoadNullDocumentIsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "todos.json")
	require.NoError(t, os.WriteFile(path, []byte("null\n"), 0o644))

	items, err := New(path).Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, []todos.Todo{}, items)
}

func TestLoadCorruptFileFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "todos.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"id":1,`), 0o644))

	_, err := New(path).Load(context.Background())
	require.Error(t, err)
}

func TestSaveWritesIndentedArray(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "todos.json")
	s := New(path)

	err := s.Save(context.Background(), []todos.Todo{
		{ID: 1, Text: "milk", DueDate: strPtr("2025-03-14")},
		{ID: 2, Text: "bread", Completed: true},
	})
	require.NoError(t, err)

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	want := `[
  {
    "id": 1,
    "text": "milk",
    "completed": false,
    "dueDate": "2025-03-14"
  },
  {
    "id": 2,
    "text": "bread",
    "completed": true,
    "dueDate": null
  }
]
`
	require.Equal(t, want, string(b))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	require.Len(t, entries, 1, "temp files are cleaned up")
}

func TestSaveEmptyWritesEmptyArray(t *testing.T) {
	path := filepath.Join(t.TempDir(), "todos.json")
	require.NoError(t, New(path).Save(context.Background(), nil))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "[]\n", string(b))
}

func TestSaveThenLoad(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "todos.json"))
	ctx := context.Background()
	want := []todos.Todo{{ID: 7, Text: "x", DueDate: strPtr("2025-01-01T10:00:00Z")}}

	require.NoError(t, s.Save(ctx, want))
	require.NoError(t, s.Save(ctx, append(want, todos.Todo{ID: 8, Text: "y"})))

	got, err := s.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, []int64{7, 8}, []int64{got[0].ID, got[1].ID})
	require.Equal(t, want[0], got[0])
}

func TestCanceledContext(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "todos.json"))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Load(ctx)
	require.ErrorIs(t, err, context.Canceled)
	require.ErrorIs(t, s.Save(ctx, nil), context.Canceled)
}
