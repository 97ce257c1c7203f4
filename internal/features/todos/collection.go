package todos

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/xyz-asif/jsontodo/internal/pkg/validator"
)

// The functions in this file take the whole collection and never touch storage.

// NextID is one more than the largest id present, 1 for an empty collection.
func NextID(items []Todo) int64 {
	var maxID int64
	for _, t := range items {
		if t.ID > maxID {
			maxID = t.ID
		}
	}
	return maxID + 1
}

// AddTodo appends a new open todo built from req.
func AddTodo(items []Todo, req CreateTodoRequest) ([]Todo, Todo) {
	todo := Todo{
		ID:        NextID(items),
		Text:      strings.TrimSpace(req.Text),
		Completed: false,
		DueDate:   normalizeDueDate(req.DueDate),
	}
	return append(items, todo), todo
}

// FindTodo returns the index of the todo with id, or -1.
func FindTodo(items []Todo, id int64) int {
	return slices.IndexFunc(items, func(t Todo) bool { return t.ID == id })
}

// ApplyUpdate changes only the fields present in req on the todo with id.
func ApplyUpdate(items []Todo, id int64, req UpdateTodoRequest) (Todo, bool) {
	i := FindTodo(items, id)
	if i < 0 {
		return Todo{}, false
	}
	todo := &items[i]
	if req.Text != nil {
		todo.Text = strings.TrimSpace(*req.Text)
	}
	if req.Completed != nil {
		todo.Completed = *req.Completed
	}
	if req.DueDate.Set {
		todo.DueDate = req.DueDate.Value
	}
	return *todo, true
}

// RemoveTodo drops the todo with id. The second result is false when nothing was removed.
func RemoveTodo(items []Todo, id int64) ([]Todo, bool) {
	kept := slices.DeleteFunc(slices.Clone(items), func(t Todo) bool { return t.ID == id })
	return kept, len(kept) != len(items)
}

// ApplyQuery filters then sorts a copy of items: search, completed, overdue, sort.
func ApplyQuery(items []Todo, q ListQuery, locale language.Tag, now time.Time) []Todo {
	out := make([]Todo, 0, len(items))

	var fold cases.Caser
	var needle string
	if q.Search != "" {
		fold = cases.Fold()
		needle = fold.String(q.Search)
	}

	for _, t := range items {
		if needle != "" && !strings.Contains(fold.String(t.Text), needle) {
			continue
		}
		if q.Completed != nil && t.Completed != *q.Completed {
			continue
		}
		if q.Overdue != nil && IsOverdue(t, now) != *q.Overdue {
			continue
		}
		out = append(out, t)
	}

	SortTodos(out, q.Sort, locale)
	return out
}

// SortTodos sorts in place and stably. Unknown orders keep the stored order.
func SortTodos(items []Todo, order string, locale language.Tag) {
	switch order {
	case SortAsc:
		slices.SortStableFunc(items, func(a, b Todo) int { return cmp.Compare(a.ID, b.ID) })
	case SortDesc:
		slices.SortStableFunc(items, func(a, b Todo) int { return cmp.Compare(b.ID, a.ID) })
	case SortAlpha:
		col := collate.New(locale)
		slices.SortStableFunc(items, func(a, b Todo) int { return col.CompareString(a.Text, b.Text) })
	case SortDue:
		sortByDue(items)
	}
}

// sortByDue puts dated items first in date order; undated ones keep their order at the end.
func sortByDue(items []Todo) {
	type keyed struct {
		todo Todo
		due  time.Time
		ok   bool
	}
	ks := make([]keyed, len(items))
	for i, t := range items {
		due, ok := dueTime(t)
		ks[i] = keyed{todo: t, due: due, ok: ok}
	}
	slices.SortStableFunc(ks, func(a, b keyed) int {
		switch {
		case !a.ok && !b.ok:
			return 0
		case !a.ok:
			return 1
		case !b.ok:
			return -1
		}
		return a.due.Compare(b.due)
	})
	for i := range ks {
		items[i] = ks[i].todo
	}
}

// IsOverdue reports whether the due day is before the day of now.
func IsOverdue(t Todo, now time.Time) bool {
	due, ok := dueTime(t)
	return ok && validator.DayBefore(due, now)
}

func dueTime(t Todo) (time.Time, bool) {
	if t.DueDate == nil {
		return time.Time{}, false
	}
	due, err := validator.ParseDate(*t.DueDate)
	return due, err == nil
}
