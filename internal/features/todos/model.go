// ================== internal/features/todos/model.go ==================
package todos

import (
	"encoding/json"
	"strings"
)

// Todo represents a todo item
// @Description One entry of the todo collection
type Todo struct {
	ID        int64   `bson:"id" json:"id" example:"1"`
	Text      string  `bson:"text" json:"text" example:"Buy groceries"`
	Completed bool    `bson:"completed" json:"completed" example:"false"`
	DueDate   *string `bson:"dueDate" json:"dueDate" example:"2025-03-14"`
}

// CreateTodoRequest represents todo creation data
// @Description Data required to create a new todo
type CreateTodoRequest struct {
	Text    string  `json:"text" example:"Buy groceries"`
	DueDate *string `json:"dueDate" example:"2025-03-14"`
	// Completed is accepted and type checked, new todos always start open.
	Completed *bool `json:"completed" swaggerignore:"true"`
}

// UpdateTodoRequest represents todo update data. Absent fields are left alone.
// @Description Data for updating an existing todo
type UpdateTodoRequest struct {
	Text      *string      `json:"text" example:"Buy groceries"`
	Completed *bool        `json:"completed" example:"true"`
	DueDate   OptionalDate `json:"dueDate" swaggertype:"string" example:"2025-03-14"`
}

// OptionalDate tells an absent dueDate apart from an explicit null or "".
type OptionalDate struct {
	Set   bool
	Value *string
}

func (d *OptionalDate) UnmarshalJSON(data []byte) error {
	d.Set = true
	var raw *string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	d.Value = normalizeDueDate(raw)
	return nil
}

// IsEmpty reports whether the request carries no field at all
func (r *UpdateTodoRequest) IsEmpty() bool {
	return r.Text == nil && r.Completed == nil && !r.DueDate.Set
}

// Sort orders accepted by the list endpoint
const (
	SortAsc   = "asc"
	SortDesc  = "desc"
	SortAlpha = "alpha"
	SortDue   = "due"
)

// ListQuery holds the list filters. Nil pointers mean "no filter".
type ListQuery struct {
	Search    string
	Completed *bool
	Overdue   *bool
	Sort      string
}

func normalizeDueDate(raw *string) *string {
	if raw == nil {
		return nil
	}
	s := strings.TrimSpace(*raw)
	if s == "" {
		return nil
	}
	return &s
}
