// ================== internal/features/todos/handler.go ==================
package todos

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"golang.org/x/text/language"

	"github.com/xyz-asif/jsontodo/internal/pkg/logger"
	"github.com/xyz-asif/jsontodo/internal/pkg/response"
	apperrors "github.com/xyz-asif/jsontodo/pkg/errors"
)

type Handler struct {
	repo   *Repository
	locale language.Tag
	now    func() time.Time
}

func NewHandler(repo *Repository, locale language.Tag) *Handler {
	return &Handler{repo: repo, locale: locale, now: time.Now}
}

// List godoc
// @Summary List todos
// @Description Get the todo list with optional search, filters and sorting
// @Tags todos
// @Produce json
// @Param completed query bool false "Filter by completion status"
// @Param search query string false "Case-insensitive substring of the text"
// @Param sort query string false "Sort order" Enums(asc, desc, alpha, due)
// @Param overdue query bool false "Filter by whether the due date has passed"
// @Success 200 {array} Todo
// @Failure 500 {object} response.ErrorResponse
// @Router /todos [get]
func (h *Handler) List(c *gin.Context) {
	query := ListQuery{
		Search:    c.Query("search"),
		Completed: parseBoolFilter(c.Query("completed")),
		Overdue:   parseBoolFilter(c.Query("overdue")),
		Sort:      c.Query("sort"),
	}
	logger.Info("GET /api/todos search=%q completed=%q overdue=%q sort=%q",
		query.Search, c.Query("completed"), c.Query("overdue"), query.Sort)

	now := h.now()
	todos, err := h.repo.List(c.Request.Context(), func(items []Todo) []Todo {
		return ApplyQuery(items, query, h.locale, now)
	})
	if err != nil {
		h.storageFailure(c, err, "Failed to get todos")
		return
	}

	response.Success(c, todos)
}

// Get godoc
// @Summary Get a todo by ID
// @Tags todos
// @Produce json
// @Param id path int true "Todo ID"
// @Success 200 {object} Todo
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /todos/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	logger.Info("GET /api/todos/%d", id)

	todo, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err, "Failed to get todo")
		return
	}

	response.Success(c, todo)
}

// Create godoc
// @Summary Create a new todo
// @Description Create an open todo. The new id is one more than the largest id present.
// @Tags todos
// @Accept json
// @Produce json
// @Param request body CreateTodoRequest true "Todo creation data"
// @Success 201 {object} Todo
// @Failure 400 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /todos [post]
func (h *Handler) Create(c *gin.Context) {
	var req CreateTodoRequest
	if err := c.ShouldBindBodyWith(&req, binding.JSON); err != nil {
		response.BindJSONError(c, err)
		return
	}
	logger.Info("POST /api/todos text=%q dueDate=%s", req.Text, formatDue(req.DueDate))

	todo, err := h.repo.Create(c.Request.Context(), req)
	if err != nil {
		h.storageFailure(c, err, "Failed to create todo")
		return
	}

	response.Created(c, todo)
}

// Update godoc
// @Summary Update a todo
// @Description Change any of text, completed and dueDate. Fields left out stay as they are.
// @Tags todos
// @Accept json
// @Produce json
// @Param id path int true "Todo ID"
// @Param request body UpdateTodoRequest true "Todo update data"
// @Success 200 {object} Todo
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /todos/{id} [patch]
func (h *Handler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req UpdateTodoRequest
	if err := c.ShouldBindBodyWith(&req, binding.JSON); err != nil {
		response.BindJSONError(c, err)
		return
	}
	logger.Info("PATCH /api/todos/%d %s", id, describeUpdate(req))

	todo, err := h.repo.Update(c.Request.Context(), id, req)
	if err != nil {
		h.fail(c, err, "Failed to update todo")
		return
	}

	response.Success(c, todo)
}

// Delete godoc
// @Summary Delete a todo
// @Tags todos
// @Param id path int true "Todo ID"
// @Success 204
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /todos/{id} [delete]
func (h *Handler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	logger.Info("DELETE /api/todos/%d", id)

	if err := h.repo.Delete(c.Request.Context(), id); err != nil {
		h.fail(c, err, "Failed to delete todo")
		return
	}

	response.NoContent(c)
}

func (h *Handler) fail(c *gin.Context, err error, message string) {
	if errors.Is(err, apperrors.ErrNotFound) {
		response.NotFound(c, apperrors.ErrNotFound.Error())
		return
	}
	h.storageFailure(c, err, message)
}

func (h *Handler) storageFailure(c *gin.Context, err error, message string) {
	logger.Error("%s: %v", message, err)
	if errors.Is(err, apperrors.ErrStorage) {
		response.StorageError(c, message)
		return
	}
	response.InternalServerError(c, message)
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.InvalidID(c)
		return 0, false
	}
	return id, true
}

// parseBoolFilter accepts exactly "true" and "false"; anything else means no filter.
func parseBoolFilter(v string) *bool {
	switch v {
	case "true":
		b := true
		return &b
	case "false":
		b := false
		return &b
	}
	return nil
}

func formatDue(due *string) string {
	if due == nil {
		return "none"
	}
	return strconv.Quote(*due)
}

// describeUpdate renders the fields a PATCH sent in the same form Create logs them.
func describeUpdate(req UpdateTodoRequest) string {
	var parts []string
	if req.Text != nil {
		parts = append(parts, "text="+strconv.Quote(*req.Text))
	}
	if req.Completed != nil {
		parts = append(parts, "completed="+strconv.FormatBool(*req.Completed))
	}
	if req.DueDate.Set {
		parts = append(parts, "dueDate="+formatDue(req.DueDate.Value))
	}
	if len(parts) == 0 {
		return "no fields"
	}
	return strings.Join(parts, " ")
}
