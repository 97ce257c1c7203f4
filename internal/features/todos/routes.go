// ================== internal/features/todos/routes.go ==================
package todos

import (
	"github.com/gin-gonic/gin"
	"golang.org/x/text/language"
)

// RegisterRoutes mounts the todo API under router. writeLimit guards the
// mutating routes and may be nil.
func RegisterRoutes(router *gin.RouterGroup, repo *Repository, locale language.Tag, writeLimit gin.HandlerFunc) {
	handler := NewHandler(repo, locale)

	writes := []gin.HandlerFunc{}
	if writeLimit != nil {
		writes = append(writes, writeLimit)
	}
	with := func(hs ...gin.HandlerFunc) []gin.HandlerFunc {
		return append(append([]gin.HandlerFunc{}, writes...), hs...)
	}

	todos := router.Group("/todos")
	{
		todos.GET("", handler.List)
		todos.GET("/:id", handler.Get)
		todos.POST("", with(ValidateCreate(), handler.Create)...)
		todos.PATCH("/:id", with(ValidateUpdate(), handler.Update)...)
		todos.DELETE("/:id", with(handler.Delete)...)
	}
}
