package routes

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/xyz-asif/jsontodo/internal/config"
	"github.com/xyz-asif/jsontodo/internal/features/todos"
	"github.com/xyz-asif/jsontodo/internal/pkg/logger"
	"github.com/xyz-asif/jsontodo/internal/pkg/ratelimit"
	"github.com/xyz-asif/jsontodo/internal/pkg/response"
)

// SetupRoutes registers the todo API under /api and serves the static
// client for everything else. Background work stops when ctx is done.
func SetupRoutes(ctx context.Context, router *gin.Engine, store todos.Store, cfg *config.Config) error {
	mode, err := todos.ParseFailMode(cfg.Storage.FailMode)
	if err != nil {
		return err
	}
	locale, err := cfg.Locale()
	if err != nil {
		return fmt.Errorf("sort locale: %w", err)
	}

	var writeLimit gin.HandlerFunc
	if cfg.RateLimit.Requests > 0 {
		window := cfg.RateLimit.Window.Duration()
		limiter := ratelimit.New(cfg.RateLimit.Requests, window)
		limiter.StartCleanup(window, ctx.Done())
		writeLimit = ratelimit.Middleware(limiter)
		logger.Info("rate limiting writes to %d per %s per client", cfg.RateLimit.Requests, window)
	}

	api := router.Group("/api")
	repo := todos.NewRepository(store, mode)
	todos.RegisterRoutes(api, repo, locale, writeLimit)

	router.NoRoute(staticHandler(cfg.StaticDir))
	return nil
}

// staticHandler serves files under dir. Unknown API paths and missing files get a JSON 404.
func staticHandler(dir string) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := c.Request.URL.Path
		if p == "/api" || strings.HasPrefix(p, "/api/") || dir == "" {
			response.NotFound(c, "not found", "NOT_FOUND")
			return
		}
		if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
			response.NotFound(c, "not found", "NOT_FOUND")
			return
		}

		name := filepath.Join(dir, filepath.FromSlash(path.Clean("/"+p)))
		info, err := os.Stat(name)
		if err == nil && info.IsDir() {
			name = filepath.Join(name, "index.html")
			info, err = os.Stat(name)
		}
		if err != nil || info.IsDir() {
			response.NotFound(c, "not found", "NOT_FOUND")
			return
		}
		c.File(name)
	}
}
