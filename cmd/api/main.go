// ================== cmd/api/main.go ==================
//
// @title JSON Todo API
// @version 1.0
// @description A small to-do API that keeps its list in a JSON file
// @host localhost:3000
// @BasePath /api
// @schemes http
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/xyz-asif/jsontodo/internal/config"
	"github.com/xyz-asif/jsontodo/internal/database"
	"github.com/xyz-asif/jsontodo/internal/features/todos"
	"github.com/xyz-asif/jsontodo/internal/middleware"
	"github.com/xyz-asif/jsontodo/internal/pkg/logger"
	"github.com/xyz-asif/jsontodo/internal/pkg/response"
	"github.com/xyz-asif/jsontodo/internal/routes"
	"github.com/xyz-asif/jsontodo/internal/storage/jsonfile"
	"github.com/xyz-asif/jsontodo/internal/storage/mongostore"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	docs "github.com/xyz-asif/jsontodo/docs"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Invalid configuration: %v", err)
	}

	level, _ := logger.ParseLevel(cfg.LogLevel)
	logger.SetGlobalLevel(level)

	docs.SwaggerInfo.Host = "localhost:" + cfg.Port
	docs.SwaggerInfo.BasePath = "/api"
	docs.SwaggerInfo.Schemes = []string{"http"}

	store, closeStore, err := openStore(cfg)
	if err != nil {
		logger.Fatal("Failed to open storage: %v", err)
	}
	defer closeStore()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger())
	router.Use(middleware.CORS(cfg.FrontendURL))

	router.GET("/health", func(c *gin.Context) {
		response.Success(c, map[string]interface{}{
			"status":  "ok",
			"storage": cfg.Storage.Driver,
			"time":    time.Now().Unix(),
		})
	})

	router.GET(
		"/swagger/*any",
		ginSwagger.WrapHandler(
			swaggerFiles.Handler,
			ginSwagger.URL("/swagger/doc.json"),
			ginSwagger.DeepLinking(true),
			ginSwagger.DefaultModelsExpandDepth(-1),
			ginSwagger.DocExpansion("none"),
		),
	)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	if err := routes.SetupRoutes(ctx, router, store, cfg); err != nil {
		logger.Fatal("Failed to set up routes: %v", err)
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}
	go func() {
		logger.Info("Server is running on port %s (storage=%s, fail mode=%s)",
			cfg.Port, cfg.Storage.Driver, cfg.Storage.FailMode)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	stop()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown: %v", err)
	}

	logger.Info("Server exited")
}

// openStore picks the storage backend. The returned func releases it.
func openStore(cfg *config.Config) (todos.Store, func(), error) {
	switch cfg.Storage.Driver {
	case config.DriverMongo:
		db, err := database.Connect(cfg.Mongo.URI, cfg.Mongo.Database)
		if err != nil {
			return nil, nil, fmt.Errorf("connect to MongoDB: %w", err)
		}
		logger.Info("Storing todos in MongoDB %s.%s", cfg.Mongo.Database, cfg.Mongo.Collection)
		store := mongostore.New(db.Database, cfg.Mongo.Collection, cfg.Mongo.Document)
		return store, func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := db.Disconnect(ctx); err != nil {
				logger.Error("MongoDB disconnect: %v", err)
			}
		}, nil
	default:
		logger.Info("Storing todos in %s", cfg.Storage.File)
		return jsonfile.New(cfg.Storage.File), func() {}, nil
	}
}
