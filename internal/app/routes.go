package app

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/swaggo/swag"

	"github.com/marianahernandez1510202/todo-api-devops-project/internal/config"
	"github.com/marianahernandez1510202/todo-api-devops-project/internal/handlers"
	"github.com/marianahernandez1510202/todo-api-devops-project/internal/middleware"
	"github.com/marianahernandez1510202/todo-api-devops-project/internal/notify"
	"github.com/marianahernandez1510202/todo-api-devops-project/internal/repo"
	"github.com/marianahernandez1510202/todo-api-devops-project/internal/service"
)

// Setup registers all routes on the given engine.
func Setup(r *gin.Engine, cfg config.Config, todoRepo repo.TodoRepo, rdb *redis.Client) {
	r.Use(middleware.Metrics())
	r.Use(middleware.RateLimit(newWindowStore(rdb), cfg.Rate.Max, cfg.Rate.Window.Duration()))

	r.GET("/", rootHandler(cfg))
	r.GET("/health", healthHandler())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/swagger-doc.json", swaggerDocHandler())
	r.GET("/swagger", func(c *gin.Context) { c.Redirect(302, "/swagger/index.html") })
	r.GET("/swagger/*any", ginSwagger.WrapHandler(
		swaggerFiles.Handler,
		ginSwagger.URL("/swagger-doc.json"),
		ginSwagger.DefaultModelsExpandDepth(-1),
	))

	api := r.Group("/api/v1")

	var notifier notify.Notifier
	if cfg.Notify.EmailEnabled {
		notifier = notify.NewLogNotifier(cfg.Notify.EmailTo)
	}
	todoSvc := service.NewTodoService(todoRepo, notifier)
	todoHandler := handlers.NewTodoHandler(todoSvc)
	registerTodoRoutes(api, todoHandler)
}

func newWindowStore(rdb *redis.Client) middleware.WindowStore {
	if rdb != nil {
		return middleware.NewRedisWindowStore(rdb)
	}
	return middleware.NewMemoryWindowStore()
}

func rootHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service": "Todo API",
			"version": cfg.App.Version,
			"env":     cfg.App.Env,
			"docs":    "/swagger/index.html",
			"spec":    "/swagger-doc.json",
			"health":  "/health",
			"metrics": "/metrics",
			"api":     "/api/v1",
		})
	}
}

func healthHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	}
}

func swaggerDocHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		doc, err := swag.ReadDoc("swagger")
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(doc))
	}
}

func registerTodoRoutes(api *gin.RouterGroup, h *handlers.TodoHandler) {
	todos := api.Group("/todos")
	todos.POST("", h.Create)
	todos.GET("", h.List)
	todos.GET("/stats", h.Stats)
	todos.GET("/search", h.Search)
	todos.GET("/:id", h.GetByID)
	todos.PUT("/:id", h.Update)
	todos.PATCH("/:id/complete", h.Complete)
	todos.PATCH("/:id/uncomplete", h.Uncomplete)
	todos.DELETE("/:id", h.Delete)
}
