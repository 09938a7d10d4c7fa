package main

import (
	"net/http"

	"notetasks/handler"
	"notetasks/middleware"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func setupRouter(app *App) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(middleware.RecoveryMiddleware())
	router.Use(middleware.RequestTracingMiddleware())
	router.Use(middleware.MetricsMiddleware())
	router.Use(middleware.CORSMiddleware())

	notesHandler := handler.NewNotesHandler(app.NotesService)
	tasksHandler := handler.NewTasksHandler(app.TasksService)
	uploadHandler := handler.NewUploadHandler(app.Ingestion)
	statsHandler := handler.NewStatsHandler(app.StatsService)
	healthHandler := handler.NewHealthHandler(app.Config.StoreDriver, app.Ping)

	router.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "API is running...")
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	api.Use(middleware.NoStoreMiddleware())
	{
		notes := api.Group("/notes")
		{
			notes.GET("", notesHandler.ListNotes)
			notes.GET("/search/:term", notesHandler.SearchNotes)
			notes.GET("/:id", notesHandler.GetNote)
			notes.POST("", notesHandler.CreateNote)
			notes.PUT("/:id", notesHandler.UpdateNote)
			notes.DELETE("/:id", notesHandler.DeleteNote)
		}

		tasks := api.Group("/tasks")
		{
			tasks.GET("", tasksHandler.ListTasks)
			tasks.GET("/export/:format", tasksHandler.ExportTasks)
			tasks.GET("/:id", tasksHandler.GetTask)
			tasks.POST("", tasksHandler.CreateTask)
			tasks.PUT("/:id", tasksHandler.UpdateTask)
			tasks.DELETE("/:id", tasksHandler.DeleteTask)
		}

		api.POST("/upload", middleware.RequestSizeLimiter(app.Config.Upload.MaxBytes), uploadHandler.Upload)
		api.GET("/stats", statsHandler.GetStats)
		api.GET("/health", healthHandler.Health)
	}

	return router
}
