package handler_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"notetasks/handler"
	"notetasks/repository"
	"notetasks/services"
	"notetasks/storage"
	"notetasks/usecase"
	"notetasks/utils"

	"github.com/gin-gonic/gin"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
	utils.InitValidator()
}

type envelope struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func setupRouter(t *testing.T, classifier services.Classifier) *gin.Engine {
	t.Helper()

	store := repository.NewMemoryStore()
	inference := services.NewInferenceClient(classifier, time.Second)
	lifecycle := usecase.NewLifecycleManager(store, store, store)
	files := storage.NewLocalFileStore(afero.NewMemMapFs(), "uploads")

	ingestion, err := usecase.NewIngestionService(store, store, store, files, inference, usecase.IngestionConfig{Concurrency: 2})
	require.NoError(t, err)

	notesHandler := handler.NewNotesHandler(usecase.NewNotesService(store, inference, lifecycle))
	tasksHandler := handler.NewTasksHandler(usecase.NewTasksService(store, store, store))
	uploadHandler := handler.NewUploadHandler(ingestion)
	statsHandler := handler.NewStatsHandler(usecase.NewStatsService(store, store))
	healthHandler := handler.NewHealthHandler("memory", nil)

	router := gin.New()
	api := router.Group("/api")
	api.GET("/notes", notesHandler.ListNotes)
	api.GET("/notes/search/:term", notesHandler.SearchNotes)
	api.GET("/notes/:id", notesHandler.GetNote)
	api.POST("/notes", notesHandler.CreateNote)
	api.PUT("/notes/:id", notesHandler.UpdateNote)
	api.DELETE("/notes/:id", notesHandler.DeleteNote)
	api.GET("/tasks", tasksHandler.ListTasks)
	api.GET("/tasks/export/:format", tasksHandler.ExportTasks)
	api.GET("/tasks/:id", tasksHandler.GetTask)
	api.POST("/tasks", tasksHandler.CreateTask)
	api.PUT("/tasks/:id", tasksHandler.UpdateTask)
	api.DELETE("/tasks/:id", tasksHandler.DeleteTask)
	api.POST("/upload", uploadHandler.Upload)
	api.GET("/stats", statsHandler.GetStats)
	api.GET("/health", healthHandler.Health)
	return router
}

func doJSON(t *testing.T, router http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

type upload struct {
	name    string
	content []byte
}

func doUpload(t *testing.T, router http.Handler, fields map[string]string, files ...upload) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for _, f := range files {
		part, err := mw.CreateFormFile("files", f.name)
		require.NoError(t, err)
		_, err = part.Write(f.content)
		require.NoError(t, err)
	}
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/upload", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, data interface{}) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	if data != nil && len(env.Data) > 0 {
		require.NoError(t, json.Unmarshal(env.Data, data))
	}
	return env
}

