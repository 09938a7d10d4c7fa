package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"notetasks/config"
	"notetasks/handler"
	"notetasks/repository"
	"notetasks/services"
	"notetasks/storage"
	"notetasks/usecase"
	"notetasks/utils"

	"github.com/spf13/afero"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// App holds the wired services for one process
type App struct {
	Config config.Config

	NotesRepo repository.NoteStore
	TasksRepo repository.TaskStore
	Tx        repository.Transactor
	Ping      handler.Pinger

	NotesService *usecase.NotesService
	TasksService *usecase.TasksService
	StatsService *usecase.StatsService
	Ingestion    *usecase.IngestionService

	mongoClient *mongo.Client
	closers     []func(context.Context) error
}

// NewApp connects the configured store, classifier and upload storage
func NewApp(ctx context.Context, cfg config.Config) (*App, error) {
	app := &App{Config: cfg}

	if err := app.connectStore(ctx); err != nil {
		return nil, err
	}

	files, err := newFileStore(ctx, cfg.Upload)
	if err != nil {
		app.Close(ctx)
		return nil, err
	}

	inference := services.NewInferenceClient(app.newClassifier(), cfg.Inference.Timeout)

	if err := app.wire(files, inference); err != nil {
		app.Close(ctx)
		return nil, err
	}
	return app, nil
}

func (a *App) connectStore(ctx context.Context) error {
	switch a.Config.StoreDriver {
	case config.StoreMemory:
		store := repository.NewMemoryStore()
		a.NotesRepo, a.TasksRepo, a.Tx = store, store, store
		log.Println("Using in-memory store")
		return nil
	case config.StoreMongo:
		client, err := utils.ConnectMongo(ctx, a.Config.Database.ClientOptions())
		if err != nil {
			return fmt.Errorf("failed to connect to MongoDB: %w", err)
		}
		db := client.Database(a.Config.Database.DatabaseName)

		a.mongoClient = client
		a.NotesRepo = repository.GetNotesRepo(db, a.Config.Database.NotesCollection)
		a.TasksRepo = repository.GetTasksRepo(db, a.Config.Database.TasksCollection)
		a.Tx = repository.NewMongoTransactor(client)
		a.Ping = func(ctx context.Context) error {
			return client.Ping(ctx, readpref.Primary())
		}
		a.closers = append(a.closers, client.Disconnect)
		log.Printf("Connected to MongoDB database %s", a.Config.Database.DatabaseName)
		return nil
	}
	return fmt.Errorf("unsupported store driver %q", a.Config.StoreDriver)
}

func (a *App) newClassifier() services.Classifier {
	cfg := a.Config.Inference
	if cfg.APIKey == "" {
		log.Println("OPENAI_API_KEY not set, notes will be stored as Unclassified")
		return nil
	}

	var classifier services.Classifier = services.NewOpenAIClassifier(cfg.APIKey, cfg.BaseURL, cfg.Model, &http.Client{})
	if cfg.RedisURL == "" {
		return classifier
	}

	client, err := services.NewRedisClient(cfg.RedisURL)
	if err != nil {
		log.Printf("Inference cache disabled: %v", err)
		return classifier
	}
	a.closers = append(a.closers, func(context.Context) error { return client.Close() })
	log.Println("Inference cache enabled")
	return services.NewCachedClassifier(classifier, client, cfg.CacheTTL)
}

func newFileStore(ctx context.Context, cfg config.UploadConfig) (storage.FileStore, error) {
	if cfg.S3Bucket != "" {
		store, err := storage.NewS3FileStore(ctx, cfg.S3Bucket, cfg.S3Prefix, cfg.S3Region)
		if err != nil {
			return nil, fmt.Errorf("failed to configure S3 upload storage: %w", err)
		}
		log.Printf("Storing uploads in s3://%s", cfg.S3Bucket)
		return store, nil
	}
	log.Printf("Storing uploads in %s", cfg.Dir)
	return storage.NewLocalFileStore(afero.NewOsFs(), cfg.Dir), nil
}

func (a *App) wire(files storage.FileStore, inference *services.InferenceClient) error {
	lifecycle := usecase.NewLifecycleManager(a.NotesRepo, a.TasksRepo, a.Tx)

	a.NotesService = usecase.NewNotesService(a.NotesRepo, inference, lifecycle)
	a.TasksService = usecase.NewTasksService(a.TasksRepo, a.NotesRepo, a.Tx)
	a.StatsService = usecase.NewStatsService(a.NotesRepo, a.TasksRepo)

	ingestion, err := usecase.NewIngestionService(a.NotesRepo, a.TasksRepo, a.Tx, files, inference, usecase.IngestionConfig{
		AllowedPatterns: a.Config.Upload.AllowedPatterns,
		Concurrency:     a.Config.Upload.Concurrency,
	})
	if err != nil {
		return err
	}
	a.Ingestion = ingestion
	return nil
}

// SetupIndexes creates the MongoDB indexes. It is a no-op for the memory store.
func (a *App) SetupIndexes() error {
	if a.mongoClient == nil {
		return nil
	}
	db := a.mongoClient.Database(a.Config.Database.DatabaseName)
	return repository.SetupIndexes(db, a.Config.Database.NotesCollection, a.Config.Database.TasksCollection)
}

func (a *App) Close(ctx context.Context) {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			log.Printf("Error during shutdown: %v", err)
		}
	}
	a.closers = nil
}
