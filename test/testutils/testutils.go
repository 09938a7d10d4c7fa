package testutils

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"notetasks/services"
	"notetasks/usecase"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrDockerUnavailable is returned by StartMongo when neither TEST_MONGO_URI
// nor a Docker daemon is available.
var ErrDockerUnavailable = errors.New("docker unavailable")

// MongoServer is a MongoDB instance reserved for one test binary
type MongoServer struct {
	Client *mongo.Client
	purge  func()
}

// StartMongo connects to TEST_MONGO_URI when set, otherwise starts a
// throwaway mongo container with dockertest.
func StartMongo() (*MongoServer, error) {
	if uri := os.Getenv("TEST_MONGO_URI"); uri != "" {
		client, err := connect(uri)
		if err != nil {
			return nil, err
		}
		return &MongoServer{Client: client, purge: func() {}}, nil
	}

	pool, err := dockertest.NewPool("")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDockerUnavailable, err)
	}
	if err := pool.Client.Ping(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDockerUnavailable, err)
	}

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "mongo",
		Tag:        "7",
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		return nil, fmt.Errorf("could not start mongo container: %w", err)
	}
	_ = resource.Expire(300)

	pool.MaxWait = 120 * time.Second

	var client *mongo.Client
	uri := "mongodb://localhost:" + resource.GetPort("27017/tcp")
	if err := pool.Retry(func() error {
		var err error
		client, err = connect(uri)
		return err
	}); err != nil {
		_ = pool.Purge(resource)
		return nil, fmt.Errorf("could not connect to mongo container: %w", err)
	}

	return &MongoServer{
		Client: client,
		purge: func() {
			if err := pool.Purge(resource); err != nil {
				log.Printf("Could not purge mongo container: %v", err)
			}
		},
	}, nil
}

func connect(uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return client, nil
}

// Database returns a fresh database for one test; it is dropped by the
// returned cleanup function.
func (s *MongoServer) Database(name string) (*mongo.Database, func()) {
	db := s.Client.Database(name)
	return db, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := db.Drop(ctx); err != nil {
			log.Printf("Warning: failed to drop test database %s: %v", name, err)
		}
	}
}

func (s *MongoServer) Close() {
	if err := s.Client.Disconnect(context.Background()); err != nil {
		log.Printf("Warning: failed to disconnect: %v", err)
	}
	s.purge()
}

// StubClassifier always returns the given subject and tasks
func StubClassifier(subject string, tasks ...string) services.Classifier {
	return services.ClassifierFunc(func(ctx context.Context, text string) (*services.InferenceResult, error) {
		return &services.InferenceResult{Subject: subject, Tasks: append([]string{}, tasks...)}, nil
	})
}

// LineClassifier derives tasks from "- " lines the way the live service is
// prompted to format them
func LineClassifier(subject string) services.Classifier {
	return services.ClassifierFunc(func(ctx context.Context, text string) (*services.InferenceResult, error) {
		return &services.InferenceResult{Subject: subject, Tasks: services.ParseTaskLines(text)}, nil
	})
}

// FailingClassifier always fails, as an unreachable service would
func FailingClassifier() services.Classifier {
	return services.ClassifierFunc(func(ctx context.Context, text string) (*services.InferenceResult, error) {
		return nil, errors.New("inference service unavailable")
	})
}

// TextFile builds an uploaded file backed by an in-memory string
func TextFile(name, content string) usecase.UploadedFile {
	return usecase.UploadedFile{
		Name: name,
		Size: int64(len(content)),
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(strings.NewReader(content)), nil
		},
	}
}

// BrokenFile builds an uploaded file whose content cannot be opened
func BrokenFile(name string) usecase.UploadedFile {
	return usecase.UploadedFile{
		Name: name,
		Open: func() (io.ReadCloser, error) {
			return nil, errors.New("file handle closed")
		},
	}
}
