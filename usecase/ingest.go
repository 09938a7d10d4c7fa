package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/sync/errgroup"

	"notetasks/model"
	"notetasks/repository"
	"notetasks/services"
	"notetasks/storage"
	"notetasks/utils"
)

const defaultConcurrency = 4

// UploadedFile is one file handed over by the transport layer
type UploadedFile struct {
	Name string
	Size int64
	Open func() (io.ReadCloser, error)
}

type UploadOptions struct {
	Category  model.Category
	IsPrivate bool
}

type IngestResult struct {
	Note  *model.Note   `json:"note"`
	Tasks []*model.Task `json:"tasks"`
}

// FileResult is the outcome for one file of a batch. Exactly one of the
// embedded result or the error fields is set.
type FileResult struct {
	*IngestResult
	Error   bool   `json:"error,omitempty"`
	File    string `json:"file,omitempty"`
	Message string `json:"message,omitempty"`
}

type IngestionService struct {
	notes       repository.NoteStore
	tasks       repository.TaskStore
	tx          repository.Transactor
	files       storage.FileStore
	inference   *services.InferenceClient
	lifecycle   *LifecycleManager
	allowed     []string
	concurrency int
}

type IngestionConfig struct {
	AllowedPatterns []string
	Concurrency     int
}

func NewIngestionService(
	notes repository.NoteStore,
	tasks repository.TaskStore,
	tx repository.Transactor,
	files storage.FileStore,
	inference *services.InferenceClient,
	cfg IngestionConfig,
) (*IngestionService, error) {
	for _, pattern := range cfg.AllowedPatterns {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid upload pattern %q", pattern)
		}
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = defaultConcurrency
	}
	return &IngestionService{
		notes:       notes,
		tasks:       tasks,
		tx:          tx,
		files:       files,
		inference:   inference,
		lifecycle:   NewLifecycleManager(notes, tasks, tx),
		allowed:     cfg.AllowedPatterns,
		concurrency: cfg.Concurrency,
	}, nil
}

func (svc *IngestionService) isAllowed(name string) bool {
	if len(svc.allowed) == 0 {
		return true
	}
	for _, pattern := range svc.allowed {
		if ok, _ := doublestar.Match(pattern, name); ok {
			return true
		}
	}
	return false
}

// IngestFile stores the upload, classifies its text and persists the note
// together with one task per extracted action item.
func (svc *IngestionService) IngestFile(ctx context.Context, file UploadedFile, opts UploadOptions) (*IngestResult, error) {
	if !svc.isAllowed(file.Name) {
		return nil, invalidInput("File type not allowed: %s", file.Name)
	}
	category := opts.Category.OrDefault()
	if !category.IsValid() {
		return nil, invalidInput("Invalid category: %s", opts.Category)
	}

	location, err := svc.store(ctx, file)
	if err != nil {
		return nil, err
	}

	content, err := storage.ReadText(ctx, svc.files, location)
	if err != nil {
		svc.removeUpload(ctx, location)
		switch {
		case errors.Is(err, storage.ErrEmptyFile):
			return nil, invalidInput("File is empty: %s", file.Name)
		case errors.Is(err, storage.ErrInvalidText):
			return nil, invalidInput("File is not valid UTF-8 text: %s", file.Name)
		}
		return nil, fmt.Errorf("failed to read %s: %w", file.Name, err)
	}

	inferred := svc.inference.Infer(ctx, content)

	note := &model.Note{
		ID:        utils.GenerateID(),
		Title:     file.Name,
		Content:   content,
		FilePath:  location,
		FileName:  file.Name,
		Subject:   inferred.Subject,
		IsPrivate: opts.IsPrivate,
		Category:  category,
	}
	tasks := make([]*model.Task, 0, len(inferred.Tasks))
	for _, description := range inferred.Tasks {
		tasks = append(tasks, &model.Task{
			Description: description,
			Status:      model.StatusPending,
			NoteID:      note.ID,
			Subject:     note.Subject,
			IsPrivate:   note.IsPrivate,
			Category:    note.Category,
		})
	}

	err = withTransaction(ctx, svc.tx, func(ctx context.Context) error {
		if err := svc.notes.CreateNote(ctx, note); err != nil {
			return err
		}
		return svc.tasks.CreateTasks(ctx, tasks)
	})
	if err != nil {
		svc.lifecycle.discard(context.WithoutCancel(ctx), note.ID)
		svc.removeUpload(ctx, location)
		return nil, fmt.Errorf("failed to save note for %s: %w", file.Name, err)
	}

	utils.TrackNoteOperation("create")
	return &IngestResult{Note: note, Tasks: tasks}, nil
}

func (svc *IngestionService) store(ctx context.Context, file UploadedFile) (string, error) {
	if file.Open == nil {
		return "", fmt.Errorf("no content for %s", file.Name)
	}
	rc, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", file.Name, err)
	}
	defer rc.Close()

	location, err := svc.files.Save(ctx, storage.GenerateName(file.Name), rc)
	if err != nil {
		return "", fmt.Errorf("failed to store %s: %w", file.Name, err)
	}
	return location, nil
}

// removeUpload deletes a stored upload that did not become a note
func (svc *IngestionService) removeUpload(ctx context.Context, location string) {
	if err := svc.files.Remove(context.WithoutCancel(ctx), location); err != nil {
		log.Printf("Failed to remove upload %s: %v", location, err)
	}
}

// IngestBatch ingests every file independently. The results keep the input
// order and a failing file only produces an error record in its own slot.
func (svc *IngestionService) IngestBatch(ctx context.Context, files []UploadedFile, opts UploadOptions) ([]FileResult, error) {
	if len(files) == 0 {
		return nil, invalidInput("No files uploaded")
	}

	results := make([]FileResult, len(files))

	var g errgroup.Group
	g.SetLimit(svc.concurrency)
	for i, file := range files {
		g.Go(func() error {
			results[i] = svc.ingestOne(ctx, file, opts)
			return nil
		})
	}
	_ = g.Wait()

	return results, nil
}

func (svc *IngestionService) ingestOne(ctx context.Context, file UploadedFile, opts UploadOptions) (result FileResult) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Panic while ingesting %s: %v", file.Name, r)
			utils.TrackIngestedFile("error")
			result = FileResult{Error: true, File: file.Name, Message: "Server error"}
		}
	}()

	res, err := svc.IngestFile(ctx, file, opts)
	if err != nil {
		log.Printf("Failed to ingest %s: %v", file.Name, err)
		utils.TrackIngestedFile("error")
		return FileResult{Error: true, File: file.Name, Message: failureMessage(err)}
	}

	utils.TrackIngestedFile("success")
	return FileResult{IngestResult: res}
}

// failureMessage is what a client sees for a failed file. Validation messages
// pass through and anything else stays in the logs.
func failureMessage(err error) string {
	var vErr *ValidationError
	if errors.As(err, &vErr) {
		return vErr.Message
	}
	return "Failed to process file"
}
