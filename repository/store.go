package repository

import (
	"context"
	"errors"
	"fmt"

	"notetasks/model"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrNoteNotFound = fmt.Errorf("note %w", ErrNotFound)
	ErrTaskNotFound = fmt.Errorf("task %w", ErrNotFound)
)

// NoteStore persists notes. Find and search results are ordered by creation
// time, newest first.
type NoteStore interface {
	CreateNote(ctx context.Context, note *model.Note) error
	GetNote(ctx context.Context, noteID string) (*model.Note, error)
	FindNotes(ctx context.Context, filter model.NoteFilter) ([]*model.Note, error)
	SearchNotes(ctx context.Context, term string, filter model.NoteFilter) ([]*model.Note, error)
	UpdateNote(ctx context.Context, noteID string, patch model.NotePatch) (*model.Note, error)
	DeleteNote(ctx context.Context, noteID string) error
	CountNotes(ctx context.Context, filter model.NoteFilter) (int, error)
}

// TaskStore persists tasks. It does not check that a task's note exists.
type TaskStore interface {
	CreateTask(ctx context.Context, task *model.Task) error
	CreateTasks(ctx context.Context, tasks []*model.Task) error
	GetTask(ctx context.Context, taskID string) (*model.Task, error)
	FindTasks(ctx context.Context, filter model.TaskFilter) ([]*model.Task, error)
	UpdateTask(ctx context.Context, taskID string, patch model.TaskPatch) (*model.Task, error)
	DeleteTask(ctx context.Context, taskID string) error
	DeleteTasksByNote(ctx context.Context, noteID string) (int, error)
	CountTasks(ctx context.Context, filter model.TaskFilter) (int, error)
}

// Transactor runs fn so that its store writes commit or fail together when the
// backing store supports it. Stores without transactions run fn directly.
type Transactor interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
