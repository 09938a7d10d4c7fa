package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"notetasks/model"
	"notetasks/repository"
	"notetasks/utils"
)

type TasksService struct {
	repo  repository.TaskStore
	notes repository.NoteStore
	tx    repository.Transactor
}

// NewTasksService builds the service. Task creation runs inside tx so it
// cannot interleave with a note's cascade delete.
func NewTasksService(repo repository.TaskStore, notes repository.NoteStore, tx repository.Transactor) *TasksService {
	return &TasksService{repo: repo, notes: notes, tx: tx}
}

// TaskInput is a directly created task. Nil fields fall back to the owning
// note's values.
type TaskInput struct {
	Description string
	Status      model.TaskStatus
	DueDate     *time.Time
	NoteID      string
	Subject     *string
	IsPrivate   *bool
	Category    *model.Category
}

func validateTaskFilter(filter model.TaskFilter) error {
	if filter.Status != "" && !filter.Status.IsValid() {
		return invalidInput("Invalid status: %s", filter.Status)
	}
	if filter.Category != "" && !filter.Category.IsValid() {
		return invalidInput("Invalid category: %s", filter.Category)
	}
	return nil
}

// CreateTask attaches a new task to an existing note
func (svc *TasksService) CreateTask(ctx context.Context, in TaskInput) (*model.Task, error) {
	in.Description = strings.TrimSpace(in.Description)
	if in.Description == "" {
		return nil, invalidInput("Task description is required")
	}
	if in.NoteID == "" {
		return nil, invalidInput("Note ID is required")
	}
	in.Status = in.Status.OrDefault()
	if !in.Status.IsValid() {
		return nil, invalidInput("Invalid status: %s", in.Status)
	}
	if in.Category != nil && !in.Category.IsValid() {
		return nil, invalidInput("Invalid category: %s", *in.Category)
	}

	var task *model.Task
	err := withTransaction(ctx, svc.tx, func(ctx context.Context) error {
		// An empty patch only refreshes updatedAt. The write makes a
		// concurrent cascade delete of the note conflict with this insert.
		note, err := svc.notes.UpdateNote(ctx, in.NoteID, model.NotePatch{})
		if errors.Is(err, repository.ErrNotFound) {
			return invalidInput("Referenced note does not exist")
		}
		if err != nil {
			return err
		}
		task = newTask(in, note)
		return svc.repo.CreateTask(ctx, task)
	})
	if err != nil {
		return nil, err
	}

	utils.TrackTaskOperation("create")
	return task, nil
}

func newTask(in TaskInput, note *model.Note) *model.Task {
	task := &model.Task{
		Description: in.Description,
		Status:      in.Status,
		DueDate:     in.DueDate,
		NoteID:      note.ID,
		Subject:     note.Subject,
		IsPrivate:   note.IsPrivate,
		Category:    note.Category,
	}
	if in.Subject != nil && strings.TrimSpace(*in.Subject) != "" {
		task.Subject = *in.Subject
	}
	if in.IsPrivate != nil {
		task.IsPrivate = *in.IsPrivate
	}
	if in.Category != nil {
		task.Category = *in.Category
	}
	return task
}

func (svc *TasksService) GetTask(ctx context.Context, taskID string) (*model.Task, error) {
	return svc.repo.GetTask(ctx, taskID)
}

func (svc *TasksService) ListTasks(ctx context.Context, filter model.TaskFilter) ([]*model.Task, error) {
	if err := validateTaskFilter(filter); err != nil {
		return nil, err
	}
	return svc.repo.FindTasks(ctx, filter)
}

// UpdateTask merges the provided fields into the stored task
func (svc *TasksService) UpdateTask(ctx context.Context, taskID string, patch model.TaskPatch) (*model.Task, error) {
	if patch.Status != nil && *patch.Status != "" && !patch.Status.IsValid() {
		return nil, invalidInput("Invalid status: %s", *patch.Status)
	}
	if patch.Category != nil && *patch.Category != "" && !patch.Category.IsValid() {
		return nil, invalidInput("Invalid category: %s", *patch.Category)
	}

	task, err := svc.repo.UpdateTask(ctx, taskID, patch)
	if err != nil {
		return nil, err
	}

	utils.TrackTaskOperation("update")
	return task, nil
}

func (svc *TasksService) DeleteTask(ctx context.Context, taskID string) error {
	if err := svc.repo.DeleteTask(ctx, taskID); err != nil {
		return err
	}

	utils.TrackTaskOperation("delete")
	return nil
}
