package dto

import (
	"fmt"
	"time"

	"notetasks/model"
	"notetasks/usecase"
)

// Layouts accepted for due dates, tried in order
var dueDateLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"}

func ParseDueDate(value string) (time.Time, error) {
	for _, layout := range dueDateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid due date: %s", value)
}

func parseOptionalDueDate(value *string) (*time.Time, error) {
	if value == nil || *value == "" {
		return nil, nil
	}
	t, err := ParseDueDate(*value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

type CreateTaskRequest struct {
	Description string           `json:"description" binding:"required"`
	Status      model.TaskStatus `json:"status" binding:"omitempty,task_status"`
	DueDate     *string          `json:"dueDate"`
	NoteID      string           `json:"noteId" binding:"required"`
	Subject     *string          `json:"subject"`
	IsPrivate   *bool            `json:"isPrivate"`
	Category    *model.Category  `json:"category" binding:"omitempty,category"`
}

func (r CreateTaskRequest) Input() (usecase.TaskInput, error) {
	due, err := parseOptionalDueDate(r.DueDate)
	if err != nil {
		return usecase.TaskInput{}, err
	}
	return usecase.TaskInput{
		Description: r.Description,
		Status:      r.Status,
		DueDate:     due,
		NoteID:      r.NoteID,
		Subject:     r.Subject,
		IsPrivate:   r.IsPrivate,
		Category:    r.Category,
	}, nil
}

type UpdateTaskRequest struct {
	Description *string           `json:"description"`
	Status      *model.TaskStatus `json:"status" binding:"omitempty,task_status"`
	DueDate     *string           `json:"dueDate"`
	Subject     *string           `json:"subject"`
	IsPrivate   *bool             `json:"isPrivate"`
	Category    *model.Category   `json:"category" binding:"omitempty,category"`
}

func (r UpdateTaskRequest) Patch() (model.TaskPatch, error) {
	due, err := parseOptionalDueDate(r.DueDate)
	if err != nil {
		return model.TaskPatch{}, err
	}
	return model.TaskPatch{
		Description: r.Description,
		Status:      r.Status,
		DueDate:     due,
		Subject:     r.Subject,
		IsPrivate:   r.IsPrivate,
		Category:    r.Category,
	}, nil
}
