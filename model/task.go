package model

import "time"

type TaskStatus string

const (
	StatusPending    TaskStatus = "pending"
	StatusInProgress TaskStatus = "in-progress"
	StatusCompleted  TaskStatus = "completed"
)

var TaskStatuses = []TaskStatus{StatusPending, StatusInProgress, StatusCompleted}

func (s TaskStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

func (s TaskStatus) OrDefault() TaskStatus {
	if s == "" {
		return StatusPending
	}
	return s
}

type Task struct {
	ID          string     `bson:"_id,omitempty" json:"id"`
	Description string     `bson:"description" json:"description"`
	Status      TaskStatus `bson:"status" json:"status"`
	DueDate     *time.Time `bson:"due_date,omitempty" json:"dueDate,omitempty"`
	NoteID      string     `bson:"note_id" json:"noteId"`
	Subject     string     `bson:"subject,omitempty" json:"subject,omitempty"`
	IsPrivate   bool       `bson:"is_private" json:"isPrivate"`
	Category    Category   `bson:"category" json:"category"`
	CreatedAt   time.Time  `bson:"created_at" json:"createdAt"`
	UpdatedAt   time.Time  `bson:"updated_at" json:"updatedAt"`
}

// TaskPatch carries a partial task update. Nil fields were not provided.
type TaskPatch struct {
	Description *string
	Status      *TaskStatus
	DueDate     *time.Time
	Subject     *string
	IsPrivate   *bool
	Category    *Category
}

type TaskFilter struct {
	NoteID   string
	Status   TaskStatus
	Subject  string
	Category Category
}

// Normalized keeps only the values that should overwrite the stored task.
func (p TaskPatch) Normalized() TaskPatch {
	out := TaskPatch{
		Description: nonBlank(p.Description),
		DueDate:     p.DueDate,
		Subject:     nonBlank(p.Subject),
		IsPrivate:   p.IsPrivate,
	}
	if p.Status != nil && p.Status.IsValid() {
		out.Status = p.Status
	}
	if p.Category != nil && p.Category.IsValid() {
		out.Category = p.Category
	}
	return out
}

func (p TaskPatch) ApplyTo(task *Task) {
	p = p.Normalized()
	if p.Description != nil {
		task.Description = *p.Description
	}
	if p.Status != nil {
		task.Status = *p.Status
	}
	if p.DueDate != nil {
		due := *p.DueDate
		task.DueDate = &due
	}
	if p.Subject != nil {
		task.Subject = *p.Subject
	}
	if p.IsPrivate != nil {
		task.IsPrivate = *p.IsPrivate
	}
	if p.Category != nil {
		task.Category = *p.Category
	}
}
