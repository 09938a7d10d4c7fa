package dto

import (
	"notetasks/model"
	"notetasks/usecase"
)

type CreateNoteRequest struct {
	Title     string         `json:"title" binding:"required"`
	Content   string         `json:"content" binding:"required"`
	IsPrivate bool           `json:"isPrivate"`
	Category  model.Category `json:"category" binding:"omitempty,category"`
}

func (r CreateNoteRequest) Input() usecase.NoteInput {
	return usecase.NoteInput{
		Title:     r.Title,
		Content:   r.Content,
		IsPrivate: r.IsPrivate,
		Category:  r.Category,
	}
}

// UpdateNoteRequest holds a partial update. Absent fields stay nil.
type UpdateNoteRequest struct {
	Title     *string         `json:"title"`
	Content   *string         `json:"content"`
	Subject   *string         `json:"subject"`
	IsPrivate *bool           `json:"isPrivate"`
	Category  *model.Category `json:"category" binding:"omitempty,category"`
}

func (r UpdateNoteRequest) Patch() model.NotePatch {
	return model.NotePatch{
		Title:     r.Title,
		Content:   r.Content,
		Subject:   r.Subject,
		IsPrivate: r.IsPrivate,
		Category:  r.Category,
	}
}

type DeleteNoteResponse struct {
	ID           string `json:"id"`
	TasksDeleted int    `json:"tasksDeleted"`
}

type UploadResponse struct {
	Results []usecase.FileResult `json:"results"`
}
