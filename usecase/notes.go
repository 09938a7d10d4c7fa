package usecase

import (
	"context"
	"strings"

	"notetasks/model"
	"notetasks/repository"
	"notetasks/services"
	"notetasks/utils"
)

type NotesService struct {
	repo      repository.NoteStore
	inference *services.InferenceClient
	lifecycle *LifecycleManager
}

func NewNotesService(repo repository.NoteStore, inference *services.InferenceClient, lifecycle *LifecycleManager) *NotesService {
	return &NotesService{repo: repo, inference: inference, lifecycle: lifecycle}
}

// NoteInput is a directly submitted note
type NoteInput struct {
	Title     string
	Content   string
	IsPrivate bool
	Category  model.Category
}

func validateNoteInput(in *NoteInput) error {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return invalidInput("Note title is required")
	}
	if len(in.Title) > 200 {
		return invalidInput("Note title exceeds maximum length")
	}
	if strings.TrimSpace(in.Content) == "" {
		return invalidInput("Note content is required")
	}

	in.Category = in.Category.OrDefault()
	if !in.Category.IsValid() {
		return invalidInput("Invalid category: %s", in.Category)
	}
	return nil
}

// CreateNote classifies the content and stores the note with the inferred
// subject. Extracted tasks are not materialised on this path.
func (svc *NotesService) CreateNote(ctx context.Context, in NoteInput) (*model.Note, error) {
	if err := validateNoteInput(&in); err != nil {
		return nil, err
	}

	inferred := svc.inference.Infer(ctx, in.Content)

	note := &model.Note{
		Title:     in.Title,
		Content:   in.Content,
		Subject:   inferred.Subject,
		IsPrivate: in.IsPrivate,
		Category:  in.Category,
	}
	if err := svc.repo.CreateNote(ctx, note); err != nil {
		return nil, err
	}

	utils.TrackNoteOperation("create")
	return note, nil
}

func (svc *NotesService) GetNote(ctx context.Context, noteID string) (*model.Note, error) {
	return svc.repo.GetNote(ctx, noteID)
}

func (svc *NotesService) ListNotes(ctx context.Context, filter model.NoteFilter) ([]*model.Note, error) {
	if filter.Category != "" && !filter.Category.IsValid() {
		return nil, invalidInput("Invalid category: %s", filter.Category)
	}
	return svc.repo.FindNotes(ctx, filter)
}

func (svc *NotesService) SearchNotes(ctx context.Context, term string, filter model.NoteFilter) ([]*model.Note, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, invalidInput("Search term is required")
	}
	if filter.Category != "" && !filter.Category.IsValid() {
		return nil, invalidInput("Invalid category: %s", filter.Category)
	}
	return svc.repo.SearchNotes(ctx, term, filter)
}

// UpdateNote merges the provided fields into the stored note
func (svc *NotesService) UpdateNote(ctx context.Context, noteID string, patch model.NotePatch) (*model.Note, error) {
	if patch.Category != nil && *patch.Category != "" && !patch.Category.IsValid() {
		return nil, invalidInput("Invalid category: %s", *patch.Category)
	}

	note, err := svc.repo.UpdateNote(ctx, noteID, patch)
	if err != nil {
		return nil, err
	}

	utils.TrackNoteOperation("update")
	return note, nil
}

// DeleteNote removes the note together with its tasks
func (svc *NotesService) DeleteNote(ctx context.Context, noteID string) (int, error) {
	removed, err := svc.lifecycle.DeleteNote(ctx, noteID)
	if err != nil {
		return 0, err
	}

	utils.TrackNoteOperation("delete")
	return removed, nil
}
