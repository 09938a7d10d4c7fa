package usecase_test

import (
	"testing"

	"notetasks/model"
	"notetasks/test/testutils"
	"notetasks/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateNoteUsesInferredSubject(t *testing.T) {
	f := newFixture(t, testutils.StubClassifier("Exams", "revise chapter 3", "book a tutor"))

	note, err := f.notes.CreateNote(ctx, usecase.NoteInput{
		Title:   "  Finals  ",
		Content: "Exam on Friday, revise chapter 3",
	})
	require.NoError(t, err)

	assert.Equal(t, "Finals", note.Title)
	assert.Equal(t, "Exams", note.Subject)
	assert.Equal(t, model.CategoryWork, note.Category)
	assert.Empty(t, note.FilePath)

	// Direct submission never materialises tasks
	tasks, err := f.tasks.ListTasks(ctx, model.TaskFilter{NoteID: note.ID})
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestCreateNoteFallsBackToUnclassified(t *testing.T) {
	f := newFixture(t, testutils.FailingClassifier())

	note, err := f.notes.CreateNote(ctx, usecase.NoteInput{Title: "Trip", Content: "Lisbon in May"})
	require.NoError(t, err)
	assert.Equal(t, model.UnclassifiedSubject, note.Subject)

	stored, err := f.notes.GetNote(ctx, note.ID)
	require.NoError(t, err)
	assert.Equal(t, model.UnclassifiedSubject, stored.Subject)
}

func TestCreateNoteValidation(t *testing.T) {
	f := newFixture(t, testutils.StubClassifier("x"))

	tests := []struct {
		name  string
		input usecase.NoteInput
	}{
		{"blank title", usecase.NoteInput{Title: "  ", Content: "body"}},
		{"blank content", usecase.NoteInput{Title: "t", Content: "\n\t"}},
		{"bad category", usecase.NoteInput{Title: "t", Content: "c", Category: "school"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.notes.CreateNote(ctx, tt.input)
			assert.True(t, usecase.IsValidationError(err), "got %v", err)
		})
	}
}

func TestSearchNotes(t *testing.T) {
	f := newFixture(t, testutils.StubClassifier("x"))

	work, err := f.notes.CreateNote(ctx, usecase.NoteInput{Title: "a", Content: "Grade the exam papers", Category: model.CategoryWork})
	require.NoError(t, err)
	_, err = f.notes.CreateNote(ctx, usecase.NoteInput{Title: "b", Content: "Exam for my license", Category: model.CategoryPersonal})
	require.NoError(t, err)
	_, err = f.notes.CreateNote(ctx, usecase.NoteInput{Title: "c", Content: "Plan the offsite", Category: model.CategoryWork})
	require.NoError(t, err)

	found, err := f.notes.SearchNotes(ctx, " exam ", model.NoteFilter{Category: model.CategoryWork})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, work.ID, found[0].ID)

	_, err = f.notes.SearchNotes(ctx, "  ", model.NoteFilter{})
	assert.True(t, usecase.IsValidationError(err))

	_, err = f.notes.ListNotes(ctx, model.NoteFilter{Category: "school"})
	assert.True(t, usecase.IsValidationError(err))
}

func TestUpdateNote(t *testing.T) {
	f := newFixture(t, testutils.StubClassifier("x"))

	note, err := f.notes.CreateNote(ctx, usecase.NoteInput{Title: "Diary", Content: "entry", IsPrivate: true})
	require.NoError(t, err)

	isPrivate := false
	title := ""
	updated, err := f.notes.UpdateNote(ctx, note.ID, model.NotePatch{IsPrivate: &isPrivate, Title: &title})
	require.NoError(t, err)
	assert.False(t, updated.IsPrivate)
	assert.Equal(t, "Diary", updated.Title)

	bad := model.Category("school")
	_, err = f.notes.UpdateNote(ctx, note.ID, model.NotePatch{Category: &bad})
	assert.True(t, usecase.IsValidationError(err))
}
