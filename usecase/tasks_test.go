package usecase_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"notetasks/model"
	"notetasks/repository"
	"notetasks/test/testutils"
	"notetasks/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateTaskInheritsFromNote(t *testing.T) {
	f := newFixture(t, testutils.StubClassifier("Garden"))

	note, err := f.notes.CreateNote(ctx, usecase.NoteInput{
		Title: "Garden", Content: "spring", IsPrivate: true, Category: model.CategoryPersonal,
	})
	require.NoError(t, err)

	task, err := f.tasks.CreateTask(ctx, usecase.TaskInput{Description: " plant tulips ", NoteID: note.ID})
	require.NoError(t, err)

	assert.Equal(t, "plant tulips", task.Description)
	assert.Equal(t, model.StatusPending, task.Status)
	assert.Equal(t, "Garden", task.Subject)
	assert.True(t, task.IsPrivate)
	assert.Equal(t, model.CategoryPersonal, task.Category)

	public := false
	work := model.CategoryWork
	due := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	task, err = f.tasks.CreateTask(ctx, usecase.TaskInput{
		Description: "order seeds",
		NoteID:      note.ID,
		Status:      model.StatusInProgress,
		IsPrivate:   &public,
		Category:    &work,
		DueDate:     &due,
	})
	require.NoError(t, err)
	assert.False(t, task.IsPrivate)
	assert.Equal(t, model.CategoryWork, task.Category)
	assert.Equal(t, model.StatusInProgress, task.Status)
	assert.Equal(t, due, *task.DueDate)
}

func TestCreateTaskValidation(t *testing.T) {
	f := newFixture(t, testutils.StubClassifier("x"))
	note, err := f.notes.CreateNote(ctx, usecase.NoteInput{Title: "t", Content: "c"})
	require.NoError(t, err)

	tests := []struct {
		name    string
		input   usecase.TaskInput
		message string
	}{
		{"missing description", usecase.TaskInput{NoteID: note.ID}, "Task description is required"},
		{"missing note id", usecase.TaskInput{Description: "d"}, "Note ID is required"},
		{"unknown note", usecase.TaskInput{Description: "d", NoteID: "missing"}, "Referenced note does not exist"},
		{"bad status", usecase.TaskInput{Description: "d", NoteID: note.ID, Status: "done"}, "Invalid status: done"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.tasks.CreateTask(ctx, tt.input)
			var vErr *usecase.ValidationError
			require.True(t, errors.As(err, &vErr), "got %v", err)
			assert.Equal(t, tt.message, vErr.Message)
		})
	}
}

// noteStoreHook runs afterLookup once, right after the first note lookup
type noteStoreHook struct {
	*repository.MemoryStore
	afterLookup func()
	once        sync.Once
}

func (s *noteStoreHook) UpdateNote(ctx context.Context, noteID string, patch model.NotePatch) (*model.Note, error) {
	note, err := s.MemoryStore.UpdateNote(ctx, noteID, patch)
	s.once.Do(s.afterLookup)
	return note, err
}

func TestCreateTaskDuringNoteDeletion(t *testing.T) {
	var hooked *noteStoreHook
	f := newFixture(t, testutils.StubClassifier("x"), withTaskNoteStore(func(store *repository.MemoryStore) repository.NoteStore {
		hooked = &noteStoreHook{MemoryStore: store}
		return hooked
	}))
	note, err := f.notes.CreateNote(ctx, usecase.NoteInput{Title: "t", Content: "c"})
	require.NoError(t, err)

	deleted := make(chan error, 1)
	hooked.afterLookup = func() {
		go func() {
			_, err := f.lifecycle.DeleteNote(ctx, note.ID)
			deleted <- err
		}()
		// leave room for the delete to finish before the insert if nothing holds it back
		select {
		case err := <-deleted:
			deleted <- err
		case <-time.After(100 * time.Millisecond):
		}
	}

	_, err = f.tasks.CreateTask(ctx, usecase.TaskInput{Description: "late", NoteID: note.ID})
	require.NoError(t, err)
	require.NoError(t, <-deleted)

	remaining, err := f.store.FindTasks(ctx, model.TaskFilter{NoteID: note.ID})
	require.NoError(t, err)
	assert.Empty(t, remaining)
	_, err = f.store.GetNote(ctx, note.ID)
	assert.ErrorIs(t, err, repository.ErrNoteNotFound)
}

func TestUpdateTaskMergesFields(t *testing.T) {
	f := newFixture(t, testutils.StubClassifier("x"))
	note, err := f.notes.CreateNote(ctx, usecase.NoteInput{Title: "t", Content: "c", IsPrivate: true})
	require.NoError(t, err)
	task, err := f.tasks.CreateTask(ctx, usecase.TaskInput{Description: "draft", NoteID: note.ID})
	require.NoError(t, err)
	require.True(t, task.IsPrivate)

	isPrivate := false
	completed := model.StatusCompleted
	updated, err := f.tasks.UpdateTask(ctx, task.ID, model.TaskPatch{IsPrivate: &isPrivate, Status: &completed})
	require.NoError(t, err)
	assert.False(t, updated.IsPrivate)
	assert.Equal(t, model.StatusCompleted, updated.Status)
	assert.Equal(t, "draft", updated.Description)

	bogus := model.TaskStatus("archived")
	_, err = f.tasks.UpdateTask(ctx, task.ID, model.TaskPatch{Status: &bogus})
	assert.True(t, usecase.IsValidationError(err))

	_, err = f.tasks.UpdateTask(ctx, "missing", model.TaskPatch{Status: &completed})
	assert.ErrorIs(t, err, repository.ErrTaskNotFound)
}

func TestListAndDeleteTasks(t *testing.T) {
	f := newFixture(t, testutils.LineClassifier("Work"))
	res, err := f.ingestion.IngestFile(ctx, testutils.TextFile("w.txt", "- a\n- b"), usecase.UploadOptions{})
	require.NoError(t, err)

	_, err = f.tasks.ListTasks(ctx, model.TaskFilter{Status: "done"})
	assert.True(t, usecase.IsValidationError(err))

	bySubject, err := f.tasks.ListTasks(ctx, model.TaskFilter{Subject: "Work"})
	require.NoError(t, err)
	assert.Len(t, bySubject, 2)

	require.NoError(t, f.tasks.DeleteTask(ctx, res.Tasks[0].ID))
	_, err = f.tasks.GetTask(ctx, res.Tasks[0].ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.ErrorIs(t, f.tasks.DeleteTask(ctx, res.Tasks[0].ID), repository.ErrTaskNotFound)
}

func TestStats(t *testing.T) {
	f := newFixture(t, testutils.LineClassifier("S"))
	_, err := f.ingestion.IngestFile(ctx, testutils.TextFile("a.txt", "- one\n- two"), usecase.UploadOptions{})
	require.NoError(t, err)
	res, err := f.ingestion.IngestFile(ctx, testutils.TextFile("b.txt", "- three"), usecase.UploadOptions{Category: model.CategoryPersonal})
	require.NoError(t, err)

	completed := model.StatusCompleted
	_, err = f.tasks.UpdateTask(ctx, res.Tasks[0].ID, model.TaskPatch{Status: &completed})
	require.NoError(t, err)

	stats, err := f.stats.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.NotesStats.Total)
	assert.Equal(t, 1, stats.NotesStats.Work)
	assert.Equal(t, 1, stats.NotesStats.Personal)
	assert.Equal(t, 3, stats.TaskStats.Total)
	assert.Equal(t, 2, stats.TaskStats.Pending)
	assert.Equal(t, 1, stats.TaskStats.Completed)
	assert.Zero(t, stats.TaskStats.InProgress)
}
