package repository_test

import (
	"context"
	"testing"
	"time"

	"notetasks/model"
	"notetasks/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

// runStoreContract checks the behaviour every NoteStore/TaskStore pair shares
func runStoreContract(t *testing.T, newStores func(t *testing.T) (repository.NoteStore, repository.TaskStore)) {
	t.Run("note lifecycle", func(t *testing.T) {
		notes, _ := newStores(t)
		ctx := context.Background()

		note := &model.Note{Title: "Groceries", Content: "milk and eggs"}
		require.NoError(t, notes.CreateNote(ctx, note))
		require.NotEmpty(t, note.ID)
		assert.Equal(t, model.CategoryWork, note.Category)
		assert.False(t, note.CreatedAt.IsZero())

		got, err := notes.GetNote(ctx, note.ID)
		require.NoError(t, err)
		assert.Equal(t, "Groceries", got.Title)

		updated, err := notes.UpdateNote(ctx, note.ID, model.NotePatch{
			Title:    ptr("  "),
			Subject:  ptr("Shopping"),
			Category: ptr(model.CategoryPersonal),
		})
		require.NoError(t, err)
		assert.Equal(t, "Groceries", updated.Title)
		assert.Equal(t, "Shopping", updated.Subject)
		assert.Equal(t, model.CategoryPersonal, updated.Category)

		require.NoError(t, notes.DeleteNote(ctx, note.ID))
		_, err = notes.GetNote(ctx, note.ID)
		assert.ErrorIs(t, err, repository.ErrNotFound)
		assert.ErrorIs(t, notes.DeleteNote(ctx, note.ID), repository.ErrNoteNotFound)

		_, err = notes.UpdateNote(ctx, "missing", model.NotePatch{Title: ptr("x")})
		assert.ErrorIs(t, err, repository.ErrNoteNotFound)
	})

	t.Run("explicit false overwrites private flag", func(t *testing.T) {
		notes, tasks := newStores(t)
		ctx := context.Background()

		note := &model.Note{Title: "Diary", Content: "private", IsPrivate: true}
		require.NoError(t, notes.CreateNote(ctx, note))
		updatedNote, err := notes.UpdateNote(ctx, note.ID, model.NotePatch{IsPrivate: ptr(false)})
		require.NoError(t, err)
		assert.False(t, updatedNote.IsPrivate)

		task := &model.Task{Description: "write entry", NoteID: note.ID, IsPrivate: true}
		require.NoError(t, tasks.CreateTask(ctx, task))
		updatedTask, err := tasks.UpdateTask(ctx, task.ID, model.TaskPatch{IsPrivate: ptr(false)})
		require.NoError(t, err)
		assert.False(t, updatedTask.IsPrivate)
		assert.Equal(t, "write entry", updatedTask.Description)
	})

	t.Run("list filters by category newest first", func(t *testing.T) {
		notes, _ := newStores(t)
		ctx := context.Background()

		first := &model.Note{Title: "a", Content: "a", Category: model.CategoryWork}
		second := &model.Note{Title: "b", Content: "b", Category: model.CategoryPersonal}
		third := &model.Note{Title: "c", Content: "c", Category: model.CategoryWork}
		for _, n := range []*model.Note{first, second, third} {
			require.NoError(t, notes.CreateNote(ctx, n))
			time.Sleep(5 * time.Millisecond)
		}

		all, err := notes.FindNotes(ctx, model.NoteFilter{})
		require.NoError(t, err)
		require.Len(t, all, 3)
		assert.Equal(t, []string{third.ID, second.ID, first.ID}, noteIDs(all))

		work, err := notes.FindNotes(ctx, model.NoteFilter{Category: model.CategoryWork})
		require.NoError(t, err)
		assert.Equal(t, []string{third.ID, first.ID}, noteIDs(work))

		count, err := notes.CountNotes(ctx, model.NoteFilter{Category: model.CategoryPersonal})
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})

	t.Run("search respects category", func(t *testing.T) {
		notes, _ := newStores(t)
		ctx := context.Background()

		workExam := &model.Note{Title: "w", Content: "Prepare the exam questions", Category: model.CategoryWork}
		personalExam := &model.Note{Title: "p", Content: "Driving exam on Monday", Category: model.CategoryPersonal}
		other := &model.Note{Title: "o", Content: "Quarterly report", Category: model.CategoryWork}
		for _, n := range []*model.Note{workExam, personalExam, other} {
			require.NoError(t, notes.CreateNote(ctx, n))
		}

		found, err := notes.SearchNotes(ctx, "exam", model.NoteFilter{Category: model.CategoryWork})
		require.NoError(t, err)
		assert.Equal(t, []string{workExam.ID}, noteIDs(found))

		found, err = notes.SearchNotes(ctx, "exam", model.NoteFilter{})
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{workExam.ID, personalExam.ID}, noteIDs(found))
	})

	t.Run("tasks filter and cascade", func(t *testing.T) {
		notes, tasks := newStores(t)
		ctx := context.Background()

		note := &model.Note{Title: "Trip", Content: "- book flights\n- pack", Category: model.CategoryPersonal}
		require.NoError(t, notes.CreateNote(ctx, note))
		other := &model.Note{Title: "Work", Content: "- send report"}
		require.NoError(t, notes.CreateNote(ctx, other))

		due := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
		batch := []*model.Task{
			{Description: "book flights", NoteID: note.ID, Subject: "Travel", Category: model.CategoryPersonal, DueDate: &due},
			{Description: "pack", NoteID: note.ID, Subject: "Travel", Category: model.CategoryPersonal, Status: model.StatusCompleted},
		}
		require.NoError(t, tasks.CreateTasks(ctx, batch))
		require.NoError(t, tasks.CreateTasks(ctx, nil))
		require.NoError(t, tasks.CreateTask(ctx, &model.Task{Description: "send report", NoteID: other.ID}))

		assert.Equal(t, model.StatusPending, batch[0].Status)

		pending, err := tasks.FindTasks(ctx, model.TaskFilter{Status: model.StatusPending, Category: model.CategoryPersonal})
		require.NoError(t, err)
		require.Len(t, pending, 1)
		assert.Equal(t, "book flights", pending[0].Description)
		require.NotNil(t, pending[0].DueDate)
		assert.True(t, due.Equal(*pending[0].DueDate))

		travel, err := tasks.FindTasks(ctx, model.TaskFilter{Subject: "Travel"})
		require.NoError(t, err)
		assert.Len(t, travel, 2)

		removed, err := tasks.DeleteTasksByNote(ctx, note.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, removed)

		left, err := tasks.FindTasks(ctx, model.TaskFilter{NoteID: note.ID})
		require.NoError(t, err)
		assert.Empty(t, left)

		total, err := tasks.CountTasks(ctx, model.TaskFilter{})
		require.NoError(t, err)
		assert.Equal(t, 1, total)
	})

	t.Run("task not found", func(t *testing.T) {
		_, tasks := newStores(t)
		ctx := context.Background()

		_, err := tasks.GetTask(ctx, "missing")
		assert.ErrorIs(t, err, repository.ErrTaskNotFound)
		_, err = tasks.UpdateTask(ctx, "missing", model.TaskPatch{Description: ptr("x")})
		assert.ErrorIs(t, err, repository.ErrTaskNotFound)
		assert.ErrorIs(t, tasks.DeleteTask(ctx, "missing"), repository.ErrNotFound)
	})
}

func noteIDs(notes []*model.Note) []string {
	ids := make([]string, len(notes))
	for i, n := range notes {
		ids[i] = n.ID
	}
	return ids
}
