package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"

	"notetasks/repository"
)

// LifecycleManager owns note deletion. A note's tasks are removed before the
// note itself, inside one transaction when the store supports it, so that no
// reader finds a task whose note is gone once the note has been removed.
type LifecycleManager struct {
	notes repository.NoteStore
	tasks repository.TaskStore
	tx    repository.Transactor
}

// NewLifecycleManager builds a manager. A nil transactor runs the steps
// directly in order.
func NewLifecycleManager(notes repository.NoteStore, tasks repository.TaskStore, tx repository.Transactor) *LifecycleManager {
	return &LifecycleManager{notes: notes, tasks: tasks, tx: tx}
}

// DeleteNote removes the note and all of its tasks, returning how many tasks
// were removed.
func (m *LifecycleManager) DeleteNote(ctx context.Context, noteID string) (int, error) {
	if _, err := m.notes.GetNote(ctx, noteID); err != nil {
		return 0, err
	}

	var removed int
	err := withTransaction(ctx, m.tx, func(ctx context.Context) error {
		n, err := m.tasks.DeleteTasksByNote(ctx, noteID)
		if err != nil {
			return err
		}
		removed = n
		return m.notes.DeleteNote(ctx, noteID)
	})
	if err != nil {
		return 0, fmt.Errorf("failed to delete note %s: %w", noteID, err)
	}
	return removed, nil
}

// discard removes whatever part of a note was written before a failure.
// Missing records are expected when a transaction already rolled back.
func (m *LifecycleManager) discard(ctx context.Context, noteID string) {
	if _, err := m.tasks.DeleteTasksByNote(ctx, noteID); err != nil {
		log.Printf("Failed to discard tasks of note %s: %v", noteID, err)
	}
	if err := m.notes.DeleteNote(ctx, noteID); err != nil && !errors.Is(err, repository.ErrNotFound) {
		log.Printf("Failed to discard note %s: %v", noteID, err)
	}
}

func withTransaction(ctx context.Context, tx repository.Transactor, fn func(ctx context.Context) error) error {
	if tx == nil {
		return fn(ctx)
	}
	return tx.WithTransaction(ctx, fn)
}
