package usecase

import (
	"context"

	"notetasks/model"
	"notetasks/repository"
)

type StatsService struct {
	notes repository.NoteStore
	tasks repository.TaskStore
}

func NewStatsService(notes repository.NoteStore, tasks repository.TaskStore) *StatsService {
	return &StatsService{notes: notes, tasks: tasks}
}

// GetStats counts notes per category and tasks per status
func (svc *StatsService) GetStats(ctx context.Context) (*model.Stats, error) {
	stats := &model.Stats{}

	var err error
	if stats.NotesStats.Total, err = svc.notes.CountNotes(ctx, model.NoteFilter{}); err != nil {
		return nil, err
	}
	if stats.NotesStats.Work, err = svc.notes.CountNotes(ctx, model.NoteFilter{Category: model.CategoryWork}); err != nil {
		return nil, err
	}
	if stats.NotesStats.Personal, err = svc.notes.CountNotes(ctx, model.NoteFilter{Category: model.CategoryPersonal}); err != nil {
		return nil, err
	}

	if stats.TaskStats.Total, err = svc.tasks.CountTasks(ctx, model.TaskFilter{}); err != nil {
		return nil, err
	}
	if stats.TaskStats.Pending, err = svc.tasks.CountTasks(ctx, model.TaskFilter{Status: model.StatusPending}); err != nil {
		return nil, err
	}
	if stats.TaskStats.InProgress, err = svc.tasks.CountTasks(ctx, model.TaskFilter{Status: model.StatusInProgress}); err != nil {
		return nil, err
	}
	if stats.TaskStats.Completed, err = svc.tasks.CountTasks(ctx, model.TaskFilter{Status: model.StatusCompleted}); err != nil {
		return nil, err
	}
	return stats, nil
}
