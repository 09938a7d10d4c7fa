package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
	"unicode"

	"notetasks/model"
	"notetasks/utils"
)

// MemoryStore keeps notes and tasks in process memory. It satisfies NoteStore,
// TaskStore and Transactor and is used for local development and tests.
type MemoryStore struct {
	mu    sync.RWMutex
	notes map[string]model.Note
	tasks map[string]model.Task

	// serialises WithTransaction callers; there is no rollback
	txMu sync.Mutex

	now func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return NewMemoryStoreWithClock(func() time.Time { return time.Now().UTC() })
}

// NewMemoryStoreWithClock uses now for every timestamp it assigns
func NewMemoryStoreWithClock(now func() time.Time) *MemoryStore {
	return &MemoryStore{
		notes: make(map[string]model.Note),
		tasks: make(map[string]model.Task),
		now:   now,
	}
}

func (s *MemoryStore) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()
	return fn(ctx)
}

func (s *MemoryStore) CreateNote(ctx context.Context, note *model.Note) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if note.ID == "" {
		note.ID = utils.GenerateID()
	}
	note.Category = note.Category.OrDefault()
	now := s.now()
	note.CreatedAt = now
	note.UpdatedAt = now
	s.notes[note.ID] = *note
	return nil
}

func (s *MemoryStore) GetNote(ctx context.Context, noteID string) (*model.Note, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	note, ok := s.notes[noteID]
	if !ok {
		return nil, ErrNoteNotFound
	}
	return &note, nil
}

func (s *MemoryStore) FindNotes(ctx context.Context, filter model.NoteFilter) ([]*model.Note, error) {
	return s.findNotes(ctx, func(n *model.Note) bool { return noteMatches(n, filter) })
}

// SearchNotes matches notes whose content contains any word of the term,
// ignoring case.
func (s *MemoryStore) SearchNotes(ctx context.Context, term string, filter model.NoteFilter) ([]*model.Note, error) {
	words := tokenize(term)
	return s.findNotes(ctx, func(n *model.Note) bool {
		if !noteMatches(n, filter) {
			return false
		}
		content := make(map[string]struct{})
		for _, w := range tokenize(n.Content) {
			content[w] = struct{}{}
		}
		for _, w := range words {
			if _, ok := content[w]; ok {
				return true
			}
		}
		return false
	})
}

func (s *MemoryStore) UpdateNote(ctx context.Context, noteID string, patch model.NotePatch) (*model.Note, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	note, ok := s.notes[noteID]
	if !ok {
		return nil, ErrNoteNotFound
	}
	patch.ApplyTo(&note)
	note.UpdatedAt = s.now()
	s.notes[noteID] = note
	return &note, nil
}

func (s *MemoryStore) DeleteNote(ctx context.Context, noteID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.notes[noteID]; !ok {
		return ErrNoteNotFound
	}
	delete(s.notes, noteID)
	return nil
}

func (s *MemoryStore) CountNotes(ctx context.Context, filter model.NoteFilter) (int, error) {
	notes, err := s.FindNotes(ctx, filter)
	if err != nil {
		return 0, err
	}
	return len(notes), nil
}

func (s *MemoryStore) CreateTask(ctx context.Context, task *model.Task) error {
	return s.CreateTasks(ctx, []*model.Task{task})
}

func (s *MemoryStore) CreateTasks(ctx context.Context, tasks []*model.Task) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for _, task := range tasks {
		prepareTask(task, now)
		s.tasks[task.ID] = *task
	}
	return nil
}

func (s *MemoryStore) GetTask(ctx context.Context, taskID string) (*model.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	task, ok := s.tasks[taskID]
	if !ok {
		return nil, ErrTaskNotFound
	}
	return &task, nil
}

func (s *MemoryStore) FindTasks(ctx context.Context, filter model.TaskFilter) ([]*model.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	tasks := make([]*model.Task, 0)
	for _, task := range s.tasks {
		if taskMatches(&task, filter) {
			task := task
			tasks = append(tasks, &task)
		}
	}
	sort.Slice(tasks, func(i, j int) bool {
		return newerFirst(tasks[i].CreatedAt, tasks[j].CreatedAt, tasks[i].ID, tasks[j].ID)
	})
	return tasks, nil
}

func (s *MemoryStore) UpdateTask(ctx context.Context, taskID string, patch model.TaskPatch) (*model.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	task, ok := s.tasks[taskID]
	if !ok {
		return nil, ErrTaskNotFound
	}
	patch.ApplyTo(&task)
	task.UpdatedAt = s.now()
	s.tasks[taskID] = task
	return &task, nil
}

func (s *MemoryStore) DeleteTask(ctx context.Context, taskID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tasks[taskID]; !ok {
		return ErrTaskNotFound
	}
	delete(s.tasks, taskID)
	return nil
}

func (s *MemoryStore) DeleteTasksByNote(ctx context.Context, noteID string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	deleted := 0
	for id, task := range s.tasks {
		if task.NoteID == noteID {
			delete(s.tasks, id)
			deleted++
		}
	}
	return deleted, nil
}

func (s *MemoryStore) CountTasks(ctx context.Context, filter model.TaskFilter) (int, error) {
	tasks, err := s.FindTasks(ctx, filter)
	if err != nil {
		return 0, err
	}
	return len(tasks), nil
}

func (s *MemoryStore) findNotes(ctx context.Context, match func(*model.Note) bool) ([]*model.Note, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	notes := make([]*model.Note, 0)
	for _, note := range s.notes {
		if match(&note) {
			note := note
			notes = append(notes, &note)
		}
	}
	sort.Slice(notes, func(i, j int) bool {
		return newerFirst(notes[i].CreatedAt, notes[j].CreatedAt, notes[i].ID, notes[j].ID)
	})
	return notes, nil
}

// helpers

func noteMatches(note *model.Note, filter model.NoteFilter) bool {
	return filter.Category == "" || note.Category == filter.Category
}

func taskMatches(task *model.Task, filter model.TaskFilter) bool {
	if filter.NoteID != "" && task.NoteID != filter.NoteID {
		return false
	}
	if filter.Status != "" && task.Status != filter.Status {
		return false
	}
	if filter.Subject != "" && task.Subject != filter.Subject {
		return false
	}
	if filter.Category != "" && task.Category != filter.Category {
		return false
	}
	return true
}

func newerFirst(a, b time.Time, idA, idB string) bool {
	if !a.Equal(b) {
		return a.After(b)
	}
	return idA > idB
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
