package usecase

import (
	"context"
	"encoding/csv"
	"io"
	"strings"
	"time"

	"notetasks/model"
)

type ExportFormat string

const (
	ExportJSON ExportFormat = "json"
	ExportCSV  ExportFormat = "csv"
)

var csvHeader = []string{"id", "description", "status", "dueDate", "subject", "category", "createdAt"}

func ParseExportFormat(format string) (ExportFormat, error) {
	switch f := ExportFormat(strings.ToLower(format)); f {
	case ExportJSON, ExportCSV:
		return f, nil
	}
	return "", invalidInput("Invalid export format")
}

// ExportTasks returns the filtered task list for export in the given format.
// The format is checked before the store is queried.
func (svc *TasksService) ExportTasks(ctx context.Context, format string, filter model.TaskFilter) (ExportFormat, []*model.Task, error) {
	f, err := ParseExportFormat(format)
	if err != nil {
		return "", nil, err
	}
	tasks, err := svc.ListTasks(ctx, filter)
	if err != nil {
		return "", nil, err
	}
	return f, tasks, nil
}

// WriteTasksCSV writes the header row followed by one row per task
func WriteTasksCSV(w io.Writer, tasks []*model.Task) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, task := range tasks {
		if err := cw.Write(taskRecord(task)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func taskRecord(task *model.Task) []string {
	var due string
	if task.DueDate != nil {
		due = formatTime(*task.DueDate)
	}
	return []string{
		task.ID,
		task.Description,
		string(task.Status),
		due,
		task.Subject,
		string(task.Category),
		formatTime(task.CreatedAt),
	}
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
