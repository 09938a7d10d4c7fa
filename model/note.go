package model

import (
	"strings"
	"time"
)

type Category string

const (
	CategoryWork     Category = "work"
	CategoryPersonal Category = "personal"
)

// Subject assigned when the inference service cannot classify a note.
const UnclassifiedSubject = "Unclassified"

func (c Category) IsValid() bool {
	switch c {
	case CategoryWork, CategoryPersonal:
		return true
	}
	return false
}

// OrDefault returns the category, or work when it is empty.
func (c Category) OrDefault() Category {
	if c == "" {
		return CategoryWork
	}
	return c
}

type Note struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	Title     string    `bson:"title" json:"title"`
	Content   string    `bson:"content" json:"content"`
	FilePath  string    `bson:"file_path,omitempty" json:"filePath,omitempty"`
	FileName  string    `bson:"file_name,omitempty" json:"fileName,omitempty"`
	Subject   string    `bson:"subject,omitempty" json:"subject,omitempty"`
	IsPrivate bool      `bson:"is_private" json:"isPrivate"`
	Category  Category  `bson:"category" json:"category"`
	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// NotePatch carries a partial note update. Nil fields were not provided.
type NotePatch struct {
	Title     *string
	Content   *string
	Subject   *string
	IsPrivate *bool
	Category  *Category
}

type NoteFilter struct {
	Category Category
}

// Normalized drops string fields that are blank and enum values outside the
// allowed set, leaving only values that should overwrite the stored note.
// Booleans are kept whenever present so that an explicit false is applied.
func (p NotePatch) Normalized() NotePatch {
	out := NotePatch{
		Title:     nonBlank(p.Title),
		Content:   nonBlank(p.Content),
		Subject:   nonBlank(p.Subject),
		IsPrivate: p.IsPrivate,
	}
	if p.Category != nil && p.Category.IsValid() {
		out.Category = p.Category
	}
	return out
}

func (p NotePatch) ApplyTo(note *Note) {
	p = p.Normalized()
	if p.Title != nil {
		note.Title = *p.Title
	}
	if p.Content != nil {
		note.Content = *p.Content
	}
	if p.Subject != nil {
		note.Subject = *p.Subject
	}
	if p.IsPrivate != nil {
		note.IsPrivate = *p.IsPrivate
	}
	if p.Category != nil {
		note.Category = *p.Category
	}
}

func nonBlank(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	return s
}
