package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"notetasks/model"
	"notetasks/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type NotesRepo struct {
	MongoCollection *mongo.Collection
}

func GetNotesRepo(db *mongo.Database, collection string) *NotesRepo {
	return &NotesRepo{
		MongoCollection: db.Collection(collection),
	}
}

// CreateNote inserts a new note, assigning its ID and timestamps
func (r *NotesRepo) CreateNote(ctx context.Context, note *model.Note) error {
	timer := utils.TrackDBOperation("insert", "notes")
	defer timer.ObserveDuration()

	if note.ID == "" {
		note.ID = utils.GenerateID()
	}
	note.Category = note.Category.OrDefault()
	now := time.Now().UTC()
	note.CreatedAt = now
	note.UpdatedAt = now

	if _, err := r.MongoCollection.InsertOne(ctx, note); err != nil {
		utils.TrackError("database", "note_creation_failed")
		return fmt.Errorf("failed to insert note: %w", err)
	}
	return nil
}

// GetNote retrieves a specific note
func (r *NotesRepo) GetNote(ctx context.Context, noteID string) (*model.Note, error) {
	timer := utils.TrackDBOperation("find_one", "notes")
	defer timer.ObserveDuration()

	var note model.Note
	err := r.MongoCollection.FindOne(ctx, bson.M{"_id": noteID}).Decode(&note)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNoteNotFound
		}
		return nil, fmt.Errorf("failed to fetch note: %w", err)
	}
	return &note, nil
}

func (r *NotesRepo) FindNotes(ctx context.Context, filter model.NoteFilter) ([]*model.Note, error) {
	timer := utils.TrackDBOperation("find", "notes")
	defer timer.ObserveDuration()

	return r.find(ctx, noteQuery(filter))
}

// SearchNotes runs a $text query against the content index
func (r *NotesRepo) SearchNotes(ctx context.Context, term string, filter model.NoteFilter) ([]*model.Note, error) {
	timer := utils.TrackDBOperation("search", "notes")
	defer timer.ObserveDuration()

	query := noteQuery(filter)
	query["$text"] = bson.M{"$search": term}
	return r.find(ctx, query)
}

// UpdateNote merges the patch into the stored note and returns the result
func (r *NotesRepo) UpdateNote(ctx context.Context, noteID string, patch model.NotePatch) (*model.Note, error) {
	timer := utils.TrackDBOperation("update", "notes")
	defer timer.ObserveDuration()

	patch = patch.Normalized()
	set := bson.M{"updated_at": time.Now().UTC()}
	if patch.Title != nil {
		set["title"] = *patch.Title
	}
	if patch.Content != nil {
		set["content"] = *patch.Content
	}
	if patch.Subject != nil {
		set["subject"] = *patch.Subject
	}
	if patch.IsPrivate != nil {
		set["is_private"] = *patch.IsPrivate
	}
	if patch.Category != nil {
		set["category"] = *patch.Category
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var note model.Note
	err := r.MongoCollection.FindOneAndUpdate(ctx, bson.M{"_id": noteID}, bson.M{"$set": set}, opts).Decode(&note)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNoteNotFound
		}
		utils.TrackError("database", "note_update_failed")
		return nil, fmt.Errorf("failed to update note: %w", err)
	}
	return &note, nil
}

// DeleteNote deletes a specific note. Tasks are left to the caller.
func (r *NotesRepo) DeleteNote(ctx context.Context, noteID string) error {
	timer := utils.TrackDBOperation("delete", "notes")
	defer timer.ObserveDuration()

	result, err := r.MongoCollection.DeleteOne(ctx, bson.M{"_id": noteID})
	if err != nil {
		utils.TrackError("database", "note_deletion_failed")
		return fmt.Errorf("failed to delete note: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrNoteNotFound
	}
	return nil
}

func (r *NotesRepo) CountNotes(ctx context.Context, filter model.NoteFilter) (int, error) {
	timer := utils.TrackDBOperation("count", "notes")
	defer timer.ObserveDuration()

	count, err := r.MongoCollection.CountDocuments(ctx, noteQuery(filter))
	if err != nil {
		return 0, fmt.Errorf("failed to count notes: %w", err)
	}
	return int(count), nil
}

func (r *NotesRepo) find(ctx context.Context, query bson.M) ([]*model.Note, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})

	cursor, err := r.MongoCollection.Find(ctx, query, opts)
	if err != nil {
		utils.TrackError("database", "note_fetch_failed")
		return nil, fmt.Errorf("failed to find notes: %w", err)
	}
	defer cursor.Close(ctx)

	notes := make([]*model.Note, 0)
	if err = cursor.All(ctx, &notes); err != nil {
		utils.TrackError("database", "note_decode_failed")
		return nil, fmt.Errorf("failed to decode notes: %w", err)
	}
	return notes, nil
}

func noteQuery(filter model.NoteFilter) bson.M {
	query := bson.M{}
	if filter.Category != "" {
		query["category"] = filter.Category
	}
	return query
}
