package repository

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func SetupIndexes(db *mongo.Database, notesCollection, tasksCollection string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	noteIndexes := []mongo.IndexModel{
		// Category listing, newest first
		{
			Keys: bson.D{
				{Key: "category", Value: 1},
				{Key: "created_at", Value: -1},
			},
			Options: options.Index().
				SetName("category_notes_date"),
		},
		{
			Keys: bson.D{{Key: "created_at", Value: -1}},
			Options: options.Index().
				SetName("notes_date"),
		},
		// Text search index
		{
			Keys: bson.D{
				{Key: "content", Value: "text"},
			},
			Options: options.Index().
				SetName("content_text_search").
				SetDefaultLanguage("english"),
		},
	}

	taskIndexes := []mongo.IndexModel{
		// Cascade delete and per-note lookups
		{
			Keys: bson.D{{Key: "note_id", Value: 1}},
			Options: options.Index().
				SetName("note_id_index"),
		},
		{
			Keys: bson.D{
				{Key: "status", Value: 1},
				{Key: "category", Value: 1},
				{Key: "created_at", Value: -1},
			},
			Options: options.Index().
				SetName("status_category_date"),
		},
		{
			Keys: bson.D{{Key: "subject", Value: 1}},
			Options: options.Index().
				SetName("subject_index"),
		},
	}

	if _, err := db.Collection(notesCollection).Indexes().CreateMany(ctx, noteIndexes); err != nil {
		return fmt.Errorf("failed to create notes indexes: %w", err)
	}

	if _, err := db.Collection(tasksCollection).Indexes().CreateMany(ctx, taskIndexes); err != nil {
		return fmt.Errorf("failed to create tasks indexes: %w", err)
	}

	log.Println("Successfully created all indexes")
	return nil
}
