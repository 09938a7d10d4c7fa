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

type TasksRepo struct {
	MongoCollection *mongo.Collection
}

func GetTasksRepo(db *mongo.Database, collection string) *TasksRepo {
	return &TasksRepo{
		MongoCollection: db.Collection(collection),
	}
}

// Add a new task into the database
func (r *TasksRepo) CreateTask(ctx context.Context, task *model.Task) error {
	timer := utils.TrackDBOperation("insert", "tasks")
	defer timer.ObserveDuration()

	prepareTask(task, time.Now().UTC())
	if _, err := r.MongoCollection.InsertOne(ctx, task); err != nil {
		utils.TrackError("database", "task_creation_failed")
		return fmt.Errorf("failed to insert task: %w", err)
	}
	return nil
}

// CreateTasks inserts the tasks in one round trip
func (r *TasksRepo) CreateTasks(ctx context.Context, tasks []*model.Task) error {
	if len(tasks) == 0 {
		return nil
	}
	timer := utils.TrackDBOperation("insert_many", "tasks")
	defer timer.ObserveDuration()

	now := time.Now().UTC()
	docs := make([]interface{}, len(tasks))
	for i, task := range tasks {
		prepareTask(task, now)
		docs[i] = task
	}

	if _, err := r.MongoCollection.InsertMany(ctx, docs); err != nil {
		utils.TrackError("database", "task_creation_failed")
		return fmt.Errorf("failed to insert tasks: %w", err)
	}
	return nil
}

func (r *TasksRepo) GetTask(ctx context.Context, taskID string) (*model.Task, error) {
	timer := utils.TrackDBOperation("find_one", "tasks")
	defer timer.ObserveDuration()

	var task model.Task
	err := r.MongoCollection.FindOne(ctx, bson.M{"_id": taskID}).Decode(&task)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to fetch task: %w", err)
	}
	return &task, nil
}

// Retrieves tasks matching the filter, newest first
func (r *TasksRepo) FindTasks(ctx context.Context, filter model.TaskFilter) ([]*model.Task, error) {
	timer := utils.TrackDBOperation("find", "tasks")
	defer timer.ObserveDuration()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
	cursor, err := r.MongoCollection.Find(ctx, taskQuery(filter), opts)
	if err != nil {
		utils.TrackError("database", "task_fetch_failed")
		return nil, fmt.Errorf("failed to find tasks: %w", err)
	}
	defer cursor.Close(ctx)

	tasks := make([]*model.Task, 0)
	if err = cursor.All(ctx, &tasks); err != nil {
		utils.TrackError("database", "task_decode_failed")
		return nil, fmt.Errorf("failed to decode tasks: %w", err)
	}
	return tasks, nil
}

// Merges the patch into a specific task and returns the updated task
func (r *TasksRepo) UpdateTask(ctx context.Context, taskID string, patch model.TaskPatch) (*model.Task, error) {
	timer := utils.TrackDBOperation("update", "tasks")
	defer timer.ObserveDuration()

	patch = patch.Normalized()
	set := bson.M{"updated_at": time.Now().UTC()}
	if patch.Description != nil {
		set["description"] = *patch.Description
	}
	if patch.Status != nil {
		set["status"] = *patch.Status
	}
	if patch.DueDate != nil {
		set["due_date"] = patch.DueDate.UTC()
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
	var task model.Task
	err := r.MongoCollection.FindOneAndUpdate(ctx, bson.M{"_id": taskID}, bson.M{"$set": set}, opts).Decode(&task)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrTaskNotFound
		}
		utils.TrackError("database", "task_update_failed")
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	return &task, nil
}

// Removes a specific task from database
func (r *TasksRepo) DeleteTask(ctx context.Context, taskID string) error {
	timer := utils.TrackDBOperation("delete", "tasks")
	defer timer.ObserveDuration()

	result, err := r.MongoCollection.DeleteOne(ctx, bson.M{"_id": taskID})
	if err != nil {
		utils.TrackError("database", "task_deletion_failed")
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrTaskNotFound
	}
	return nil
}

// Removes every task that belongs to the note
func (r *TasksRepo) DeleteTasksByNote(ctx context.Context, noteID string) (int, error) {
	timer := utils.TrackDBOperation("delete_many", "tasks")
	defer timer.ObserveDuration()

	result, err := r.MongoCollection.DeleteMany(ctx, bson.M{"note_id": noteID})
	if err != nil {
		utils.TrackError("database", "task_deletion_failed")
		return 0, fmt.Errorf("failed to delete tasks of note %s: %w", noteID, err)
	}
	return int(result.DeletedCount), nil
}

func (r *TasksRepo) CountTasks(ctx context.Context, filter model.TaskFilter) (int, error) {
	timer := utils.TrackDBOperation("count", "tasks")
	defer timer.ObserveDuration()

	count, err := r.MongoCollection.CountDocuments(ctx, taskQuery(filter))
	if err != nil {
		return 0, fmt.Errorf("failed to count tasks: %w", err)
	}
	return int(count), nil
}

// helper functions

func taskQuery(filter model.TaskFilter) bson.M {
	query := bson.M{}
	if filter.NoteID != "" {
		query["note_id"] = filter.NoteID
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.Subject != "" {
		query["subject"] = filter.Subject
	}
	if filter.Category != "" {
		query["category"] = filter.Category
	}
	return query
}

func prepareTask(task *model.Task, now time.Time) {
	if task.ID == "" {
		task.ID = utils.GenerateID()
	}
	task.Status = task.Status.OrDefault()
	task.Category = task.Category.OrDefault()
	if task.DueDate != nil {
		due := task.DueDate.UTC()
		task.DueDate = &due
	}
	task.CreatedAt = now
	task.UpdatedAt = now
}
