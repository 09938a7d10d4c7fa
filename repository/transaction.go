package repository

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type MongoTransactor struct {
	client    *mongo.Client
	supported bool
}

// NewMongoTransactor asks the server whether it is a replica set member or a
// mongos. Standalone servers cannot run multi-document transactions, in which
// case WithTransaction falls back to running the function directly.
func NewMongoTransactor(client *mongo.Client) *MongoTransactor {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var hello bson.M
	err := client.Database("admin").RunCommand(ctx, bson.D{{Key: "hello", Value: 1}}).Decode(&hello)
	if err != nil {
		log.Printf("Could not determine MongoDB topology, transactions disabled: %v", err)
		return &MongoTransactor{client: client}
	}

	_, isReplicaSet := hello["setName"]
	supported := isReplicaSet || hello["msg"] == "isdbgrid"
	if !supported {
		log.Println("MongoDB is standalone, cascade and ingestion writes run without transactions")
	}
	return &MongoTransactor{client: client, supported: supported}
}

func (t *MongoTransactor) Supported() bool {
	return t.supported
}

func (t *MongoTransactor) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if !t.supported {
		return fn(ctx)
	}

	session, err := t.client.StartSession()
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}
