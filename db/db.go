package db

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"campushub/config"
)

const (
	connectAttempts = 5
	connectBackoff  = 3 * time.Second
)

// Store bundles the mongo client and the collections the handlers use.
// It is constructed once in main and passed into every handler.
type Store struct {
	Client         *mongo.Client
	Users          *mongo.Collection
	Subjects       *mongo.Collection
	Assignments    *mongo.Collection
	Grades         *mongo.Collection
	Messages       *mongo.Collection
	AlumniMessages *mongo.Collection
	Tasks          *mongo.Collection
	Calendar       *mongo.Collection
}

// Connect establishes the database connection, retrying with a fixed
// backoff before giving up.
func Connect(cfg *config.Config) (*Store, error) {
	var client *mongo.Client
	var err error

	for attempt := 1; attempt <= connectAttempts; attempt++ {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		client, err = mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
		if err == nil {
			err = client.Ping(ctx, nil)
		}
		cancel()
		if err == nil {
			break
		}
		log.Printf("Database connection attempt %d/%d failed: %v", attempt, connectAttempts, err)
		if attempt < connectAttempts {
			time.Sleep(connectBackoff)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %v", err)
	}

	database := client.Database(cfg.DBName)
	store := &Store{
		Client:         client,
		Users:          database.Collection("users"),
		Subjects:       database.Collection("subjects"),
		Assignments:    database.Collection("assignments"),
		Grades:         database.Collection("grades"),
		Messages:       database.Collection("messages"),
		AlumniMessages: database.Collection("alumni_messages"),
		Tasks:          database.Collection("tasks"),
		Calendar:       database.Collection("calendar"),
	}

	if err := store.ensureIndexes(); err != nil {
		return nil, err
	}

	return store, nil
}

// ensureIndexes creates the unique indexes the write paths rely on: one
// email per user, and one grade record per (student, subject) pair.
func (s *Store) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := s.Users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create email index: %v", err)
	}

	// Without this index two racing grade upserts can both take the
	// insert branch and leave duplicate records for one pair.
	_, err = s.Grades.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "student_id", Value: 1}, {Key: "subject_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create grade index: %v", err)
	}
	return nil
}

// Close disconnects the client.
func (s *Store) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.Client.Disconnect(ctx); err != nil {
		log.Printf("Error closing database connection: %v", err)
	}
}
