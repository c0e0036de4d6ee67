package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"storyfusion/internal/model"
)

// OpenMongo connects, pings and returns a store over database dbName
func OpenMongo(ctx context.Context, uri, dbName string) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	return NewMongoStore(client.Database(dbName), client.Disconnect), nil
}

// NewMongoStore wires every mongo repository over db
func NewMongoStore(db *mongo.Database, closer func(ctx context.Context) error) *Store {
	s := NewStore(closer)
	s.Answers = NewAnswerRepo(db)
	s.WorkComments = NewWorkCommentRepo(db)
	s.QuestionComments = NewQuestionCommentRepo(db)
	s.Predictions = NewPredictionRepo(db)
	s.WorkNouns = NewNounRepo(db, model.NounSubjectWork)
	s.FictionNouns = NewNounRepo(db, model.NounSubjectFiction)
	return s
}
