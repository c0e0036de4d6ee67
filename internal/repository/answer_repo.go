package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"storyfusion/internal/model"
)

type answerRepo struct {
	collection *mongo.Collection
	seq        *sequence
}

// NewAnswerRepo creates the mongo answer repository
func NewAnswerRepo(db *mongo.Database) AnswerRepo {
	return &answerRepo{
		collection: db.Collection("answers"),
		seq:        newSequence(db),
	}
}

func (r *answerRepo) Init(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "questionKind", Value: 1}, {Key: "questionKey", Value: 1}, {Key: "createdAt", Value: -1}},
	})
	return err
}

func (r *answerRepo) Create(ctx context.Context, answer *model.Answer) error {
	id, err := r.seq.next(ctx, "answers")
	if err != nil {
		return err
	}
	answer.ID = id
	if answer.CreatedAt.IsZero() {
		answer.CreatedAt = time.Now().UTC()
	}
	_, err = r.collection.InsertOne(ctx, answer)
	return err
}

func (r *answerRepo) ListByQuestion(ctx context.Context, kind model.QuestionKind, key int) ([]*model.Answer, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"questionKind": kind, "questionKey": key}, newestFirst())
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	answers := []*model.Answer{}
	if err = cursor.All(ctx, &answers); err != nil {
		return nil, err
	}
	return answers, nil
}

func (r *answerRepo) Latest(ctx context.Context, kind model.QuestionKind, key int) (*model.Answer, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})

	var answer model.Answer
	err := r.collection.FindOne(ctx, bson.M{"questionKind": kind, "questionKey": key}, opts).Decode(&answer)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &answer, nil
}
