package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"storyfusion/internal/model"
)

type predictionRepo struct {
	uploads     *mongo.Collection
	predictions *mongo.Collection
	seq         *sequence
}

// NewPredictionRepo creates the mongo prediction repository
func NewPredictionRepo(db *mongo.Database) PredictionRepo {
	return &predictionRepo{
		uploads:     db.Collection("prediction_uploads"),
		predictions: db.Collection("predictions"),
		seq:         newSequence(db),
	}
}

func (r *predictionRepo) Init(ctx context.Context) error {
	_, err := r.predictions.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "uploadId", Value: 1}}},
		{Keys: bson.D{{Key: "questionIndex", Value: 1}}},
	})
	return err
}

func (r *predictionRepo) CreateUpload(ctx context.Context, upload *model.PredictionUpload) error {
	id, err := r.seq.next(ctx, "prediction_uploads")
	if err != nil {
		return err
	}
	upload.ID = id
	if upload.CreatedAt.IsZero() {
		upload.CreatedAt = time.Now().UTC()
	}
	_, err = r.uploads.InsertOne(ctx, upload)
	return err
}

func (r *predictionRepo) AddPrediction(ctx context.Context, p *model.Prediction) error {
	id, err := r.seq.next(ctx, "predictions")
	if err != nil {
		return err
	}
	p.ID = id
	_, err = r.predictions.InsertOne(ctx, p)
	return err
}

func (r *predictionRepo) ListUploads(ctx context.Context) ([]*model.PredictionUpload, error) {
	cursor, err := r.uploads.Find(ctx, bson.M{}, newestFirst())
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	uploads := []*model.PredictionUpload{}
	if err = cursor.All(ctx, &uploads); err != nil {
		return nil, err
	}
	return uploads, nil
}

func (r *predictionRepo) GetUpload(ctx context.Context, id int64) (*model.PredictionUpload, error) {
	var upload model.PredictionUpload
	err := r.uploads.FindOne(ctx, bson.M{"_id": id}).Decode(&upload)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &upload, nil
}

func (r *predictionRepo) ListByUpload(ctx context.Context, uploadID int64) ([]*model.Prediction, error) {
	return r.find(ctx, bson.M{"uploadId": uploadID})
}

func (r *predictionRepo) ListByQuestion(ctx context.Context, questionIndex int) ([]*model.Prediction, error) {
	return r.find(ctx, bson.M{"questionIndex": questionIndex})
}

func (r *predictionRepo) find(ctx context.Context, filter bson.M) ([]*model.Prediction, error) {
	opts := options.Find().SetSort(bson.D{{Key: "uploadId", Value: -1}, {Key: "_id", Value: 1}})
	cursor, err := r.predictions.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	predictions := []*model.Prediction{}
	if err = cursor.All(ctx, &predictions); err != nil {
		return nil, err
	}
	return predictions, nil
}

// DeleteUpload removes the children first so an interrupted delete never
// leaves orphans behind a missing parent
func (r *predictionRepo) DeleteUpload(ctx context.Context, id int64) error {
	if _, err := r.predictions.DeleteMany(ctx, bson.M{"uploadId": id}); err != nil {
		return err
	}
	res, err := r.uploads.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
