package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"storyfusion/internal/model"
)

type workCommentRepo struct {
	collection *mongo.Collection
	seq        *sequence
}

// NewWorkCommentRepo creates the mongo work comment repository
func NewWorkCommentRepo(db *mongo.Database) WorkCommentRepo {
	return &workCommentRepo{
		collection: db.Collection("work_comments"),
		seq:        newSequence(db),
	}
}

func (r *workCommentRepo) Init(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "workId", Value: 1}, {Key: "createdAt", Value: -1}},
	})
	return err
}

func (r *workCommentRepo) Create(ctx context.Context, comment *model.WorkComment) error {
	id, err := r.seq.next(ctx, "work_comments")
	if err != nil {
		return err
	}
	comment.ID = id
	if comment.CreatedAt.IsZero() {
		comment.CreatedAt = time.Now().UTC()
	}
	_, err = r.collection.InsertOne(ctx, comment)
	return err
}

func (r *workCommentRepo) ListByWork(ctx context.Context, workID int) ([]*model.WorkComment, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"workId": workID}, newestFirst())
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	comments := []*model.WorkComment{}
	if err = cursor.All(ctx, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

func (r *workCommentRepo) CountByWork(ctx context.Context) ([]model.WorkCommentCount, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{"_id": "$workId", "count": bson.M{"$sum": 1}}}},
		{{Key: "$sort", Value: bson.M{"_id": 1}}},
	}
	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	counts := []model.WorkCommentCount{}
	if err = cursor.All(ctx, &counts); err != nil {
		return nil, err
	}
	return counts, nil
}

func (r *workCommentRepo) UpdateText(ctx context.Context, id int64, text string) (*model.WorkComment, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var comment model.WorkComment
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"comment": text}}, opts).Decode(&comment)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *workCommentRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

type questionCommentRepo struct {
	collection *mongo.Collection
}

// NewQuestionCommentRepo creates the mongo question comment repository
func NewQuestionCommentRepo(db *mongo.Database) QuestionCommentRepo {
	return &questionCommentRepo{collection: db.Collection("question_comments")}
}

func (r *questionCommentRepo) Init(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "questionKind", Value: 1}, {Key: "questionKey", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func (r *questionCommentRepo) Get(ctx context.Context, kind model.QuestionKind, key int) (*model.QuestionComment, error) {
	var comment model.QuestionComment
	err := r.collection.FindOne(ctx, bson.M{"questionKind": kind, "questionKey": key}).Decode(&comment)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *questionCommentRepo) Upsert(ctx context.Context, comment *model.QuestionComment) error {
	comment.UpdatedAt = time.Now().UTC()
	filter := bson.M{"questionKind": comment.Kind, "questionKey": comment.QuestionKey}
	update := bson.M{"$set": bson.M{"comment": comment.Comment, "updatedAt": comment.UpdatedAt}}
	_, err := r.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}
