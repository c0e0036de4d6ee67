package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"storyfusion/internal/model"
)

// nounRepo stores both caches in one collection, split by subjectKind
type nounRepo struct {
	collection *mongo.Collection
	seq        *sequence
	subject    model.NounSubject
}

// NewNounRepo creates the mongo noun cache for one subject kind
func NewNounRepo(db *mongo.Database, subject model.NounSubject) NounRepo {
	return &nounRepo{
		collection: db.Collection("noun_cache"),
		seq:        newSequence(db),
		subject:    subject,
	}
}

func (r *nounRepo) Init(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "subjectKind", Value: 1}, {Key: "subjectKey", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func (r *nounRepo) Upsert(ctx context.Context, entry *model.NounEntry) error {
	id, err := r.seq.next(ctx, "noun_cache")
	if err != nil {
		return err
	}
	entry.Subject = r.subject
	entry.CreatedAt = time.Now().UTC()

	filter := bson.M{"subjectKind": r.subject, "subjectKey": entry.SubjectKey}
	update := bson.M{
		"$set":         bson.M{"nouns": entry.Nouns, "createdAt": entry.CreatedAt},
		"$setOnInsert": bson.M{"_id": id},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var stored model.NounEntry
	if err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&stored); err != nil {
		return err
	}
	entry.ID = stored.ID
	return nil
}

func (r *nounRepo) Get(ctx context.Context, key int) (*model.NounEntry, error) {
	var entry model.NounEntry
	err := r.collection.FindOne(ctx, bson.M{"subjectKind": r.subject, "subjectKey": key}).Decode(&entry)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *nounRepo) List(ctx context.Context) ([]*model.NounEntry, error) {
	opts := options.Find().SetSort(bson.D{{Key: "subjectKey", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"subjectKind": r.subject}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	entries := []*model.NounEntry{}
	if err = cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *nounRepo) Count(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"subjectKind": r.subject})
}

func (r *nounRepo) DeleteAll(ctx context.Context) (int64, error) {
	res, err := r.collection.DeleteMany(ctx, bson.M{"subjectKind": r.subject})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
