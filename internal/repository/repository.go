package repository

import (
	"context"
	"errors"
	"fmt"

	"storyfusion/internal/model"
)

// ErrNotFound is returned when a by-id target does not exist
var ErrNotFound = errors.New("not found")

// AnswerRepo is append-only history of attempts
type AnswerRepo interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, answer *model.Answer) error
	// ListByQuestion returns newest first
	ListByQuestion(ctx context.Context, kind model.QuestionKind, key int) ([]*model.Answer, error)
	// Latest returns nil, nil when the question has no answers
	Latest(ctx context.Context, kind model.QuestionKind, key int) (*model.Answer, error)
}

// WorkCommentRepo is full CRUD
type WorkCommentRepo interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, comment *model.WorkComment) error
	// ListByWork returns newest first
	ListByWork(ctx context.Context, workID int) ([]*model.WorkComment, error)
	CountByWork(ctx context.Context) ([]model.WorkCommentCount, error)
	// UpdateText changes only the text; id and createdAt are kept
	UpdateText(ctx context.Context, id int64, text string) (*model.WorkComment, error)
	Delete(ctx context.Context, id int64) error
}

// QuestionCommentRepo holds one slot per (kind, key), last write wins
type QuestionCommentRepo interface {
	Init(ctx context.Context) error
	Get(ctx context.Context, kind model.QuestionKind, key int) (*model.QuestionComment, error)
	Upsert(ctx context.Context, comment *model.QuestionComment) error
}

// PredictionRepo owns uploads and their rows. Deleting an upload cascades.
type PredictionRepo interface {
	Init(ctx context.Context) error
	CreateUpload(ctx context.Context, upload *model.PredictionUpload) error
	AddPrediction(ctx context.Context, p *model.Prediction) error
	// ListUploads returns newest first
	ListUploads(ctx context.Context) ([]*model.PredictionUpload, error)
	GetUpload(ctx context.Context, id int64) (*model.PredictionUpload, error)
	ListByUpload(ctx context.Context, uploadID int64) ([]*model.Prediction, error)
	ListByQuestion(ctx context.Context, questionIndex int) ([]*model.Prediction, error)
	DeleteUpload(ctx context.Context, id int64) error
}

// NounRepo is one noun cache, keyed by subject key
type NounRepo interface {
	Init(ctx context.Context) error
	Upsert(ctx context.Context, entry *model.NounEntry) error
	// Get returns nil, nil when the key is not cached
	Get(ctx context.Context, key int) (*model.NounEntry, error)
	List(ctx context.Context) ([]*model.NounEntry, error)
	Count(ctx context.Context) (int64, error)
	DeleteAll(ctx context.Context) (int64, error)
}

// Store bundles every repository over one connection
type Store struct {
	Answers          AnswerRepo
	WorkComments     WorkCommentRepo
	QuestionComments QuestionCommentRepo
	Predictions      PredictionRepo
	WorkNouns        NounRepo
	FictionNouns     NounRepo

	closer func(ctx context.Context) error
}

// NewStore wires repositories together with the function that releases
// the underlying connection
func NewStore(closer func(ctx context.Context) error) *Store {
	return &Store{closer: closer}
}

// Nouns returns the cache for subject
func (s *Store) Nouns(subject model.NounSubject) NounRepo {
	if subject == model.NounSubjectFiction {
		return s.FictionNouns
	}
	return s.WorkNouns
}

// Init creates every table/collection and index. Safe to call repeatedly.
func (s *Store) Init(ctx context.Context) error {
	steps := []struct {
		name string
		fn   func(context.Context) error
	}{
		{"answers", s.Answers.Init},
		{"work comments", s.WorkComments.Init},
		{"question comments", s.QuestionComments.Init},
		{"predictions", s.Predictions.Init},
		{"work nouns", s.WorkNouns.Init},
		{"fiction nouns", s.FictionNouns.Init},
	}
	for _, step := range steps {
		if err := step.fn(ctx); err != nil {
			return fmt.Errorf("init %s: %w", step.name, err)
		}
	}
	return nil
}

// Close releases the connection. Calling it twice is a no-op.
func (s *Store) Close(ctx context.Context) error {
	if s.closer == nil {
		return nil
	}
	fn := s.closer
	s.closer = nil
	return fn(ctx)
}
