package service

import (
	"context"
	"fmt"
	"time"

	"storyfusion/internal/dataset"
	"storyfusion/internal/model"
	"storyfusion/internal/platform/logger"
	"storyfusion/internal/repository"
	"storyfusion/internal/scoring"
)

// AnswerService records attempts. Every submission is a new row.
type AnswerService struct {
	answerRepo  repository.AnswerRepo
	catalog     *dataset.Catalog
	broadcaster Broadcaster
	log         *logger.Logger
	now         func() time.Time
}

// NewAnswerService creates a new answer service
func NewAnswerService(answerRepo repository.AnswerRepo, catalog *dataset.Catalog, log *logger.Logger) *AnswerService {
	return &AnswerService{
		answerRepo:  answerRepo,
		catalog:     catalog,
		broadcaster: nopBroadcaster{},
		log:         log.With("service", "AnswerService"),
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// SetBroadcaster sets the broadcaster for WebSocket events
func (s *AnswerService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

func (s *AnswerService) List(ctx context.Context, kind model.QuestionKind, key int) ([]*model.Answer, error) {
	answers, err := s.answerRepo.ListByQuestion(ctx, kind, key)
	if err != nil {
		return nil, fmt.Errorf("failed to list answers: %w", err)
	}
	return answers, nil
}

// Latest returns nil when the question was never answered
func (s *AnswerService) Latest(ctx context.Context, kind model.QuestionKind, key int) (*model.LatestAnswer, error) {
	answer, err := s.answerRepo.Latest(ctx, kind, key)
	if err != nil {
		return nil, fmt.Errorf("failed to get latest answer: %w", err)
	}
	if answer == nil {
		return nil, nil
	}
	return &model.LatestAnswer{SelectedA: answer.SelectedA, SelectedB: answer.SelectedB, Submitted: true}, nil
}

// Submit validates and appends an answer. Practice answers are graded
// against the answer key; test answers and unknown practice indexes are not.
func (s *AnswerService) Submit(ctx context.Context, kind model.QuestionKind, req model.SubmitAnswerRequest) (*model.Answer, error) {
	if req.QuestionKey == nil {
		return nil, badRequest("questionKey is required")
	}
	if req.SelectedA == nil || req.SelectedB == nil {
		return nil, badRequest("selectedA and selectedB are required")
	}
	pair := scoring.Pair{A: *req.SelectedA, B: *req.SelectedB}
	if !pair.Complete() {
		return nil, badRequest("selectedA and selectedB must be positive work ids")
	}
	if pair.Degenerate() {
		return nil, badRequest("selectedA and selectedB must differ")
	}

	answer := &model.Answer{
		Kind:        kind,
		QuestionKey: *req.QuestionKey,
		SelectedA:   pair.A,
		SelectedB:   pair.B,
		Comment:     req.Comment,
		CreatedAt:   s.now(),
	}
	if correct, ok := s.catalog.CorrectPair(kind, answer.QuestionKey); ok {
		hit := scoring.IsMatch(pair, correct)
		answer.IsCorrect = &hit
	}

	if err := s.answerRepo.Create(ctx, answer); err != nil {
		return nil, fmt.Errorf("failed to save answer: %w", err)
	}

	s.log.Debug("answer saved", "kind", kind, "key", answer.QuestionKey, "id", answer.ID)
	s.broadcaster.Broadcast(TopicAnswers, EventAnswerSubmitted, answer)
	return answer, nil
}
