package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"storyfusion/internal/model"
	"storyfusion/internal/repository"
)

// CommentService covers both comment contracts: work comments are full
// CRUD, question comments are a single upserted slot.
type CommentService struct {
	workRepo     repository.WorkCommentRepo
	questionRepo repository.QuestionCommentRepo
	now          func() time.Time
}

// NewCommentService creates a new comment service
func NewCommentService(workRepo repository.WorkCommentRepo, questionRepo repository.QuestionCommentRepo) *CommentService {
	return &CommentService{
		workRepo:     workRepo,
		questionRepo: questionRepo,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

func (s *CommentService) ListWorkComments(ctx context.Context, workID int) ([]*model.WorkComment, error) {
	comments, err := s.workRepo.ListByWork(ctx, workID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	return comments, nil
}

func (s *CommentService) WorkCommentCounts(ctx context.Context) ([]model.WorkCommentCount, error) {
	counts, err := s.workRepo.CountByWork(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count comments: %w", err)
	}
	return counts, nil
}

func (s *CommentService) CreateWorkComment(ctx context.Context, workID int, text string) (*model.WorkComment, error) {
	if workID <= 0 {
		return nil, badRequest("workId is required")
	}
	if strings.TrimSpace(text) == "" {
		return nil, badRequest("comment is required")
	}
	comment := &model.WorkComment{WorkID: workID, Comment: text, CreatedAt: s.now()}
	if err := s.workRepo.Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}
	return comment, nil
}

// UpdateWorkComment replaces the text only
func (s *CommentService) UpdateWorkComment(ctx context.Context, id int64, text string) (*model.WorkComment, error) {
	if id <= 0 {
		return nil, badRequest("id is required")
	}
	if strings.TrimSpace(text) == "" {
		return nil, badRequest("comment is required")
	}
	comment, err := s.workRepo.UpdateText(ctx, id, text)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, notFound("comment not found", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update comment: %w", err)
	}
	return comment, nil
}

func (s *CommentService) DeleteWorkComment(ctx context.Context, id int64) error {
	if id <= 0 {
		return badRequest("id is required")
	}
	err := s.workRepo.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return notFound("comment not found", err)
	}
	if err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	return nil
}

// GetQuestionComment returns nil when nothing was saved yet
func (s *CommentService) GetQuestionComment(ctx context.Context, kind model.QuestionKind, key int) (*model.QuestionComment, error) {
	comment, err := s.questionRepo.Get(ctx, kind, key)
	if err != nil {
		return nil, fmt.Errorf("failed to get comment: %w", err)
	}
	return comment, nil
}

// SaveQuestionComment overwrites the slot. An empty text is stored as is.
func (s *CommentService) SaveQuestionComment(ctx context.Context, kind model.QuestionKind, key int, text string) (*model.QuestionComment, error) {
	comment := &model.QuestionComment{Kind: kind, QuestionKey: key, Comment: text}
	if err := s.questionRepo.Upsert(ctx, comment); err != nil {
		return nil, fmt.Errorf("failed to save comment: %w", err)
	}
	return comment, nil
}
