package sqlrepo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"storyfusion/internal/model"
	"storyfusion/internal/repository"
)

type answerRepo struct {
	db *gorm.DB
}

func NewAnswerRepo(db *gorm.DB) repository.AnswerRepo {
	return &answerRepo{db: db}
}

func (r *answerRepo) Init(ctx context.Context) error {
	return r.db.WithContext(ctx).AutoMigrate(&answerRecord{})
}

func (r *answerRepo) Create(ctx context.Context, answer *model.Answer) error {
	rec := answerRecord{
		QuestionKind: string(answer.Kind),
		QuestionKey:  answer.QuestionKey,
		SelectedA:    answer.SelectedA,
		SelectedB:    answer.SelectedB,
		IsCorrect:    answer.IsCorrect,
		Comment:      answer.Comment,
		CreatedAt:    answer.CreatedAt,
	}
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return err
	}
	answer.ID = rec.ID
	answer.CreatedAt = rec.CreatedAt
	return nil
}

func (r *answerRepo) ListByQuestion(ctx context.Context, kind model.QuestionKind, key int) ([]*model.Answer, error) {
	var recs []answerRecord
	if err := r.db.WithContext(ctx).
		Where("question_kind = ? AND question_key = ?", string(kind), key).
		Order("created_at DESC, id DESC").
		Find(&recs).Error; err != nil {
		return nil, err
	}
	out := make([]*model.Answer, len(recs))
	for i := range recs {
		out[i] = recs[i].toModel()
	}
	return out, nil
}

func (r *answerRepo) Latest(ctx context.Context, kind model.QuestionKind, key int) (*model.Answer, error) {
	var rec answerRecord
	err := r.db.WithContext(ctx).
		Where("question_kind = ? AND question_key = ?", string(kind), key).
		Order("created_at DESC, id DESC").
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return rec.toModel(), nil
}
