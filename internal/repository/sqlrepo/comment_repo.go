package sqlrepo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"storyfusion/internal/model"
	"storyfusion/internal/repository"
)

type workCommentRepo struct {
	db *gorm.DB
}

func NewWorkCommentRepo(db *gorm.DB) repository.WorkCommentRepo {
	return &workCommentRepo{db: db}
}

func (r *workCommentRepo) Init(ctx context.Context) error {
	return r.db.WithContext(ctx).AutoMigrate(&workCommentRecord{})
}

func (r *workCommentRepo) Create(ctx context.Context, comment *model.WorkComment) error {
	rec := workCommentRecord{WorkID: comment.WorkID, Comment: comment.Comment, CreatedAt: comment.CreatedAt}
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return err
	}
	comment.ID = rec.ID
	comment.CreatedAt = rec.CreatedAt
	return nil
}

func (r *workCommentRepo) ListByWork(ctx context.Context, workID int) ([]*model.WorkComment, error) {
	var recs []workCommentRecord
	if err := r.db.WithContext(ctx).
		Where("work_id = ?", workID).
		Order("created_at DESC, id DESC").
		Find(&recs).Error; err != nil {
		return nil, err
	}
	out := make([]*model.WorkComment, len(recs))
	for i := range recs {
		out[i] = recs[i].toModel()
	}
	return out, nil
}

func (r *workCommentRepo) CountByWork(ctx context.Context) ([]model.WorkCommentCount, error) {
	var rows []struct {
		WorkID int
		Count  int64
	}
	if err := r.db.WithContext(ctx).
		Model(&workCommentRecord{}).
		Select("work_id, COUNT(*) AS count").
		Group("work_id").
		Order("work_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]model.WorkCommentCount, len(rows))
	for i, row := range rows {
		out[i] = model.WorkCommentCount{WorkID: row.WorkID, Count: row.Count}
	}
	return out, nil
}

func (r *workCommentRepo) UpdateText(ctx context.Context, id int64, text string) (*model.WorkComment, error) {
	var rec workCommentRecord
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&workCommentRecord{}).Where("id = ?", id).Update("comment", text)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return repository.ErrNotFound
		}
		return tx.First(&rec, id).Error
	})
	if err != nil {
		return nil, err
	}
	return rec.toModel(), nil
}

func (r *workCommentRepo) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&workCommentRecord{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

type questionCommentRepo struct {
	db *gorm.DB
}

func NewQuestionCommentRepo(db *gorm.DB) repository.QuestionCommentRepo {
	return &questionCommentRepo{db: db}
}

func (r *questionCommentRepo) Init(ctx context.Context) error {
	return r.db.WithContext(ctx).AutoMigrate(&questionCommentRecord{})
}

func (r *questionCommentRepo) Get(ctx context.Context, kind model.QuestionKind, key int) (*model.QuestionComment, error) {
	var rec questionCommentRecord
	err := r.db.WithContext(ctx).
		Where("question_kind = ? AND question_key = ?", string(kind), key).
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return rec.toModel(), nil
}

func (r *questionCommentRepo) Upsert(ctx context.Context, comment *model.QuestionComment) error {
	comment.UpdatedAt = time.Now().UTC()
	rec := questionCommentRecord{
		QuestionKind: string(comment.Kind),
		QuestionKey:  comment.QuestionKey,
		Comment:      comment.Comment,
		UpdatedAt:    comment.UpdatedAt,
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "question_kind"}, {Name: "question_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"comment", "updated_at"}),
	}).Create(&rec).Error
}
