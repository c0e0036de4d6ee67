package sqlrepo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"storyfusion/internal/model"
	"storyfusion/internal/repository"
)

type predictionRepo struct {
	db *gorm.DB
}

func NewPredictionRepo(db *gorm.DB) repository.PredictionRepo {
	return &predictionRepo{db: db}
}

func (r *predictionRepo) Init(ctx context.Context) error {
	return r.db.WithContext(ctx).AutoMigrate(&uploadRecord{}, &predictionRecord{})
}

func (r *predictionRepo) CreateUpload(ctx context.Context, upload *model.PredictionUpload) error {
	rec := uploadRecord{Name: upload.Name, CreatedAt: upload.CreatedAt}
	if err := r.db.WithContext(ctx).Omit("Predictions").Create(&rec).Error; err != nil {
		return err
	}
	upload.ID = rec.ID
	upload.CreatedAt = rec.CreatedAt
	return nil
}

func (r *predictionRepo) AddPrediction(ctx context.Context, p *model.Prediction) error {
	rec := predictionRecord{
		UploadID:      p.UploadID,
		QuestionIndex: p.QuestionIndex,
		SelectedA:     p.SelectedA,
		SelectedB:     p.SelectedB,
	}
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return err
	}
	p.ID = rec.ID
	return nil
}

func (r *predictionRepo) ListUploads(ctx context.Context) ([]*model.PredictionUpload, error) {
	var recs []uploadRecord
	if err := r.db.WithContext(ctx).Order("created_at DESC, id DESC").Find(&recs).Error; err != nil {
		return nil, err
	}
	out := make([]*model.PredictionUpload, len(recs))
	for i := range recs {
		out[i] = recs[i].toModel()
	}
	return out, nil
}

func (r *predictionRepo) GetUpload(ctx context.Context, id int64) (*model.PredictionUpload, error) {
	var rec uploadRecord
	err := r.db.WithContext(ctx).First(&rec, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return rec.toModel(), nil
}

func (r *predictionRepo) ListByUpload(ctx context.Context, uploadID int64) ([]*model.Prediction, error) {
	return r.find(ctx, "upload_id = ?", uploadID)
}

func (r *predictionRepo) ListByQuestion(ctx context.Context, questionIndex int) ([]*model.Prediction, error) {
	return r.find(ctx, "question_index = ?", questionIndex)
}

func (r *predictionRepo) find(ctx context.Context, query string, arg interface{}) ([]*model.Prediction, error) {
	var recs []predictionRecord
	if err := r.db.WithContext(ctx).
		Where(query, arg).
		Order("upload_id DESC, id ASC").
		Find(&recs).Error; err != nil {
		return nil, err
	}
	out := make([]*model.Prediction, len(recs))
	for i := range recs {
		out[i] = recs[i].toModel()
	}
	return out, nil
}

// DeleteUpload removes the rows and the upload in one transaction. The
// explicit child delete keeps the cascade on SQLite without foreign keys.
func (r *predictionRepo) DeleteUpload(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("upload_id = ?", id).Delete(&predictionRecord{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&uploadRecord{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return repository.ErrNotFound
		}
		return nil
	})
}
