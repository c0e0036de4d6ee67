package sqlrepo

import (
	"context"
	"errors"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"storyfusion/internal/model"
	"storyfusion/internal/repository"
)

type nounRepo struct {
	db      *gorm.DB
	subject model.NounSubject
}

// NewNounRepo returns the noun cache of one subject kind. Both kinds share
// the noun_cache table.
func NewNounRepo(db *gorm.DB, subject model.NounSubject) repository.NounRepo {
	return &nounRepo{db: db, subject: subject}
}

func (r *nounRepo) Init(ctx context.Context) error {
	return r.db.WithContext(ctx).AutoMigrate(&nounRecord{})
}

func (r *nounRepo) scoped(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&nounRecord{}).Where("subject_kind = ?", string(r.subject))
}

func (r *nounRepo) Upsert(ctx context.Context, entry *model.NounEntry) error {
	entry.Subject = r.subject
	entry.CreatedAt = time.Now().UTC()
	rec := nounRecord{
		SubjectKind: string(r.subject),
		SubjectKey:  entry.SubjectKey,
		Nouns:       datatypes.NewJSONSlice(entry.Nouns),
		CreatedAt:   entry.CreatedAt,
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "subject_kind"}, {Name: "subject_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"nouns", "created_at"}),
	}).Create(&rec).Error
	if err != nil {
		return err
	}

	var stored nounRecord
	if err := r.scoped(ctx).Where("subject_key = ?", entry.SubjectKey).First(&stored).Error; err != nil {
		return err
	}
	entry.ID = stored.ID
	return nil
}

func (r *nounRepo) Get(ctx context.Context, key int) (*model.NounEntry, error) {
	var rec nounRecord
	err := r.scoped(ctx).Where("subject_key = ?", key).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return rec.toModel(), nil
}

func (r *nounRepo) List(ctx context.Context) ([]*model.NounEntry, error) {
	var recs []nounRecord
	if err := r.scoped(ctx).Order("subject_key").Find(&recs).Error; err != nil {
		return nil, err
	}
	out := make([]*model.NounEntry, len(recs))
	for i := range recs {
		out[i] = recs[i].toModel()
	}
	return out, nil
}

func (r *nounRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.scoped(ctx).Count(&n).Error
	return n, err
}

func (r *nounRepo) DeleteAll(ctx context.Context) (int64, error) {
	res := r.db.WithContext(ctx).Where("subject_kind = ?", string(r.subject)).Delete(&nounRecord{})
	return res.RowsAffected, res.Error
}
