package sqlrepo

import (
	"time"

	"gorm.io/datatypes"

	"storyfusion/internal/model"
)

type answerRecord struct {
	ID           int64  `gorm:"primaryKey;autoIncrement"`
	QuestionKind string `gorm:"size:16;not null;index:idx_answers_question,priority:1"`
	QuestionKey  int    `gorm:"not null;index:idx_answers_question,priority:2"`
	SelectedA    int    `gorm:"not null"`
	SelectedB    int    `gorm:"not null"`
	IsCorrect    *bool
	Comment      string    `gorm:"type:text;not null;default:''"`
	CreatedAt    time.Time `gorm:"not null;index"`
}

func (answerRecord) TableName() string { return "answers" }

func (r *answerRecord) toModel() *model.Answer {
	return &model.Answer{
		ID:          r.ID,
		Kind:        model.QuestionKind(r.QuestionKind),
		QuestionKey: r.QuestionKey,
		SelectedA:   r.SelectedA,
		SelectedB:   r.SelectedB,
		IsCorrect:   r.IsCorrect,
		Comment:     r.Comment,
		CreatedAt:   r.CreatedAt,
	}
}

type workCommentRecord struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	WorkID    int       `gorm:"not null;index"`
	Comment   string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"not null"`
}

func (workCommentRecord) TableName() string { return "work_comments" }

func (r *workCommentRecord) toModel() *model.WorkComment {
	return &model.WorkComment{ID: r.ID, WorkID: r.WorkID, Comment: r.Comment, CreatedAt: r.CreatedAt}
}

type questionCommentRecord struct {
	QuestionKind string    `gorm:"primaryKey;size:16"`
	QuestionKey  int       `gorm:"primaryKey;autoIncrement:false"`
	Comment      string    `gorm:"type:text;not null"`
	UpdatedAt    time.Time `gorm:"not null"`
}

func (questionCommentRecord) TableName() string { return "question_comments" }

func (r *questionCommentRecord) toModel() *model.QuestionComment {
	return &model.QuestionComment{
		Kind:        model.QuestionKind(r.QuestionKind),
		QuestionKey: r.QuestionKey,
		Comment:     r.Comment,
		UpdatedAt:   r.UpdatedAt,
	}
}

type uploadRecord struct {
	ID          int64              `gorm:"primaryKey;autoIncrement"`
	Name        string             `gorm:"size:255;not null"`
	CreatedAt   time.Time          `gorm:"not null"`
	Predictions []predictionRecord `gorm:"foreignKey:UploadID;constraint:OnDelete:CASCADE"`
}

func (uploadRecord) TableName() string { return "prediction_uploads" }

func (r *uploadRecord) toModel() *model.PredictionUpload {
	return &model.PredictionUpload{ID: r.ID, Name: r.Name, CreatedAt: r.CreatedAt}
}

type predictionRecord struct {
	ID            int64 `gorm:"primaryKey;autoIncrement"`
	UploadID      int64 `gorm:"not null;index"`
	QuestionIndex int   `gorm:"not null;index"`
	SelectedA     int   `gorm:"not null"`
	SelectedB     int   `gorm:"not null"`
}

func (predictionRecord) TableName() string { return "predictions" }

func (r *predictionRecord) toModel() *model.Prediction {
	return &model.Prediction{
		ID:            r.ID,
		UploadID:      r.UploadID,
		QuestionIndex: r.QuestionIndex,
		SelectedA:     r.SelectedA,
		SelectedB:     r.SelectedB,
	}
}

type nounRecord struct {
	ID          int64                       `gorm:"primaryKey;autoIncrement"`
	SubjectKind string                      `gorm:"size:16;not null;uniqueIndex:idx_noun_subject,priority:1"`
	SubjectKey  int                         `gorm:"not null;uniqueIndex:idx_noun_subject,priority:2"`
	Nouns       datatypes.JSONSlice[string] `gorm:"not null"`
	CreatedAt   time.Time                   `gorm:"not null"`
}

func (nounRecord) TableName() string { return "noun_cache" }

func (r *nounRecord) toModel() *model.NounEntry {
	return &model.NounEntry{
		ID:         r.ID,
		Subject:    model.NounSubject(r.SubjectKind),
		SubjectKey: r.SubjectKey,
		Nouns:      []string(r.Nouns),
		CreatedAt:  r.CreatedAt,
	}
}
