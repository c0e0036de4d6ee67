package model

import "time"

// PredictionUpload is a named batch of third-party predictions
type PredictionUpload struct {
	ID        int64     `json:"id" bson:"_id"`
	Name      string    `json:"name" bson:"name"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}

// Prediction is one (question, pair) row of an upload
type Prediction struct {
	ID            int64 `json:"id" bson:"_id"`
	UploadID      int64 `json:"uploadId" bson:"uploadId"`
	QuestionIndex int   `json:"questionIndex" bson:"questionIndex"`
	SelectedA     int   `json:"selectedA" bson:"selectedA"`
	SelectedB     int   `json:"selectedB" bson:"selectedB"`
}

// UploadSummary is an upload scored against the answer key.
// PredictionCount only counts graded rows. Rank is only set on single
// upload lookups.
type UploadSummary struct {
	PredictionUpload
	PredictionCount int `json:"predictionCount"`
	CorrectCount    int `json:"correctCount"`
	Accuracy        int `json:"accuracy"`
	Rank            int `json:"rank,omitempty"`
}

// PredictionView is a prediction row as shown next to a question
type PredictionView struct {
	Prediction
	UploadName string `json:"uploadName"`
	IsCorrect  bool   `json:"isCorrect"`
}
