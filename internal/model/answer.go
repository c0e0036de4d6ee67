package model

import "time"

// Answer is one submission for a fused question. Answers are append-only:
// every submission, including comment-only re-saves, is a new row.
type Answer struct {
	ID          int64        `json:"id" bson:"_id"`
	Kind        QuestionKind `json:"questionKind" bson:"questionKind"`
	QuestionKey int          `json:"questionKey" bson:"questionKey"`
	SelectedA   int          `json:"selectedA" bson:"selectedA"`
	SelectedB   int          `json:"selectedB" bson:"selectedB"`
	IsCorrect   *bool        `json:"isCorrect,omitempty" bson:"isCorrect,omitempty"` // practice only
	Comment     string       `json:"comment" bson:"comment"`
	CreatedAt   time.Time    `json:"createdAt" bson:"createdAt"`
}

// SubmitAnswerRequest is the body of POST /answers/{kind}
type SubmitAnswerRequest struct {
	QuestionKey *int   `json:"questionKey"`
	SelectedA   *int   `json:"selectedA"`
	SelectedB   *int   `json:"selectedB"`
	Comment     string `json:"comment"`
}

// LatestAnswer is the restore-the-form view of the most recent answer
type LatestAnswer struct {
	SelectedA int  `json:"selectedA"`
	SelectedB int  `json:"selectedB"`
	Submitted bool `json:"submitted"`
}
