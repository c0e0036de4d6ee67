package model

import "time"

// WorkComment is a freeform note on a work. Full CRUD.
type WorkComment struct {
	ID        int64     `json:"id" bson:"_id"`
	WorkID    int       `json:"workId" bson:"workId"`
	Comment   string    `json:"comment" bson:"comment"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}

// WorkCommentCount is one group of GET /comments/work?counts=true
type WorkCommentCount struct {
	WorkID int   `json:"workId" bson:"_id"`
	Count  int64 `json:"count" bson:"count"`
}

// QuestionComment is the single comment slot of a fused question (upsert, last write wins)
type QuestionComment struct {
	Kind        QuestionKind `json:"questionKind" bson:"questionKind"`
	QuestionKey int          `json:"questionKey" bson:"questionKey"`
	Comment     string       `json:"comment" bson:"comment"`
	UpdatedAt   time.Time    `json:"updatedAt" bson:"updatedAt"`
}
