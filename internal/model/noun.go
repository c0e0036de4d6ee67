package model

import "time"

// NounSubject selects which noun cache an entry belongs to
type NounSubject string

const (
	NounSubjectWork    NounSubject = "work"
	NounSubjectFiction NounSubject = "fiction"
)

// NounEntry caches the proper nouns extracted from one work or fused story.
// It is derived data and can be regenerated by re-importing.
type NounEntry struct {
	ID         int64       `json:"id" bson:"_id"`
	Subject    NounSubject `json:"subjectKind" bson:"subjectKind"`
	SubjectKey int         `json:"subjectKey" bson:"subjectKey"`
	Nouns      []string    `json:"nouns" bson:"nouns"`
	CreatedAt  time.Time   `json:"createdAt" bson:"createdAt"`
}
