package model

import "strings"

// QuestionKind distinguishes graded practice questions from ungraded test questions
type QuestionKind string

const (
	QuestionKindPractice QuestionKind = "practice" // keyed by display index 1..N, carries an answer pair
	QuestionKindTest     QuestionKind = "test"     // keyed by arbitrary id, never graded
)

// ParseQuestionKind accepts "practice" or "test" (case-insensitive)
func ParseQuestionKind(s string) (QuestionKind, bool) {
	switch QuestionKind(strings.ToLower(strings.TrimSpace(s))) {
	case QuestionKindPractice:
		return QuestionKindPractice, true
	case QuestionKindTest:
		return QuestionKindTest, true
	}
	return "", false
}

// Work is an original source item that fused questions are built from
type Work struct {
	ID       int    `json:"id"`
	Category string `json:"category"`
	Title    string `json:"title"`
	Story    string `json:"story,omitempty"`
}

// Summary returns the work without its synopsis, for list views
func (w Work) Summary() Work {
	w.Story = ""
	return w
}

// FusedQuestion is a synthetic story blended from exactly two works.
// Practice questions carry the correct pair; test questions leave it zero.
type FusedQuestion struct {
	Kind   QuestionKind `json:"kind"`
	Key    int          `json:"key"`
	Story  string       `json:"story,omitempty"`
	IDA    int          `json:"idA,omitempty"`
	IDB    int          `json:"idB,omitempty"`
	TitleA string       `json:"titleA,omitempty"`
	TitleB string       `json:"titleB,omitempty"`
}

// Graded reports whether the question has a usable answer pair
func (q FusedQuestion) Graded() bool {
	return q.Kind == QuestionKindPractice && q.IDA > 0 && q.IDB > 0 && q.IDA != q.IDB
}
