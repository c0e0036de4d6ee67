// Package dataset loads the static reference data: source works, practice
// questions with their answer pairs, and ungraded test questions.
package dataset

import (
	"sort"

	"storyfusion/internal/model"
	"storyfusion/internal/scoring"
)

// Catalog is immutable once built and safe for concurrent reads
type Catalog struct {
	works    []model.Work
	byWork   map[int]model.Work
	practice []model.FusedQuestion
	byIndex  map[int]model.FusedQuestion
	test     []model.FusedQuestion
	byTestID map[int]model.FusedQuestion
	key      scoring.AnswerKey

	// Missing lists data files that were absent at load time
	Missing []string
}

// New builds a catalog from already parsed rows
func New(works []model.Work, practice, test []model.FusedQuestion) *Catalog {
	c := &Catalog{
		works:    works,
		byWork:   make(map[int]model.Work, len(works)),
		practice: practice,
		byIndex:  make(map[int]model.FusedQuestion, len(practice)),
		test:     test,
		byTestID: make(map[int]model.FusedQuestion, len(test)),
		key:      make(scoring.AnswerKey, len(practice)),
	}
	for _, w := range works {
		c.byWork[w.ID] = w
	}
	for _, q := range practice {
		c.byIndex[q.Key] = q
		if q.Graded() {
			c.key[q.Key] = scoring.Pair{A: q.IDA, B: q.IDB}
		}
	}
	for _, q := range test {
		c.byTestID[q.Key] = q
	}
	sort.Slice(c.works, func(i, j int) bool { return c.works[i].ID < c.works[j].ID })
	return c
}

// Works returns every work without synopsis text
func (c *Catalog) Works() []model.Work {
	out := make([]model.Work, len(c.works))
	for i, w := range c.works {
		out[i] = w.Summary()
	}
	return out
}

// Work returns one work with its synopsis
func (c *Catalog) Work(id int) (model.Work, bool) {
	w, ok := c.byWork[id]
	return w, ok
}

func (c *Catalog) PracticeQuestions() []model.FusedQuestion {
	return c.practice
}

func (c *Catalog) PracticeQuestion(index int) (model.FusedQuestion, bool) {
	q, ok := c.byIndex[index]
	return q, ok
}

// TestQuestions never expose an answer pair
func (c *Catalog) TestQuestions() []model.FusedQuestion {
	return c.test
}

func (c *Catalog) TestQuestion(id int) (model.FusedQuestion, bool) {
	q, ok := c.byTestID[id]
	return q, ok
}

// AnswerKey returns a copy of the practice answer key
func (c *Catalog) AnswerKey() scoring.AnswerKey {
	out := make(scoring.AnswerKey, len(c.key))
	for k, v := range c.key {
		out[k] = v
	}
	return out
}

// CorrectPair looks up the answer pair of a graded question
func (c *Catalog) CorrectPair(kind model.QuestionKind, key int) (scoring.Pair, bool) {
	if kind != model.QuestionKindPractice {
		return scoring.Pair{}, false
	}
	return c.key.Lookup(key)
}
