package scoring

import (
	"fmt"
	"math"
)

// AnswerKey maps a practice question index to its correct pair
type AnswerKey map[int]Pair

// Lookup returns the correct pair for index, if the question is graded
func (k AnswerKey) Lookup(index int) (Pair, bool) {
	p, ok := k[index]
	if !ok || !p.Complete() {
		return Pair{}, false
	}
	return p, true
}

// Prediction is one submitted (question, pair) row
type Prediction struct {
	Index int
	Pair  Pair
}

// Row is a graded prediction
type Row struct {
	Index     int  `json:"index"`
	Pair      Pair `json:"pair"`
	IsCorrect bool `json:"isCorrect"`
}

// Result aggregates a scored batch. Rows for questions missing from the
// key are counted in Ungraded only.
type Result struct {
	Total       int   `json:"total"`
	Correct     int   `json:"correct"`
	Ungraded    int   `json:"ungraded"`
	PerQuestion []Row `json:"perQuestion"`
}

// Score folds IsMatch over predictions
func Score(key AnswerKey, predictions []Prediction) Result {
	res := Result{PerQuestion: make([]Row, 0, len(predictions))}
	for _, p := range predictions {
		correct, ok := key.Lookup(p.Index)
		if !ok {
			res.Ungraded++
			continue
		}
		hit := IsMatch(p.Pair, correct)
		res.Total++
		if hit {
			res.Correct++
		}
		res.PerQuestion = append(res.PerQuestion, Row{Index: p.Index, Pair: p.Pair, IsCorrect: hit})
	}
	return res
}

// Accuracy is the rounded percentage of correct rows
func (r Result) Accuracy() int {
	return Percent(r.Correct, r.Total)
}

// Percent returns correct/total as a whole percentage, 0 when total is 0.
// Rounding is for display only.
func Percent(correct, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(correct) * 100 / float64(total)))
}

// FormatPercent renders Percent with a trailing "%"
func FormatPercent(correct, total int) string {
	return fmt.Sprintf("%d%%", Percent(correct, total))
}
