package csvimport

import (
	"strconv"
	"strings"

	"storyfusion/internal/model"
	"storyfusion/internal/scoring"
)

// NounRow is one line of the noun export:
//
//	index,type,work_id,title,noun_count,nouns
//
// nouns is every remaining field joined back with "," and split on "|".
// The type column selects the variant: "fiction" rows are keyed by
// index, all other rows by work_id.
type NounRow struct {
	Subject model.NounSubject
	Key     int
	Title   string
	Nouns   []string
}

const nounColumns = 6

// ParseNounRow validates one noun line. It does not check which cache the
// row is meant for; see ForSubject.
func ParseNounRow(fields []string) (NounRow, error) {
	if len(fields) < nounColumns {
		return NounRow{}, invalid("expected at least %d columns, got %d", nounColumns, len(fields))
	}

	row := NounRow{Title: fields[3]}
	if strings.TrimSpace(fields[1]) == string(model.NounSubjectFiction) {
		row.Subject = model.NounSubjectFiction
		idx, err := strconv.Atoi(strings.TrimSpace(fields[0]))
		if err != nil {
			return NounRow{}, invalid("index %q is not a number", fields[0])
		}
		row.Key = idx
	} else {
		row.Subject = model.NounSubjectWork
		id, err := strconv.Atoi(strings.TrimSpace(fields[2]))
		if err != nil || id <= 0 {
			return NounRow{}, invalid("work_id %q is not a positive number", fields[2])
		}
		row.Key = id
	}

	for _, n := range strings.Split(strings.Join(fields[5:], ","), "|") {
		if n = strings.TrimSpace(n); n != "" {
			row.Nouns = append(row.Nouns, n)
		}
	}
	if len(row.Nouns) == 0 {
		return NounRow{}, invalid("no nouns")
	}
	return row, nil
}

// ForSubject wraps ParseNounRow so that rows of the other variant are skipped
func ForSubject(subject model.NounSubject) Parser[NounRow] {
	return func(fields []string) (NounRow, error) {
		row, err := ParseNounRow(fields)
		if err != nil {
			return row, err
		}
		if row.Subject != subject {
			return NounRow{}, invalid("%s row ignored by %s cache", row.Subject, subject)
		}
		return row, nil
	}
}

// ParsePredictionRow reads question_index,selected_a,selected_b. Extra
// columns are ignored.
func ParsePredictionRow(fields []string) (scoring.Prediction, error) {
	if len(fields) < 3 {
		return scoring.Prediction{}, invalid("expected at least 3 columns, got %d", len(fields))
	}
	var vals [3]int
	for i := range vals {
		v, err := strconv.Atoi(strings.TrimSpace(fields[i]))
		if err != nil {
			return scoring.Prediction{}, invalid("column %d %q is not a number", i+1, strings.TrimSpace(fields[i]))
		}
		vals[i] = v
	}
	return scoring.Prediction{Index: vals[0], Pair: scoring.Pair{A: vals[1], B: vals[2]}}, nil
}
