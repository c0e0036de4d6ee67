// Package csvimport runs best-effort CSV ingestion. The header row is
// always skipped, every data row is parsed on its own, and a row that
// fails to parse is skipped and recorded instead of failing the batch.
package csvimport

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

const maxLineBytes = 1 << 20

// Status is the terminal state of one data row
type Status string

const (
	StatusPersisted Status = "persisted"
	StatusSkipped   Status = "skipped"
)

// RowOutcome records what happened to one data row. Line is 1-based and
// counts the header.
type RowOutcome struct {
	Line   int    `json:"line"`
	Status Status `json:"status"`
	Reason string `json:"reason,omitempty"`
}

// Report is the fold of every row outcome
type Report struct {
	Imported int          `json:"importedCount"`
	Skipped  int          `json:"skippedCount"`
	Rows     []RowOutcome `json:"rows,omitempty"`
}

func (r *Report) persisted(line int) {
	r.Imported++
	r.Rows = append(r.Rows, RowOutcome{Line: line, Status: StatusPersisted})
}

func (r *Report) skipped(line int, reason string) {
	r.Skipped++
	r.Rows = append(r.Rows, RowOutcome{Line: line, Status: StatusSkipped, Reason: reason})
}

// RowError marks a row as invalid. Parsers return it to have the row skipped.
type RowError struct {
	Reason string
}

func (e *RowError) Error() string { return e.Reason }

func invalid(format string, args ...any) error {
	return &RowError{Reason: fmt.Sprintf(format, args...)}
}

// Parser turns the comma separated fields of one line into a row value
type Parser[T any] func(fields []string) (T, error)

// Sink persists one valid row. An error from the sink aborts the import;
// rows persisted before it stay persisted.
type Sink[T any] func(ctx context.Context, row T) error

// Run reads r line by line: AWAITING_FILE -> PARSING -> per row
// (valid -> persisted | invalid -> skipped) -> done.
func Run[T any](ctx context.Context, r io.Reader, parse Parser[T], sink Sink[T]) (Report, error) {
	var rep Report
	if r == nil {
		return rep, errors.New("csvimport: no input")
	}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), maxLineBytes)

	line := 0
	for sc.Scan() {
		line++
		if line == 1 {
			continue
		}
		text := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(text) == "" {
			continue
		}
		if err := ctx.Err(); err != nil {
			return rep, err
		}

		row, err := parse(strings.Split(text, ","))
		if err != nil {
			var rowErr *RowError
			if !errors.As(err, &rowErr) {
				return rep, fmt.Errorf("line %d: %w", line, err)
			}
			rep.skipped(line, rowErr.Reason)
			continue
		}
		if err := sink(ctx, row); err != nil {
			return rep, fmt.Errorf("line %d: %w", line, err)
		}
		rep.persisted(line)
	}
	if err := sc.Err(); err != nil {
		return rep, fmt.Errorf("read csv: %w", err)
	}
	return rep, nil
}
