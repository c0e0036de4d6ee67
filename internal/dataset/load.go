package dataset

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"storyfusion/internal/model"
)

// File names inside the data directory
const (
	WorksFile    = "base_stories.tsv"
	PracticeFile = "fiction_stories_practice.tsv"
	TestFile     = "fiction_stories_test.tsv"
)

const maxLineBytes = 4 << 20

// Load reads the three TSV files from dir concurrently. A missing file
// yields an empty section and is recorded in Catalog.Missing.
func Load(ctx context.Context, dir string) (*Catalog, error) {
	var (
		works    []model.Work
		practice []model.FusedQuestion
		test     []model.FusedQuestion
		missing  [3]string
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		works, err = loadFile(ctx, filepath.Join(dir, WorksFile), &missing[0], ParseWorks)
		return err
	})
	g.Go(func() error {
		var err error
		practice, err = loadFile(ctx, filepath.Join(dir, PracticeFile), &missing[1], ParsePractice)
		return err
	})
	g.Go(func() error {
		var err error
		test, err = loadFile(ctx, filepath.Join(dir, TestFile), &missing[2], ParseTest)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	c := New(works, practice, test)
	for _, m := range missing {
		if m != "" {
			c.Missing = append(c.Missing, m)
		}
	}
	return c, nil
}

func loadFile[T any](ctx context.Context, path string, missing *string, parse func(io.Reader) ([]T, error)) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		*missing = path
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	rows, err := parse(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return rows, nil
}

// readTSV returns the data rows of a tab separated file. Rows with fewer
// columns than the header are dropped.
func readTSV(r io.Reader) ([][]string, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), maxLineBytes)

	var (
		header int
		rows   [][]string
		first  = true
	)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		if first {
			first = false
			header = len(strings.Split(line, "\t"))
			continue
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		values := strings.Split(line, "\t")
		if len(values) < header {
			continue
		}
		rows = append(rows, values)
	}
	return rows, sc.Err()
}

// ParseWorks reads id, category, title, story
func ParseWorks(r io.Reader) ([]model.Work, error) {
	rows, err := readTSV(r)
	if err != nil {
		return nil, err
	}
	works := make([]model.Work, 0, len(rows))
	for _, row := range rows {
		if len(row) < 4 {
			continue
		}
		id, err := strconv.Atoi(strings.TrimSpace(row[0]))
		if err != nil || id <= 0 {
			continue
		}
		works = append(works, model.Work{ID: id, Category: row[1], Title: row[2], Story: row[3]})
	}
	return works, nil
}

// ParsePractice reads id_a, id_b, title_a, title_b, story. The display
// index is the 1-based position among kept rows.
func ParsePractice(r io.Reader) ([]model.FusedQuestion, error) {
	rows, err := readTSV(r)
	if err != nil {
		return nil, err
	}
	out := make([]model.FusedQuestion, 0, len(rows))
	for _, row := range rows {
		if len(row) < 5 {
			continue
		}
		a, _ := strconv.Atoi(strings.TrimSpace(row[0]))
		b, _ := strconv.Atoi(strings.TrimSpace(row[1]))
		out = append(out, model.FusedQuestion{
			Kind:   model.QuestionKindPractice,
			Key:    len(out) + 1,
			IDA:    a,
			IDB:    b,
			TitleA: row[2],
			TitleB: row[3],
			Story:  row[4],
		})
	}
	return out, nil
}

// ParseTest reads id, story
func ParseTest(r io.Reader) ([]model.FusedQuestion, error) {
	rows, err := readTSV(r)
	if err != nil {
		return nil, err
	}
	out := make([]model.FusedQuestion, 0, len(rows))
	for _, row := range rows {
		if len(row) < 2 {
			continue
		}
		id, err := strconv.Atoi(strings.TrimSpace(row[0]))
		if err != nil {
			continue
		}
		out = append(out, model.FusedQuestion{Kind: model.QuestionKindTest, Key: id, Story: row[1]})
	}
	return out, nil
}
