package dataset

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storyfusion/internal/model"
	"storyfusion/internal/scoring"
)

func TestLoad(t *testing.T) {
	c, err := Load(context.Background(), "testdata")
	require.NoError(t, err)

	works := c.Works()
	require.Len(t, works, 3)
	assert.Equal(t, []int{1, 2, 3}, []int{works[0].ID, works[1].ID, works[2].ID})
	assert.Empty(t, works[0].Story, "list view drops the synopsis")

	w, ok := c.Work(2)
	require.True(t, ok)
	assert.Equal(t, "Second Film", w.Title)
	assert.Equal(t, "A clown gets lost.", w.Story)

	require.Len(t, c.PracticeQuestions(), 3)
	q, ok := c.PracticeQuestion(3)
	require.True(t, ok)
	assert.Equal(t, 2, q.IDA)
	assert.Equal(t, 3, q.IDB)

	assert.Equal(t, scoring.AnswerKey{1: {A: 1, B: 2}, 3: {A: 2, B: 3}}, c.AnswerKey(), "self-pair question 2 is not graded")

	assert.Empty(t, c.TestQuestions())
	assert.Equal(t, []string{filepath.Join("testdata", TestFile)}, c.Missing)
}

func TestCorrectPair(t *testing.T) {
	c := New(nil, []model.FusedQuestion{
		{Kind: model.QuestionKindPractice, Key: 1, IDA: 4, IDB: 9},
	}, []model.FusedQuestion{
		{Kind: model.QuestionKindTest, Key: 1},
	})

	p, ok := c.CorrectPair(model.QuestionKindPractice, 1)
	assert.True(t, ok)
	assert.Equal(t, scoring.Pair{A: 4, B: 9}, p)

	_, ok = c.CorrectPair(model.QuestionKindTest, 1)
	assert.False(t, ok)

	_, ok = c.CorrectPair(model.QuestionKindPractice, 2)
	assert.False(t, ok)
}

func TestAnswerKeyIsACopy(t *testing.T) {
	c := New(nil, []model.FusedQuestion{{Kind: model.QuestionKindPractice, Key: 1, IDA: 1, IDB: 2}}, nil)
	k := c.AnswerKey()
	k[1] = scoring.Pair{A: 7, B: 8}
	assert.Equal(t, scoring.Pair{A: 1, B: 2}, c.AnswerKey()[1])
}

func TestParseTest(t *testing.T) {
	in := "id\tstory\r\n101\tTwo stories blended.\r\nx\tskipped\r\n\r\n205\tAnother one.\r\n"
	got, err := ParseTest(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 101, got[0].Key)
	assert.Equal(t, "Another one.", got[1].Story)
	assert.False(t, got[0].Graded())
}
