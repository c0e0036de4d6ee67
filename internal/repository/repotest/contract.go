// Package repotest holds the behaviour every repository.Store backend must
// share. Backend packages run it from their own tests.
package repotest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storyfusion/internal/model"
	"storyfusion/internal/repository"
)

// RunStoreContract runs the shared suite. newStore must return an empty,
// initialised store; it is called once per subtest.
func RunStoreContract(t *testing.T, newStore func(t *testing.T) *repository.Store) {
	t.Helper()

	t.Run("answers are append-only and latest wins", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)

		latest, err := s.Answers.Latest(ctx, model.QuestionKindPractice, 1)
		require.NoError(t, err)
		assert.Nil(t, latest)

		correct := true
		first := &model.Answer{Kind: model.QuestionKindPractice, QuestionKey: 1, SelectedA: 2, SelectedB: 3, IsCorrect: &correct}
		require.NoError(t, s.Answers.Create(ctx, first))
		second := &model.Answer{Kind: model.QuestionKindPractice, QuestionKey: 1, SelectedA: 4, SelectedB: 5, Comment: "again"}
		require.NoError(t, s.Answers.Create(ctx, second))
		other := &model.Answer{Kind: model.QuestionKindTest, QuestionKey: 1, SelectedA: 7, SelectedB: 8}
		require.NoError(t, s.Answers.Create(ctx, other))

		assert.NotZero(t, first.ID)
		assert.NotEqual(t, first.ID, second.ID)

		list, err := s.Answers.ListByQuestion(ctx, model.QuestionKindPractice, 1)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, second.ID, list[0].ID)
		assert.Equal(t, "again", list[0].Comment)
		require.NotNil(t, list[1].IsCorrect)
		assert.True(t, *list[1].IsCorrect)

		latest, err = s.Answers.Latest(ctx, model.QuestionKindPractice, 1)
		require.NoError(t, err)
		require.NotNil(t, latest)
		assert.Equal(t, 4, latest.SelectedA)
		assert.Equal(t, 5, latest.SelectedB)
	})

	t.Run("work comment round trip", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)

		a := &model.WorkComment{WorkID: 10, Comment: "first"}
		require.NoError(t, s.WorkComments.Create(ctx, a))
		b := &model.WorkComment{WorkID: 10, Comment: "second"}
		require.NoError(t, s.WorkComments.Create(ctx, b))
		require.NoError(t, s.WorkComments.Create(ctx, &model.WorkComment{WorkID: 11, Comment: "elsewhere"}))

		list, err := s.WorkComments.ListByWork(ctx, 10)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, b.ID, list[0].ID)

		counts, err := s.WorkComments.CountByWork(ctx)
		require.NoError(t, err)
		got := map[int]int64{}
		for _, c := range counts {
			got[c.WorkID] = c.Count
		}
		assert.Equal(t, map[int]int64{10: 2, 11: 1}, got)

		updated, err := s.WorkComments.UpdateText(ctx, a.ID, "edited")
		require.NoError(t, err)
		assert.Equal(t, a.ID, updated.ID)
		assert.Equal(t, "edited", updated.Comment)
		assert.Equal(t, 10, updated.WorkID)
		assert.WithinDuration(t, a.CreatedAt, updated.CreatedAt, time.Second)

		_, err = s.WorkComments.UpdateText(ctx, 99999, "nope")
		assert.ErrorIs(t, err, repository.ErrNotFound)

		require.NoError(t, s.WorkComments.Delete(ctx, a.ID))
		assert.ErrorIs(t, s.WorkComments.Delete(ctx, a.ID), repository.ErrNotFound)

		list, err = s.WorkComments.ListByWork(ctx, 10)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, b.ID, list[0].ID)
	})

	t.Run("question comment keeps one slot", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)

		got, err := s.QuestionComments.Get(ctx, model.QuestionKindTest, 5)
		require.NoError(t, err)
		assert.Nil(t, got)

		require.NoError(t, s.QuestionComments.Upsert(ctx, &model.QuestionComment{Kind: model.QuestionKindTest, QuestionKey: 5, Comment: "one"}))
		require.NoError(t, s.QuestionComments.Upsert(ctx, &model.QuestionComment{Kind: model.QuestionKindTest, QuestionKey: 5, Comment: "two"}))
		require.NoError(t, s.QuestionComments.Upsert(ctx, &model.QuestionComment{Kind: model.QuestionKindPractice, QuestionKey: 5, Comment: "practice"}))

		got, err = s.QuestionComments.Get(ctx, model.QuestionKindTest, 5)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "two", got.Comment)

		got, err = s.QuestionComments.Get(ctx, model.QuestionKindPractice, 5)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "practice", got.Comment)
	})

	t.Run("deleting an upload cascades", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)

		keep := &model.PredictionUpload{Name: "keep"}
		require.NoError(t, s.Predictions.CreateUpload(ctx, keep))
		drop := &model.PredictionUpload{Name: "drop"}
		require.NoError(t, s.Predictions.CreateUpload(ctx, drop))

		for _, p := range []*model.Prediction{
			{UploadID: keep.ID, QuestionIndex: 1, SelectedA: 1, SelectedB: 2},
			{UploadID: drop.ID, QuestionIndex: 1, SelectedA: 2, SelectedB: 1},
			{UploadID: drop.ID, QuestionIndex: 2, SelectedA: 3, SelectedB: 4},
		} {
			require.NoError(t, s.Predictions.AddPrediction(ctx, p))
			assert.NotZero(t, p.ID)
		}

		uploads, err := s.Predictions.ListUploads(ctx)
		require.NoError(t, err)
		require.Len(t, uploads, 2)
		assert.Equal(t, drop.ID, uploads[0].ID)

		byQuestion, err := s.Predictions.ListByQuestion(ctx, 1)
		require.NoError(t, err)
		assert.Len(t, byQuestion, 2)

		require.NoError(t, s.Predictions.DeleteUpload(ctx, drop.ID))
		assert.ErrorIs(t, s.Predictions.DeleteUpload(ctx, drop.ID), repository.ErrNotFound)

		_, err = s.Predictions.GetUpload(ctx, drop.ID)
		assert.ErrorIs(t, err, repository.ErrNotFound)

		rows, err := s.Predictions.ListByUpload(ctx, drop.ID)
		require.NoError(t, err)
		assert.Empty(t, rows)

		byQuestion, err = s.Predictions.ListByQuestion(ctx, 1)
		require.NoError(t, err)
		require.Len(t, byQuestion, 1)
		assert.Equal(t, keep.ID, byQuestion[0].UploadID)

		got, err := s.Predictions.GetUpload(ctx, keep.ID)
		require.NoError(t, err)
		assert.Equal(t, "keep", got.Name)
	})

	t.Run("noun caches upsert per subject", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)

		require.NoError(t, s.WorkNouns.Upsert(ctx, &model.NounEntry{SubjectKey: 3, Nouns: []string{"Ahab"}}))
		require.NoError(t, s.WorkNouns.Upsert(ctx, &model.NounEntry{SubjectKey: 3, Nouns: []string{"Ahab", "Ishmael"}}))
		require.NoError(t, s.WorkNouns.Upsert(ctx, &model.NounEntry{SubjectKey: 1, Nouns: []string{"Alice"}}))
		require.NoError(t, s.FictionNouns.Upsert(ctx, &model.NounEntry{SubjectKey: 3, Nouns: []string{"Queequeg"}}))

		n, err := s.WorkNouns.Count(ctx)
		require.NoError(t, err)
		assert.EqualValues(t, 2, n)

		entry, err := s.WorkNouns.Get(ctx, 3)
		require.NoError(t, err)
		require.NotNil(t, entry)
		assert.Equal(t, []string{"Ahab", "Ishmael"}, entry.Nouns)
		assert.Equal(t, model.NounSubjectWork, entry.Subject)

		list, err := s.WorkNouns.List(ctx)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, 1, list[0].SubjectKey)

		missing, err := s.FictionNouns.Get(ctx, 1)
		require.NoError(t, err)
		assert.Nil(t, missing)

		removed, err := s.WorkNouns.DeleteAll(ctx)
		require.NoError(t, err)
		assert.EqualValues(t, 2, removed)

		n, err = s.FictionNouns.Count(ctx)
		require.NoError(t, err)
		assert.EqualValues(t, 1, n, "clearing work nouns leaves fiction nouns")
	})

	t.Run("init is idempotent", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Init(context.Background()))
	})
}
