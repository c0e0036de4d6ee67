package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storyfusion/internal/model"
)

const nounCSV = `index,type,work_id,title,noun_count,nouns
1,work,10,Ten,2,Ahab|Ishmael
2,fiction,0,Fused,1,Queequeg
3,work,zero,Bad,1,Nobody
4,work,20,Twenty,3,Alice|Hatter, the March Hare
`

func TestNounService_ImportKeepsOwnSubject(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	b := &recordingBroadcaster{}

	works := NewNounService(store.WorkNouns, model.NounSubjectWork, testLog)
	works.SetBroadcaster(b)
	fiction := NewNounService(store.FictionNouns, model.NounSubjectFiction, testLog)

	rep, err := works.Import(ctx, strings.NewReader(nounCSV))
	require.NoError(t, err)
	assert.Equal(t, 2, rep.Imported)
	assert.Equal(t, 2, rep.Skipped)

	rep, err = fiction.Import(ctx, strings.NewReader(nounCSV))
	require.NoError(t, err)
	assert.Equal(t, 1, rep.Imported)

	entry, err := works.Get(ctx, 20)
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, []string{"Alice", "Hatter, the March Hare"}, entry.Nouns)

	fused, err := fiction.Get(ctx, 2)
	require.NoError(t, err)
	require.NotNil(t, fused)
	assert.Equal(t, []string{"Queequeg"}, fused.Nouns)

	n, err := works.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	removed, err := works.Clear(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, removed)

	list, err := works.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	n, err = fiction.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	assert.Equal(t, []string{"nouns/nouns_imported", "nouns/nouns_cleared"}, b.types())
}

func TestAdminService(t *testing.T) {
	store := newTestStore(t)
	svc := NewAdminService(store, testCatalog())
	require.NoError(t, svc.InitSchema(context.Background()))
	assert.Empty(t, svc.MissingData())
}
