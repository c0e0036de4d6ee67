package sqlrepo

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"storyfusion/internal/repository"
	"storyfusion/internal/repository/repotest"
)

func newSQLiteStore(t *testing.T) *repository.Store {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := Open("sqlite", dsn, true)
	require.NoError(t, err)

	s := NewStore(db)
	require.NoError(t, s.Init(context.Background()))
	t.Cleanup(func() { _ = s.Close(context.Background()) })
	return s
}

func TestSQLiteStore(t *testing.T) {
	repotest.RunStoreContract(t, newSQLiteStore)
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := Open("oracle", "", true)
	require.Error(t, err)
}
