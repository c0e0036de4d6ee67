package app

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storyfusion/internal/config"
	"storyfusion/internal/platform/logger"
)

func TestNew_SQLiteWithoutRedis(t *testing.T) {
	dir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.DataDir = dir
	cfg.Store.SQLitePath = filepath.Join(dir, "app.db")

	ctx := context.Background()
	a, err := New(ctx, cfg, logger.Nop())
	require.NoError(t, err)
	assert.Nil(t, a.Redis)
	assert.Len(t, a.Catalog.Missing, 3)

	svc := a.Services(nil)
	rep, err := svc.Predictions.Import(ctx, "cli", strings.NewReader("h\n1,2,3\n"))
	require.NoError(t, err)
	assert.Equal(t, 1, rep.Imported)

	require.NoError(t, a.Close(ctx))
	require.NoError(t, a.Close(ctx))
}

func TestOpenStore_UnknownDriver(t *testing.T) {
	_, err := OpenStore(context.Background(), config.StoreConfig{Driver: "oracle"})
	assert.Error(t, err)
}
