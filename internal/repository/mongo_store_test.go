package repository_test

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"storyfusion/internal/repository"
	"storyfusion/internal/repository/repotest"
)

func TestMongoStore(t *testing.T) {
	uri := os.Getenv("TEST_MONGO_URI")
	if uri == "" {
		t.Skip("TEST_MONGO_URI not set")
	}

	ctx := context.Background()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Disconnect(context.Background()) })
	require.NoError(t, client.Ping(ctx, nil))

	repotest.RunStoreContract(t, func(t *testing.T) *repository.Store {
		db := client.Database("storyfusion_test_" + strings.ReplaceAll(uuid.NewString()[:8], "-", ""))
		s := repository.NewMongoStore(db, nil)
		require.NoError(t, s.Init(ctx))
		t.Cleanup(func() { _ = db.Drop(context.Background()) })
		return s
	})
}

func TestStoreCloseIsIdempotent(t *testing.T) {
	calls := 0
	s := repository.NewStore(func(context.Context) error {
		calls++
		return nil
	})
	require.NoError(t, s.Close(context.Background()))
	require.NoError(t, s.Close(context.Background()))
	require.Equal(t, 1, calls)
}
