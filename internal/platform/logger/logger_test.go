package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestWithAddsFields(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	l := &Logger{SugaredLogger: zap.New(core).Sugar()}

	l.With("service", "PredictionService").Info("imported", "uploadId", 7)

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "imported", entry.Message)
	assert.Equal(t, "PredictionService", entry.ContextMap()["service"])
	assert.EqualValues(t, 7, entry.ContextMap()["uploadId"])
}

func TestNewModes(t *testing.T) {
	for _, mode := range []string{"prod", "dev", "test"} {
		l, err := New(mode)
		require.NoError(t, err, mode)
		assert.NotNil(t, l.SugaredLogger)
	}
}
