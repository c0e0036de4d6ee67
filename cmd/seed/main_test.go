package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runSeed(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestSeedCommands(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("STORE_DRIVER", "sqlite")
	t.Setenv("SQLITE_PATH", filepath.Join(dir, "seed.db"))
	t.Setenv("DATA_DIR", dir)
	t.Setenv("LOG_MODE", "test")
	t.Setenv("REDIS_URI", "")
	cfgPath := filepath.Join(dir, "missing.yaml")

	out, err := runSeed(t, "--config", cfgPath, "init")
	require.NoError(t, err)
	assert.Contains(t, out, "schema ready")

	nouns := filepath.Join(dir, "nouns.csv")
	require.NoError(t, os.WriteFile(nouns, []byte("index,type,work_id,title,noun_count,nouns\n1,work,3,T,1,Ahab\n2,fiction,0,F,1,Pip\n"), 0o644))
	out, err = runSeed(t, "--config", cfgPath, "import-nouns", "--fiction", nouns)
	require.NoError(t, err)
	assert.Contains(t, out, "fiction nouns: imported 1, skipped 1")

	preds := filepath.Join(dir, "preds.csv")
	require.NoError(t, os.WriteFile(preds, []byte("question_index,selected_a,selected_b\n1,2,3\nbad,1,1\n"), 0o644))
	out, err = runSeed(t, "--config", cfgPath, "import-predictions", preds)
	require.NoError(t, err)
	assert.Contains(t, out, `upload 1 "preds.csv": imported 1, skipped 1, 0/0 correct (0%)`)

	out, err = runSeed(t, "--config", cfgPath, "score", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "preds.csv: 0/0 correct (0%), rank 1")

	_, err = runSeed(t, "--config", cfgPath, "score", "abc")
	assert.Error(t, err)

	_, err = runSeed(t, "--config", cfgPath, "score", "42")
	assert.Error(t, err)
}
