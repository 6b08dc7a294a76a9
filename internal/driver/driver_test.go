package driver_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arnav-k/cdawg/internal/driver"
	"github.com/arnav-k/cdawg/persist"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	return path
}

func TestRunBuildsSavesAndEvaluates(t *testing.T) {
	dir := t.TempDir()
	trainPath := writeFile(t, dir, "train.txt", "the cat sat on the mat the cat ran")
	testPath := writeFile(t, dir, "test.txt", "the cat sat")

	cfg := driver.Config{
		TrainPath:      trainPath,
		TestPath:       testPath,
		Tokenizer:      "whitespace",
		TokensPerByte:  1.0,
		NodesRatio:     2.0,
		EdgesRatio:     3.0,
		BufSize:        4096,
		TrainVecPath:   filepath.Join(dir, "train.vec"),
		SavePath:       filepath.Join(dir, "graph"),
		NEval:          1,
		MaxStateLength: -1,
	}

	require.NoError(t, driver.Run(cfg))

	_, err := os.Stat(cfg.TrainVecPath)
	require.NoError(t, err)

	loaded, err := persist.Load[uint16](cfg.SavePath)
	require.NoError(t, err)
	assert.Greater(t, loaded.NodeCount(), 1)
}

func TestRunFailsOnMissingTrainPath(t *testing.T) {
	dir := t.TempDir()
	cfg := driver.Config{
		TrainPath:    filepath.Join(dir, "missing.txt"),
		Tokenizer:    "whitespace",
		TrainVecPath: filepath.Join(dir, "train.vec"),
		SavePath:     filepath.Join(dir, "graph"),
		NEval:        10,
	}

	err := driver.Run(cfg)
	require.Error(t, err)

	_, statErr := os.Stat(cfg.SavePath)
	assert.True(t, os.IsNotExist(statErr), "a failed run must not leave a partially built save directory")
}

func TestRunWithNullTokenizerAbsorbsEveryByte(t *testing.T) {
	dir := t.TempDir()
	trainPath := writeFile(t, dir, "train.txt", "aaaa")

	cfg := driver.Config{
		TrainPath:      trainPath,
		Tokenizer:      "null",
		TokensPerByte:  1.0,
		NodesRatio:     2.0,
		EdgesRatio:     3.0,
		BufSize:        4096,
		TrainVecPath:   filepath.Join(dir, "train.vec"),
		NEval:          10,
		MaxStateLength: -1,
	}

	require.NoError(t, driver.Run(cfg))
}
