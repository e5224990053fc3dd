package services

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/resume-ranker/internal/models"
)

func TestStorageStagesAndCleansBatch(t *testing.T) {
	root := filepath.Join(t.TempDir(), "staging")
	s := NewStorageService(root)

	dir, err := s.CreateBatchDir("job/../42")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(filepath.Base(dir), "batch-job42-"))

	path, err := s.SaveUpload(dir, models.Upload{Filename: "../CV.PDF", Data: []byte("data")}, "resume")
	require.NoError(t, err)
	assert.Equal(t, dir, filepath.Dir(path))
	assert.Equal(t, ".pdf", filepath.Ext(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "data", string(data))

	require.NoError(t, s.RemoveBatchDir(dir))
	_, err = os.Stat(dir)
	assert.True(t, os.IsNotExist(err))
	assert.NoError(t, s.RemoveBatchDir(""))
}
