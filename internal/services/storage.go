package services

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"alfredoptarigan/resume-ranker/internal/models"
)

// StorageService stages the documents of one batch on disk for extraction.
type StorageService interface {
	EnsureStagingDir() error
	CreateBatchDir(jobToken string) (string, error)
	SaveUpload(batchDir string, upload models.Upload, fileType string) (string, error)
	RemoveBatchDir(batchDir string) error
}

type storageService struct {
	stagingPath string
}

func NewStorageService(stagingPath string) StorageService {
	return &storageService{
		stagingPath: stagingPath,
	}
}

func (s *storageService) EnsureStagingDir() error {
	if err := os.MkdirAll(s.stagingPath, 0755); err != nil {
		return fmt.Errorf("failed to create staging directory: %w", err)
	}

	return nil
}

func (s *storageService) CreateBatchDir(jobToken string) (string, error) {
	if err := s.EnsureStagingDir(); err != nil {
		return "", err
	}

	dir, err := os.MkdirTemp(s.stagingPath, "batch-"+sanitizeToken(jobToken)+"-")
	if err != nil {
		return "", fmt.Errorf("failed to create batch directory: %w", err)
	}
	return dir, nil
}

// SaveUpload writes the upload under a unique name, keeping the original extension
// so the extractor can pick a reader.
func (s *storageService) SaveUpload(batchDir string, upload models.Upload, fileType string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filepath.Base(upload.Filename)))

	uniqueFilename := fmt.Sprintf("%s_%s%s", fileType, uuid.New().String(), ext)
	filePath := filepath.Join(batchDir, uniqueFilename)

	if err := os.WriteFile(filePath, upload.Data, 0o600); err != nil {
		return "", fmt.Errorf("failed to save file: %w", err)
	}

	return filePath, nil
}

func (s *storageService) RemoveBatchDir(batchDir string) error {
	if batchDir == "" {
		return nil
	}
	if err := os.RemoveAll(batchDir); err != nil {
		return fmt.Errorf("failed to delete batch directory: %w", err)
	}
	return nil
}

func sanitizeToken(token string) string {
	var b strings.Builder
	for _, r := range token {
		if r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '-' {
			b.WriteRune(r)
		}
		if b.Len() >= 36 {
			break
		}
	}
	return b.String()
}
