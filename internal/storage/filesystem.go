package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cineze/internal/domain"
)

var ErrInvalidKey = errors.New("storage: invalid key")

// FileStore archives generated reports on the local filesystem, one file per
// key under basePath.
type FileStore struct {
	basePath string
}

func NewFileStore(basePath string) (*FileStore, error) {
	basePath = strings.TrimSpace(basePath)
	if basePath == "" {
		return nil, errors.New("storage: base path is required")
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("storage: ensure base path: %w", err)
	}
	return &FileStore{basePath: basePath}, nil
}

func (s *FileStore) BasePath() string {
	if s == nil {
		return ""
	}
	return s.basePath
}

// Write stores data at key and returns the cleaned key. The file is written
// to a temporary sibling first and renamed into place.
func (s *FileStore) Write(ctx context.Context, key string, data []byte) (string, error) {
	if s == nil {
		return "", errors.New("storage: no store configured")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	cleanKey, err := sanitizeKey(key)
	if err != nil {
		return "", err
	}
	fullPath := s.path(cleanKey)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return "", fmt.Errorf("storage: ensure directory: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(fullPath), ".tmp-*")
	if err != nil {
		return "", fmt.Errorf("storage: create temp: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", fmt.Errorf("storage: write file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("storage: close file: %w", err)
	}
	if err := os.Rename(tmp.Name(), fullPath); err != nil {
		return "", fmt.Errorf("storage: publish file: %w", err)
	}
	return cleanKey, nil
}

func (s *FileStore) Read(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	cleanKey, err := sanitizeKey(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path(cleanKey))
	if errors.Is(err, os.ErrNotExist) {
		return nil, domain.ErrNotFound
	}
	return data, err
}

// DiagnosticKey is the archive key of a job's report.
func DiagnosticKey(ownerID, jobID string) string {
	return ownerID + "/" + jobID + ".json"
}

// SaveDiagnostic writes d as indented JSON under DiagnosticKey.
func (s *FileStore) SaveDiagnostic(ctx context.Context, ownerID, jobID string, d *domain.Diagnostic) (string, error) {
	if d == nil {
		return "", fmt.Errorf("%w: nil diagnostic", domain.ErrInvalidDocument)
	}
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return "", fmt.Errorf("storage: encode diagnostic: %w", err)
	}
	return s.Write(ctx, DiagnosticKey(ownerID, jobID), append(data, '\n'))
}

func (s *FileStore) LoadDiagnostic(ctx context.Context, ownerID, jobID string) (*domain.Diagnostic, error) {
	data, err := s.Read(ctx, DiagnosticKey(ownerID, jobID))
	if err != nil {
		return nil, err
	}
	var d domain.Diagnostic
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("storage: decode diagnostic: %w", err)
	}
	return &d, nil
}

func (s *FileStore) path(cleanKey string) string {
	return filepath.Join(s.basePath, filepath.FromSlash(cleanKey))
}

// sanitizeKey normalizes a key and prevents escaping the storage root.
func sanitizeKey(key string) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return "", fmt.Errorf("%w: key is required", ErrInvalidKey)
	}
	key = strings.ReplaceAll(key, "\\", "/")
	key = strings.TrimPrefix(key, "./")
	key = strings.TrimLeft(key, "/")
	cleaned := filepath.ToSlash(filepath.Clean(key))
	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return cleaned, nil
}
