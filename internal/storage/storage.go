// Package storage archives signed estimate documents. Once a customer has
// signed, a PDF copy of the document is kept outside the database so the
// signed artifact survives later edits to company branding or templates.
package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/businessflow/estimate-api/internal/config"
)

// Archive stores and retrieves signed estimate documents by name.
type Archive interface {
	Put(ctx context.Context, name string, contentType string, data io.Reader) (int64, error)
	Get(ctx context.Context, name string) (io.ReadCloser, error)
	Delete(ctx context.Context, name string) error
}

// NewArchive creates an archive based on configuration. Local mode keeps
// documents on the filesystem; cloud/azure mode stores them in Azure Blob
// Storage.
func NewArchive(cfg *config.StorageConfig, logger *zap.Logger) (Archive, error) {
	switch cfg.Mode {
	case "local":
		return NewLocalArchive(cfg.LocalBasePath)
	case "cloud", "azure":
		if cfg.CloudConnectionString == "" {
			return nil, fmt.Errorf("cloud connection string required for azure storage")
		}
		return NewAzureBlobArchive(cfg.CloudConnectionString, cfg.CloudContainer, logger)
	default:
		return nil, fmt.Errorf("unsupported storage mode: %s", cfg.Mode)
	}
}

// LocalArchive implements Archive on the local filesystem
type LocalArchive struct {
	basePath string
}

func NewLocalArchive(basePath string) (*LocalArchive, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create archive directory: %w", err)
	}

	return &LocalArchive{basePath: basePath}, nil
}

// Put writes the document under its name. Names are deterministic
// (signed/<estimate-id>.pdf), so a retried archive overwrites rather than
// duplicates.
func (s *LocalArchive) Put(ctx context.Context, name string, contentType string, data io.Reader) (int64, error) {
	fullPath := filepath.Join(s.basePath, filepath.FromSlash(name))

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return 0, fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(fullPath)
	if err != nil {
		return 0, fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	size, err := io.Copy(file, data)
	if err != nil {
		os.Remove(fullPath)
		return 0, fmt.Errorf("failed to write file: %w", err)
	}

	return size, nil
}

func (s *LocalArchive) Get(ctx context.Context, name string) (io.ReadCloser, error) {
	fullPath := filepath.Join(s.basePath, filepath.FromSlash(name))

	file, err := os.Open(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("document not found: %s", name)
		}
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	return file, nil
}

func (s *LocalArchive) Delete(ctx context.Context, name string) error {
	fullPath := filepath.Join(s.basePath, filepath.FromSlash(name))

	if err := os.Remove(fullPath); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to delete file: %w", err)
	}

	return nil
}
