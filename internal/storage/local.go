package storage

import (
	"os"
	"path/filepath"

	"github.com/KNehe/alx-files-manager/internal/config"
	"github.com/KNehe/alx-files-manager/pkg/logger"
	"github.com/google/uuid"
)

// LocalStorage persists raw file bytes flat under a single root directory.
// Filenames are generated, never derived from caller-supplied names.
type LocalStorage struct {
	root string
}

func NewLocal(cfg config.StorageConfig) *LocalStorage {
	return &LocalStorage{root: cfg.FolderPath}
}

func (s *LocalStorage) Root() string {
	return s.root
}

// Save writes data under a fresh uuid filename and returns the full path.
// The root directory is created on demand; creation is idempotent.
func (s *LocalStorage) Save(data []byte) (string, error) {
	if err := os.MkdirAll(s.root, 0o755); err != nil {
		logger.Error("storage_mkdir_failed", err, map[string]interface{}{
			"root": s.root,
		})
		return "", err
	}

	path := filepath.Join(s.root, uuid.New().String())
	if err := os.WriteFile(path, data, 0o644); err != nil {
		logger.Error("storage_write_failed", err, map[string]interface{}{
			"path": path,
			"size": len(data),
		})
		return "", err
	}

	return path, nil
}

func (s *LocalStorage) Read(path string) ([]byte, error) {
	return os.ReadFile(path)
}

func (s *LocalStorage) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
