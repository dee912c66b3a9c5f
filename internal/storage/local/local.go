package local

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"filescope/internal/storage"
)

// Storage 基于本地文件系统保存文件内容。
type Storage struct {
	BaseDir string
}

func NewStorage(baseDir string) *Storage {
	return &Storage{BaseDir: baseDir}
}

// Read 打开并返回指定 key 对应的文件内容。
func (s *Storage) Read(ctx context.Context, key string) (io.ReadCloser, error) {
	if s == nil {
		return nil, fmt.Errorf("local storage uninitialized")
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	targetPath := filepath.Join(s.BaseDir, filepath.Clean(key))
	file, err := os.Open(targetPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("file not found: %s", key)
		}
		return nil, fmt.Errorf("open file: %w", err)
	}

	return file, nil
}

// Write 先写临时文件再原子重命名到目标路径。
func (s *Storage) Write(ctx context.Context, key string, r io.Reader) (storage.Location, error) {
	if s == nil {
		return storage.Location{}, fmt.Errorf("local storage uninitialized")
	}

	select {
	case <-ctx.Done():
		return storage.Location{}, ctx.Err()
	default:
	}

	targetPath := filepath.Join(s.BaseDir, filepath.Clean(key))
	if err := os.MkdirAll(filepath.Dir(targetPath), 0o755); err != nil {
		return storage.Location{}, fmt.Errorf("ensure dir: %w", err)
	}

	tempPath := targetPath + ".tmp"
	file, err := os.Create(tempPath)
	if err != nil {
		return storage.Location{}, fmt.Errorf("create temp file: %w", err)
	}
	defer file.Close()

	if _, err := io.Copy(file, r); err != nil {
		file.Close()
		os.Remove(tempPath)
		return storage.Location{}, fmt.Errorf("write file: %w", err)
	}

	if err := file.Sync(); err != nil {
		file.Close()
		os.Remove(tempPath)
		return storage.Location{}, fmt.Errorf("sync file: %w", err)
	}

	if err := file.Close(); err != nil {
		return storage.Location{}, fmt.Errorf("close file: %w", err)
	}

	if err := os.Rename(tempPath, targetPath); err != nil {
		return storage.Location{}, fmt.Errorf("rename temp file: %w", err)
	}

	return storage.Location{Path: targetPath}, nil
}
