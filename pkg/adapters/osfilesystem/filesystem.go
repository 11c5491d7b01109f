// Package osfilesystem implements ports.FileSystem on the local disk.
package osfilesystem

import (
	"os"
	"path/filepath"

	"github.com/user/xplayer/pkg/ports"
)

// FileSystem implements ports.FileSystem using the os package.
type FileSystem struct {
	tempDir string
}

// New creates a FileSystem whose temp files go to the system temp dir.
func New() *FileSystem {
	return &FileSystem{}
}

// NewWithTempDir creates a FileSystem whose temp files go to dir.
func NewWithTempDir(dir string) *FileSystem {
	return &FileSystem{tempDir: dir}
}

func (fs *FileSystem) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// WriteFile writes data to path, creating parent directories as needed.
func (fs *FileSystem) WriteFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0644)
}

func (fs *FileSystem) MkdirAll(path string) error {
	return os.MkdirAll(path, 0755)
}

func (fs *FileSystem) Exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

func (fs *FileSystem) Size(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

// TempFile creates an empty file and returns its path. The caller removes it.
func (fs *FileSystem) TempFile(pattern string) (string, error) {
	if fs.tempDir != "" {
		if err := os.MkdirAll(fs.tempDir, 0755); err != nil {
			return "", err
		}
	}
	f, err := os.CreateTemp(fs.tempDir, pattern)
	if err != nil {
		return "", err
	}
	name := f.Name()
	if err := f.Close(); err != nil {
		os.Remove(name)
		return "", err
	}
	return name, nil
}

func (fs *FileSystem) Remove(path string) error {
	return os.Remove(path)
}

func (fs *FileSystem) IsDir(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return info.IsDir(), nil
}

func (fs *FileSystem) ReadDir(path string) ([]string, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name()
	}
	return names, nil
}

var _ ports.FileSystem = (*FileSystem)(nil)
