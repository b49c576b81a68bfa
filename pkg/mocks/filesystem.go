package mocks

import (
	"fmt"
	"sync"

	"github.com/MuggleFighter/fuckteslacam/pkg/ports"
)

// FileSystem is an in-memory mock implementation of ports.FileSystem.
type FileSystem struct {
	mu    sync.Mutex
	Files map[string][]byte
	Dirs  map[string]bool

	WriteErr error
}

// NewFileSystem creates an empty in-memory file system.
func NewFileSystem() *FileSystem {
	return &FileSystem{
		Files: make(map[string][]byte),
		Dirs:  make(map[string]bool),
	}
}

func (m *FileSystem) ReadFile(path string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.Files[path]
	if !ok {
		return nil, fmt.Errorf("mocks: file %q not found", path)
	}
	return data, nil
}

func (m *FileSystem) WriteFile(path string, data []byte) error {
	if m.WriteErr != nil {
		return m.WriteErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Files[path] = data
	return nil
}

func (m *FileSystem) MkdirAll(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Dirs[path] = true
	return nil
}

func (m *FileSystem) Exists(path string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Files[path]; ok {
		return true, nil
	}
	return m.Dirs[path], nil
}

func (m *FileSystem) Remove(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Files, path)
	delete(m.Dirs, path)
	return nil
}

var _ ports.FileSystem = (*FileSystem)(nil)
