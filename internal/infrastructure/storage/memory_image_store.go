package storage

import (
	"fmt"
	"image"
	"os"
	"sort"
	"sync"

	"defect-vlm/internal/domain/port"
)

// MemoryImageStore in-memory хранилище кадров для тестов и пробных прогонов
type MemoryImageStore struct {
	mu     sync.RWMutex
	images map[string]image.Image
}

// NewMemoryImageStore создаёт пустое хранилище
func NewMemoryImageStore() *MemoryImageStore {
	return &MemoryImageStore{
		images: make(map[string]image.Image),
	}
}

// Read возвращает кадр по пути или os.ErrNotExist
func (s *MemoryImageStore) Read(path string) (image.Image, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	img, ok := s.images[path]
	if !ok {
		return nil, fmt.Errorf("%s: %w", path, os.ErrNotExist)
	}
	return img, nil
}

// Write сохраняет кадр, перезаписывая существующий
func (s *MemoryImageStore) Write(path string, img image.Image) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.images[path] = img
	return nil
}

// Delete удаляет кадр
func (s *MemoryImageStore) Delete(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.images, path)
}

// Paths возвращает отсортированные пути всех кадров
func (s *MemoryImageStore) Paths() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, 0, len(s.images))
	for p := range s.images {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Проверка реализации интерфейса
var _ port.ImageStore = (*MemoryImageStore)(nil)
