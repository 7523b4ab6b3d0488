//go:build gocv
// +build gocv

package vision

import (
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"

	"gocv.io/x/gocv"

	"defect-vlm/internal/domain/port"
)

// FileStore читает и пишет кадры через OpenCV. PNG пишутся в порядке каналов BGR.
type FileStore struct{}

// NewFileStore создаёт хранилище кадров на OpenCV.
func NewFileStore() *FileStore {
	return &FileStore{}
}

// Read загружает кадр через IMRead.
func (s *FileStore) Read(path string) (image.Image, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}
	mat := gocv.IMRead(path, gocv.IMReadColor)
	defer mat.Close()
	if mat.Empty() {
		return nil, fmt.Errorf("failed to decode image %s", path)
	}
	return mat.ToImage()
}

// Write сохраняет кадр через IMWrite.
func (s *FileStore) Write(path string, img image.Image) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	mat, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return err
	}
	defer mat.Close()
	if !gocv.IMWrite(path, mat) {
		return errors.New("failed to write image " + path)
	}
	return nil
}

// Проверка реализации интерфейса
var _ port.ImageStore = (*FileStore)(nil)
