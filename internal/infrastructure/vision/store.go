//go:build !gocv
// +build !gocv

package vision

import (
	"bufio"
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"
	"os"
	"path/filepath"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"

	"defect-vlm/internal/domain/port"
)

// FileStore читает и пишет кадры средствами image без OpenCV.
type FileStore struct {
	encoder png.Encoder
}

// NewFileStore создаёт хранилище кадров на файловой системе.
func NewFileStore() *FileStore {
	return &FileStore{encoder: png.Encoder{CompressionLevel: png.DefaultCompression}}
}

// Read декодирует PNG, JPEG, TIFF или BMP.
func (s *FileStore) Read(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(bufio.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", path, err)
	}
	if img.Bounds().Empty() {
		return nil, fmt.Errorf("empty image %s", path)
	}
	return img, nil
}

// Write сохраняет изображение в PNG.
func (s *FileStore) Write(path string, img image.Image) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	w := bufio.NewWriter(f)
	if err := s.encoder.Encode(w, img); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode image %s: %w", path, err)
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Проверка реализации интерфейса
var _ port.ImageStore = (*FileStore)(nil)
