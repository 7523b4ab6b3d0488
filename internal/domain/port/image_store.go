package port

import "image"

// ImageStore интерфейс чтения и записи кадров
type ImageStore interface {
	// Read загружает изображение с диска
	Read(path string) (image.Image, error)

	// Write сохраняет изображение без потерь, создавая каталоги
	Write(path string, img image.Image) error
}
