package app

import (
	"errors"
	"fmt"
	"image"
	"path/filepath"

	"defect-vlm/internal/domain/entity"
	"defect-vlm/internal/domain/port"
	"defect-vlm/internal/infrastructure/vision"
)

// ErrCropEmpty область не удалось вырезать хотя бы из одного источника.
var ErrCropEmpty = errors.New("crop is empty")

// Correlator достаёт одну и ту же область из кадров всех источников света.
// Работает по принципу «всё или ничего».
type Correlator struct {
	store  port.ImageStore
	lights entity.LightOrder
}

// NewCorrelator создаёт коррелятор для канонического порядка источников.
func NewCorrelator(store port.ImageStore, lights entity.LightOrder) *Correlator {
	return &Correlator{store: store, lights: lights}
}

// FramePath путь кадра источника: <frameDir>/<light>/<file_name>.
func FramePath(frameDir string, light entity.LightSource, fileName string) string {
	return filepath.Join(frameDir, string(light), filepath.FromSlash(fileName))
}

// Load загружает кадры всех источников. Ошибка, если хотя бы один не читается.
func (c *Correlator) Load(frameDir, fileName string) ([]image.Image, error) {
	frames := make([]image.Image, len(c.lights))
	for i, light := range c.lights {
		img, err := c.store.Read(FramePath(frameDir, light, fileName))
		if err != nil {
			return nil, fmt.Errorf("light %s: %w", light, err)
		}
		frames[i] = img
	}
	return frames, nil
}

// Crop вырезает область с контекстом из всех кадров. Результат собирается
// в памяти, на диск ничего не пишется.
func (c *Correlator) Crop(frames []image.Image, box entity.BoundingBox, ratioW, ratioH float64) ([]image.Image, error) {
	if len(frames) != len(c.lights) {
		return nil, fmt.Errorf("%w: got %d frames for %d lights", ErrCropEmpty, len(frames), len(c.lights))
	}
	crops := make([]image.Image, len(frames))
	for i, frame := range frames {
		crop, ok := vision.ExpandAndCrop(frame, box, ratioW, ratioH)
		if !ok {
			return nil, fmt.Errorf("%w: light %s, bbox %s", ErrCropEmpty, c.lights[i], box.Key())
		}
		crops[i] = crop
	}
	return crops, nil
}
