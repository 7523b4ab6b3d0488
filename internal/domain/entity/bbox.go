package entity

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// BoundingBox прямоугольник дефекта в формате COCO: левый верхний угол, ширина и высота в пикселях.
type BoundingBox struct {
	X float64 // координата X левого верхнего угла
	Y float64 // координата Y левого верхнего угла
	W float64 // ширина области
	H float64 // высота области
}

// Center возвращает координаты центра области
func (b BoundingBox) Center() (x, y float64) {
	return b.X + b.W/2, b.Y + b.H/2
}

// Area возвращает площадь области
func (b BoundingBox) Area() float64 {
	return b.W * b.H
}

// Valid сообщает, что у области положительные размеры
func (b BoundingBox) Valid() bool {
	return b.W > 0 && b.H > 0
}

// Key рендерит область строкой вида "x_y_w_h" для ключей группировки.
func (b BoundingBox) Key() string {
	parts := []string{
		formatCoord(b.X),
		formatCoord(b.Y),
		formatCoord(b.W),
		formatCoord(b.H),
	}
	return strings.Join(parts, "_")
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// MarshalJSON пишет область массивом [x, y, w, h], как в COCO.
func (b BoundingBox) MarshalJSON() ([]byte, error) {
	return json.Marshal([4]float64{b.X, b.Y, b.W, b.H})
}

// UnmarshalJSON читает массив [x, y, w, h].
func (b *BoundingBox) UnmarshalJSON(data []byte) error {
	var raw []float64
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if len(raw) != 4 {
		return fmt.Errorf("bbox must have 4 values, got %d", len(raw))
	}
	*b = BoundingBox{X: raw[0], Y: raw[1], W: raw[2], H: raw[3]}
	return nil
}

// IoU считает intersection-over-union двух областей.
// Для непересекающихся областей и областей с нулевой площадью возвращает 0.
func IoU(a, b BoundingBox) float64 {
	if !a.Valid() || !b.Valid() {
		return 0
	}

	x1 := max(a.X, b.X)
	y1 := max(a.Y, b.Y)
	x2 := min(a.X+a.W, b.X+b.W)
	y2 := min(a.Y+a.H, b.Y+b.H)
	if x2 <= x1 || y2 <= y1 {
		return 0
	}

	inter := (x2 - x1) * (y2 - y1)
	union := a.Area() + b.Area() - inter
	if union <= 0 {
		return 0
	}
	return inter / union
}
