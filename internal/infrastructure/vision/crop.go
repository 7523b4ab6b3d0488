package vision

import (
	"image"
	"image/draw"
	"math"

	"defect-vlm/internal/domain/entity"
)

// ExpandRect расширяет область вокруг центра в (1+ratio) раз по каждой оси
// и обрезает её границами кадра. Координаты округляются банковским округлением.
// Возвращает false, если площади не осталось.
func ExpandRect(bounds image.Rectangle, box entity.BoundingBox, ratioW, ratioH float64) (image.Rectangle, bool) {
	cx, cy := box.Center()
	newW := box.W * (1 + ratioW)
	newH := box.H * (1 + ratioH)

	xMin := max(0, int(math.RoundToEven(cx-newW/2)))
	yMin := max(0, int(math.RoundToEven(cy-newH/2)))
	xMax := min(bounds.Dx(), int(math.RoundToEven(cx+newW/2)))
	yMax := min(bounds.Dy(), int(math.RoundToEven(cy+newH/2)))

	if xMax <= xMin || yMax <= yMin {
		return image.Rectangle{}, false
	}
	return image.Rect(xMin, yMin, xMax, yMax).Add(bounds.Min), true
}

// ExpandAndCrop вырезает область с контекстом. Возвращает false,
// если кадра нет или после обрезки у области не осталось площади.
func ExpandAndCrop(img image.Image, box entity.BoundingBox, ratioW, ratioH float64) (image.Image, bool) {
	if img == nil {
		return nil, false
	}
	r, ok := ExpandRect(img.Bounds(), box, ratioW, ratioH)
	if !ok {
		return nil, false
	}
	return copyRect(img, r), true
}

// copyRect копирует часть кадра в новое изображение с началом в (0, 0).
func copyRect(img image.Image, r image.Rectangle) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	draw.Draw(dst, dst.Bounds(), img, r.Min, draw.Src)
	return dst
}
