package vision

import (
	"errors"
	"image"
	"image/color"

	"golang.org/x/image/draw"

	"defect-vlm/internal/domain/entity"
)

// BoxColor цвет рамки на глобальной мозаике.
var BoxColor = color.RGBA{R: 255, A: 255}

const (
	// BoxExpand на сколько пикселей рамка отступает от области.
	BoxExpand = 2
	// BoxThickness толщина линии рамки.
	BoxThickness = 2
)

// ErrMosaicCells мозаика 2x2 собирается ровно из четырёх ячеек.
var ErrMosaicCells = errors.New("mosaic needs exactly 4 cells")

// DrawBox рисует рамку вокруг области на копии кадра.
func DrawBox(img image.Image, box entity.BoundingBox, expand, thickness int, c color.Color) *image.RGBA {
	b := img.Bounds()
	out := copyRect(img, b)
	w, h := b.Dx(), b.Dy()

	x0 := max(0, int(box.X-float64(expand)))
	y0 := max(0, int(box.Y-float64(expand)))
	x1 := min(w, int(box.X+box.W+float64(expand)))
	y1 := min(h, int(box.Y+box.H+float64(expand)))

	// линия толщины t ложится на координату края: t/2 пикселей наружу, остальное внутрь
	lo, hi := thickness/2, (thickness-1)/2
	src := image.NewUniform(c)
	edges := []image.Rectangle{
		image.Rect(x0-lo, y0-lo, x1+hi+1, y0+hi+1), // верх
		image.Rect(x0-lo, y1-lo, x1+hi+1, y1+hi+1), // низ
		image.Rect(x0-lo, y0-lo, x0+hi+1, y1+hi+1), // лево
		image.Rect(x1-lo, y0-lo, x1+hi+1, y1+hi+1), // право
	}
	for _, e := range edges {
		draw.Draw(out, e.Intersect(out.Bounds()), src, image.Point{}, draw.Src)
	}
	return out
}

// Letterbox вписывает изображение в чёрный квадрат со стороной size,
// сохраняя пропорции и центрируя. Для nil возвращает чёрный квадрат.
func Letterbox(img image.Image, size int) *image.RGBA {
	canvas := blank(size)
	if img == nil || img.Bounds().Empty() {
		return canvas
	}

	b := img.Bounds()
	scale := min(float64(size)/float64(b.Dy()), float64(size)/float64(b.Dx()))
	newW := max(1, int(scale*float64(b.Dx())))
	newH := max(1, int(scale*float64(b.Dy())))

	offX := (size - newW) / 2
	offY := (size - newH) / 2
	dst := image.Rect(offX, offY, offX+newW, offY+newH)
	draw.CatmullRom.Scale(canvas, dst, img, b, draw.Src, nil)
	return canvas
}

// Mosaic собирает четыре ячейки в квадрат size x size в порядке
// [верх-лево, верх-право, низ-лево, низ-право]. Ячейки не того размера
// вписываются через Letterbox, отсутствующие заменяются чёрными.
func Mosaic(cells []image.Image, size int) (*image.RGBA, error) {
	if len(cells) != 4 {
		return nil, ErrMosaicCells
	}

	cell := size / 2
	canvas := blank(size)
	for i, img := range cells {
		if img == nil || img.Bounds().Dx() != cell || img.Bounds().Dy() != cell {
			img = Letterbox(img, cell)
		}
		at := image.Pt((i%2)*cell, (i/2)*cell)
		r := image.Rectangle{Min: at, Max: at.Add(image.Pt(cell, cell))}
		draw.Draw(canvas, r, img, img.Bounds().Min, draw.Src)
	}
	return canvas, nil
}

func blank(size int) *image.RGBA {
	canvas := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.Draw(canvas, canvas.Bounds(), image.Black, image.Point{}, draw.Src)
	return canvas
}
