package vision

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/require"

	"defect-vlm/internal/domain/entity"
)

func TestMosaic_QuadrantsFollowOrder(t *testing.T) {
	colors := []color.RGBA{
		{R: 255, A: 255},
		{G: 255, A: 255},
		{B: 255, A: 255},
		{R: 255, G: 255, A: 255},
	}
	cells := make([]image.Image, 4)
	for i, c := range colors {
		cells[i] = solid(300, 300, c)
	}

	m, err := Mosaic(cells, 600)
	require.NoError(t, err)
	require.Equal(t, image.Rect(0, 0, 600, 600), m.Bounds())

	origins := []image.Point{{0, 0}, {300, 0}, {0, 300}, {300, 300}}
	for i, o := range origins {
		for _, p := range []image.Point{o, o.Add(image.Pt(150, 150)), o.Add(image.Pt(299, 299))} {
			require.Equal(t, colors[i], m.RGBAAt(p.X, p.Y), "quadrant %d at %v", i, p)
		}
	}
}

func TestMosaic_MissingCellIsBlack(t *testing.T) {
	white := solid(300, 300, color.White)
	m, err := Mosaic([]image.Image{white, nil, white, white}, 600)
	require.NoError(t, err)
	require.Equal(t, color.RGBA{A: 255}, m.RGBAAt(450, 150))
	require.Equal(t, color.RGBA{R: 255, G: 255, B: 255, A: 255}, m.RGBAAt(150, 150))
}

func TestMosaic_WrongCellCount(t *testing.T) {
	_, err := Mosaic(make([]image.Image, 3), 600)
	require.ErrorIs(t, err, ErrMosaicCells)
}

func TestLetterbox_KeepsAspect(t *testing.T) {
	wide := solid(200, 100, color.White)
	out := Letterbox(wide, 100)
	require.Equal(t, image.Rect(0, 0, 100, 100), out.Bounds())

	// 200x100 -> 100x50, centred vertically with 25px bars
	require.Equal(t, color.RGBA{A: 255}, out.RGBAAt(50, 10))
	require.Equal(t, color.RGBA{A: 255}, out.RGBAAt(50, 90))
	require.Equal(t, color.RGBA{R: 255, G: 255, B: 255, A: 255}, out.RGBAAt(50, 50))
}

func TestLetterbox_Nil(t *testing.T) {
	out := Letterbox(nil, 10)
	require.Equal(t, color.RGBA{A: 255}, out.RGBAAt(5, 5))
}

func TestDrawBox(t *testing.T) {
	img := solid(100, 100, color.White)
	out := DrawBox(img, entity.BoundingBox{X: 20, Y: 20, W: 30, H: 30}, BoxExpand, BoxThickness, BoxColor)

	require.Equal(t, BoxColor, out.RGBAAt(18, 30))
	require.Equal(t, BoxColor, out.RGBAAt(30, 52))
	require.Equal(t, color.RGBA{R: 255, G: 255, B: 255, A: 255}, out.RGBAAt(35, 35))
	// source frame is untouched
	require.Equal(t, color.RGBA{R: 255, G: 255, B: 255, A: 255}, img.RGBAAt(18, 30))
}
