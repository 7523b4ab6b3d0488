package vision

import (
	"errors"
	"sync"

	"gonum.org/v1/gonum/interp"
)

// Anchor опорная точка кривой: размер стороны в пикселях и доля расширения.
type Anchor struct {
	Extent float64
	Ratio  float64
}

// DefaultAnchors маленьким дефектам нужно много контекста, крупным немного.
var DefaultAnchors = []Anchor{{Extent: 20, Ratio: 2.0}, {Extent: 100, Ratio: 0.5}}

// RatioCurve кусочно-линейная зависимость доли расширения от размера стороны.
// За пределами опорных точек значение не экстраполируется.
type RatioCurve struct {
	pl    interp.PiecewiseLinear
	first Anchor
	last  Anchor
}

// NewRatioCurve строит кривую по возрастающим опорным точкам.
func NewRatioCurve(anchors []Anchor) (*RatioCurve, error) {
	if len(anchors) < 2 {
		return nil, errors.New("ratio curve needs at least two anchors")
	}
	xs := make([]float64, len(anchors))
	ys := make([]float64, len(anchors))
	for i, a := range anchors {
		if i > 0 && a.Extent <= anchors[i-1].Extent {
			return nil, errors.New("ratio anchors must be strictly increasing")
		}
		xs[i], ys[i] = a.Extent, a.Ratio
	}

	c := &RatioCurve{first: anchors[0], last: anchors[len(anchors)-1]}
	if err := c.pl.Fit(xs, ys); err != nil {
		return nil, err
	}
	return c, nil
}

// At возвращает долю расширения для стороны длиной extent.
func (c *RatioCurve) At(extent float64) float64 {
	if extent <= c.first.Extent {
		return c.first.Ratio
	}
	if extent >= c.last.Extent {
		return c.last.Ratio
	}
	return c.pl.Predict(extent)
}

var defaultCurve = sync.OnceValue(func() *RatioCurve {
	c, err := NewRatioCurve(DefaultAnchors)
	if err != nil {
		panic(err)
	}
	return c
})

// ContextRatio доля расширения по кривой с опорными точками по умолчанию.
func ContextRatio(extent float64) float64 {
	return defaultCurve().At(extent)
}
