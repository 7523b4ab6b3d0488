package entity

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/require"
)

func TestBoundingBoxCenter(t *testing.T) {
	b := BoundingBox{X: 10, Y: 20, W: 8, H: 6}
	x, y := b.Center()
	require.Equal(t, 14.0, x)
	require.Equal(t, 23.0, y)
}

func TestIoU(t *testing.T) {
	a := BoundingBox{X: 0, Y: 0, W: 10, H: 10}
	b := BoundingBox{X: 5, Y: 5, W: 10, H: 10}
	far := BoundingBox{X: 50, Y: 50, W: 10, H: 10}
	touching := BoundingBox{X: 10, Y: 0, W: 10, H: 10}

	require.Equal(t, 1.0, IoU(a, a))
	require.Equal(t, 0.0, IoU(a, far))
	require.Equal(t, 0.0, IoU(a, touching))
	require.InDelta(t, 25.0/175.0, IoU(a, b), 1e-9)
	require.Equal(t, IoU(a, b), IoU(b, a))
}

func TestIoU_DegenerateBox(t *testing.T) {
	a := BoundingBox{X: 0, Y: 0, W: 10, H: 10}
	require.Equal(t, 0.0, IoU(a, BoundingBox{X: 1, Y: 1, W: 0, H: 5}))
	require.Equal(t, 0.0, IoU(BoundingBox{X: 1, Y: 1, W: 5, H: -2}, a))
}

func TestBoundingBoxJSON(t *testing.T) {
	var b BoundingBox
	require.NoError(t, json.Unmarshal([]byte(`[100, 100.5, 50, 50]`), &b))
	require.Equal(t, BoundingBox{X: 100, Y: 100.5, W: 50, H: 50}, b)

	out, err := json.Marshal(b)
	require.NoError(t, err)
	require.JSONEq(t, `[100, 100.5, 50, 50]`, string(out))

	require.Error(t, json.Unmarshal([]byte(`[1, 2, 3]`), &b))
}

func TestBoundingBoxKey(t *testing.T) {
	require.Equal(t, "100_100_50_50", BoundingBox{X: 100, Y: 100, W: 50, H: 50}.Key())
	require.Equal(t, "1.5_2_3_4.25", BoundingBox{X: 1.5, Y: 2, W: 3, H: 4.25}.Key())
}
