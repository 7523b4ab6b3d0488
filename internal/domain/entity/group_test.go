package entity

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewGroupKey_SameSampleAcrossLights(t *testing.T) {
	box := BoundingBox{X: 100, Y: 100, W: 50, H: 50}
	a, err := NewGroupKey(CropRecord{OriginalImagePath: "1_paint_rgb/ds/images/16col/x.png", LightSource: "16col", BBox: box})
	require.NoError(t, err)
	b, err := NewGroupKey(CropRecord{OriginalImagePath: "1_paint_rgb/ds/images/32row/x.png", LightSource: "32row", BBox: box})
	require.NoError(t, err)
	require.Equal(t, a, b)

	c, err := NewGroupKey(CropRecord{OriginalImagePath: "1_paint_rgb/ds/images/32row/x.png", LightSource: "32row", BBox: BoundingBox{X: 1, Y: 1, W: 5, H: 5}})
	require.NoError(t, err)
	require.NotEqual(t, a, c)
}

func TestNewGroupKey_SubstringIsNotASegment(t *testing.T) {
	_, err := NewGroupKey(CropRecord{OriginalImagePath: "data/16col_extra/x.png", LightSource: "16col"})
	require.ErrorIs(t, err, ErrLightNotInPath)

	_, err = NewGroupKey(CropRecord{OriginalImagePath: "16col/images/16col/x.png", LightSource: "16col"})
	require.ErrorIs(t, err, ErrLightNotInPath)
}
