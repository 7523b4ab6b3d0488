package vision

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestContextRatio(t *testing.T) {
	require.Equal(t, 2.0, ContextRatio(10))
	require.Equal(t, 2.0, ContextRatio(20))
	require.InDelta(t, 1.25, ContextRatio(60), 1e-9)
	require.Equal(t, 0.5, ContextRatio(100))
	require.Equal(t, 0.5, ContextRatio(150))
}

func TestNewRatioCurve_Validation(t *testing.T) {
	_, err := NewRatioCurve([]Anchor{{Extent: 20, Ratio: 2}})
	require.Error(t, err)

	_, err = NewRatioCurve([]Anchor{{Extent: 100, Ratio: 0.5}, {Extent: 20, Ratio: 2}})
	require.Error(t, err)
}

func TestRatioCurve_ThreeAnchors(t *testing.T) {
	c, err := NewRatioCurve([]Anchor{{Extent: 0, Ratio: 1}, {Extent: 10, Ratio: 2}, {Extent: 20, Ratio: 0}})
	require.NoError(t, err)
	require.InDelta(t, 1.5, c.At(5), 1e-9)
	require.InDelta(t, 1.0, c.At(15), 1e-9)
	require.Equal(t, 0.0, c.At(40))
	require.Equal(t, 1.0, c.At(-3))
}
