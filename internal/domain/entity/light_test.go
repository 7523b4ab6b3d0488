package entity

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewLightOrder(t *testing.T) {
	order, err := NewLightOrder([]string{"16col", "16row", "32col", "32row"})
	require.NoError(t, err)
	require.Equal(t, DefaultLightOrder, order)

	i, ok := order.Index("32col")
	require.True(t, ok)
	require.Equal(t, 2, i)

	_, ok = order.Index("64col")
	require.False(t, ok)
}

func TestNewLightOrder_Rejects(t *testing.T) {
	_, err := NewLightOrder(nil)
	require.ErrorIs(t, err, ErrEmptyLightOrder)

	_, err = NewLightOrder([]string{"16col", "16col"})
	require.ErrorIs(t, err, ErrDuplicateLight)

	_, err = NewLightOrder([]string{"16col", ""})
	require.ErrorIs(t, err, ErrUnknownLight)
}

func TestLightOrderMatches(t *testing.T) {
	require.True(t, DefaultLightOrder.Matches([]LightSource{"16col", "16row", "32col", "32row"}))
	require.False(t, DefaultLightOrder.Matches([]LightSource{"16col", "16col", "32col", "32row"}))
	require.False(t, DefaultLightOrder.Matches([]LightSource{"16col", "16row", "32col"}))
}
