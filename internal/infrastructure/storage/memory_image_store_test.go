package storage

import (
	"image"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMemoryImageStore(t *testing.T) {
	s := NewMemoryImageStore()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))

	_, err := s.Read("a.png")
	require.ErrorIs(t, err, os.ErrNotExist)

	require.NoError(t, s.Write("b.png", img))
	require.NoError(t, s.Write("a.png", img))
	require.Equal(t, []string{"a.png", "b.png"}, s.Paths())

	got, err := s.Read("a.png")
	require.NoError(t, err)
	require.Same(t, img, got)

	s.Delete("a.png")
	require.Equal(t, []string{"b.png"}, s.Paths())
}
