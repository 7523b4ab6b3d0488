package vision

import (
	"image"
	"image/color"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFileStore_WriteRead(t *testing.T) {
	store := NewFileStore()
	path := filepath.Join(t.TempDir(), "nested", "frame.png")

	require.NoError(t, store.Write(path, solid(8, 6, color.RGBA{R: 10, G: 20, B: 30, A: 255})))

	img, err := store.Read(path)
	require.NoError(t, err)
	require.Equal(t, image.Rect(0, 0, 8, 6), img.Bounds())

	r, g, b, _ := img.At(3, 3).RGBA()
	require.Equal(t, uint32(10), r>>8)
	require.Equal(t, uint32(20), g>>8)
	require.Equal(t, uint32(30), b>>8)
}

func TestFileStore_ReadMissing(t *testing.T) {
	_, err := NewFileStore().Read(filepath.Join(t.TempDir(), "nope.png"))
	require.Error(t, err)
}
