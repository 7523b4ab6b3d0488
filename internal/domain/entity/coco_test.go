package entity

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func testDataset() *Dataset {
	return &Dataset{
		Images: []Image{
			{ID: 1, FileName: "a.png"},
			{ID: 2, FileName: "b.png"},
			{ID: 3, FileName: "c.png"},
		},
		Annotations: []Annotation{
			{ID: 10, ImageID: 3, CategoryID: 1, BBox: BoundingBox{X: 1, Y: 1, W: 5, H: 6}},
			{ID: 11, ImageID: 1, CategoryID: 2, BBox: BoundingBox{X: 2, Y: 2, W: 7, H: 8}},
			{ID: 12, ImageID: 3, CategoryID: 9, BBox: BoundingBox{X: 3, Y: 3, W: 9, H: 10}},
			{ID: 13, ImageID: 42, CategoryID: 1, BBox: BoundingBox{X: 3, Y: 3, W: 1, H: 1}},
		},
		Categories: []Category{
			{ID: 0, Name: "Background"},
			{ID: 1, Name: "scratch"},
			{ID: 2, Name: "crater"},
		},
	}
}

func TestDatasetIndex_AnnotatedImagesOrder(t *testing.T) {
	idx := NewDatasetIndex(testDataset())

	imgs := idx.AnnotatedImages()
	require.Len(t, imgs, 2)
	require.Equal(t, int64(3), imgs[0].ID)
	require.Equal(t, int64(1), imgs[1].ID)

	require.Len(t, idx.Annotations(3), 2)
	require.Empty(t, idx.Annotations(2))
	require.Len(t, idx.Images(), 3)
}

func TestDatasetIndex_Categories(t *testing.T) {
	idx := NewDatasetIndex(testDataset())

	require.Equal(t, "scratch", idx.CategoryName(1))
	require.Equal(t, UnknownCategory, idx.CategoryName(9))
	require.Equal(t, []string{"scratch", "crater"}, idx.DefectNames())
}

func TestDatasetIndex_DefectSizes(t *testing.T) {
	idx := NewDatasetIndex(testDataset())
	require.Equal(t, [][2]float64{{5, 6}, {7, 8}, {9, 10}, {1, 1}}, idx.DefectSizes())
}
