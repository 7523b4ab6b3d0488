package app

import (
	"context"
	"image"
	"image/color"
	"image/draw"
	"io"
	"log"
	"slices"
	"testing"

	"github.com/stretchr/testify/require"

	"defect-vlm/internal/domain/entity"
	"defect-vlm/internal/infrastructure/storage"
)

const testDataset = "paint"

func quietLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func testSettings(root string) Settings {
	return Settings{
		Layout: Layout{
			DataRoot:     root,
			RawDir:       "1_paint_rgb",
			BBoxDir:      "2_paint_bbox",
			CompositeDir: "3_composite_images",
		},
		Lights:          entity.DefaultLightOrder,
		Labels:          []string{"breakage", "inclusion", "crater", "bulge", "run", "scratch"},
		Seed:            42,
		SamplesPerImage: 2,
		MaxTrials:       50,
		SizePool:        2000,
		FixedRatio:      0.4,
		Canvas:          60,
		StartID:         1000001,
	}
}

// scratchDataset один кадр 400x300 с царапиной [100,100,50,50].
func scratchDataset() *entity.Dataset {
	return &entity.Dataset{
		Images: []entity.Image{{ID: 1, FileName: "a.png", Width: 400, Height: 300}},
		Annotations: []entity.Annotation{
			{ID: 10, ImageID: 1, CategoryID: 1, BBox: entity.BoundingBox{X: 100, Y: 100, W: 50, H: 50}},
		},
		Categories: []entity.Category{
			{ID: 1, Name: "scratch"},
			{ID: 2, Name: "crater"},
			{ID: 3, Name: "background"},
		},
	}
}

func solidFrame(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: c}, image.Point{}, draw.Src)
	return img
}

// seedFrames кладёт кадр fileName для каждого источника, кроме skip.
func seedFrames(t *testing.T, store *storage.MemoryImageStore, s Settings, fileName string, skip ...entity.LightSource) {
	t.Helper()
	gray := color.RGBA{R: 128, G: 128, B: 128, A: 255}
	for _, light := range s.Lights {
		if slices.Contains(skip, light) {
			continue
		}
		path := FramePath(s.Layout.FrameDir(testDataset), light, fileName)
		require.NoError(t, store.Write(path, solidFrame(400, 300, gray)))
	}
}

func generate(t *testing.T, store *storage.MemoryImageStore, s Settings, ds *entity.Dataset, st entity.SampleType) []entity.CropRecord {
	t.Helper()
	idx := entity.NewDatasetIndex(ds)
	rng := NewRand(s.Seed)
	p, err := NewPolicy(st, idx, s, rng)
	require.NoError(t, err)

	g := NewGenerator(store, s, quietLogger())
	req := GenerateRequest{
		FrameDir: s.Layout.FrameDir(testDataset),
		CropDir:  s.Layout.CropImageDir(testDataset, st, "train"),
	}
	records, err := g.Generate(context.Background(), idx, p, req, rng, NewSequence(0))
	require.NoError(t, err)
	return records
}

type stubDatasets struct {
	ds *entity.Dataset
}

func (s stubDatasets) Load(context.Context, string) (*entity.Dataset, error) {
	return s.ds, nil
}
