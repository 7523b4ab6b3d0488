package app

import (
	"context"
	"fmt"
	"image"
	"log"
	"math/rand/v2"
	"path/filepath"
	"slices"
	"strings"

	"defect-vlm/internal/domain/entity"
	"defect-vlm/internal/domain/port"
	"defect-vlm/internal/infrastructure/vision"
)

// Generator нарезает фрагменты по правилам Policy и собирает плоский список метаданных.
type Generator struct {
	store      port.ImageStore
	correlator *Correlator
	curve      *vision.RatioCurve
	lights     entity.LightOrder
	layout     Layout
	logger     *log.Logger
}

// NewGenerator создаёт генератор фрагментов.
func NewGenerator(store port.ImageStore, s Settings, logger *log.Logger) *Generator {
	if logger == nil {
		logger = log.Default()
	}
	curve := s.Curve
	if curve == nil {
		curve, _ = vision.NewRatioCurve(vision.DefaultAnchors)
	}
	return &Generator{
		store:      store,
		correlator: NewCorrelator(store, s.Lights),
		curve:      curve,
		lights:     s.Lights,
		layout:     s.Layout,
		logger:     logger,
	}
}

// GenerateRequest откуда брать кадры и куда писать фрагменты.
type GenerateRequest struct {
	FrameDir string
	CropDir  string
}

// Generate обходит кадры разметки и пишет фрагменты на диск.
// Идентификаторы выдаются из seq по одному на записанный фрагмент.
func (g *Generator) Generate(ctx context.Context, idx *entity.DatasetIndex, p Policy, req GenerateRequest, rng *rand.Rand, seq *Sequence) ([]entity.CropRecord, error) {
	if p.AllOrNothing() {
		return g.generateGrouped(ctx, idx, p, req, rng, seq)
	}
	return g.generatePerLight(ctx, idx, p, req, rng, seq)
}

// generateGrouped пример сохраняется, только если вырезан из всех источников.
func (g *Generator) generateGrouped(ctx context.Context, idx *entity.DatasetIndex, p Policy, req GenerateRequest, rng *rand.Rand, seq *Sequence) ([]entity.CropRecord, error) {
	var records []entity.CropRecord
	for _, img := range p.Images(idx) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		frames, err := g.correlator.Load(req.FrameDir, img.FileName)
		if err != nil {
			g.logger.Printf("skip image %d (%s): %v", img.ID, img.FileName, err)
			continue
		}
		size := frames[0].Bounds().Size()

		for c := range p.Candidates(idx, img, size, rng) {
			prior, ok := p.PriorLabel(c, rng)
			if !ok {
				continue
			}
			rw, rh := g.ratios(p, c.BBox)
			crops, err := g.correlator.Crop(frames, c.BBox, rw, rh)
			if err != nil {
				g.logger.Printf("skip %s sample %d of %s: %v", p.SampleType(), c.Index, img.FileName, err)
				continue
			}

			for i, light := range g.lights {
				rec, err := g.save(p, req, img, light, c, prior, crops[i], seq)
				if err != nil {
					return nil, err
				}
				records = append(records, rec)
			}
		}
	}
	return records, nil
}

// generatePerLight каждый источник обрабатывается независимо,
// недоступный кадр пропускает только свои записи.
func (g *Generator) generatePerLight(ctx context.Context, idx *entity.DatasetIndex, p Policy, req GenerateRequest, rng *rand.Rand, seq *Sequence) ([]entity.CropRecord, error) {
	var records []entity.CropRecord
	for _, img := range p.Images(idx) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		candidates := slices.Collect(p.Candidates(idx, img, image.Point{}, rng))
		priors := make([]string, len(candidates))
		usable := make([]bool, len(candidates))
		for i, c := range candidates {
			priors[i], usable[i] = p.PriorLabel(c, rng)
		}

		for _, light := range g.lights {
			frame, err := g.store.Read(FramePath(req.FrameDir, light, img.FileName))
			if err != nil {
				g.logger.Printf("skip light %s of %s: %v", light, img.FileName, err)
				continue
			}

			for i, c := range candidates {
				if !usable[i] {
					continue
				}
				rw, rh := g.ratios(p, c.BBox)
				crop, ok := vision.ExpandAndCrop(frame, c.BBox, rw, rh)
				if !ok {
					continue
				}
				rec, err := g.save(p, req, img, light, c, priors[i], crop, seq)
				if err != nil {
					return nil, err
				}
				records = append(records, rec)
			}
		}
	}
	return records, nil
}

func (g *Generator) ratios(p Policy, box entity.BoundingBox) (float64, float64) {
	if r, ok := p.FixedRatio(); ok {
		return r, r
	}
	return g.curve.At(box.W), g.curve.At(box.H)
}

func (g *Generator) save(p Policy, req GenerateRequest, img entity.Image, light entity.LightSource, c Candidate, prior string, crop image.Image, seq *Sequence) (entity.CropRecord, error) {
	id := seq.Next()
	cropPath := filepath.Join(req.CropDir, p.CropName(fileStem(img.FileName), light, c, prior, id))
	if err := g.store.Write(cropPath, crop); err != nil {
		return entity.CropRecord{}, fmt.Errorf("failed to write crop: %w", err)
	}

	original, err := g.layout.Rel(FramePath(req.FrameDir, light, img.FileName))
	if err != nil {
		return entity.CropRecord{}, err
	}
	cropRel, err := g.layout.Rel(cropPath)
	if err != nil {
		return entity.CropRecord{}, err
	}

	return entity.CropRecord{
		ID:                id,
		OriginalImagePath: original,
		CropImagePath:     cropRel,
		BBox:              c.BBox,
		Label:             c.Label,
		PriorLabel:        prior,
		LightSource:       light,
		SampleType:        p.SampleType(),
	}, nil
}

func fileStem(name string) string {
	base := filepath.Base(filepath.FromSlash(name))
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// GenerationService прогон генератора для одного датасета и сплита.
type GenerationService struct {
	datasets  port.DatasetRepository
	metadata  port.MetadataRepository
	generator *Generator
	settings  Settings
	logger    *log.Logger
}

// NewGenerationService создаёт сервис генерации фрагментов.
func NewGenerationService(datasets port.DatasetRepository, metadata port.MetadataRepository, generator *Generator, s Settings, logger *log.Logger) *GenerationService {
	if logger == nil {
		logger = log.Default()
	}
	return &GenerationService{
		datasets:  datasets,
		metadata:  metadata,
		generator: generator,
		settings:  s,
		logger:    logger,
	}
}

// GenerationSummary итог прогона.
type GenerationSummary struct {
	SampleType entity.SampleType
	Records    int
	LabelsPath string
}

// Run загружает разметку, нарезает фрагменты и пишет метаданные одним JSON-массивом.
// Генератор случайных чисел засевается заново на каждый сплит.
func (s *GenerationService) Run(ctx context.Context, dataset, split string, t entity.SampleType) (*GenerationSummary, error) {
	layout := s.settings.Layout
	ds, err := s.datasets.Load(ctx, layout.COCOPath(dataset, split))
	if err != nil {
		return nil, err
	}
	idx := entity.NewDatasetIndex(ds)

	rng := NewRand(s.settings.Seed)
	policy, err := NewPolicy(t, idx, s.settings, rng)
	if err != nil {
		return nil, err
	}

	req := GenerateRequest{
		FrameDir: layout.FrameDir(dataset),
		CropDir:  layout.CropImageDir(dataset, t, split),
	}
	s.logger.Printf("generating %s samples for %s/%s from %d images", t, dataset, split, len(policy.Images(idx)))
	records, err := s.generator.Generate(ctx, idx, policy, req, rng, NewSequence(0))
	if err != nil {
		return nil, err
	}

	out := layout.CropLabelPath(dataset, t, split)
	if err := s.metadata.SaveCrops(ctx, out, records); err != nil {
		return nil, fmt.Errorf("failed to save crop metadata: %w", err)
	}
	s.logger.Printf("saved %d %s records to %s", len(records), t, out)
	return &GenerationSummary{SampleType: t, Records: len(records), LabelsPath: out}, nil
}
