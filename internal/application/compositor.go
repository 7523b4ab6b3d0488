package app

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log"
	"path/filepath"
	"slices"

	"defect-vlm/internal/domain/entity"
	"defect-vlm/internal/domain/port"
	"defect-vlm/internal/infrastructure/vision"
)

var (
	// ErrIncompleteGroup в группе не по одной записи на каждый источник света.
	ErrIncompleteGroup = errors.New("sample group is incomplete")
	// ErrMissingPrior у негативного или исправляющего примера нет подсказки.
	ErrMissingPrior = errors.New("sample has no prior label")
)

// Group записи одного физического примера.
type Group struct {
	Key     entity.GroupKey
	Records []entity.CropRecord
}

// GroupRecords собирает записи по ключу в порядке первого появления.
// Записи, для которых ключ не строится, пропускаются с сообщением в лог.
func GroupRecords(records []entity.CropRecord, logger *log.Logger) []Group {
	if logger == nil {
		logger = log.Default()
	}
	var groups []Group
	pos := make(map[entity.GroupKey]int)
	for _, r := range records {
		key, err := entity.NewGroupKey(r)
		if err != nil {
			logger.Printf("skip record %d: %v", r.ID, err)
			continue
		}
		i, ok := pos[key]
		if !ok {
			i = len(groups)
			pos[key] = i
			groups = append(groups, Group{Key: key})
		}
		groups[i].Records = append(groups[i].Records, r)
	}
	return groups
}

// SortGroup проверяет группу и возвращает её записи в каноническом порядке источников.
func SortGroup(records []entity.CropRecord, lights entity.LightOrder) ([]entity.CropRecord, error) {
	if len(records) != len(lights) {
		return nil, fmt.Errorf("%w: %d of %d lights", ErrIncompleteGroup, len(records), len(lights))
	}
	for _, r := range records {
		if _, ok := lights.Index(r.LightSource); !ok {
			return nil, fmt.Errorf("%w: %s", entity.ErrUnknownLight, r.LightSource)
		}
	}

	sorted := slices.Clone(records)
	slices.SortStableFunc(sorted, func(a, b entity.CropRecord) int {
		ia, _ := lights.Index(a.LightSource)
		ib, _ := lights.Index(b.LightSource)
		return ia - ib
	})

	got := make([]entity.LightSource, len(sorted))
	for i, r := range sorted {
		got[i] = r.LightSource
	}
	if !lights.Matches(got) {
		return nil, fmt.Errorf("%w: %v", entity.ErrLightOrderMismatch, got)
	}
	return sorted, nil
}

// Compositor собирает из групп фрагментов пары мозаик 2x2.
type Compositor struct {
	store  port.ImageStore
	lights entity.LightOrder
	layout Layout
	canvas int
	logger *log.Logger
}

// NewCompositor создаёт сборщик мозаик.
func NewCompositor(store port.ImageStore, s Settings, logger *log.Logger) *Compositor {
	if logger == nil {
		logger = log.Default()
	}
	return &Compositor{
		store:  store,
		lights: s.Lights,
		layout: s.Layout,
		canvas: s.Canvas,
		logger: logger,
	}
}

// ComposeRequest куда писать мозаики и с какого идентификатора начинать.
type ComposeRequest struct {
	SampleType entity.SampleType // используется, если в записях тип не указан
	ImageDir   string
	StartID    int64
}

// Compose собирает по одной паре мозаик на каждую полную группу.
// Пропущенные группы идентификатор не расходуют.
func (c *Compositor) Compose(ctx context.Context, records []entity.CropRecord, req ComposeRequest) ([]entity.CompositeSample, error) {
	seq := NewSequence(req.StartID)
	var out []entity.CompositeSample

	for _, g := range GroupRecords(records, c.logger) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		items, err := SortGroup(g.Records, c.lights)
		if err != nil {
			c.logger.Printf("skip group %s: %v", g.Key, err)
			continue
		}

		sampleType, prior, err := groupHint(items[0], req.SampleType)
		if err != nil {
			c.logger.Printf("skip group %s: %v", g.Key, err)
			continue
		}

		sample, err := c.composeGroup(items, req.ImageDir, sampleType, prior, seq.Peek())
		if err != nil {
			return nil, err
		}
		seq.Next()
		out = append(out, sample)
	}
	return out, nil
}

// groupHint тип примера и подсказка группы. Подсказку из метки
// подставляет только позитивный пример.
func groupHint(base entity.CropRecord, fallback entity.SampleType) (entity.SampleType, string, error) {
	sampleType := base.SampleType
	if sampleType == "" {
		sampleType = fallback
	}
	if sampleType == entity.SamplePositive {
		return sampleType, base.Label, nil
	}
	if base.PriorLabel == "" {
		return "", "", fmt.Errorf("%w: %s record %d", ErrMissingPrior, sampleType, base.ID)
	}
	return sampleType, base.PriorLabel, nil
}

func (c *Compositor) composeGroup(items []entity.CropRecord, imageDir string, sampleType entity.SampleType, prior string, id int64) (entity.CompositeSample, error) {
	base := items[0]
	cell := c.canvas / 2

	globals := make([]image.Image, len(items))
	locals := make([]image.Image, len(items))
	origPaths := make([]string, len(items))
	cropPaths := make([]string, len(items))
	for i, it := range items {
		if orig := c.read(it.OriginalImagePath); orig != nil {
			globals[i] = vision.Letterbox(vision.DrawBox(orig, it.BBox, vision.BoxExpand, vision.BoxThickness, vision.BoxColor), cell)
		}
		if crop := c.read(it.CropImagePath); crop != nil {
			locals[i] = vision.Letterbox(crop, cell)
		}
		origPaths[i] = it.OriginalImagePath
		cropPaths[i] = it.CropImagePath
	}

	globalImg, err := vision.Mosaic(globals, c.canvas)
	if err != nil {
		return entity.CompositeSample{}, err
	}
	localImg, err := vision.Mosaic(locals, c.canvas)
	if err != nil {
		return entity.CompositeSample{}, err
	}

	globalPath := filepath.Join(imageDir, fmt.Sprintf("global_%d.png", id))
	localPath := filepath.Join(imageDir, fmt.Sprintf("local_%d.png", id))
	if err := c.store.Write(globalPath, globalImg); err != nil {
		return entity.CompositeSample{}, fmt.Errorf("failed to write mosaic: %w", err)
	}
	if err := c.store.Write(localPath, localImg); err != nil {
		return entity.CompositeSample{}, fmt.Errorf("failed to write mosaic: %w", err)
	}

	globalRel, err := c.layout.Rel(globalPath)
	if err != nil {
		return entity.CompositeSample{}, err
	}
	localRel, err := c.layout.Rel(localPath)
	if err != nil {
		return entity.CompositeSample{}, err
	}

	return entity.CompositeSample{
		ID:                  id,
		CompositeGlobalPath: globalRel,
		CompositeLocalPath:  localRel,
		BBox:                base.BBox,
		SampleType:          sampleType,
		Label:               base.Label,
		PriorLabel:          prior,
		LightSourceOrder:    c.lights.Strings(),
		OriginalImagePaths:  origPaths,
		OriginalCropPaths:   cropPaths,
	}, nil
}

// read возвращает nil, если кадр недоступен: в мозаике он станет чёрной ячейкой.
func (c *Compositor) read(rel string) image.Image {
	img, err := c.store.Read(c.layout.Abs(rel))
	if err != nil {
		c.logger.Printf("mosaic cell left black: %v", err)
		return nil
	}
	return img
}

// CompositeService прогон сборки мозаик для одного файла метаданных.
type CompositeService struct {
	metadata   port.MetadataRepository
	compositor *Compositor
	settings   Settings
	logger     *log.Logger
}

// NewCompositeService создаёт сервис сборки мозаик.
func NewCompositeService(metadata port.MetadataRepository, compositor *Compositor, s Settings, logger *log.Logger) *CompositeService {
	if logger == nil {
		logger = log.Default()
	}
	return &CompositeService{metadata: metadata, compositor: compositor, settings: s, logger: logger}
}

// CompositeSummary итог сборки.
type CompositeSummary struct {
	Project    string
	Samples    int
	LabelsPath string
	NextID     int64
}

// Run читает метаданные фрагментов, собирает мозаики и сохраняет их метаданные.
func (s *CompositeService) Run(ctx context.Context, input, split string, t entity.SampleType, startID int64) (*CompositeSummary, error) {
	records, err := s.metadata.LoadCrops(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to load crop metadata: %w", err)
	}

	layout := s.settings.Layout
	project := InferProject(input)
	samples, err := s.compositor.Compose(ctx, records, ComposeRequest{
		SampleType: t,
		ImageDir:   layout.CompositeImageDir(project, split),
		StartID:    startID,
	})
	if err != nil {
		return nil, err
	}

	out := layout.CompositeLabelPath(project, split)
	if err := s.metadata.SaveComposites(ctx, out, samples); err != nil {
		return nil, fmt.Errorf("failed to save composite metadata: %w", err)
	}
	s.logger.Printf("saved %d composite samples of %s to %s", len(samples), project, out)
	return &CompositeSummary{
		Project:    project,
		Samples:    len(samples),
		LabelsPath: out,
		NextID:     startID + int64(len(samples)),
	}, nil
}
