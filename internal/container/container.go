package container

import (
	"fmt"
	"log"

	"defect-vlm/config"
	app "defect-vlm/internal/application"
	"defect-vlm/internal/domain/entity"
	"defect-vlm/internal/domain/port"
	"defect-vlm/internal/infrastructure/vision"
)

// Repositories хранилища, на которых работают сервисы.
type Repositories struct {
	Images    port.ImageStore
	Datasets  port.DatasetRepository
	Metadata  port.MetadataRepository
	Prompts   port.PromptRepository
	Responses port.ResponseRepository
}

type Container struct {
	Settings          app.Settings
	GenerationService *app.GenerationService
	CompositeService  *app.CompositeService
	RequestService    *app.RequestService
	ResponseService   *app.ResponseService
	TestSetService    *app.TestSetService
}

// NewSettings переводит конфигурацию в параметры прогона.
func NewSettings(cfg *config.Config) (app.Settings, error) {
	lights, err := entity.NewLightOrder(cfg.Lights)
	if err != nil {
		return app.Settings{}, fmt.Errorf("invalid light sources: %w", err)
	}
	curve, err := vision.NewRatioCurve(cfg.Anchors())
	if err != nil {
		return app.Settings{}, fmt.Errorf("invalid ratio anchors: %w", err)
	}
	return app.Settings{
		Layout: app.Layout{
			DataRoot:     cfg.DataRoot,
			RawDir:       cfg.RawDir,
			BBoxDir:      cfg.BBoxDir,
			CompositeDir: cfg.CompositeDir,
		},
		Lights:          lights,
		Labels:          cfg.Labels,
		Seed:            cfg.Seed,
		SamplesPerImage: cfg.SamplesPerImage,
		MaxTrials:       cfg.MaxTrials,
		SizePool:        cfg.SizePool,
		FixedRatio:      cfg.FixedRatio,
		Curve:           curve,
		Canvas:          cfg.Canvas,
		StartID:         cfg.StartID,
	}, nil
}

func New(s app.Settings, repos Repositories, logger *log.Logger) *Container {
	generator := app.NewGenerator(repos.Images, s, logger)
	compositor := app.NewCompositor(repos.Images, s, logger)

	return &Container{
		Settings:          s,
		GenerationService: app.NewGenerationService(repos.Datasets, repos.Metadata, generator, s, logger),
		CompositeService:  app.NewCompositeService(repos.Metadata, compositor, s, logger),
		RequestService:    app.NewRequestService(repos.Metadata, repos.Prompts, logger),
		ResponseService:   app.NewResponseService(repos.Responses, app.NewResponseFilter(), logger),
		TestSetService:    app.NewTestSetService(repos.Responses, s.Seed, logger),
	}
}
