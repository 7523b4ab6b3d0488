package main

import (
	"context"
	"log"
	"os"
	"os/signal"

	"defect-vlm/config"
	cli "defect-vlm/internal/api"
	"defect-vlm/internal/container"
	"defect-vlm/internal/infrastructure/storage"
	"defect-vlm/internal/infrastructure/vision"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := log.Default()

	build := func(cfg *config.Config) (*container.Container, error) {
		settings, err := container.NewSettings(cfg)
		if err != nil {
			return nil, err
		}

		// Метаданные в JSON, кадры и мозаики на диске
		repo := storage.NewJSONRepository(logger)
		repos := container.Repositories{
			Images:    vision.NewFileStore(),
			Datasets:  repo,
			Metadata:  repo,
			Prompts:   repo,
			Responses: repo,
		}
		return container.New(settings, repos, logger), nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := cli.NewRootCommand(cfg, build).ExecuteContext(ctx); err != nil {
		stop()
		log.Fatalf("Error: %v", err)
	}
}
