package app

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"defect-vlm/internal/domain/entity"
	"defect-vlm/internal/domain/port"
)

// PriorPlaceholder место подсказки в шаблоне промпта.
const PriorPlaceholder = "{}"

// BuildRequests превращает мозаики в запросы к модели. Пути к мозаикам
// берутся относительно root, ведущий слеш отбрасывается.
func BuildRequests(samples []entity.CompositeSample, template, root string) []entity.RequestRecord {
	out := make([]entity.RequestRecord, 0, len(samples))
	for _, s := range samples {
		out = append(out, entity.RequestRecord{
			ID: s.ID,
			Image: []string{
				joinRoot(root, s.CompositeGlobalPath),
				joinRoot(root, s.CompositeLocalPath),
			},
			Conversation: []entity.Turn{
				{From: "human", Value: strings.ReplaceAll(template, PriorPlaceholder, s.PriorLabel)},
				{From: "assistant", Value: ""},
			},
			MetaInfo: entity.MetaInfo{
				Label:      s.Label,
				PriorLabel: s.PriorLabel,
				SampleType: s.SampleType,
				BBox:       s.BBox,
			},
		})
	}
	return out
}

func joinRoot(root, rel string) string {
	rel = strings.TrimLeft(rel, "/")
	return filepath.ToSlash(filepath.Join(root, filepath.FromSlash(rel)))
}

// RequestService строит JSONL-файл запросов из метаданных мозаик.
type RequestService struct {
	metadata port.MetadataRepository
	prompts  port.PromptRepository
	logger   *log.Logger
}

// NewRequestService создаёт сервис запросов.
func NewRequestService(metadata port.MetadataRepository, prompts port.PromptRepository, logger *log.Logger) *RequestService {
	if logger == nil {
		logger = log.Default()
	}
	return &RequestService{metadata: metadata, prompts: prompts, logger: logger}
}

// RequestJob параметры сборки запросов.
type RequestJob struct {
	Input       string // метаданные мозаик
	PromptsPath string
	PromptIdx   int
	Output      string
	Root        string // корень, к которому приписываются пути мозаик
}

// Run собирает запросы и возвращает их количество.
func (s *RequestService) Run(ctx context.Context, job RequestJob) (int, error) {
	samples, err := s.metadata.LoadComposites(ctx, job.Input)
	if err != nil {
		return 0, fmt.Errorf("failed to load composite metadata: %w", err)
	}
	template, err := s.prompts.LoadPrompt(ctx, job.PromptsPath, job.PromptIdx)
	if err != nil {
		return 0, err
	}

	records := BuildRequests(samples, template, job.Root)
	if err := s.metadata.SaveRequests(ctx, job.Output, records); err != nil {
		return 0, fmt.Errorf("failed to save requests: %w", err)
	}
	s.logger.Printf("wrote %d requests to %s", len(records), job.Output)
	return len(records), nil
}
