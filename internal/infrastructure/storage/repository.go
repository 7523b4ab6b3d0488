package storage

import (
	"context"
	"fmt"
	"log"

	"defect-vlm/internal/domain/entity"
	"defect-vlm/internal/domain/port"
)

// JSONRepository хранит разметку и метаданные в JSON-файлах
type JSONRepository struct {
	logger *log.Logger
}

// NewJSONRepository создаёт файловый репозиторий
func NewJSONRepository(logger *log.Logger) *JSONRepository {
	if logger == nil {
		logger = log.Default()
	}
	return &JSONRepository{logger: logger}
}

// Load читает COCO-разметку. Аннотации с неположительной стороной отбрасываются.
func (r *JSONRepository) Load(ctx context.Context, path string) (*entity.Dataset, error) {
	ds, err := ReadJSON[entity.Dataset](path)
	if err != nil {
		return nil, fmt.Errorf("failed to load coco file: %w", err)
	}

	kept := ds.Annotations[:0]
	for _, ann := range ds.Annotations {
		if !ann.BBox.Valid() {
			r.logger.Printf("drop annotation %d: degenerate bbox %v", ann.ID, ann.BBox)
			continue
		}
		kept = append(kept, ann)
	}
	ds.Annotations = kept
	return &ds, nil
}

func (r *JSONRepository) LoadCrops(ctx context.Context, path string) ([]entity.CropRecord, error) {
	return ReadJSON[[]entity.CropRecord](path)
}

func (r *JSONRepository) SaveCrops(ctx context.Context, path string, records []entity.CropRecord) error {
	if records == nil {
		records = []entity.CropRecord{}
	}
	return WriteJSON(path, records)
}

func (r *JSONRepository) LoadComposites(ctx context.Context, path string) ([]entity.CompositeSample, error) {
	return ReadJSON[[]entity.CompositeSample](path)
}

func (r *JSONRepository) SaveComposites(ctx context.Context, path string, samples []entity.CompositeSample) error {
	if samples == nil {
		samples = []entity.CompositeSample{}
	}
	return WriteJSON(path, samples)
}

func (r *JSONRepository) SaveRequests(ctx context.Context, path string, records []entity.RequestRecord) error {
	return WriteLines(path, records, false)
}

type promptEntry struct {
	PromptText string `json:"prompt_text"`
}

// LoadPrompt читает шаблон из файла вида {"prompt1": {"prompt_text": "..."}}.
func (r *JSONRepository) LoadPrompt(ctx context.Context, path string, idx int) (string, error) {
	prompts, err := ReadJSON[map[string]promptEntry](path)
	if err != nil {
		return "", err
	}
	key := fmt.Sprintf("prompt%d", idx)
	p, ok := prompts[key]
	if !ok {
		return "", fmt.Errorf("prompt %q not found in %s", key, path)
	}
	return p.PromptText, nil
}

func (r *JSONRepository) ScanResponses(ctx context.Context, path string, fn func(entity.RequestRecord) error) error {
	return ScanLines(path, func(rec entity.RequestRecord) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		return fn(rec)
	}, func(line int, err error) {
		r.logger.Printf("skip line %d of %s: %v", line, path, err)
	})
}

func (r *JSONRepository) WriteResponses(ctx context.Context, path string, records []entity.RequestRecord, appendMode bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return WriteLines(path, records, appendMode)
}

func (r *JSONRepository) WriteSampled(ctx context.Context, path string, records []entity.SampledRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return WriteLines(path, records, false)
}

// Проверка реализации интерфейсов
var (
	_ port.DatasetRepository  = (*JSONRepository)(nil)
	_ port.MetadataRepository = (*JSONRepository)(nil)
	_ port.PromptRepository   = (*JSONRepository)(nil)
	_ port.ResponseRepository = (*JSONRepository)(nil)
)
