package port

import (
	"context"

	"defect-vlm/internal/domain/entity"
)

// DatasetRepository интерфейс загрузки COCO-разметки
type DatasetRepository interface {
	// Load читает разметку из файла
	Load(ctx context.Context, path string) (*entity.Dataset, error)
}

// MetadataRepository интерфейс хранилища метаданных пайплайна
type MetadataRepository interface {
	LoadCrops(ctx context.Context, path string) ([]entity.CropRecord, error)
	SaveCrops(ctx context.Context, path string, records []entity.CropRecord) error

	LoadComposites(ctx context.Context, path string) ([]entity.CompositeSample, error)
	SaveComposites(ctx context.Context, path string, samples []entity.CompositeSample) error

	// SaveRequests пишет запросы построчно в JSONL
	SaveRequests(ctx context.Context, path string, records []entity.RequestRecord) error
}

// PromptRepository интерфейс библиотеки шаблонов промптов
type PromptRepository interface {
	// LoadPrompt возвращает текст шаблона prompt<idx>
	LoadPrompt(ctx context.Context, path string, idx int) (string, error)
}

// ResponseRepository интерфейс JSONL-файлов с ответами модели
type ResponseRepository interface {
	// ScanResponses вызывает fn для каждой разобранной строки файла
	ScanResponses(ctx context.Context, path string, fn func(entity.RequestRecord) error) error

	// WriteResponses пишет записи, дописывая в конец при appendMode
	WriteResponses(ctx context.Context, path string, records []entity.RequestRecord, appendMode bool) error

	// WriteSampled перезаписывает файл тестовой выборки
	WriteSampled(ctx context.Context, path string, records []entity.SampledRecord) error
}
