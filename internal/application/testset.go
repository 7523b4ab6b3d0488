package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"strconv"
	"strings"

	"defect-vlm/internal/domain/entity"
	"defect-vlm/internal/domain/port"
)

var ErrSampleSource = errors.New("invalid sample source")

// SampleSource файл запросов, сколько из него взять и префикс id.
type SampleSource struct {
	Path   string
	Count  int
	Prefix string
}

// ParseSampleSource разбирает "prefix:count:path". Путь идёт последним
// и может содержать двоеточия.
func ParseSampleSource(s string) (SampleSource, error) {
	parts := strings.SplitN(s, ":", 3)
	if len(parts) != 3 || parts[0] == "" || parts[2] == "" {
		return SampleSource{}, fmt.Errorf("%w: %q, want prefix:count:path", ErrSampleSource, s)
	}
	n, err := strconv.Atoi(parts[1])
	if err != nil || n < 0 {
		return SampleSource{}, fmt.Errorf("%w: bad count in %q", ErrSampleSource, s)
	}
	return SampleSource{Prefix: parts[0], Count: n, Path: parts[2]}, nil
}

// TestSetService собирает тестовую выборку из нескольких файлов запросов.
type TestSetService struct {
	responses port.ResponseRepository
	seed      uint64
	logger    *log.Logger
}

// NewTestSetService создаёт сервис выборки.
func NewTestSetService(responses port.ResponseRepository, seed uint64, logger *log.Logger) *TestSetService {
	if logger == nil {
		logger = log.Default()
	}
	return &TestSetService{responses: responses, seed: seed, logger: logger}
}

// Sample берёт из каждого источника Count случайных запросов без повторов
// (или все, если их меньше), перемешивает итог и перезаписывает output.
func (s *TestSetService) Sample(ctx context.Context, sources []SampleSource, output string) (int, error) {
	if len(sources) == 0 {
		return 0, fmt.Errorf("%w: no sources", ErrSampleSource)
	}

	rng := NewRand(s.seed)
	var out []entity.SampledRecord
	for _, src := range sources {
		var all []entity.RequestRecord
		err := s.responses.ScanResponses(ctx, src.Path, func(r entity.RequestRecord) error {
			all = append(all, r)
			return nil
		})
		if err != nil {
			return 0, fmt.Errorf("failed to read %s: %w", src.Path, err)
		}

		picked := all
		if len(all) < src.Count {
			s.logger.Printf("%s has %d records, fewer than %d requested: taking all", src.Path, len(all), src.Count)
		} else {
			picked = make([]entity.RequestRecord, src.Count)
			for i, j := range rng.Perm(len(all))[:src.Count] {
				picked[i] = all[j]
			}
		}

		name := filepath.Base(src.Path)
		for _, r := range picked {
			out = append(out, entity.NewSampledRecord(r, src.Prefix, name))
		}
		s.logger.Printf("sampled %d of %d from %s (prefix %s)", len(picked), len(all), name, src.Prefix)
	}

	rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	if err := s.responses.WriteSampled(ctx, output, out); err != nil {
		return 0, fmt.Errorf("failed to save test set: %w", err)
	}
	return len(out), nil
}
