package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"slices"
	"sort"
	"strings"

	"github.com/goccy/go-json"

	"defect-vlm/internal/domain/entity"
	"defect-vlm/internal/domain/port"
)

var (
	ErrAPIFailure    = errors.New("api call failed")
	ErrReplyNotJSON  = errors.New("reply is not a JSON object")
	ErrReplyKeys     = errors.New("reply keys do not match")
	ErrReplyCategory = errors.New("reply defect is not accepted")
)

// ReplyKeys обязательные поля ответа модели.
var ReplyKeys = []string{"defect", "step1", "step2", "step3"}

// AcceptedDefects допустимые значения поля defect.
var AcceptedDefects = []string{"breakage", "inclusion", "crater", "bulge", "scratch", "run", "None"}

// ResponseFilter проверяет ответы модели на соответствие формату.
type ResponseFilter struct {
	keys    []string
	defects []string
}

// NewResponseFilter создаёт фильтр с форматом по умолчанию.
func NewResponseFilter() *ResponseFilter {
	keys := slices.Clone(ReplyKeys)
	sort.Strings(keys)
	return &ResponseFilter{keys: keys, defects: AcceptedDefects}
}

// Check возвращает причину отказа или nil.
func (f *ResponseFilter) Check(rec entity.RequestRecord) error {
	reply := rec.Reply()
	if strings.HasPrefix(reply, "ERROR") {
		return fmt.Errorf("%w: %s", ErrAPIFailure, reply)
	}

	var parsed map[string]any
	if err := json.Unmarshal([]byte(reply), &parsed); err != nil || parsed == nil {
		return ErrReplyNotJSON
	}

	keys := make([]string, 0, len(parsed))
	for k := range parsed {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	if !slices.Equal(keys, f.keys) {
		return fmt.Errorf("%w: got %v", ErrReplyKeys, keys)
	}

	defect, _ := parsed["defect"].(string)
	if !slices.Contains(f.defects, defect) {
		return fmt.Errorf("%w: %v", ErrReplyCategory, parsed["defect"])
	}
	return nil
}

// ResponseService чистит и оценивает ответы модели.
type ResponseService struct {
	responses port.ResponseRepository
	filter    *ResponseFilter
	logger    *log.Logger
}

// NewResponseService создаёт сервис ответов.
func NewResponseService(responses port.ResponseRepository, filter *ResponseFilter, logger *log.Logger) *ResponseService {
	if logger == nil {
		logger = log.Default()
	}
	if filter == nil {
		filter = NewResponseFilter()
	}
	return &ResponseService{responses: responses, filter: filter, logger: logger}
}

// Split раскладывает ответы на годные (дописываются в goodPath) и требующие
// повторного запроса (retryPath перезаписывается). У отбракованных
// записей заполняется meta_info.fail_reason.
func (s *ResponseService) Split(ctx context.Context, input, goodPath, retryPath string) (good, bad int, err error) {
	var goodRecs, badRecs []entity.RequestRecord
	err = s.responses.ScanResponses(ctx, input, func(rec entity.RequestRecord) error {
		if reason := s.filter.Check(rec); reason != nil {
			rec.MetaInfo.FailReason = reason.Error()
			badRecs = append(badRecs, rec)
			return nil
		}
		goodRecs = append(goodRecs, rec)
		return nil
	})
	if err != nil {
		return 0, 0, err
	}

	if err := s.responses.WriteResponses(ctx, goodPath, goodRecs, true); err != nil {
		return 0, 0, err
	}
	if err := s.responses.WriteResponses(ctx, retryPath, badRecs, false); err != nil {
		return 0, 0, err
	}
	s.logger.Printf("responses: %d good -> %s, %d bad -> %s", len(goodRecs), goodPath, len(badRecs), retryPath)
	return len(goodRecs), len(badRecs), nil
}

// Score считает метрики по файлу ответов. Неразборчивые ответы пропускаются.
func (s *ResponseService) Score(ctx context.Context, input string) (*Score, error) {
	var truth, pred []string
	err := s.responses.ScanResponses(ctx, input, func(rec entity.RequestRecord) error {
		p, err := PredictedDefect(rec)
		if err != nil {
			s.logger.Printf("skip response %d: %v", rec.ID, err)
			return nil
		}
		truth = append(truth, strings.ToLower(rec.MetaInfo.Label))
		pred = append(pred, p)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ScorePredictions(truth, pred, ScoreClasses)
}

// PredictedDefect достаёт класс из ответа модели в нижнем регистре.
// Ответ "None" означает фон.
func PredictedDefect(rec entity.RequestRecord) (string, error) {
	var reply struct {
		Defect *string `json:"defect"`
	}
	if err := json.Unmarshal([]byte(rec.Reply()), &reply); err != nil {
		return "", fmt.Errorf("%w: %v", ErrReplyNotJSON, err)
	}
	if reply.Defect == nil {
		return "", fmt.Errorf("%w: no defect field", ErrReplyKeys)
	}
	d := strings.ToLower(*reply.Defect)
	if d == "none" {
		d = entity.BackgroundLabel
	}
	return d, nil
}
