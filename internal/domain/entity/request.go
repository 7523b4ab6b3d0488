package entity

import "fmt"

// Turn реплика диалога в запросе к модели.
type Turn struct {
	From  string `json:"from"`
	Value string `json:"value"`
}

// MetaInfo служебные поля запроса, которые модель не видит.
type MetaInfo struct {
	Label      string      `json:"label"`
	PriorLabel string      `json:"prior_label"`
	SampleType SampleType  `json:"sample_type"`
	BBox       BoundingBox `json:"bbox"`
	FailReason string      `json:"fail_reason,omitempty"`

	// поля тестовой выборки: исходный id и файл, из которого взят запрос
	OriginID     *int64 `json:"origin_id,omitempty"`
	OriginSource string `json:"origin_source,omitempty"`
}

// RequestRecord строка JSONL с запросом к модели. После ответа API
// вторая реплика содержит текст модели.
type RequestRecord struct {
	ID           int64    `json:"id"`
	Image        []string `json:"image"`
	Conversation []Turn   `json:"conversation"`
	MetaInfo     MetaInfo `json:"meta_info"`
}

// Reply возвращает ответ ассистента или пустую строку.
func (r RequestRecord) Reply() string {
	if len(r.Conversation) < 2 {
		return ""
	}
	return r.Conversation[1].Value
}

// SampledRecord запрос тестовой выборки. id строковый: префикс источника
// и исходный id, чтобы выборки из разных файлов не пересекались.
type SampledRecord struct {
	ID           string   `json:"id"`
	Image        []string `json:"image"`
	Conversation []Turn   `json:"conversation"`
	MetaInfo     MetaInfo `json:"meta_info"`
}

// NewSampledRecord переименовывает запрос в prefix_<id> и запоминает происхождение.
func NewSampledRecord(r RequestRecord, prefix, source string) SampledRecord {
	id := r.ID
	meta := r.MetaInfo
	meta.OriginID = &id
	meta.OriginSource = source
	return SampledRecord{
		ID:           fmt.Sprintf("%s_%d", prefix, r.ID),
		Image:        r.Image,
		Conversation: r.Conversation,
		MetaInfo:     meta,
	}
}
