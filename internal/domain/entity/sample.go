package entity

import "fmt"

// SampleType тип обучающего примера.
type SampleType string

const (
	SamplePositive      SampleType = "positive"      // настоящий дефект, подсказка совпадает с меткой
	SampleNegative      SampleType = "negative"      // фон, подсказка ложная
	SampleRectification SampleType = "rectification" // дефект с заведомо неверной подсказкой
)

// BackgroundLabel метка для фоновых областей.
const BackgroundLabel = "background"

// ParseSampleType разбирает название типа.
func ParseSampleType(s string) (SampleType, error) {
	switch t := SampleType(s); t {
	case SamplePositive, SampleNegative, SampleRectification:
		return t, nil
	default:
		return "", fmt.Errorf("unknown sample type %q", s)
	}
}
