package app

import (
	"defect-vlm/internal/domain/entity"
	"defect-vlm/internal/infrastructure/vision"
)

// Settings параметры прогона, собранные из конфигурации.
type Settings struct {
	Layout          Layout
	Lights          entity.LightOrder
	Labels          []string // словарь ложных подсказок для фона
	Seed            uint64
	SamplesPerImage int
	MaxTrials       int
	SizePool        int
	FixedRatio      float64
	Curve           *vision.RatioCurve
	Canvas          int
	StartID         int64
}
