package app

import (
	"image"
	"math/rand/v2"

	"defect-vlm/internal/domain/entity"
)

const (
	defaultNegativeSide = 100
	minNegativeSide     = 10
	minSizeScale        = 0.8
	maxSizeScale        = 1.2
)

// NegativeSampler подбирает фоновые области, не пересекающиеся с разметкой.
// Размеры берутся из эмпирического распределения реальных дефектов.
type NegativeSampler struct {
	MaxTrials int
	Sizes     [][2]float64
}

// NewNegativeSampler ограничивает пул размеров limit элементами,
// выбирая их без повторений.
func NewNegativeSampler(sizes [][2]float64, limit, maxTrials int, rng *rand.Rand) *NegativeSampler {
	pool := sizes
	if limit > 0 && len(sizes) > limit {
		pool = make([][2]float64, limit)
		for i, j := range rng.Perm(len(sizes))[:limit] {
			pool[i] = sizes[j]
		}
	}
	return &NegativeSampler{MaxTrials: maxTrials, Sizes: pool}
}

// Sample возвращает область внутри кадра frame, у которой IoU со всеми
// областями avoid равен нулю. false, если за MaxTrials попыток место не нашлось.
func (s *NegativeSampler) Sample(rng *rand.Rand, frame image.Point, avoid []entity.BoundingBox) (entity.BoundingBox, bool) {
	imgW, imgH := frame.X, frame.Y

	for trial := 0; trial < s.MaxTrials; trial++ {
		baseW, baseH := float64(defaultNegativeSide), float64(defaultNegativeSide)
		if len(s.Sizes) > 0 {
			ref := s.Sizes[rng.IntN(len(s.Sizes))]
			baseW, baseH = ref[0], ref[1]
		}

		scale := minSizeScale + rng.Float64()*(maxSizeScale-minSizeScale)
		w := max(minNegativeSide, min(int(baseW*scale), imgW-1))
		h := max(minNegativeSide, min(int(baseH*scale), imgH-1))
		if imgW-w <= 0 || imgH-h <= 0 {
			continue
		}

		candidate := entity.BoundingBox{
			X: float64(rng.IntN(imgW - w + 1)),
			Y: float64(rng.IntN(imgH - h + 1)),
			W: float64(w),
			H: float64(h),
		}
		if !overlapsAny(candidate, avoid) {
			return candidate, true
		}
	}
	return entity.BoundingBox{}, false
}

func overlapsAny(b entity.BoundingBox, boxes []entity.BoundingBox) bool {
	for _, gt := range boxes {
		if entity.IoU(b, gt) > 0 {
			return true
		}
	}
	return false
}
