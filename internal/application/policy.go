package app

import (
	"errors"
	"fmt"
	"image"
	"iter"
	"math/rand/v2"

	"defect-vlm/internal/domain/entity"
)

// ErrTooFewLabels словаря не хватает, чтобы выбрать ложную подсказку.
var ErrTooFewLabels = errors.New("not enough defect labels")

// Candidate физический пример до нарезки по источникам света.
type Candidate struct {
	Index int // номер внутри кадра
	BBox  entity.BoundingBox
	Label string
}

// Policy правила одного типа примеров. Выбирается один раз на прогон.
type Policy interface {
	SampleType() entity.SampleType

	// AllOrNothing требует, чтобы пример нарезался из всех источников сразу.
	AllOrNothing() bool

	// FixedRatio доля контекста, общая для обеих осей. false означает
	// динамическую долю по размеру стороны.
	FixedRatio() (float64, bool)

	// Images кадры, которые обходит генератор.
	Images(idx *entity.DatasetIndex) []entity.Image

	// Candidates примеры на кадре размером frame.
	Candidates(idx *entity.DatasetIndex, img entity.Image, frame image.Point, rng *rand.Rand) iter.Seq[Candidate]

	// PriorLabel подсказка для примера; выбирается один раз на пример.
	PriorLabel(c Candidate, rng *rand.Rand) (string, bool)

	// CropName имя файла фрагмента.
	CropName(stem string, light entity.LightSource, c Candidate, prior string, id int64) string
}

// NewPolicy выбирает правила для типа примеров.
func NewPolicy(t entity.SampleType, idx *entity.DatasetIndex, s Settings, rng *rand.Rand) (Policy, error) {
	switch t {
	case entity.SamplePositive:
		return positivePolicy{}, nil
	case entity.SampleNegative:
		if len(s.Labels) == 0 {
			return nil, fmt.Errorf("%w: negative samples need at least one prior label", ErrTooFewLabels)
		}
		return &negativePolicy{
			sampler: NewNegativeSampler(idx.DefectSizes(), s.SizePool, s.MaxTrials, rng),
			labels:  s.Labels,
			samples: s.SamplesPerImage,
			ratio:   s.FixedRatio,
		}, nil
	case entity.SampleRectification:
		names := idx.DefectNames()
		if len(names) < 2 {
			return nil, fmt.Errorf("%w: rectification needs at least 2 categories, got %d", ErrTooFewLabels, len(names))
		}
		return rectificationPolicy{labels: names}, nil
	default:
		return nil, fmt.Errorf("unknown sample type %q", t)
	}
}

func annotationCandidates(idx *entity.DatasetIndex, img entity.Image) iter.Seq[Candidate] {
	return func(yield func(Candidate) bool) {
		for i, ann := range idx.Annotations(img.ID) {
			c := Candidate{Index: i, BBox: ann.BBox, Label: idx.CategoryName(ann.CategoryID)}
			if !yield(c) {
				return
			}
		}
	}
}

// positivePolicy настоящие дефекты, подсказка равна метке.
type positivePolicy struct{}

func (positivePolicy) SampleType() entity.SampleType { return entity.SamplePositive }
func (positivePolicy) AllOrNothing() bool            { return false }
func (positivePolicy) FixedRatio() (float64, bool)   { return 0, false }

func (positivePolicy) Images(idx *entity.DatasetIndex) []entity.Image {
	return idx.AnnotatedImages()
}

func (positivePolicy) Candidates(idx *entity.DatasetIndex, img entity.Image, _ image.Point, _ *rand.Rand) iter.Seq[Candidate] {
	return annotationCandidates(idx, img)
}

func (positivePolicy) PriorLabel(c Candidate, _ *rand.Rand) (string, bool) {
	return c.Label, true
}

func (positivePolicy) CropName(stem string, light entity.LightSource, c Candidate, _ string, id int64) string {
	return fmt.Sprintf("%s_%s_%s_%d.png", stem, light, c.Label, id)
}

// negativePolicy случайные фоновые области с ложной подсказкой.
type negativePolicy struct {
	sampler *NegativeSampler
	labels  []string
	samples int
	ratio   float64
}

func (p *negativePolicy) SampleType() entity.SampleType { return entity.SampleNegative }
func (p *negativePolicy) AllOrNothing() bool            { return true }
func (p *negativePolicy) FixedRatio() (float64, bool)   { return p.ratio, true }

func (p *negativePolicy) Images(idx *entity.DatasetIndex) []entity.Image {
	return idx.Images()
}

func (p *negativePolicy) Candidates(idx *entity.DatasetIndex, img entity.Image, frame image.Point, rng *rand.Rand) iter.Seq[Candidate] {
	anns := idx.Annotations(img.ID)
	avoid := make([]entity.BoundingBox, len(anns))
	for i, ann := range anns {
		avoid[i] = ann.BBox
	}

	return func(yield func(Candidate) bool) {
		for i := 0; i < p.samples; i++ {
			box, ok := p.sampler.Sample(rng, frame, avoid)
			if !ok {
				continue
			}
			if !yield(Candidate{Index: i, BBox: box, Label: entity.BackgroundLabel}) {
				return
			}
		}
	}
}

func (p *negativePolicy) PriorLabel(_ Candidate, rng *rand.Rand) (string, bool) {
	return p.labels[rng.IntN(len(p.labels))], true
}

func (p *negativePolicy) CropName(stem string, light entity.LightSource, _ Candidate, _ string, id int64) string {
	return fmt.Sprintf("%s_%s_neg_%d.png", stem, light, id)
}

// rectificationPolicy настоящие дефекты с заведомо неверной подсказкой.
type rectificationPolicy struct {
	labels []string
}

func (rectificationPolicy) SampleType() entity.SampleType { return entity.SampleRectification }
func (rectificationPolicy) AllOrNothing() bool            { return true }
func (rectificationPolicy) FixedRatio() (float64, bool)   { return 0, false }

func (rectificationPolicy) Images(idx *entity.DatasetIndex) []entity.Image {
	return idx.AnnotatedImages()
}

func (rectificationPolicy) Candidates(idx *entity.DatasetIndex, img entity.Image, _ image.Point, _ *rand.Rand) iter.Seq[Candidate] {
	return annotationCandidates(idx, img)
}

func (p rectificationPolicy) PriorLabel(c Candidate, rng *rand.Rand) (string, bool) {
	fakes := make([]string, 0, len(p.labels))
	for _, l := range p.labels {
		if l != c.Label {
			fakes = append(fakes, l)
		}
	}
	if len(fakes) == 0 {
		return "", false
	}
	return fakes[rng.IntN(len(fakes))], true
}

func (rectificationPolicy) CropName(stem string, light entity.LightSource, c Candidate, prior string, id int64) string {
	return fmt.Sprintf("%s_%s_rect_%s_as_%s_%d.png", stem, light, c.Label, prior, id)
}
