package app

import (
	"image"
	"slices"
	"testing"

	"github.com/stretchr/testify/require"

	"defect-vlm/internal/domain/entity"
)

func TestNewPolicy(t *testing.T) {
	s := testSettings("/data")
	idx := entity.NewDatasetIndex(scratchDataset())

	tests := []struct {
		t            entity.SampleType
		allOrNothing bool
		fixed        bool
	}{
		{entity.SamplePositive, false, false},
		{entity.SampleNegative, true, true},
		{entity.SampleRectification, true, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.t), func(t *testing.T) {
			p, err := NewPolicy(tt.t, idx, s, NewRand(1))
			require.NoError(t, err)
			require.Equal(t, tt.t, p.SampleType())
			require.Equal(t, tt.allOrNothing, p.AllOrNothing())
			r, fixed := p.FixedRatio()
			require.Equal(t, tt.fixed, fixed)
			if fixed {
				require.InDelta(t, 0.4, r, 1e-9)
			}
		})
	}

	_, err := NewPolicy("mixed", idx, s, NewRand(1))
	require.Error(t, err)
}

func TestNewPolicy_TooFewLabels(t *testing.T) {
	ds := scratchDataset()
	ds.Categories = []entity.Category{{ID: 1, Name: "scratch"}, {ID: 3, Name: "Background"}}
	idx := entity.NewDatasetIndex(ds)

	_, err := NewPolicy(entity.SampleRectification, idx, testSettings("/data"), NewRand(1))
	require.ErrorIs(t, err, ErrTooFewLabels)

	s := testSettings("/data")
	s.Labels = nil
	_, err = NewPolicy(entity.SampleNegative, idx, s, NewRand(1))
	require.ErrorIs(t, err, ErrTooFewLabels)
}

func TestRectificationPolicy_PriorNeverMatchesLabel(t *testing.T) {
	labels := []string{"breakage", "inclusion", "crater", "scratch"}
	p := rectificationPolicy{labels: labels}
	rng := NewRand(9)

	for i := 0; i < 200; i++ {
		prior, ok := p.PriorLabel(Candidate{Label: "crater"}, rng)
		require.True(t, ok)
		require.NotEqual(t, "crater", prior)
		require.Contains(t, labels, prior)
	}

	_, ok := rectificationPolicy{labels: []string{"crater"}}.PriorLabel(Candidate{Label: "crater"}, rng)
	require.False(t, ok)
}

func TestNegativePolicy_Candidates(t *testing.T) {
	s := testSettings("/data")
	s.SamplesPerImage = 3
	ds := scratchDataset()
	idx := entity.NewDatasetIndex(ds)
	rng := NewRand(2)
	p, err := NewPolicy(entity.SampleNegative, idx, s, rng)
	require.NoError(t, err)

	// кадры без разметки тоже идут в обход
	require.Len(t, p.Images(idx), 1)

	cands := slices.Collect(p.Candidates(idx, ds.Images[0], image.Pt(400, 300), rng))
	require.Len(t, cands, 3)
	for _, c := range cands {
		require.Equal(t, entity.BackgroundLabel, c.Label)
		require.Zero(t, entity.IoU(c.BBox, ds.Annotations[0].BBox))
	}
}
