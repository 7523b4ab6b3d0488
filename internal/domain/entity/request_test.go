package entity

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/require"
)

func TestNewSampledRecord(t *testing.T) {
	r := RequestRecord{
		ID:    0,
		Image: []string{"g.png", "l.png"},
		Conversation: []Turn{
			{From: "human", Value: "q"},
			{From: "assistant", Value: "a"},
		},
		MetaInfo: MetaInfo{Label: "run", PriorLabel: "run", SampleType: SamplePositive},
	}

	s := NewSampledRecord(r, "pos", "val.jsonl")
	require.Equal(t, "pos_0", s.ID)
	require.NotNil(t, s.MetaInfo.OriginID)
	require.Equal(t, int64(0), *s.MetaInfo.OriginID)
	require.Equal(t, "val.jsonl", s.MetaInfo.OriginSource)
	require.Nil(t, r.MetaInfo.OriginID)

	data, err := json.Marshal(s)
	require.NoError(t, err)
	require.Contains(t, string(data), `"id":"pos_0"`)
	require.Contains(t, string(data), `"origin_id":0`)
}

func TestMetaInfo_OmitsOrigin(t *testing.T) {
	data, err := json.Marshal(MetaInfo{Label: "run"})
	require.NoError(t, err)
	require.NotContains(t, string(data), "origin_id")
	require.NotContains(t, string(data), "origin_source")
}
