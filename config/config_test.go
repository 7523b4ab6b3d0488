package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	require.Equal(t, []string{"16col", "16row", "32col", "32row"}, cfg.Lights)
	require.Equal(t, int64(1000001), cfg.StartID)
	require.Len(t, cfg.Anchors(), 2)
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"DEFECT_VLM_DATA_ROOT":   "/data",
		"DEFECT_VLM_LIGHTS":      "a, b ,c,d",
		"DEFECT_VLM_SEED":        "7",
		"DEFECT_VLM_CANVAS":      "300",
		"DEFECT_VLM_FIXED_RATIO": "0.25",
	}
	cfg := Default()
	require.NoError(t, cfg.applyEnv(func(k string) string { return env[k] }))

	require.Equal(t, "/data", cfg.DataRoot)
	require.Equal(t, []string{"a", "b", "c", "d"}, cfg.Lights)
	require.Equal(t, uint64(7), cfg.Seed)
	require.Equal(t, 300, cfg.Canvas)
	require.InDelta(t, 0.25, cfg.FixedRatio, 1e-9)
	require.Equal(t, "1_paint_rgb", cfg.RawDir)
}

func TestApplyEnv_BadNumber(t *testing.T) {
	cfg := Default()
	err := cfg.applyEnv(func(k string) string {
		if k == "DEFECT_VLM_MAX_TRIALS" {
			return "many"
		}
		return ""
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "DEFECT_VLM_MAX_TRIALS")
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	data := `
seed: 123
samples_per_image: 3
labels: [scratch, run]
ratio_anchors:
  - extent: 10
    ratio: 3
  - extent: 50
    ratio: 1
  - extent: 200
    ratio: 0.2
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg := Default()
	require.NoError(t, cfg.LoadFile(path))
	require.Equal(t, uint64(123), cfg.Seed)
	require.Equal(t, 3, cfg.SamplesPerImage)
	require.Equal(t, []string{"scratch", "run"}, cfg.Labels)
	require.Len(t, cfg.RatioAnchors, 3)
	require.Equal(t, "3_composite_images", cfg.CompositeDir)
	require.NoError(t, cfg.Validate())
}

func TestLoadFile_Missing(t *testing.T) {
	cfg := Default()
	require.Error(t, cfg.LoadFile(filepath.Join(t.TempDir(), "nope.yaml")))
}

func TestLoad_FromEnvAndFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte("canvas: 200\n"), 0o644))
	t.Setenv("DEFECT_VLM_SEED", "9")
	t.Setenv("DEFECT_VLM_CANVAS", "100")
	t.Setenv(EnvConfigFile, path)

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, uint64(9), cfg.Seed)
	require.Equal(t, 200, cfg.Canvas)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"three lights", func(c *Config) { c.Lights = c.Lights[:3] }, "lights"},
		{"duplicate light", func(c *Config) { c.Lights = []string{"a", "a", "b", "c"} }, "duplicate"},
		{"odd canvas", func(c *Config) { c.Canvas = 601 }, "canvas"},
		{"no trials", func(c *Config) { c.MaxTrials = 0 }, "max_trials"},
		{"negative samples", func(c *Config) { c.SamplesPerImage = -1 }, "samples_per_image"},
		{"negative size pool", func(c *Config) { c.SizePool = -1 }, "size_pool"},
		{"collapsing fixed ratio", func(c *Config) { c.FixedRatio = -1 }, "fixed_ratio"},
		{"decreasing anchors", func(c *Config) {
			c.RatioAnchors = []RatioAnchor{{Extent: 100, Ratio: 0.5}, {Extent: 20, Ratio: 2}}
		}, "ratio_anchors"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestValidate_Boundaries(t *testing.T) {
	cfg := Default()
	cfg.SizePool = 0
	cfg.FixedRatio = -0.5
	require.NoError(t, cfg.Validate())
}
