package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/joho/godotenv"

	"defect-vlm/internal/domain/entity"
	"defect-vlm/internal/infrastructure/vision"
)

// EnvConfigFile путь к необязательному YAML-файлу настроек.
const EnvConfigFile = "DEFECT_VLM_CONFIG"

// MosaicCells число ячеек мозаики 2x2, по одной на источник света.
const MosaicCells = 4

// RatioAnchor опорная точка кривой расширения в файле настроек.
type RatioAnchor struct {
	Extent float64 `yaml:"extent"`
	Ratio  float64 `yaml:"ratio"`
}

type Config struct {
	DataRoot        string        `yaml:"data_root"`
	RawDir          string        `yaml:"raw_dir"`
	BBoxDir         string        `yaml:"bbox_dir"`
	CompositeDir    string        `yaml:"composite_dir"`
	Lights          []string      `yaml:"lights"`
	Labels          []string      `yaml:"labels"`
	Seed            uint64        `yaml:"seed"`
	SamplesPerImage int           `yaml:"samples_per_image"`
	MaxTrials       int           `yaml:"max_trials"`
	SizePool        int           `yaml:"size_pool"`
	FixedRatio      float64       `yaml:"fixed_ratio"`
	Canvas          int           `yaml:"canvas"`
	StartID         int64         `yaml:"start_id"`
	RatioAnchors    []RatioAnchor `yaml:"ratio_anchors"`
}

// Default настройки по умолчанию для установки с четырьмя источниками.
func Default() *Config {
	anchors := make([]RatioAnchor, len(vision.DefaultAnchors))
	for i, a := range vision.DefaultAnchors {
		anchors[i] = RatioAnchor{Extent: a.Extent, Ratio: a.Ratio}
	}
	return &Config{
		DataRoot:        ".",
		RawDir:          "1_paint_rgb",
		BBoxDir:         "2_paint_bbox",
		CompositeDir:    "3_composite_images",
		Lights:          entity.DefaultLightOrder.Strings(),
		Labels:          []string{"breakage", "inclusion", "crater", "bulge", "run", "scratch"},
		Seed:            42,
		SamplesPerImage: 2,
		MaxTrials:       50,
		SizePool:        2000,
		FixedRatio:      0.4,
		Canvas:          600,
		StartID:         1000001,
		RatioAnchors:    anchors,
	}
}

func Load() (*Config, error) {
	// Загружаем .env файл (игнорируем ошибку если файла нет)
	_ = godotenv.Load()

	cfg := Default()
	if err := cfg.applyEnv(os.Getenv); err != nil {
		return nil, err
	}

	if path := os.Getenv(EnvConfigFile); path != "" {
		if err := cfg.LoadFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile накладывает значения из YAML-файла поверх текущих.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv(getenv func(string) string) error {
	str := func(key string, dst *string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}
	list := func(key string, dst *[]string) {
		if v := getenv(key); v != "" {
			*dst = splitList(v)
		}
	}

	str("DEFECT_VLM_DATA_ROOT", &c.DataRoot)
	str("DEFECT_VLM_RAW_DIR", &c.RawDir)
	str("DEFECT_VLM_BBOX_DIR", &c.BBoxDir)
	str("DEFECT_VLM_COMPOSITE_DIR", &c.CompositeDir)
	list("DEFECT_VLM_LIGHTS", &c.Lights)
	list("DEFECT_VLM_LABELS", &c.Labels)

	var errs []error
	parse := func(key string, fn func(string) error) {
		if v := getenv(key); v != "" {
			if err := fn(v); err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
			}
		}
	}
	parse("DEFECT_VLM_SEED", func(v string) (err error) {
		c.Seed, err = strconv.ParseUint(v, 10, 64)
		return err
	})
	parse("DEFECT_VLM_SAMPLES_PER_IMAGE", func(v string) (err error) {
		c.SamplesPerImage, err = strconv.Atoi(v)
		return err
	})
	parse("DEFECT_VLM_MAX_TRIALS", func(v string) (err error) {
		c.MaxTrials, err = strconv.Atoi(v)
		return err
	})
	parse("DEFECT_VLM_SIZE_POOL", func(v string) (err error) {
		c.SizePool, err = strconv.Atoi(v)
		return err
	})
	parse("DEFECT_VLM_FIXED_RATIO", func(v string) (err error) {
		c.FixedRatio, err = strconv.ParseFloat(v, 64)
		return err
	})
	parse("DEFECT_VLM_CANVAS", func(v string) (err error) {
		c.Canvas, err = strconv.Atoi(v)
		return err
	})
	parse("DEFECT_VLM_START_ID", func(v string) (err error) {
		c.StartID, err = strconv.ParseInt(v, 10, 64)
		return err
	})
	return errors.Join(errs...)
}

func splitList(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Validate проверяет согласованность настроек.
func (c *Config) Validate() error {
	var errs []error
	if len(c.Lights) != MosaicCells {
		errs = append(errs, fmt.Errorf("lights: need exactly %d light sources for a 2x2 mosaic, got %d", MosaicCells, len(c.Lights)))
	}
	if _, err := entity.NewLightOrder(c.Lights); err != nil {
		errs = append(errs, fmt.Errorf("lights: %w", err))
	}
	if c.Canvas < 2 || c.Canvas%2 != 0 {
		errs = append(errs, fmt.Errorf("canvas: must be even and at least 2, got %d", c.Canvas))
	}
	if c.MaxTrials < 1 {
		errs = append(errs, fmt.Errorf("max_trials: must be at least 1, got %d", c.MaxTrials))
	}
	if c.SamplesPerImage < 0 {
		errs = append(errs, fmt.Errorf("samples_per_image: must not be negative, got %d", c.SamplesPerImage))
	}
	if c.SizePool < 0 {
		errs = append(errs, fmt.Errorf("size_pool: must not be negative, got %d", c.SizePool))
	}
	if c.FixedRatio <= -1 {
		errs = append(errs, fmt.Errorf("fixed_ratio: must be greater than -1, got %g", c.FixedRatio))
	}
	if _, err := vision.NewRatioCurve(c.Anchors()); err != nil {
		errs = append(errs, fmt.Errorf("ratio_anchors: %w", err))
	}
	return errors.Join(errs...)
}

// Anchors опорные точки в виде, который понимает vision.NewRatioCurve.
func (c *Config) Anchors() []vision.Anchor {
	out := make([]vision.Anchor, len(c.RatioAnchors))
	for i, a := range c.RatioAnchors {
		out[i] = vision.Anchor{Extent: a.Extent, Ratio: a.Ratio}
	}
	return out
}
