package app

import (
	"fmt"
	"path/filepath"
	"strings"

	"defect-vlm/internal/domain/entity"
)

// Layout раскладка каталогов датасета относительно корня.
type Layout struct {
	DataRoot     string
	RawDir       string
	BBoxDir      string
	CompositeDir string
}

// COCOPath файл разметки сплита.
func (l Layout) COCOPath(dataset, split string) string {
	return filepath.Join(l.DataRoot, l.RawDir, dataset, "labels", split+".json")
}

// FrameDir каталог с подкаталогами источников света.
func (l Layout) FrameDir(dataset string) string {
	return filepath.Join(l.DataRoot, l.RawDir, dataset, "images")
}

func (l Layout) cropRoot(dataset string, t entity.SampleType) string {
	return filepath.Join(l.DataRoot, l.BBoxDir, dataset+"_gt_"+string(t))
}

// CropImageDir каталог вырезанных фрагментов.
func (l Layout) CropImageDir(dataset string, t entity.SampleType, split string) string {
	return filepath.Join(l.cropRoot(dataset, t), "images", split)
}

// CropLabelPath файл метаданных фрагментов.
func (l Layout) CropLabelPath(dataset string, t entity.SampleType, split string) string {
	return filepath.Join(l.cropRoot(dataset, t), "labels", split+".json")
}

// CompositeImageDir каталог мозаик проекта.
func (l Layout) CompositeImageDir(project, split string) string {
	return filepath.Join(l.DataRoot, l.CompositeDir, project, "images", split)
}

// CompositeLabelPath файл метаданных мозаик.
func (l Layout) CompositeLabelPath(project, split string) string {
	return filepath.Join(l.DataRoot, l.CompositeDir, project, "labels", split+".json")
}

// Rel переводит путь в относительный от корня датасета со слешами.
func (l Layout) Rel(path string) (string, error) {
	rel, err := filepath.Rel(l.DataRoot, path)
	if err != nil {
		return "", err
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%s is outside data root %s", path, l.DataRoot)
	}
	return filepath.ToSlash(rel), nil
}

// Abs переводит путь из метаданных в путь на диске. Абсолютные пути не меняются.
func (l Layout) Abs(rel string) string {
	p := filepath.FromSlash(rel)
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(l.DataRoot, p)
}

// InferProject выводит имя проекта из пути к метаданным фрагментов:
// сегмент с "_gt_", иначе сегмент перед "labels".
func InferProject(path string) string {
	parts := strings.Split(filepath.ToSlash(filepath.Clean(path)), "/")
	for _, p := range parts {
		if strings.Contains(p, "_gt_") {
			return p
		}
	}
	for i, p := range parts {
		if p == "labels" && i > 0 {
			return parts[i-1]
		}
	}
	return "default_project"
}
