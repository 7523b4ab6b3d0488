package entity

import "strings"

// Dataset разметка в формате COCO.
type Dataset struct {
	Images      []Image      `json:"images"`
	Annotations []Annotation `json:"annotations"`
	Categories  []Category   `json:"categories"`
}

// Image кадр из разметки, имя файла общее для всех источников света.
type Image struct {
	ID       int64  `json:"id"`
	FileName string `json:"file_name"`
	Width    int    `json:"width,omitempty"`
	Height   int    `json:"height,omitempty"`
}

// Annotation размеченный дефект на кадре.
type Annotation struct {
	ID         int64       `json:"id"`
	ImageID    int64       `json:"image_id"`
	CategoryID int64       `json:"category_id"`
	BBox       BoundingBox `json:"bbox"`
}

// Category класс дефекта.
type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// UnknownCategory имя для аннотаций с неизвестным category_id.
const UnknownCategory = "unknown"

// DatasetIndex индексы по разметке. Порядок обхода повторяет порядок в файле.
type DatasetIndex struct {
	images     []Image
	all        []Annotation
	byID       map[int64]Image
	anns       map[int64][]Annotation
	annotated  []int64
	categories map[int64]string
	names      []string
}

// NewDatasetIndex строит индексы по разметке.
func NewDatasetIndex(ds *Dataset) *DatasetIndex {
	idx := &DatasetIndex{
		images:     ds.Images,
		all:        ds.Annotations,
		byID:       make(map[int64]Image, len(ds.Images)),
		anns:       make(map[int64][]Annotation),
		categories: make(map[int64]string, len(ds.Categories)),
	}
	for _, img := range ds.Images {
		idx.byID[img.ID] = img
	}
	for _, ann := range ds.Annotations {
		if _, seen := idx.anns[ann.ImageID]; !seen {
			idx.annotated = append(idx.annotated, ann.ImageID)
		}
		idx.anns[ann.ImageID] = append(idx.anns[ann.ImageID], ann)
	}
	for _, c := range ds.Categories {
		idx.categories[c.ID] = c.Name
		idx.names = append(idx.names, c.Name)
	}
	return idx
}

// Images возвращает все кадры в порядке файла.
func (d *DatasetIndex) Images() []Image {
	return d.images
}

// AnnotatedImages возвращает кадры с дефектами в порядке первой аннотации.
// Аннотации на отсутствующие кадры пропускаются.
func (d *DatasetIndex) AnnotatedImages() []Image {
	out := make([]Image, 0, len(d.annotated))
	for _, id := range d.annotated {
		if img, ok := d.byID[id]; ok {
			out = append(out, img)
		}
	}
	return out
}

// Annotations возвращает дефекты кадра.
func (d *DatasetIndex) Annotations(imageID int64) []Annotation {
	return d.anns[imageID]
}

// CategoryName возвращает имя класса или UnknownCategory.
func (d *DatasetIndex) CategoryName(id int64) string {
	if name, ok := d.categories[id]; ok {
		return name
	}
	return UnknownCategory
}

// DefectNames возвращает имена классов без фона.
func (d *DatasetIndex) DefectNames() []string {
	out := make([]string, 0, len(d.names))
	for _, n := range d.names {
		if strings.EqualFold(n, BackgroundLabel) {
			continue
		}
		out = append(out, n)
	}
	return out
}

// DefectSizes возвращает размеры (w, h) всех аннотаций в порядке файла.
func (d *DatasetIndex) DefectSizes() [][2]float64 {
	out := make([][2]float64, 0, len(d.all))
	for _, ann := range d.all {
		out = append(out, [2]float64{ann.BBox.W, ann.BBox.H})
	}
	return out
}
