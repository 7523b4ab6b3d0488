package entity

// CropRecord метаданные одного вырезанного фрагмента для одного источника света.
// BBox и PriorLabel совпадают у всех четырёх записей одного физического примера.
type CropRecord struct {
	ID                int64       `json:"id"`
	OriginalImagePath string      `json:"original_image_path"`
	CropImagePath     string      `json:"crop_image_path"`
	BBox              BoundingBox `json:"bbox"`
	Label             string      `json:"label"`
	PriorLabel        string      `json:"prior_label,omitempty"`
	LightSource       LightSource `json:"light_source"`
	SampleType        SampleType  `json:"sample_type,omitempty"`
}

// CompositeSample пара мозаик 2x2 и метаданные одного физического примера.
type CompositeSample struct {
	ID                  int64       `json:"id"`
	CompositeGlobalPath string      `json:"composite_global_path"`
	CompositeLocalPath  string      `json:"composite_local_path"`
	BBox                BoundingBox `json:"bbox"`
	SampleType          SampleType  `json:"sample_type"`
	Label               string      `json:"label"`
	PriorLabel          string      `json:"prior_label"`
	LightSourceOrder    []string    `json:"light_source_order"`
	OriginalImagePaths  []string    `json:"original_image_paths"`
	OriginalCropPaths   []string    `json:"original_crop_paths"`
}
