package entity

import (
	"errors"
	"fmt"
	"strings"
)

// ErrLightNotInPath путь кадра не содержит источник света отдельным сегментом.
var ErrLightNotInPath = errors.New("light source is not a single path segment")

// GroupKey ключ физического примера: путь без сегмента источника света и область.
type GroupKey struct {
	Prefix string // сегменты пути до источника света
	Suffix string // сегменты пути после источника света
	BBox   string
}

// NewGroupKey строит ключ записи. Источник света должен встречаться
// в original_image_path ровно одним целым сегментом.
func NewGroupKey(r CropRecord) (GroupKey, error) {
	light := string(r.LightSource)
	segments := strings.Split(r.OriginalImagePath, "/")

	pos := -1
	for i, s := range segments {
		if s != light {
			continue
		}
		if pos >= 0 {
			return GroupKey{}, fmt.Errorf("%w: %q appears twice in %s", ErrLightNotInPath, light, r.OriginalImagePath)
		}
		pos = i
	}
	if pos < 0 || light == "" {
		return GroupKey{}, fmt.Errorf("%w: %q in %s", ErrLightNotInPath, light, r.OriginalImagePath)
	}

	return GroupKey{
		Prefix: strings.Join(segments[:pos], "/"),
		Suffix: strings.Join(segments[pos+1:], "/"),
		BBox:   r.BBox.Key(),
	}, nil
}

// String рендерит ключ для логов.
func (k GroupKey) String() string {
	return k.Prefix + "/*/" + k.Suffix + "@" + k.BBox
}
