package entity

import (
	"errors"
	"fmt"
	"slices"
)

// LightSource название одного из режимов подсветки (16col, 32row, ...).
type LightSource string

// LightOrder канонический порядок источников света.
// Порядок задаёт и сортировку, и расположение ячеек мозаики.
type LightOrder []LightSource

// DefaultLightOrder четыре источника, которые снимает установка.
var DefaultLightOrder = LightOrder{"16col", "16row", "32col", "32row"}

var (
	ErrEmptyLightOrder    = errors.New("light order is empty")
	ErrDuplicateLight     = errors.New("duplicate light source")
	ErrUnknownLight       = errors.New("unknown light source")
	ErrLightOrderMismatch = errors.New("light sources do not match canonical order")
)

// NewLightOrder проверяет список и возвращает порядок.
func NewLightOrder(names []string) (LightOrder, error) {
	if len(names) == 0 {
		return nil, ErrEmptyLightOrder
	}
	order := make(LightOrder, 0, len(names))
	for _, n := range names {
		l := LightSource(n)
		if l == "" {
			return nil, fmt.Errorf("%w: empty name", ErrUnknownLight)
		}
		if slices.Contains(order, l) {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateLight, l)
		}
		order = append(order, l)
	}
	return order, nil
}

// Index возвращает позицию источника в порядке.
func (o LightOrder) Index(l LightSource) (int, bool) {
	i := slices.Index(o, l)
	return i, i >= 0
}

// Matches сообщает, что последовательность в точности совпадает с порядком.
func (o LightOrder) Matches(ls []LightSource) bool {
	return slices.Equal(o, ls)
}

// Strings возвращает названия источников.
func (o LightOrder) Strings() []string {
	out := make([]string, len(o))
	for i, l := range o {
		out[i] = string(l)
	}
	return out
}
