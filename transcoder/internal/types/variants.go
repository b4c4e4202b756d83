package types

import (
	"github.com/wippyai/vm-abi/errors"
)

// Variant is one named case of an enum.
type Variant struct {
	Name string
	Type Param
}

// Variants is the ordered, non-empty variant table of an enum. The
// discriminant of a variant is its index. Tables are immutable once built.
type Variants struct {
	list []Variant
}

// NewVariants builds a variant table, rejecting an empty list.
func NewVariants(list []Variant) (Variants, error) {
	if len(list) == 0 {
		return Variants{}, errors.InvalidData(errors.PhaseParse, nil, "enum must have at least one variant")
	}
	cp := make([]Variant, len(list))
	copy(cp, list)
	return Variants{list: cp}, nil
}

// Len returns the number of variants.
func (v Variants) Len() int {
	return len(v.list)
}

// List returns a copy of the variants in declaration order.
func (v Variants) List() []Variant {
	cp := make([]Variant, len(v.list))
	copy(cp, v.list)
	return cp
}

// At resolves a discriminant to its variant.
func (v Variants) At(disc uint64) (Variant, error) {
	if disc >= uint64(len(v.list)) {
		return Variant{}, errors.UnresolvedDiscriminant(errors.PhaseDecode, nil, disc, len(v.list))
	}
	return v.list[disc], nil
}

// OnlyUnits reports whether every variant carries no payload. Such enums
// encode as the discriminant word alone.
func (v Variants) OnlyUnits() bool {
	for _, vr := range v.list {
		if vr.Type.Kind != KindUnit {
			return false
		}
	}
	return true
}

// WidestWidth returns the largest inline width, in words, of any variant.
func (v Variants) WidestWidth() uint64 {
	var widest uint64
	for _, vr := range v.list {
		if w := vr.Type.EncodingWidth(); w > widest {
			widest = w
		}
	}
	return widest
}

// PaddingWords returns how many zero words precede the payload of the
// variant at disc so that every variant occupies the widest width.
func (v Variants) PaddingWords(disc uint64) (uint64, error) {
	vr, err := v.At(disc)
	if err != nil {
		return 0, err
	}
	return v.WidestWidth() - vr.Type.EncodingWidth(), nil
}
