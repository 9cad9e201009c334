package layout

import (
	"strconv"
	"strings"
)

// This file defines unit conversions and locale-independent number parsing.

// Unit represents the original unit of a length value as written in a script.
type Unit int

const (
	UnitNone Unit = iota // unit-less numbers, interpreted by the caller
	UnitMM               // millimeters
	UnitCM               // centimeters
	UnitIN               // inches
	UnitPT               // points
)

// Conversion constants between pt and mm (1pt = 1/72in).
const (
	PtToMm = 25.4 / 72
	MmToPt = 72 / 25.4
)

// UnitToString returns a short string for a Unit value.
func UnitToString(u Unit) string {
	switch u {
	case UnitMM:
		return "mm"
	case UnitCM:
		return "cm"
	case UnitIN:
		return "in"
	case UnitPT:
		return "pt"
	default:
		return ""
	}
}

// Length preserves a numeric value with its unit.
type Length struct {
	Value float64 `json:"value"`
	Unit  Unit    `json:"unit"`
}

// ToMM converts the length to millimeters. Unit-less values are taken as millimeters.
func (l Length) ToMM() float64 {
	switch l.Unit {
	case UnitCM:
		return l.Value * 10
	case UnitIN:
		return l.Value * 25.4
	case UnitPT:
		return l.Value * PtToMm
	default:
		return l.Value
	}
}

// ToPT converts the length to points. Unit-less values are taken as points.
func (l Length) ToPT() float64 {
	switch l.Unit {
	case UnitMM, UnitCM, UnitIN:
		return l.ToMM() * MmToPt
	default:
		return l.Value
	}
}

// ParseLength parses a length such as "12pt", "10.5mm" or "3".
// The decimal point is always '.', independent of any process locale.
func ParseLength(value string) (Length, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	unit := UnitNone
	for _, suf := range []struct {
		s string
		u Unit
	}{{"mm", UnitMM}, {"cm", UnitCM}, {"in", UnitIN}, {"pt", UnitPT}} {
		if strings.HasSuffix(v, suf.s) {
			unit = suf.u
			v = strings.TrimSpace(strings.TrimSuffix(v, suf.s))
			break
		}
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return Length{}, err
	}
	return Length{Value: f, Unit: unit}, nil
}
