package config

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Unit is the physical unit a Length was written in.
type Unit int

const (
	UnitIN Unit = iota // inches
	UnitMM             // millimeters
	UnitCM             // centimeters
	UnitPT             // points
)

// Conversion constants.
const (
	MMPerInch = 25.4
	PTPerInch = 72.0
)

func (u Unit) String() string {
	switch u {
	case UnitMM:
		return "mm"
	case UnitCM:
		return "cm"
	case UnitPT:
		return "pt"
	default:
		return "in"
	}
}

// Length keeps a physical measurement in the unit it was given.
type Length struct {
	Value float64
	Unit  Unit
}

// In builds a Length in inches.
func In(v float64) Length { return Length{Value: v, Unit: UnitIN} }

// MM builds a Length in millimeters.
func MM(v float64) Length { return Length{Value: v, Unit: UnitMM} }

// Inches converts l to inches.
func (l Length) Inches() float64 {
	switch l.Unit {
	case UnitMM:
		return l.Value / MMPerInch
	case UnitCM:
		return l.Value * 10 / MMPerInch
	case UnitPT:
		return l.Value / PTPerInch
	default:
		return l.Value
	}
}

// Millimeters converts l to millimeters.
func (l Length) Millimeters() float64 {
	if l.Unit == UnitMM {
		return l.Value
	}
	if l.Unit == UnitCM {
		return l.Value * 10
	}
	return l.Inches() * MMPerInch
}

// Points converts l to PostScript points.
func (l Length) Points() float64 {
	if l.Unit == UnitPT {
		return l.Value
	}
	return l.Inches() * PTPerInch
}

func (l Length) String() string {
	return strconv.FormatFloat(l.Value, 'f', -1, 64) + l.Unit.String()
}

// ParseLength parses strings such as "8.5in", "210mm", "2.5 cm" or "36pt".
// A bare number is taken in def.
func ParseLength(s string, def Unit) (Length, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	if v == "" {
		return Length{}, fmt.Errorf("empty length")
	}
	unit := def
	num := v
	for _, suf := range []struct {
		s string
		u Unit
	}{{"mm", UnitMM}, {"cm", UnitCM}, {"in", UnitIN}, {"pt", UnitPT}} {
		if strings.HasSuffix(v, suf.s) {
			unit = suf.u
			num = strings.TrimSpace(strings.TrimSuffix(v, suf.s))
			break
		}
	}
	f, err := strconv.ParseFloat(num, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return Length{}, fmt.Errorf("invalid length %q", s)
	}
	return Length{Value: f, Unit: unit}, nil
}
