// Package units represents physical shipping quantities with explicit units
// and exposes conversion as pure accessors. Conversion happens lazily at the
// point of use and always reflects the stored value; nothing defaults to a
// unit implicitly.
package units

import (
	"math"

	"github.com/parcelmesh/bridge/pkg/carrier"
)

const (
	kgPerLB = 0.453592
	ozPerLB = 16.0
	cmPerIN = 2.54
	mmPerCM = 10.0
)

// Weight is a numeric value tagged with its unit.
type Weight struct {
	Value float64
	Unit  carrier.WeightUnit
}

// NewWeight builds a weight from a value and unit.
func NewWeight(value float64, unit carrier.WeightUnit) Weight {
	return Weight{Value: value, Unit: unit}
}

// KG returns the weight expressed in kilograms.
func (w Weight) KG() float64 {
	switch w.Unit {
	case carrier.KG:
		return w.Value
	case carrier.G:
		return w.Value / 1000.0
	case carrier.LB:
		return w.Value * kgPerLB
	case carrier.OZ:
		return w.Value / ozPerLB * kgPerLB
	}
	return w.Value
}

// LB returns the weight expressed in pounds.
func (w Weight) LB() float64 {
	switch w.Unit {
	case carrier.LB:
		return w.Value
	case carrier.OZ:
		return w.Value / ozPerLB
	case carrier.KG:
		return w.Value / kgPerLB
	case carrier.G:
		return w.Value / 1000.0 / kgPerLB
	}
	return w.Value
}

// OZ returns the weight expressed in ounces.
func (w Weight) OZ() float64 {
	if w.Unit == carrier.OZ {
		return w.Value
	}
	return w.LB() * ozPerLB
}

// G returns the weight expressed in grams.
func (w Weight) G() float64 {
	if w.Unit == carrier.G {
		return w.Value
	}
	return w.KG() * 1000.0
}

// In returns the weight expressed in the target unit.
func (w Weight) In(unit carrier.WeightUnit) float64 {
	switch unit {
	case carrier.KG:
		return w.KG()
	case carrier.LB:
		return w.LB()
	case carrier.OZ:
		return w.OZ()
	case carrier.G:
		return w.G()
	}
	return w.Value
}

// Dimension is a length value tagged with its unit.
type Dimension struct {
	Value float64
	Unit  carrier.DimensionUnit
}

// NewDimension builds a dimension from a value and unit.
func NewDimension(value float64, unit carrier.DimensionUnit) Dimension {
	return Dimension{Value: value, Unit: unit}
}

// CM returns the dimension expressed in centimeters.
func (d Dimension) CM() float64 {
	switch d.Unit {
	case carrier.CM:
		return d.Value
	case carrier.MM:
		return d.Value / mmPerCM
	case carrier.IN:
		return d.Value * cmPerIN
	}
	return d.Value
}

// IN returns the dimension expressed in inches.
func (d Dimension) IN() float64 {
	switch d.Unit {
	case carrier.IN:
		return d.Value
	case carrier.CM:
		return d.Value / cmPerIN
	case carrier.MM:
		return d.Value / mmPerCM / cmPerIN
	}
	return d.Value
}

// MM returns the dimension expressed in millimeters.
func (d Dimension) MM() float64 {
	if d.Unit == carrier.MM {
		return d.Value
	}
	return d.CM() * mmPerCM
}

// In returns the dimension expressed in the target unit.
func (d Dimension) In(unit carrier.DimensionUnit) float64 {
	switch unit {
	case carrier.CM:
		return d.CM()
	case carrier.IN:
		return d.IN()
	case carrier.MM:
		return d.MM()
	}
	return d.Value
}

// Round2 rounds a converted quantity to two decimals for wire formats that
// reject long fractions.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
