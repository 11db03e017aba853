package units

import "github.com/parcelmesh/bridge/pkg/carrier"

// Countries that conventionally measure parcels in imperial units.
var imperialCountries = map[string]bool{
	"US": true,
	"LR": true,
	"MM": true,
}

// CompatibleUnits returns the preferred (weight, dimension) unit pair for a
// destination country: imperial for the few countries that use it, metric
// everywhere else.
func CompatibleUnits(countryCode string) (carrier.WeightUnit, carrier.DimensionUnit) {
	if imperialCountries[countryCode] {
		return carrier.LB, carrier.IN
	}
	return carrier.KG, carrier.CM
}

// Package wraps a canonical parcel with the unit pair a carrier prefers,
// exposing measurements pre-converted to those units.
type Package struct {
	Parcel  carrier.Parcel
	WeightU carrier.WeightUnit
	DimU    carrier.DimensionUnit
}

// NewPackage wraps a parcel with a preferred unit pair. When the parcel
// carries no unit tags the preferred units are assumed for the raw values.
func NewPackage(parcel carrier.Parcel, weightUnit carrier.WeightUnit, dimUnit carrier.DimensionUnit) Package {
	return Package{Parcel: parcel, WeightU: weightUnit, DimU: dimUnit}
}

// Weight returns the parcel weight converted to the preferred unit.
func (p Package) Weight() float64 {
	unit := p.Parcel.WeightUnit
	if unit == "" {
		unit = p.WeightU
	}
	return Round2(Weight{Value: p.Parcel.Weight, Unit: unit}.In(p.WeightU))
}

// Length returns the parcel length converted to the preferred unit.
func (p Package) Length() float64 { return p.dim(p.Parcel.Length) }

// Width returns the parcel width converted to the preferred unit.
func (p Package) Width() float64 { return p.dim(p.Parcel.Width) }

// Height returns the parcel height converted to the preferred unit.
func (p Package) Height() float64 { return p.dim(p.Parcel.Height) }

func (p Package) dim(value float64) float64 {
	unit := p.Parcel.DimensionUnit
	if unit == "" {
		unit = p.DimU
	}
	return Round2(Dimension{Value: value, Unit: unit}.In(p.DimU))
}

// HasDimensions reports whether explicit dimensions were provided.
func (p Package) HasDimensions() bool {
	return p.Parcel.Length > 0 && p.Parcel.Width > 0 && p.Parcel.Height > 0
}

// DimensionalWeight computes the volumetric weight in the preferred weight
// unit given a carrier divisor (e.g. 5000 for cm/kg, 139 for in/lb).
// It returns 0 when no dimensions were provided.
func (p Package) DimensionalWeight(divisor float64) float64 {
	if !p.HasDimensions() || divisor <= 0 {
		return 0
	}
	return Round2(p.Length() * p.Width() * p.Height() / divisor)
}

// Packages is an ordered collection of wrapped parcels.
type Packages []Package

// NewPackages wraps parcels with a shared preferred unit pair.
func NewPackages(parcels []carrier.Parcel, weightUnit carrier.WeightUnit, dimUnit carrier.DimensionUnit) Packages {
	packages := make(Packages, len(parcels))
	for i, parcel := range parcels {
		packages[i] = NewPackage(parcel, weightUnit, dimUnit)
	}
	return packages
}

// Weight returns the total weight of all packages in the preferred unit.
func (p Packages) Weight() float64 {
	var total float64
	for _, pkg := range p {
		total += pkg.Weight()
	}
	return Round2(total)
}

// CompatibleUnits derives the collection's preferred unit pair from the
// first parcel's declared units, defaulting to metric.
func (p Packages) CompatibleUnits() (carrier.WeightUnit, carrier.DimensionUnit) {
	if len(p) == 0 {
		return carrier.KG, carrier.CM
	}
	weightUnit := p[0].Parcel.WeightUnit
	dimUnit := p[0].Parcel.DimensionUnit
	if weightUnit == "" {
		weightUnit = carrier.KG
	}
	if dimUnit == "" {
		dimUnit = carrier.CM
	}
	return weightUnit, dimUnit
}
