package units_test

import (
	"testing"

	"github.com/parcelmesh/bridge/pkg/carrier"
	"github.com/parcelmesh/bridge/pkg/carrier/units"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeight_Conversions(t *testing.T) {
	w := units.NewWeight(10, carrier.LB)

	assert.InDelta(t, 4.53592, w.KG(), 0.0001)
	assert.InDelta(t, 160, w.OZ(), 0.0001)
	assert.InDelta(t, 10, w.LB(), 0.0001)
	assert.InDelta(t, 4535.92, w.G(), 0.01)
}

func TestWeight_SameUnitIsIdentity(t *testing.T) {
	w := units.NewWeight(2.5, carrier.KG)
	assert.Equal(t, 2.5, w.In(carrier.KG))
}

func TestWeight_RoundTripPreservesValue(t *testing.T) {
	original := units.NewWeight(7.3, carrier.KG)
	back := units.NewWeight(original.LB(), carrier.LB)
	assert.InDelta(t, 7.3, back.KG(), 0.0001)
}

func TestDimension_Conversions(t *testing.T) {
	d := units.NewDimension(10, carrier.IN)

	assert.InDelta(t, 25.4, d.CM(), 0.0001)
	assert.InDelta(t, 254, d.MM(), 0.001)
	assert.InDelta(t, 10, d.IN(), 0.0001)
}

func TestDimension_RoundTripPreservesValue(t *testing.T) {
	original := units.NewDimension(33.7, carrier.CM)
	back := units.NewDimension(original.IN(), carrier.IN)
	assert.InDelta(t, 33.7, back.CM(), 0.0001)
}

func TestPackage_ConvertsToPreferredUnits(t *testing.T) {
	parcel := carrier.Parcel{
		Length: 10, Width: 20, Height: 30, DimensionUnit: carrier.CM,
		Weight: 2, WeightUnit: carrier.KG,
	}
	pkg := units.NewPackage(parcel, carrier.LB, carrier.IN)

	assert.InDelta(t, 4.41, pkg.Weight(), 0.01)
	assert.InDelta(t, 3.94, pkg.Length(), 0.01)
	assert.InDelta(t, 7.87, pkg.Width(), 0.01)
	assert.InDelta(t, 11.81, pkg.Height(), 0.01)
}

func TestPackage_UntaggedValuesAssumePreferredUnits(t *testing.T) {
	pkg := units.NewPackage(carrier.Parcel{Weight: 5}, carrier.KG, carrier.CM)
	assert.Equal(t, 5.0, pkg.Weight())
}

func TestPackage_DimensionalWeight(t *testing.T) {
	parcel := carrier.Parcel{
		Length: 50, Width: 40, Height: 30, DimensionUnit: carrier.CM,
		Weight: 1, WeightUnit: carrier.KG,
	}
	pkg := units.NewPackage(parcel, carrier.KG, carrier.CM)

	assert.InDelta(t, 12.0, pkg.DimensionalWeight(5000), 0.001)
	assert.Equal(t, 0.0, pkg.DimensionalWeight(0))
}

func TestPackages_TotalWeight(t *testing.T) {
	packages := units.NewPackages([]carrier.Parcel{
		{Weight: 1.2, WeightUnit: carrier.KG},
		{Weight: 2.3, WeightUnit: carrier.KG},
	}, carrier.KG, carrier.CM)

	assert.InDelta(t, 3.5, packages.Weight(), 0.001)
}

func TestPackages_CompatibleUnitsFromFirstParcel(t *testing.T) {
	packages := units.NewPackages([]carrier.Parcel{
		{Weight: 3, WeightUnit: carrier.LB, DimensionUnit: carrier.IN},
	}, carrier.KG, carrier.CM)

	weightUnit, dimUnit := packages.CompatibleUnits()
	assert.Equal(t, carrier.LB, weightUnit)
	assert.Equal(t, carrier.IN, dimUnit)
}

func TestPackages_CompatibleUnitsDefaultMetric(t *testing.T) {
	weightUnit, dimUnit := units.Packages{}.CompatibleUnits()
	assert.Equal(t, carrier.KG, weightUnit)
	assert.Equal(t, carrier.CM, dimUnit)
}

func TestCompatibleUnits_ByCountry(t *testing.T) {
	weightUnit, dimUnit := units.CompatibleUnits("US")
	require.Equal(t, carrier.LB, weightUnit)
	require.Equal(t, carrier.IN, dimUnit)

	weightUnit, dimUnit = units.CompatibleUnits("CA")
	assert.Equal(t, carrier.KG, weightUnit)
	assert.Equal(t, carrier.CM, dimUnit)
}
