package effects_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/on-the-ground/updraft/effects"
)

func TestModifier_Defaults(t *testing.T) {
	m := effects.DefaultModifier()
	assert.True(t, m.ShouldUpdateView)
	assert.False(t, m.LogMeasurements)
	assert.Empty(t, m.MeasurementName)
}

func TestModifier_CoalesceIsMonotonic(t *testing.T) {
	render := effects.Modifier{ShouldUpdateView: true}
	measured := effects.Modifier{LogMeasurements: true}

	a := render
	a.Coalesce(measured)
	assert.True(t, a.ShouldUpdateView)
	assert.True(t, a.LogMeasurements)

	// once set, a flag never clears
	a.Coalesce(effects.Modifier{})
	assert.True(t, a.ShouldUpdateView)
	assert.True(t, a.LogMeasurements)
}

func TestModifier_CoalesceBooleansCommute(t *testing.T) {
	a := effects.Modifier{ShouldUpdateView: true}
	b := effects.Modifier{LogMeasurements: true}

	ab := a
	ab.Coalesce(b)
	ba := b
	ba.Coalesce(a)

	assert.Equal(t, ab.ShouldUpdateView, ba.ShouldUpdateView)
	assert.Equal(t, ab.LogMeasurements, ba.LogMeasurements)
}

func TestModifier_CoalesceIsIdempotent(t *testing.T) {
	a := effects.Modifier{ShouldUpdateView: true, LogMeasurements: true, MeasurementName: "frame"}
	merged := a
	merged.Coalesce(a)
	assert.Equal(t, a, merged)
}

func TestModifier_CoalesceNameLastWriterWins(t *testing.T) {
	a := effects.Modifier{MeasurementName: "first"}
	a.Coalesce(effects.Modifier{MeasurementName: "second"})
	assert.Equal(t, "second", a.MeasurementName)

	// an empty name never overwrites a set one
	a.Coalesce(effects.Modifier{})
	assert.Equal(t, "second", a.MeasurementName)
}

func TestModifier_MeasureWithName(t *testing.T) {
	m := effects.DefaultModifier()
	m.MeasureWithName("startup")
	assert.True(t, m.LogMeasurements)
	assert.Equal(t, "startup", m.MeasurementName)
}
