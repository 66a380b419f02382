package effects

// Modifier carries cross-cutting execution hints attached to a bundle of
// effects: whether the view should be refreshed after the effects'
// messages are dispatched, and whether the dispatch round should be
// measured and logged.
//
// A Modifier has no lifecycle of its own; it is embedded in an Effects
// bundle or a Command and mutated through them.
type Modifier struct {
	// ShouldUpdateView gates the render/diff pass that follows a
	// dispatch. Defaults to true.
	ShouldUpdateView bool
	// LogMeasurements asks the program to record timing for the
	// update/render round triggered by these effects. Defaults to false.
	LogMeasurements bool
	// MeasurementName tags the recorded measurement. Defaults to empty.
	MeasurementName string
}

// DefaultModifier returns the zero hint set: render after dispatch, no
// measurement.
func DefaultModifier() Modifier {
	return Modifier{ShouldUpdateView: true}
}

// Coalesce merges other into m. The boolean hints combine monotonically:
// once any contributor wants a render or a measurement, the merged
// modifier does too. MeasurementName is last-writer-wins: the most
// recently coalesced non-empty name survives.
func (m *Modifier) Coalesce(other Modifier) {
	if other.ShouldUpdateView {
		m.ShouldUpdateView = true
	}
	if other.LogMeasurements {
		m.LogMeasurements = true
	}
	if other.MeasurementName != "" {
		m.MeasurementName = other.MeasurementName
	}
}

// NoRender forces ShouldUpdateView to false, suppressing the default
// post-dispatch redraw.
func (m *Modifier) NoRender() {
	m.ShouldUpdateView = false
}

// Measure turns on measurement logging.
func (m *Modifier) Measure() {
	m.LogMeasurements = true
}

// MeasureWithName turns on measurement logging and names the measurement.
func (m *Modifier) MeasureWithName(name string) {
	m.MeasurementName = name
	m.Measure()
}
