package steel

import "math"

// Rolled W-shape and inspection sketch constants

const (
	// SpanLength is the fixed length of beam drawn in elevation (5 ft).
	SpanLength = 60.0 // in

	// FilletRadius is the nominal web-to-flange fillet radius of rolled shapes.
	FilletRadius = 0.25 // in

	// Density of structural steel
	Density = 490.0 // lb/ft³

	// Conversion used for nominal weight: lb/ft per in² of section area
	WeightPerSquareInch = Density / 144.0

	// OrdinateSpacing is the interval of running ordinate dimensions.
	OrdinateSpacing = 12.0 // in
)

// Range describes the allowed interval of a user-adjustable control.
type Range struct {
	Min  float64
	Max  float64
	Step float64
}

// Contains reports whether v lies inside the closed interval.
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// Clamp limits v to the interval.
func (r Range) Clamp(v float64) float64 {
	return math.Min(math.Max(v, r.Min), r.Max)
}

// Control ranges exposed to sketch callers
var (
	WebCellSize    = Range{Min: 0.5, Max: 3.0, Step: 0.5} // in
	FlangeCellSize = Range{Min: 1.0, Max: 6.0, Step: 1.0} // in
	Zoom           = Range{Min: 0.1, Max: 5.0, Step: 0.1}
)

// Default sketch settings
const (
	DefaultScale          = 10.0 // px/in
	DefaultWebCellSize    = 1.0  // in
	DefaultFlangeCellSize = 2.0  // in
	DefaultZoom           = 1.0
)

// NominalWeight converts a gross section area (in²) to weight per foot (lb/ft).
func NominalWeight(area float64) float64 {
	return area * WeightPerSquareInch
}
