package beam

import "fmt"

// Profile holds the structural dimensions of one rolled W-shape.
// Dimensions are in inches, weight in lb/ft. A Profile is a value and is
// never mutated once looked up from a catalog.
type Profile struct {
	Designation     string  `json:"designation"`
	Depth           float64 `json:"depth"`            // d
	FlangeWidth     float64 `json:"flange_width"`     // bf
	WebThickness    float64 `json:"web_thickness"`    // tw
	FlangeThickness float64 `json:"flange_thickness"` // tf
	Weight          float64 `json:"weight"`           // lb/ft
}

// WebHeight returns the clear height of the web between flanges (in).
func (p Profile) WebHeight() float64 {
	return p.Depth - 2*p.FlangeThickness
}

// String returns the designation, e.g. "W14x43".
func (p Profile) String() string {
	return p.Designation
}

// Validate checks if the profile describes a physically possible shape
func (p Profile) Validate() error {
	if p.Designation == "" {
		return &ValidationError{"profile must have a designation"}
	}
	checks := []struct {
		name  string
		value float64
	}{
		{"depth", p.Depth},
		{"flange width", p.FlangeWidth},
		{"web thickness", p.WebThickness},
		{"flange thickness", p.FlangeThickness},
		{"weight", p.Weight},
	}
	for _, c := range checks {
		if c.value <= 0 {
			return &ValidationError{fmt.Sprintf("%s: %s must be positive", p.Designation, c.name)}
		}
	}
	if p.WebHeight() <= 0 {
		return &ValidationError{fmt.Sprintf("%s: depth must exceed twice the flange thickness", p.Designation)}
	}
	return nil
}

// ValidationError represents a profile or catalog validation error
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string {
	return e.msg
}
