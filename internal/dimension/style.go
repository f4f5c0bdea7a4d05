package dimension

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Style holds the drafting sizes of a dimension, in drawing units at zoom 1.
type Style struct {
	Name             string  `json:"name"`
	ArrowSize        float64 `json:"arrow_size"`
	WitnessExtension float64 `json:"witness_extension"` // extension line overshoot past the dimension line
	TextGap          float64 `json:"text_gap"`
	FontSize         float64 `json:"font_size"`
	ExtensionOffset  float64 `json:"extension_offset"` // gap between the measured point and the extension line
}

var (
	BaseStyle = Style{
		Name:             "base",
		ArrowSize:        2.5,
		WitnessExtension: 2,
		TextGap:          6,
		FontSize:         10,
		ExtensionOffset:  1,
	}
	ANSIStyle = Style{
		Name:             "ansi",
		ArrowSize:        3,
		WitnessExtension: 2.5,
		TextGap:          8,
		FontSize:         12,
		ExtensionOffset:  1,
	}
	ISOStyle = Style{
		Name:             "iso",
		ArrowSize:        2,
		WitnessExtension: 2,
		TextGap:          5,
		FontSize:         10,
		ExtensionOffset:  1,
	}
	ArchitecturalStyle = Style{
		Name:             "architectural",
		ArrowSize:        2,
		WitnessExtension: 3,
		TextGap:          10,
		FontSize:         9,
		ExtensionOffset:  1,
	}
)

// Styles returns the built-in presets.
func Styles() []Style {
	return []Style{BaseStyle, ANSIStyle, ISOStyle, ArchitecturalStyle}
}

// StyleByName returns the preset with the given name. An empty name
// selects BaseStyle.
func StyleByName(name string) (Style, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return BaseStyle, nil
	}
	for _, s := range Styles() {
		if s.Name == key {
			return s, nil
		}
	}
	return Style{}, fmt.Errorf("unknown dimension style %q (valid: base, ansi, iso, architectural)", name)
}

// Scaled returns the style with its sizes divided by zoom so that text and
// arrows keep a constant on-screen size.
func (s Style) Scaled(zoom float64) Style {
	out := s
	out.ArrowSize = s.ArrowSize / zoom
	out.WitnessExtension = s.WitnessExtension / zoom
	out.TextGap = s.TextGap / zoom
	out.FontSize = s.FontSize / zoom
	return out
}

func (s Style) validate() error {
	for _, v := range []float64{s.ArrowSize, s.WitnessExtension, s.TextGap, s.FontSize, s.ExtensionOffset} {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("invalid dimension style %q: sizes must be finite and non-negative", s.Name)
		}
	}
	if s.FontSize == 0 {
		return fmt.Errorf("invalid dimension style %q: font size must be positive", s.Name)
	}
	return nil
}

// FormatLength formats a length in inches the way drawings label it:
// 7.5" below a foot, 2'-6" or 1'-0" at or above.
func FormatLength(inches float64) string {
	v := math.Round(inches*1000) / 1000
	if v < 12 {
		return trim(v) + `"`
	}
	feet := math.Floor(v / 12)
	rest := math.Round((v-feet*12)*1000) / 1000
	return fmt.Sprintf(`%s'-%s"`, trim(feet), trim(rest))
}

func trim(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
