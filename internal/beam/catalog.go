package beam

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
)

// ErrUnknownProfile is returned by Lookup for a designation not in the catalog.
var ErrUnknownProfile = errors.New("unknown beam designation")

// Catalog is an ordered set of profiles addressable by designation.
type Catalog struct {
	profiles []Profile
	index    map[string]int
}

// standardShapes lists the W14 shapes offered by default
var standardShapes = []Profile{
	{Designation: "W14x43", Depth: 13.7, FlangeWidth: 7.995, WebThickness: 0.305, FlangeThickness: 0.53, Weight: 43},
	{Designation: "W14x48", Depth: 13.8, FlangeWidth: 8.03, WebThickness: 0.34, FlangeThickness: 0.595, Weight: 48},
	{Designation: "W14x53", Depth: 13.9, FlangeWidth: 8.06, WebThickness: 0.37, FlangeThickness: 0.66, Weight: 53},
	{Designation: "W14x61", Depth: 14.0, FlangeWidth: 8.24, WebThickness: 0.375, FlangeThickness: 0.645, Weight: 61},
	{Designation: "W14x68", Depth: 14.0, FlangeWidth: 8.385, WebThickness: 0.415, FlangeThickness: 0.72, Weight: 68},
	{Designation: "W14x74", Depth: 14.1, FlangeWidth: 10.1, WebThickness: 0.45, FlangeThickness: 0.785, Weight: 74},
	{Designation: "W14x82", Depth: 14.3, FlangeWidth: 10.1, WebThickness: 0.51, FlangeThickness: 0.855, Weight: 82},
	{Designation: "W14x90", Depth: 14.0, FlangeWidth: 14.5, WebThickness: 0.44, FlangeThickness: 0.71, Weight: 90},
}

// Standard returns the built-in catalog.
func Standard() *Catalog {
	c, err := NewCatalog(standardShapes)
	if err != nil {
		panic(err)
	}
	return c
}

// NewCatalog validates the profiles and builds a catalog preserving their order.
func NewCatalog(profiles []Profile) (*Catalog, error) {
	if len(profiles) == 0 {
		return nil, &ValidationError{"catalog must contain at least one profile"}
	}
	c := &Catalog{
		profiles: make([]Profile, 0, len(profiles)),
		index:    make(map[string]int, len(profiles)),
	}
	for _, p := range profiles {
		if err := p.Validate(); err != nil {
			return nil, err
		}
		key := normalize(p.Designation)
		if _, dup := c.index[key]; dup {
			return nil, &ValidationError{fmt.Sprintf("duplicate designation %q", p.Designation)}
		}
		c.index[key] = len(c.profiles)
		c.profiles = append(c.profiles, p)
	}
	return c, nil
}

// Lookup finds a profile by designation. Matching ignores case and spaces,
// so "w14 x 43" finds "W14x43".
func (c *Catalog) Lookup(designation string) (Profile, error) {
	i, ok := c.index[normalize(designation)]
	if !ok {
		return Profile{}, fmt.Errorf("%w: %q", ErrUnknownProfile, designation)
	}
	return c.profiles[i], nil
}

// Profiles returns a copy of all profiles in catalog order.
func (c *Catalog) Profiles() []Profile {
	out := make([]Profile, len(c.profiles))
	copy(out, c.profiles)
	return out
}

// Designations returns the sorted designations.
func (c *Catalog) Designations() []string {
	names := make([]string, len(c.profiles))
	for i, p := range c.profiles {
		names[i] = p.Designation
	}
	sort.Strings(names)
	return names
}

// Len returns the number of profiles.
func (c *Catalog) Len() int { return len(c.profiles) }

// LoadFromFile loads a catalog from a JSON file holding an array of profiles
// or an object with a "profiles" array.
func LoadFromFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var profiles []Profile
	if err := json.Unmarshal(data, &profiles); err != nil {
		var wrapped struct {
			Profiles []Profile `json:"profiles"`
		}
		if err2 := json.Unmarshal(data, &wrapped); err2 != nil {
			return nil, err
		}
		profiles = wrapped.Profiles
	}

	return NewCatalog(profiles)
}

// Load picks the loader from the file extension; an empty path yields the
// built-in catalog.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Standard(), nil
	}
	switch strings.ToLower(extension(path)) {
	case ".xlsx", ".xlsm":
		return LoadFromSpreadsheet(path, "")
	default:
		return LoadFromFile(path)
	}
}

func extension(path string) string {
	i := strings.LastIndexByte(path, '.')
	if i < 0 {
		return ""
	}
	return path[i:]
}

func normalize(designation string) string {
	return strings.ToUpper(strings.ReplaceAll(designation, " ", ""))
}
