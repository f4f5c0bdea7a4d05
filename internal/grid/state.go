package grid

import (
	"encoding/json"
	"fmt"
	"strings"
)

// State is the inspected condition of one grid cell.
type State uint8

// States advance in this order and wrap back to Intact.
const (
	Intact State = iota
	Corroded
	SectionLoss
	Perforated

	numStates
)

var stateNames = [...]string{"intact", "corroded", "section_loss", "perforated"}

// Next returns the state one step further in the cycle.
func (s State) Next() State {
	return (s + 1) % numStates
}

// IsDamage reports whether the state is grouped into contours.
func (s State) IsDamage() bool {
	return s == SectionLoss || s == Perforated
}

// StepsTo returns how many advances take s to target.
func (s State) StepsTo(target State) int {
	return int((target + numStates - s) % numStates)
}

func (s State) Valid() bool { return s < numStates }

func (s State) String() string {
	if !s.Valid() {
		return fmt.Sprintf("State(%d)", uint8(s))
	}
	return stateNames[s]
}

// ParseState accepts the names produced by String, case-insensitively,
// with '-' or ' ' in place of '_'.
func ParseState(name string) (State, error) {
	key := strings.ToLower(strings.NewReplacer("-", "_", " ", "_").Replace(strings.TrimSpace(name)))
	for i, n := range stateNames {
		if n == key {
			return State(i), nil
		}
	}
	return Intact, fmt.Errorf("unknown condition state %q", name)
}

func (s State) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *State) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	v, err := ParseState(name)
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// Flange rows
const (
	TopFlange    = 0
	BottomFlange = 1
)

// Cell addresses one web or flange cell. Web cells use (Row, Col) inside the
// web matrix; flange cells use Row 0 for the top flange and 1 for the bottom.
type Cell struct {
	Row    int  `json:"row"`
	Col    int  `json:"col"`
	Flange bool `json:"flange"`
}

// Web returns the address of a web cell.
func Web(row, col int) Cell { return Cell{Row: row, Col: col} }

// FlangeCell returns the address of a flange cell.
func FlangeCell(row, col int) Cell { return Cell{Row: row, Col: col, Flange: true} }

func (c Cell) String() string {
	if c.Flange {
		if c.Row == TopFlange {
			return fmt.Sprintf("top flange [%d]", c.Col)
		}
		return fmt.Sprintf("bottom flange [%d]", c.Col)
	}
	return fmt.Sprintf("web [%d,%d]", c.Row, c.Col)
}
