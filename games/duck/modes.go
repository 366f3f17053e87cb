package duck

import (
	"fmt"
	"strings"
)

// Mode is one difficulty tier: a lane count and the multiplier (hundredths)
// earned on each lane, consumed in order as the duck advances. The catalog is
// fixed at compile time; payout changes ship as a new deployment.
type Mode struct {
	Name        string
	Lanes       int
	Multipliers []int64
}

var modes = []Mode{
	{Name: "Easy", Lanes: 7, Multipliers: []int64{110, 120, 135, 150, 170, 200, 240}},
	{Name: "Medium", Lanes: 5, Multipliers: []int64{120, 150, 170, 200, 240}},
	{Name: "Hard", Lanes: 3, Multipliers: []int64{150, 200, 300}},
}

// Modes returns the catalog in display order.
func Modes() []Mode {
	out := make([]Mode, len(modes))
	copy(out, modes)
	return out
}

// ModeByName looks a tier up case-insensitively.
func ModeByName(name string) (Mode, error) {
	for _, m := range modes {
		if strings.EqualFold(m.Name, name) {
			return m, nil
		}
	}
	return Mode{}, fmt.Errorf("%w: %q", ErrUnknownMode, name)
}

// FinalMultiplier is the multiplier paid on a finish.
func (m Mode) FinalMultiplier() int64 {
	return m.Multipliers[len(m.Multipliers)-1]
}
