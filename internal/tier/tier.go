package tier

import "fmt"

// Tier names
const (
	Bronze   = "BRONZE"
	Silver   = "SILVER"
	Gold     = "GOLD"
	Platinum = "PLATINUM"
)

type Tier struct {
	Name       string
	MinPoints  int64
	Multiplier float64
}

// Table is an ordered list of tiers, ascending by MinPoints. The first
// entry must start at 0 so every non-negative point balance maps to a tier.
type Table []Tier

func DefaultTable() Table {
	return Table{
		{Name: Bronze, MinPoints: 0, Multiplier: 1},
		{Name: Silver, MinPoints: 500, Multiplier: 1.25},
		{Name: Gold, MinPoints: 2000, Multiplier: 1.5},
		{Name: Platinum, MinPoints: 5000, Multiplier: 2},
	}
}

func (t Table) Validate() error {
	if len(t) == 0 {
		return fmt.Errorf("tier table is empty")
	}
	if t[0].MinPoints != 0 {
		return fmt.Errorf("first tier must start at 0 points, got %d", t[0].MinPoints)
	}
	for i := 1; i < len(t); i++ {
		if t[i].MinPoints <= t[i-1].MinPoints {
			return fmt.Errorf("tier %q threshold %d is not above %q", t[i].Name, t[i].MinPoints, t[i-1].Name)
		}
		if t[i].Multiplier < t[i-1].Multiplier {
			return fmt.Errorf("tier %q multiplier %g is below %q", t[i].Name, t[i].Multiplier, t[i-1].Name)
		}
	}
	return nil
}

// TierFor returns the highest tier whose threshold the point balance meets.
func (t Table) TierFor(points int64) Tier {
	current := t[0]
	for _, tr := range t[1:] {
		if points >= tr.MinPoints {
			current = tr
		}
	}
	return current
}

// MultiplierFor returns the reward multiplier for a tier name, falling back
// to the base tier's multiplier for unknown names.
func (t Table) MultiplierFor(name string) float64 {
	for _, tr := range t {
		if tr.Name == name {
			return tr.Multiplier
		}
	}
	return t[0].Multiplier
}

// Next returns the lowest tier still above the point balance, for progress
// displays. ok is false at the top tier.
func (t Table) Next(points int64) (Tier, bool) {
	for _, tr := range t {
		if points < tr.MinPoints {
			return tr, true
		}
	}
	return Tier{}, false
}

func (t Table) rank(name string) int {
	for i, tr := range t {
		if tr.Name == name {
			return i
		}
	}
	return -1
}

// Meets reports whether tier `have` is at or above tier `want`. An empty
// `want` means no requirement; an unknown `want` is never met.
func (t Table) Meets(have, want string) bool {
	if want == "" {
		return true
	}
	wantRank := t.rank(want)
	if wantRank < 0 {
		return false
	}
	return t.rank(have) >= wantRank
}
