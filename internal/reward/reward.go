package reward

import (
	"encoding/json"
	"fmt"
	"math"
	"math/rand"
)

// Segment is one outcome of a discrete reward table (a wheel slice, a
// scratch field). A zero Value is a valid "no win" outcome. Weight 0 on
// every segment selects the uniform-over-index policy; any positive weight
// switches the whole table to proportional selection, where weightless
// segments can never be drawn.
type Segment struct {
	Value  float64 `json:"value"`
	Label  string  `json:"label,omitempty"`
	Weight float64 `json:"weight,omitempty"`
}

// ParseSegments validates a raw catalog segment table into strict segments.
// Called at the catalog boundary so malformed configs never reach a draw.
func ParseSegments(raw string) ([]Segment, error) {
	var segments []Segment
	if err := json.Unmarshal([]byte(raw), &segments); err != nil {
		return nil, fmt.Errorf("invalid segment table: %w", err)
	}
	if len(segments) == 0 {
		return nil, fmt.Errorf("segment table is empty")
	}
	for i, seg := range segments {
		if seg.Value < 0 {
			return nil, fmt.Errorf("segment %d has negative value %g", i, seg.Value)
		}
		if seg.Weight < 0 {
			return nil, fmt.Errorf("segment %d has negative weight %g", i, seg.Weight)
		}
	}
	return segments, nil
}

// Generator draws rewards from an injectable random source so tests can
// reproduce outcomes.
type Generator struct {
	rng *rand.Rand
}

func NewGenerator(src rand.Source) *Generator {
	return &Generator{rng: rand.New(src)}
}

// Uniform draws a reward from [min, max], applies the multiplier and rounds
// to two decimals. min <= max is enforced when the offer is configured.
func (g *Generator) Uniform(min, max, multiplier float64) float64 {
	base := min + g.rng.Float64()*(max-min)
	return Round2(base * multiplier)
}

// Draw selects a segment, applies the multiplier to its value and rounds to
// two decimals. The chosen index is returned so clients can replay the
// exact outcome.
func (g *Generator) Draw(segments []Segment, multiplier float64) (index int, amount float64) {
	index = g.pick(segments)
	return index, Round2(segments[index].Value * multiplier)
}

func (g *Generator) pick(segments []Segment) int {
	var total float64
	for _, seg := range segments {
		total += seg.Weight
	}
	if total <= 0 {
		return g.rng.Intn(len(segments))
	}
	target := g.rng.Float64() * total
	for i, seg := range segments {
		target -= seg.Weight
		if target < 0 {
			return i
		}
	}
	return len(segments) - 1
}

// Round2 rounds to two decimal places, the resolution of credit amounts.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
