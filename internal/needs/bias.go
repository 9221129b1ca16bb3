// Package needs derives scenario-driven need biases and applies the
// role-seeded floor tables, decay, and reinforcement formulas pinned in
// design doc Section 4.5.
package needs

import (
	"github.com/nyxgrid/cityflux/internal/gridasset"
	"github.com/nyxgrid/cityflux/internal/scenario"
)

// BuildBiasesForScenario derives {category: weight} for sc. If sc declares
// tags.bias, that map is used with each weight clamped to [0,1]. Otherwise
// each distinct category in poi_add is assigned a weight starting at 0.2
// and incremented by 0.2 per additional add of the same category, clamped
// to [0,1].
func BuildBiasesForScenario(sc *scenario.Scenario) map[gridasset.Category]float64 {
	if declared, ok := sc.Bias(); ok {
		out := make(map[gridasset.Category]float64, len(declared))
		for k, v := range declared {
			out[gridasset.Category(k)] = clamp01(v)
		}
		return out
	}

	out := map[gridasset.Category]float64{}
	for _, add := range sc.PoiAdd {
		out[add.Type] = clamp01(out[add.Type] + 0.2)
	}
	return out
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
