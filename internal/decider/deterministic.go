package decider

import (
	"github.com/nyxgrid/cityflux/internal/gridasset"
	"github.com/nyxgrid/cityflux/internal/needs"
)

// DeterministicDecider picks the highest-weighted current need and maps it
// through the fixed need->category table pinned from brain_server.py's
// NEED_TO_CATEGORY (design doc Section 4.6). It never fails and never
// blocks, which is why OracleDecider falls back to it.
type DeterministicDecider struct{}

func (DeterministicDecider) Decide(ctx Context) Decision {
	if ctx.Meeting {
		return Decision{
			Category: gridasset.CategoryCafe,
			Thought:  "heading to a meeting, grabbing a coffee on the way",
			Memory:   "went to cafe before a meeting",
		}
	}

	n := highestNeed(ctx.Needs)
	cat, ok := needs.NeedToCategory[n]
	if !ok {
		cat = gridasset.CategoryRetail
	}

	return Decision{
		Category: cat,
		Thought:  "acting on the strongest current need: " + string(n),
		Memory:   "went to " + string(cat),
	}
}

// highestNeed returns the leading need, defaulting to leisure when none is
// set, matching brain_server.py's `best_need or "leisure"` fallback.
func highestNeed(m map[needs.Need]float64) needs.Need {
	best := needs.NeedLeisure
	bestVal := -1.0
	for _, n := range needs.Needs {
		if v, ok := m[n]; ok && v > bestVal {
			best = n
			bestVal = v
		}
	}
	return best
}
