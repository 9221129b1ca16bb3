// Package metrics accumulates per-bin simulation events and derives the
// efficiency/cost/time_saved series published in the final analytics
// document. Formulas are pinned byte-for-byte to
// original_source/simulation/metrics.py's MetricsAggregator — see design
// doc Section 4.8.
package metrics

import "math"

// Aggregator accumulates events for one scenario run into fixed-width bins.
type Aggregator struct {
	ExpID  string
	EnvKey string

	bins       int
	durationS  float64
	binWidth   float64
	agentCount int

	Decisions  []int
	Arrivals   []int
	WalkCells  []float64
	TravelTime []float64
	Spend      []float64

	catTime map[string]catAccum
}

type catAccum struct {
	sum   float64
	count int
}

// New creates an Aggregator with the given bin count and scenario duration.
func New(expID, envKey string, bins int, durationS float64) *Aggregator {
	if bins < 1 {
		bins = 1
	}
	if durationS < 1.0 {
		durationS = 1.0
	}
	return &Aggregator{
		ExpID:      expID,
		EnvKey:     envKey,
		bins:       bins,
		durationS:  durationS,
		binWidth:   durationS / float64(bins),
		Decisions:  make([]int, bins),
		Arrivals:   make([]int, bins),
		WalkCells:  make([]float64, bins),
		TravelTime: make([]float64, bins),
		Spend:      make([]float64, bins),
		catTime:    map[string]catAccum{},
	}
}

// StartRun records the agent count the run was seeded with; at least 1, so
// later divisions never blow up on an empty scenario.
func (a *Aggregator) StartRun(agentCount int) {
	if agentCount < 1 {
		agentCount = 1
	}
	a.agentCount = agentCount
}

func (a *Aggregator) binIdx(tS float64) int {
	if tS < 0 {
		tS = 0
	}
	idx := int(math.Floor(tS / a.binWidth))
	if idx >= a.bins {
		idx = a.bins - 1
	}
	return idx
}

// RecordDecision increments the decision count for the bin containing tS.
func (a *Aggregator) RecordDecision(tS float64) {
	a.Decisions[a.binIdx(tS)]++
}

// RecordArrival records an arrival event: bin increments, walk distance and
// travel time accumulate, and the category's running average updates.
func (a *Aggregator) RecordArrival(category string, pathLenCells int, travelTimeS, tS float64) {
	bi := a.binIdx(tS)
	a.Arrivals[bi]++
	a.WalkCells[bi] += float64(pathLenCells)
	a.TravelTime[bi] += travelTimeS

	acc := a.catTime[category]
	acc.sum += travelTimeS
	acc.count++
	a.catTime[category] = acc
}

// RecordPurchase accumulates spend for the bin containing tS.
func (a *Aggregator) RecordPurchase(amount, tS float64) {
	a.Spend[a.binIdx(tS)] += amount
}

func (a *Aggregator) avgCatTime() map[string]float64 {
	out := make(map[string]float64, len(a.catTime))
	for k, acc := range a.catTime {
		if acc.count > 0 {
			out[k] = acc.sum / float64(acc.count)
		}
	}
	return out
}

// Point is one (x,y) sample of a derived series.
type Point struct {
	X int     `json:"x"`
	Y float64 `json:"y"`
}

func series(vals []float64) []Point {
	out := make([]Point, len(vals))
	for i, v := range vals {
		out[i] = Point{X: i, Y: v}
	}
	return out
}

// Series is the three derived metric series for one scenario run.
type Series struct {
	Efficiency []Point
	Cost       []Point
	TimeSaved  []Point
}

// Summarize derives the efficiency, cost, and time_saved series for this
// aggregator. baseline may be nil (this run is itself the baseline). The
// series functions are pure over aggregator state: repeated calls with
// identical state return identical values.
func (a *Aggregator) Summarize(baseline *Aggregator) Series {
	agents := float64(a.agentCount)
	if agents == 0 {
		agents = 1
	}

	var walkSum float64
	for _, w := range a.WalkCells {
		walkSum += w
	}
	distScale := walkSum / agents
	if distScale < 200.0 {
		distScale = 200.0
	}

	var baseAvgCatTime map[string]float64
	if baseline != nil {
		baseAvgCatTime = baseline.avgCatTime()
	}

	eff := make([]float64, a.bins)
	cost := make([]float64, a.bins)
	timeSaved := make([]float64, a.bins)

	for i := 0; i < a.bins; i++ {
		successes := float64(a.Arrivals[i]) / agents
		penalty := 0.05 * (a.WalkCells[i] / (agents * distScale))
		eff[i] = clamp01(successes-penalty) * 100.0

		if baseline != nil {
			b := baseline.Spend[i]
			if b < 1e-6 {
				b = 1e-6
			}
			cost[i] = 100.0 * (b - a.Spend[i]) / b
		} else {
			cost[i] = math.Min(100.0, math.Sqrt(a.Spend[i]+1.0)*10.0)
		}

		if baseline != nil && a.Arrivals[i] > 0 {
			avgScenarioTime := a.TravelTime[i] / math.Max(1.0, float64(a.Arrivals[i]))
			var avgBaselineTime float64
			if len(baseAvgCatTime) > 0 {
				var sum float64
				for _, v := range baseAvgCatTime {
					sum += v
				}
				avgBaselineTime = sum / float64(len(baseAvgCatTime))
			}
			ts := avgBaselineTime - avgScenarioTime
			if ts < 0 {
				ts = 0
			}
			timeSaved[i] = ts * 10.0
		}
	}

	return Series{
		Efficiency: series(eff),
		Cost:       series(cost),
		TimeSaved:  series(timeSaved),
	}
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
