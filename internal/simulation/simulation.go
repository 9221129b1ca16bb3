// Package simulation runs the per-scenario agent tick loop: decide,
// resolve destination, travel, arrive, purchase, decay. See design doc
// Section 4.7.
package simulation

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/nyxgrid/cityflux/internal/decider"
	"github.com/nyxgrid/cityflux/internal/entropy"
	"github.com/nyxgrid/cityflux/internal/gridasset"
	"github.com/nyxgrid/cityflux/internal/metrics"
	"github.com/nyxgrid/cityflux/internal/navgraph"
	"github.com/nyxgrid/cityflux/internal/needs"
	"github.com/nyxgrid/cityflux/internal/runlog"
	"github.com/nyxgrid/cityflux/internal/scenario"
)

// PurchaseProbability is the baseline chance an arrival converts to a
// purchase, pinned from design doc Section 4.7.
const PurchaseProbability = 0.7

// Params configures a single scenario run.
type Params struct {
	Grid            *gridasset.Grid
	Scenario        *scenario.Scenario
	Biases          map[gridasset.Category]float64
	AgentCount      int
	Seed            int64
	DurationS       float64
	TickSeconds     float64
	OracleBatchSize int
	Decider         decider.Decider
	Aggregator      *metrics.Aggregator
	Log             *runlog.Writer
	PurchaseSource  *entropy.Client
}

// Simulation holds one scenario run's live state.
type Simulation struct {
	grid       *gridasset.Grid
	biases     map[gridasset.Category]float64
	agents     []*Agent
	decider    decider.Decider
	agg        *metrics.Aggregator
	log        *runlog.Writer
	purchase   *entropy.Client
	rng        *entropy.Seeded
	tickS      float64
	durationS  float64
	batchSize  int
	elapsedS   float64
}

// New builds a Simulation: N agents positioned at the grid center,
// role-sampled from the fixed {student,resident,worker} distribution using
// a seeded source so role assignment is reproducible across runs of the
// same scenario.
func New(p Params) *Simulation {
	tickS := p.TickSeconds
	if tickS <= 0 {
		tickS = 0.5
	}
	batchSize := p.OracleBatchSize
	if batchSize <= 0 {
		batchSize = 8
	}

	rng := entropy.NewSeeded(p.Seed)
	agents := make([]*Agent, p.AgentCount)
	center := p.Grid.Center()
	for i := 0; i < p.AgentCount; i++ {
		role := needs.Roles[int(rng.Float()*float64(len(needs.Roles)))%len(needs.Roles)]
		agents[i] = &Agent{
			ID:    i,
			Role:  role,
			Pos:   center,
			Needs: needs.Seed(role, p.Biases),
		}
	}

	if p.Aggregator != nil {
		p.Aggregator.StartRun(p.AgentCount)
	}

	return &Simulation{
		grid:      p.Grid,
		biases:    p.Biases,
		agents:    agents,
		decider:   p.Decider,
		agg:       p.Aggregator,
		log:       p.Log,
		purchase:  p.PurchaseSource,
		rng:       rng,
		tickS:     tickS,
		durationS: p.DurationS,
		batchSize: batchSize,
	}
}

// Run advances the simulation tick by tick until durationS of simulated
// time has elapsed. It is resilient to missing oracle, path, or POI data —
// ticks never abort the run.
func (s *Simulation) Run(ctx context.Context) error {
	for s.elapsedS < s.durationS {
		if err := ctx.Err(); err != nil {
			return err
		}
		s.tick(ctx)
		s.elapsedS += s.tickS
	}
	return nil
}

func (s *Simulation) tick(ctx context.Context) {
	s.decideBatch(ctx)

	for _, a := range s.agents {
		s.resolveDestination(a)
		s.advance(a)
	}

	biases := s.biases
	for _, a := range s.agents {
		a.Needs = needs.DecayAndReinforce(a.Needs, s.tickS, biases)
	}
}

// decideBatch calls the Decider for every agent in bounded batches,
// preserving per-agent ordering in how results are applied even though
// calls within a batch run concurrently (oracle strategies benefit from
// the parallel fan-out; deterministic ones complete instantly either way).
func (s *Simulation) decideBatch(ctx context.Context) {
	decisions := make([]decider.Decision, len(s.agents))

	for start := 0; start < len(s.agents); start += s.batchSize {
		end := start + s.batchSize
		if end > len(s.agents) {
			end = len(s.agents)
		}

		g, _ := errgroup.WithContext(ctx)
		for i := start; i < end; i++ {
			i := i
			a := s.agents[i]
			g.Go(func() error {
				decisions[i] = s.decider.Decide(decider.Context{
					Persona:    "resident",
					Role:       string(a.Role),
					Needs:      a.Needs,
					Top3Needs:  a.Needs.Top3(),
					MemoryTail: a.MemoryTail(),
					Biases:     s.biases,
				})
				return nil
			})
		}
		_ = g.Wait()
	}

	for i, a := range s.agents {
		d := decisions[i]
		a.category = d.Category
		a.addMemory(d.Memory)
		if s.agg != nil {
			s.agg.RecordDecision(s.elapsedS)
		}
		if s.log != nil {
			_ = s.log.Write(runlog.Event{
				Kind:     runlog.EventDecision,
				TS:       s.elapsedS,
				AgentID:  a.ID,
				Category: string(d.Category),
			})
		}
	}
}

// resolveDestination finds the nearest reachable POI of the agent's chosen
// category and caches a path to it, recomputing only when the category (and
// therefore the destination) changes.
func (s *Simulation) resolveDestination(a *Agent) {
	if a.traveling || a.category == "" {
		return
	}
	if a.dest != nil && a.dest.Type == a.category {
		return
	}

	var best *gridasset.POI
	var bestPath []gridasset.Cell
	for i := range s.grid.Pois {
		poi := &s.grid.Pois[i]
		if poi.Type != a.category || !poi.Reachable() {
			continue
		}
		path := navgraph.AStar(s.grid, a.Pos, *poi.Snapped)
		if path == nil {
			continue
		}
		if bestPath == nil || len(path) < len(bestPath) {
			best = poi
			bestPath = path
		}
	}

	if best == nil {
		// No reachable POI of this category: the agent stays put. The
		// decision was already recorded; there is nothing more to do.
		a.dest = nil
		a.path = nil
		return
	}

	a.dest = best
	a.path = bestPath
	a.pathIdx = 0
	a.travelStartS = s.elapsedS
	a.traveling = len(bestPath) > 1
	if !a.traveling {
		a.Pos = bestPath[0]
	}
}

// advance moves a traveling agent one cell along its cached path per tick,
// emitting an arrival (and possible purchase) event on reaching the
// destination.
func (s *Simulation) advance(a *Agent) {
	if !a.traveling || a.path == nil {
		return
	}

	a.pathIdx++
	if a.pathIdx >= len(a.path) {
		a.pathIdx = len(a.path) - 1
	}
	a.Pos = a.path[a.pathIdx]

	if a.pathIdx < len(a.path)-1 {
		return
	}

	a.traveling = false
	travelTime := s.elapsedS + s.tickS - a.travelStartS
	pathLen := len(a.path)

	if s.agg != nil {
		s.agg.RecordArrival(string(a.category), pathLen, travelTime, s.elapsedS)
	}
	if s.log != nil {
		_ = s.log.Write(runlog.Event{
			Kind:       runlog.EventArrival,
			TS:         s.elapsedS,
			AgentID:    a.ID,
			Category:   string(a.category),
			PathLen:    pathLen,
			TravelTime: travelTime,
		})
	}

	s.maybePurchase(a)
}

func (s *Simulation) maybePurchase(a *Agent) {
	if entropy.FloatFromSource(s.purchase) >= PurchaseProbability {
		return
	}

	amount := 5.0 + entropy.FloatFromSource(s.purchase)*20.0
	if a.dest != nil && a.dest.FromScenario() {
		amount *= 1.3 + entropy.FloatFromSource(s.purchase)*1.2
	}

	if s.agg != nil {
		s.agg.RecordPurchase(amount, s.elapsedS)
	}
	if s.log != nil {
		_ = s.log.Write(runlog.Event{
			Kind:     runlog.EventPurchase,
			TS:       s.elapsedS,
			AgentID:  a.ID,
			Category: string(a.category),
			Amount:   amount,
		})
	}
}
