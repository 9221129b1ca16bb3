// Package decider selects an agent's next destination category. It wraps
// two strategies behind one interface, per design doc Section 4.6: an
// OracleDecider that delegates to internal/oracle, and a
// DeterministicDecider used both standalone and as the Oracle strategy's
// fallback.
package decider

import (
	"github.com/nyxgrid/cityflux/internal/gridasset"
	"github.com/nyxgrid/cityflux/internal/needs"
)

// Context is the situational input a Decider reasons over. Needs and
// Biases are deliberately different vocabularies: Needs is keyed by the
// agent's intrinsic drives (needs.Need), Biases by the destination
// categories a scenario diff favors (gridasset.Category) — the
// DeterministicDecider is what bridges the two, via needs.NeedToCategory.
type Context struct {
	Persona    string
	Role       string
	Needs      map[needs.Need]float64
	Top3Needs  []needs.Need
	MemoryTail []string
	TimeOfDay  string
	Biases     map[gridasset.Category]float64
	Meeting    bool
}

// Decision is a Decider's output: the chosen category plus a thought and a
// memory line the simulation loop appends to the agent's bounded history.
type Decision struct {
	Category gridasset.Category
	Thought  string
	Memory   string
}

// Decider never mutates the agent it decides for; it returns a fresh
// Decision the caller applies.
type Decider interface {
	Decide(ctx Context) Decision
}
