package simulation

import (
	"github.com/nyxgrid/cityflux/internal/gridasset"
	"github.com/nyxgrid/cityflux/internal/needs"
)

// MaxMemoryLines bounds an agent's memory tail, the context window the
// Oracle decider prompt draws from.
const MaxMemoryLines = 16

// Agent is one simulated resident.
type Agent struct {
	ID    int
	Role  needs.Role
	Pos   gridasset.Cell
	Needs needs.State

	memory []string

	category gridasset.Category
	dest     *gridasset.POI
	path     []gridasset.Cell
	pathIdx  int

	travelStartS float64
	traveling    bool
}

// addMemory appends a line, dropping the oldest once the tail is full.
func (a *Agent) addMemory(line string) {
	if line == "" {
		return
	}
	a.memory = append(a.memory, line)
	if len(a.memory) > MaxMemoryLines {
		a.memory = a.memory[len(a.memory)-MaxMemoryLines:]
	}
}

// MemoryTail returns the agent's current bounded memory, most recent last.
func (a *Agent) MemoryTail() []string {
	return a.memory
}
