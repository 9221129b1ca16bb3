// Package navgraph provides pathfinding over a gridasset.Grid: weighted
// A*, bounded spiral snapping to the nearest walkable cell, and doorway
// carving for enterable buildings. See design doc Section 4.2.
package navgraph

import (
	"container/heap"
	"math"

	"github.com/nyxgrid/cityflux/internal/gridasset"
)

// diagCost is the octile-heuristic diagonal step cost (sqrt(2)).
const diagCost = 1.41421356237

var neighbors8 = [8][2]int{
	{-1, 0}, {1, 0}, {0, -1}, {0, 1},
	{-1, -1}, {-1, 1}, {1, -1}, {1, 1},
}

// octile is the admissible heuristic for 8-connected grids with unit
// orthogonal step and sqrt(2) diagonal step.
func octile(a, b gridasset.Cell) float64 {
	dy := math.Abs(float64(a.Y - b.Y))
	dx := math.Abs(float64(a.X - b.X))
	if dy > dx {
		return dy + (diagCost-1)*dx
	}
	return dx + (diagCost-1)*dy
}

type pqItem struct {
	cell  gridasset.Cell
	g     float64
	f     float64
	order int
}

type priorityQueue []*pqItem

func (pq priorityQueue) Len() int { return len(pq) }
func (pq priorityQueue) Less(i, j int) bool {
	if pq[i].f != pq[j].f {
		return pq[i].f < pq[j].f
	}
	if pq[i].g != pq[j].g {
		return pq[i].g < pq[j].g
	}
	return pq[i].order < pq[j].order
}
func (pq priorityQueue) Swap(i, j int) { pq[i], pq[j] = pq[j], pq[i] }
func (pq *priorityQueue) Push(x any)   { *pq = append(*pq, x.(*pqItem)) }
func (pq *priorityQueue) Pop() any {
	old := *pq
	n := len(old)
	item := old[n-1]
	*pq = old[:n-1]
	return item
}

// AStar performs 8-connected weighted A* from start to goal over grid's
// walkable sub-grid, using grid's cost field as step weight. It returns the
// inclusive path from start to goal, or nil if unreachable, either endpoint
// is out of bounds, or either endpoint is non-walkable.
//
// Diagonal moves are permitted even when both orthogonal neighbors are
// blocked (corner-cutting allowed by default, per design doc 4.2).
func AStar(grid *gridasset.Grid, start, goal gridasset.Cell) []gridasset.Cell {
	if !grid.IsWalkable(start) || !grid.IsWalkable(goal) {
		return nil
	}
	if start == goal {
		return []gridasset.Cell{start}
	}

	gScore := map[gridasset.Cell]float64{start: 0}
	cameFrom := map[gridasset.Cell]gridasset.Cell{}
	visited := map[gridasset.Cell]bool{}

	pq := &priorityQueue{{cell: start, g: 0, f: octile(start, goal), order: 0}}
	heap.Init(pq)
	order := 1

	for pq.Len() > 0 {
		cur := heap.Pop(pq).(*pqItem)
		if visited[cur.cell] {
			continue
		}
		if cur.cell == goal {
			return reconstruct(cameFrom, start, goal)
		}
		visited[cur.cell] = true

		for _, d := range neighbors8 {
			next := gridasset.Cell{Y: cur.cell.Y + d[0], X: cur.cell.X + d[1]}
			if !grid.IsWalkable(next) || visited[next] {
				continue
			}
			step := 1.0
			if d[0] != 0 && d[1] != 0 {
				step = diagCost
			}
			weight := float64(grid.CostAt(next))
			if weight <= 0 {
				weight = 1
			}
			tentativeG := cur.g + step*weight/10.0

			if existing, ok := gScore[next]; !ok || tentativeG < existing {
				gScore[next] = tentativeG
				cameFrom[next] = cur.cell
				heap.Push(pq, &pqItem{
					cell:  next,
					g:     tentativeG,
					f:     tentativeG + octile(next, goal),
					order: order,
				})
				order++
			}
		}
	}
	return nil
}

func reconstruct(cameFrom map[gridasset.Cell]gridasset.Cell, start, goal gridasset.Cell) []gridasset.Cell {
	path := []gridasset.Cell{goal}
	cur := goal
	for cur != start {
		prev, ok := cameFrom[cur]
		if !ok {
			return nil
		}
		path = append(path, prev)
		cur = prev
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}
