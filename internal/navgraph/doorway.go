package navgraph

import "github.com/nyxgrid/cityflux/internal/gridasset"

// CarveDoorway mutates grid in place, rasterizing a Bresenham line from src
// to dst and setting walkable=1 and cost=stepCost on every in-bounds cell
// within Chebyshev distance width/2 of a line cell, so the corridor is
// 2*(width/2)+1 cells wide (width 1 and width 2 give 1 and 3 cells). It is
// used once per enterable building during materialization,
// on a grid copy the materializer owns — never on a shared baseline.
func CarveDoorway(grid *gridasset.Grid, src, dst gridasset.Cell, width int, stepCost uint8) {
	for _, c := range bresenham(src, dst) {
		widenAndMark(grid, c, width, stepCost)
	}
}

func widenAndMark(grid *gridasset.Grid, center gridasset.Cell, width int, stepCost uint8) {
	half := width / 2
	for dy := -half; dy <= half; dy++ {
		for dx := -half; dx <= half; dx++ {
			c := gridasset.Cell{Y: center.Y + dy, X: center.X + dx}
			if !grid.InBounds(c) {
				continue
			}
			grid.Walkable[c.Y][c.X] = 1
			grid.Cost[c.Y][c.X] = stepCost
		}
	}
}

// bresenham returns the inclusive sequence of integer cells on the line
// from a to b.
func bresenham(a, b gridasset.Cell) []gridasset.Cell {
	x0, y0 := a.X, a.Y
	x1, y1 := b.X, b.Y

	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy

	var cells []gridasset.Cell
	x, y := x0, y0
	for {
		cells = append(cells, gridasset.Cell{Y: y, X: x})
		if x == x1 && y == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x += sx
		}
		if e2 <= dx {
			err += dx
			y += sy
		}
	}
	return cells
}
