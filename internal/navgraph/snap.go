package navgraph

import "github.com/nyxgrid/cityflux/internal/gridasset"

// SnapToWalkable returns target if it is already walkable; otherwise it
// performs a bounded spiral search outward from target and returns the
// nearest walkable cell found within maxR rings. It returns false if no
// walkable cell exists within radius, or target is out of bounds.
func SnapToWalkable(grid *gridasset.Grid, target gridasset.Cell, maxR int) (gridasset.Cell, bool) {
	if !grid.InBounds(target) {
		return gridasset.Cell{}, false
	}
	if grid.IsWalkable(target) {
		return target, true
	}

	for r := 1; r <= maxR; r++ {
		if c, ok := ringWalkable(grid, target, r); ok {
			return c, true
		}
	}
	return gridasset.Cell{}, false
}

// ringWalkable scans the square ring at Chebyshev distance r from center,
// in row-major order, returning the first walkable cell found.
func ringWalkable(grid *gridasset.Grid, center gridasset.Cell, r int) (gridasset.Cell, bool) {
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			if abs(dy) != r && abs(dx) != r {
				continue
			}
			c := gridasset.Cell{Y: center.Y + dy, X: center.X + dx}
			if grid.IsWalkable(c) {
				return c, true
			}
		}
	}
	return gridasset.Cell{}, false
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
