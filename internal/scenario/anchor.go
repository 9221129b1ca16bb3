package scenario

import "github.com/nyxgrid/cityflux/internal/gridasset"

// ResolveCell returns the absolute grid cell for a poi_add entry: either its
// explicit (iy,ix), or its anchor shifted by (dy,dx) and clamped to bounds.
// Unknown anchor names, and "frontage_center", both resolve like "center" —
// this core carries no frontage region-of-interest on the grid.
func ResolveCell(grid *gridasset.Grid, add *POIAdd) gridasset.Cell {
	if add.IY != nil && add.IX != nil {
		return clamp(grid, gridasset.Cell{Y: *add.IY, X: *add.IX})
	}

	base := resolveAnchor(grid, add.Anchor.Name)
	return clamp(grid, gridasset.Cell{
		Y: base.Y + add.Anchor.DY,
		X: base.X + add.Anchor.DX,
	})
}

func resolveAnchor(grid *gridasset.Grid, name string) gridasset.Cell {
	switch name {
	case "center", "frontage_center":
		return grid.Center()
	default:
		return grid.Center()
	}
}

func clamp(grid *gridasset.Grid, c gridasset.Cell) gridasset.Cell {
	if c.Y < 0 {
		c.Y = 0
	}
	if c.Y >= grid.Height {
		c.Y = grid.Height - 1
	}
	if c.X < 0 {
		c.X = 0
	}
	if c.X >= grid.Width {
		c.X = grid.Width - 1
	}
	return c
}
