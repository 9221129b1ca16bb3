// Package gridasset provides the rasterized city grid: semantic classes,
// walkability, traversal cost, feature ids, and the POI list that sits on
// top of it. See design doc Section 4.1.
package gridasset

import "fmt"

// Class is a semantic cell classification.
type Class uint8

const (
	ClassVoid Class = iota
	ClassBuilding
	ClassSidewalk
	ClassFootpath
	ClassParking
	ClassPlaza
	ClassGreen
	ClassWater
	ClassRoad
	ClassCrossing
)

// NumClasses is the size of the closed semantic class set.
const NumClasses = 10

// String returns a human-readable class name.
func (c Class) String() string {
	switch c {
	case ClassVoid:
		return "void"
	case ClassBuilding:
		return "building"
	case ClassSidewalk:
		return "sidewalk"
	case ClassFootpath:
		return "footpath"
	case ClassParking:
		return "parking"
	case ClassPlaza:
		return "plaza"
	case ClassGreen:
		return "green"
	case ClassWater:
		return "water"
	case ClassRoad:
		return "road"
	case ClassCrossing:
		return "crossing"
	default:
		return "unknown"
	}
}

// Blocked is the cost value meaning "cannot be traversed".
const Blocked = 255

// Cell is a grid coordinate, row (Y) then column (X).
type Cell struct {
	Y int `json:"iy"`
	X int `json:"ix"`
}

// Origin is the geographic anchor of a grid, carried alongside the raster
// for coordinate conversion by external tooling. The core never performs
// that conversion itself.
type Origin struct {
	X, Y float64
}

// Navgraph bundles the geographic anchor metadata for a Grid.
type Navgraph struct {
	Origin Origin  `json:"origin"`
	CellM  float32 `json:"cell_m"`
}

// Grid is an immutable, validated rasterized city map. Values produced by
// Load are never mutated in place: the pathfinder only reads a Grid, and the
// materializer edits its own deep copy (see copyGrids in
// internal/materializer).
type Grid struct {
	Semantic  [][]Class
	Walkable  [][]uint8
	Cost      [][]uint8
	FeatureID [][]int32
	Pois      []POI
	Navgraph  Navgraph

	Height, Width int
}

// InBounds reports whether c lies within the grid.
func (g *Grid) InBounds(c Cell) bool {
	return c.Y >= 0 && c.Y < g.Height && c.X >= 0 && c.X < g.Width
}

// IsWalkable reports whether c is in bounds and walkable.
func (g *Grid) IsWalkable(c Cell) bool {
	return g.InBounds(c) && g.Walkable[c.Y][c.X] != 0
}

// CostAt returns the traversal cost at c. Callers must check InBounds first.
func (g *Grid) CostAt(c Cell) uint8 {
	return g.Cost[c.Y][c.X]
}

// Center returns the grid midpoint cell, used as the anchor-resolution
// target for the "center" and "frontage_center" scenario anchors.
func (g *Grid) Center() Cell {
	return Cell{Y: g.Height / 2, X: g.Width / 2}
}

func (g *Grid) String() string {
	return fmt.Sprintf("Grid(%dx%d, pois=%d)", g.Height, g.Width, len(g.Pois))
}
