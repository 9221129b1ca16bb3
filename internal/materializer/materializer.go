// Package materializer applies a scenario diff to a baseline grid, producing
// a new POI list with adds and updates resolved. See design doc Section 4.4.
package materializer

import (
	"fmt"

	"github.com/nyxgrid/cityflux/internal/gridasset"
	"github.com/nyxgrid/cityflux/internal/navgraph"
	"github.com/nyxgrid/cityflux/internal/scenario"
)

// SnapRadius is the bounded search radius used when a poi_add's resolved
// cell is non-walkable, matching environment_editor.py's naive 20-cell scan.
const SnapRadius = 20

// Doorway carving constants, pinned from nav_and_pois.py's
// run_step3_prepare_nav_and_pois defaults.
const (
	doorwaySearchRadius = 60
	doorwayWidth        = 2
	doorwayStepCost     = 10
	interiorCost        = 12
)

// Materialize deep-copies baseline's four grids and returns a new
// *gridasset.Grid whose POI list reflects sc's poi_add entries (processed
// first) followed by its poi_update entries, each applied in input order so
// a later update can modify an earlier add. The copy's walkable and cost
// grids change only when a poi_add lands inside a building footprint: that
// footprint is opened and a doorway carved to the street (see
// makeBuildingEnterable). The baseline grid is never modified.
func Materialize(baseline *gridasset.Grid, sc *scenario.Scenario) (*gridasset.Grid, error) {
	out := copyGrids(baseline)

	pois := make([]gridasset.POI, len(baseline.Pois))
	copy(pois, baseline.Pois)

	for i := range sc.PoiAdd {
		poi, err := materializeAdd(out, &sc.PoiAdd[i])
		if err != nil {
			return nil, fmt.Errorf("materializer: poi_add[%d]: %w", i, err)
		}
		pois = append(pois, poi)
	}

	for i := range sc.PoiUpdate {
		applyUpdate(pois, &sc.PoiUpdate[i])
	}

	out.Pois = pois
	return out, nil
}

func materializeAdd(grid *gridasset.Grid, add *scenario.POIAdd) (gridasset.POI, error) {
	target := scenario.ResolveCell(grid, add)

	snapped := target
	if !grid.IsWalkable(target) {
		if fid := buildingFeatureAt(grid, target); fid > 0 {
			snapped = makeBuildingEnterable(grid, fid, target)
		} else if c, ok := navgraph.SnapToWalkable(grid, target, SnapRadius); ok {
			snapped = c
		}
	}

	tags := map[string]string{gridasset.OriginTagScenario: "1"}
	for k, v := range add.Attrs {
		tags[k] = fmt.Sprintf("%v", v)
	}

	poi := gridasset.POI{
		Type:    add.Type,
		IY:      target.Y,
		IX:      target.X,
		Name:    add.Name,
		Tags:    tags,
		Snapped: &gridasset.Cell{Y: snapped.Y, X: snapped.X},
	}
	return poi, nil
}

// buildingFeatureAt returns the feature id at target if it lands inside a
// building cell, or 0 if it doesn't (0 is never a valid feature id).
func buildingFeatureAt(grid *gridasset.Grid, target gridasset.Cell) int32 {
	if !grid.InBounds(target) {
		return 0
	}
	if grid.Semantic[target.Y][target.X] != gridasset.ClassBuilding {
		return 0
	}
	return grid.FeatureID[target.Y][target.X]
}

// makeBuildingEnterable opens every cell of the fid building footprint
// (walkable=1, cost=interiorCost) and carves a doorway from the footprint's
// centroid out to the nearest walkable street cell within
// doorwaySearchRadius, mirroring nav_and_pois.py's "make buildings
// enterable" pass run once per scenario-added POI that lands inside a
// building instead of once per baseline asset build. Returns the centroid,
// the POI's new snapped position — the agent paths into the interior, the
// doorway connects that interior to the surrounding street.
func makeBuildingEnterable(grid *gridasset.Grid, fid int32, target gridasset.Cell) gridasset.Cell {
	var sumY, sumX, n int
	for y := 0; y < grid.Height; y++ {
		for x := 0; x < grid.Width; x++ {
			if grid.FeatureID[y][x] != fid {
				continue
			}
			grid.Walkable[y][x] = 1
			grid.Cost[y][x] = interiorCost
			sumY += y
			sumX += x
			n++
		}
	}
	if n == 0 {
		return target
	}
	centroid := gridasset.Cell{Y: sumY / n, X: sumX / n}

	if dst, ok := nearestOutdoorWalkable(grid, fid, centroid, doorwaySearchRadius); ok {
		navgraph.CarveDoorway(grid, centroid, dst, doorwayWidth, doorwayStepCost)
	}
	return centroid
}

// nearestOutdoorWalkable finds the closest walkable cell outside the fid
// footprint within a (2*radius+1) window around center, scanning every
// other row/column as nav_and_pois.py does for its doorway search.
func nearestOutdoorWalkable(grid *gridasset.Grid, fid int32, center gridasset.Cell, radius int) (gridasset.Cell, bool) {
	y0, y1 := clampInt(center.Y-radius, 0, grid.Height-1), clampInt(center.Y+radius, 0, grid.Height-1)
	x0, x1 := clampInt(center.X-radius, 0, grid.Width-1), clampInt(center.X+radius, 0, grid.Width-1)

	var best gridasset.Cell
	bestD2 := -1
	found := false
	for y := y0; y <= y1; y += 2 {
		for x := x0; x <= x1; x += 2 {
			if grid.Walkable[y][x] != 1 || grid.FeatureID[y][x] == fid {
				continue
			}
			dy, dx := y-center.Y, x-center.X
			d2 := dy*dy + dx*dx
			if !found || d2 < bestD2 {
				best = gridasset.Cell{Y: y, X: x}
				bestD2 = d2
				found = true
			}
		}
	}
	return best, found
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func applyUpdate(pois []gridasset.POI, upd *scenario.POIUpdate) {
	for i := range pois {
		if !matches(&pois[i], upd.Match) {
			continue
		}
		for k, v := range upd.Set {
			if k == "tags" {
				mergeTags(&pois[i], v)
				continue
			}
			setField(&pois[i], k, v)
		}
	}
}

func matches(p *gridasset.POI, match map[string]any) bool {
	for k, v := range match {
		if fmt.Sprintf("%v", fieldValue(p, k)) != fmt.Sprintf("%v", v) {
			return false
		}
	}
	return true
}

func fieldValue(p *gridasset.POI, key string) any {
	switch key {
	case "type":
		return string(p.Type)
	case "name":
		return p.Name
	case "iy":
		return p.IY
	case "ix":
		return p.IX
	default:
		if p.Tags != nil {
			return p.Tags[key]
		}
		return nil
	}
}

func setField(p *gridasset.POI, key string, v any) {
	switch key {
	case "type":
		p.Type = gridasset.Category(fmt.Sprintf("%v", v))
	case "name":
		p.Name = fmt.Sprintf("%v", v)
	default:
		if p.Tags == nil {
			p.Tags = map[string]string{}
		}
		p.Tags[key] = fmt.Sprintf("%v", v)
	}
}

func mergeTags(p *gridasset.POI, v any) {
	m, ok := v.(map[string]any)
	if !ok {
		return
	}
	if p.Tags == nil {
		p.Tags = map[string]string{}
	}
	for k, val := range m {
		p.Tags[k] = fmt.Sprintf("%v", val)
	}
}

// copyGrids returns a deep copy of baseline's four grids and navgraph, with
// an empty POI list, so makeBuildingEnterable's walkable/cost edits and
// doorway carving (4.2) land on this scenario's own grid, never the shared
// baseline other scenarios materialize against.
func copyGrids(baseline *gridasset.Grid) *gridasset.Grid {
	return &gridasset.Grid{
		Semantic:  copyClassGrid(baseline.Semantic),
		Walkable:  copyByteGrid(baseline.Walkable),
		Cost:      copyByteGrid(baseline.Cost),
		FeatureID: copyInt32Grid(baseline.FeatureID),
		Navgraph:  baseline.Navgraph,
		Height:    baseline.Height,
		Width:     baseline.Width,
	}
}

func copyClassGrid(src [][]gridasset.Class) [][]gridasset.Class {
	out := make([][]gridasset.Class, len(src))
	for i, row := range src {
		out[i] = append([]gridasset.Class(nil), row...)
	}
	return out
}

func copyByteGrid(src [][]uint8) [][]uint8 {
	out := make([][]uint8, len(src))
	for i, row := range src {
		out[i] = append([]uint8(nil), row...)
	}
	return out
}

func copyInt32Grid(src [][]int32) [][]int32 {
	out := make([][]int32, len(src))
	for i, row := range src {
		out[i] = append([]int32(nil), row...)
	}
	return out
}
