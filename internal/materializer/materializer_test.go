package materializer

import (
	"testing"

	"github.com/nyxgrid/cityflux/internal/gridasset"
	"github.com/nyxgrid/cityflux/internal/scenario"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func walkableGrid(h, w int) *gridasset.Grid {
	sem := make([][]gridasset.Class, h)
	walk := make([][]uint8, h)
	cost := make([][]uint8, h)
	fid := make([][]int32, h)
	for y := 0; y < h; y++ {
		sem[y] = make([]gridasset.Class, w)
		walk[y] = make([]uint8, w)
		cost[y] = make([]uint8, w)
		fid[y] = make([]int32, w)
		for x := 0; x < w; x++ {
			walk[y][x] = 1
			cost[y][x] = 10
			fid[y][x] = -1
		}
	}
	return &gridasset.Grid{Semantic: sem, Walkable: walk, Cost: cost, FeatureID: fid, Height: h, Width: w}
}

func TestMaterialize_EmptyScenarioPreservesGrid(t *testing.T) {
	base := walkableGrid(3, 3)
	base.Pois = []gridasset.POI{{Type: gridasset.CategoryCafe, IY: 1, IX: 1}}

	out, err := Materialize(base, &scenario.Scenario{ID: "baseline"})
	require.NoError(t, err)
	assert.Equal(t, base.Pois, out.Pois)
	assert.NotSame(t, &base.Walkable, &out.Walkable)
}

func TestMaterialize_AddsCafeWithTag(t *testing.T) {
	base := walkableGrid(5, 5)
	iy, ix := 2, 2
	sc := &scenario.Scenario{
		ID: "h001",
		PoiAdd: []scenario.POIAdd{
			{Type: gridasset.CategoryCafe, Name: "corner cafe", IY: &iy, IX: &ix},
		},
	}

	out, err := Materialize(base, sc)
	require.NoError(t, err)
	require.Len(t, out.Pois, 1)
	poi := out.Pois[0]
	assert.Equal(t, gridasset.CategoryCafe, poi.Type)
	assert.True(t, poi.FromScenario())
	require.NotNil(t, poi.Snapped)
	assert.Equal(t, gridasset.Cell{Y: 2, X: 2}, *poi.Snapped)
}

func TestMaterialize_AddSnapsWhenNonWalkable(t *testing.T) {
	base := walkableGrid(5, 5)
	base.Walkable[2][2] = 0
	base.Walkable[2][3] = 1
	base.Walkable[2][4] = 0
	for y := 0; y < 5; y++ {
		for x := 0; x < 5; x++ {
			if !(y == 2 && x == 3) {
				base.Walkable[y][x] = 0
			}
		}
	}
	iy, ix := 2, 2
	sc := &scenario.Scenario{
		ID:     "h002",
		PoiAdd: []scenario.POIAdd{{Type: gridasset.CategoryGrocery, IY: &iy, IX: &ix}},
	}

	out, err := Materialize(base, sc)
	require.NoError(t, err)
	require.Len(t, out.Pois, 1)
	require.NotNil(t, out.Pois[0].Snapped)
	assert.Equal(t, gridasset.Cell{Y: 2, X: 3}, *out.Pois[0].Snapped)
	assert.Equal(t, gridasset.Cell{Y: 2, X: 2}, out.Pois[0].Raw())
}

func TestMaterialize_AddInsideBuildingCarvesDoorway(t *testing.T) {
	base := walkableGrid(130, 130)
	for y := 60; y <= 64; y++ {
		for x := 60; x <= 64; x++ {
			base.Semantic[y][x] = gridasset.ClassBuilding
			base.FeatureID[y][x] = 42
			base.Walkable[y][x] = 0
		}
	}
	iy, ix := 62, 62
	sc := &scenario.Scenario{
		ID:     "h005",
		PoiAdd: []scenario.POIAdd{{Type: gridasset.CategoryRestaurant, IY: &iy, IX: &ix}},
	}

	out, err := Materialize(base, sc)
	require.NoError(t, err)
	require.Len(t, out.Pois, 1)

	poi := out.Pois[0]
	require.NotNil(t, poi.Snapped)
	centroid := gridasset.Cell{Y: 62, X: 62}
	assert.Equal(t, centroid, *poi.Snapped, "snaps to the building centroid, not a street cell")
	assert.True(t, out.IsWalkable(centroid), "building interior opened")

	assert.Equal(t, uint8(interiorCost), out.CostAt(gridasset.Cell{Y: 60, X: 60}), "interior cell off the doorway line keeps interior cost")
	assert.Equal(t, uint8(doorwayStepCost), out.CostAt(gridasset.Cell{Y: 60, X: 62}), "interior cell on the doorway line is recosted")
	assert.Equal(t, uint8(doorwayStepCost), out.CostAt(gridasset.Cell{Y: 58, X: 62}), "doorway reaches the nearest street cell")

	assert.False(t, base.IsWalkable(centroid), "baseline grid left untouched")
}

func TestMaterialize_UpdateMergesTagsAndReplacesOthers(t *testing.T) {
	base := walkableGrid(3, 3)
	base.Pois = []gridasset.POI{
		{Type: gridasset.CategoryCafe, Name: "old cafe", IY: 1, IX: 1, Tags: map[string]string{"quality": "low"}},
	}
	sc := &scenario.Scenario{
		ID: "h003",
		PoiUpdate: []scenario.POIUpdate{
			{
				Match: map[string]any{"name": "old cafe"},
				Set:   map[string]any{"name": "renovated cafe", "tags": map[string]any{"quality": "high"}},
			},
		},
	}

	out, err := Materialize(base, sc)
	require.NoError(t, err)
	require.Len(t, out.Pois, 1)
	assert.Equal(t, "renovated cafe", out.Pois[0].Name)
	assert.Equal(t, "high", out.Pois[0].Tags["quality"])
}

func TestMaterialize_AddsBeforeUpdatesSoLaterUpdateHitsEarlierAdd(t *testing.T) {
	base := walkableGrid(3, 3)
	iy, ix := 1, 1
	sc := &scenario.Scenario{
		ID:     "h004",
		PoiAdd: []scenario.POIAdd{{Type: gridasset.CategoryCafe, Name: "new cafe", IY: &iy, IX: &ix}},
		PoiUpdate: []scenario.POIUpdate{
			{Match: map[string]any{"name": "new cafe"}, Set: map[string]any{"name": "renamed cafe"}},
		},
	}

	out, err := Materialize(base, sc)
	require.NoError(t, err)
	require.Len(t, out.Pois, 1)
	assert.Equal(t, "renamed cafe", out.Pois[0].Name)
}
