package needs

import (
	"testing"

	"github.com/nyxgrid/cityflux/internal/gridasset"
	"github.com/nyxgrid/cityflux/internal/scenario"
	"github.com/stretchr/testify/assert"
)

func TestBuildBiasesForScenario_DeclaredTakesPrecedence(t *testing.T) {
	sc := &scenario.Scenario{
		Tags: map[string]any{"bias": map[string]any{"cafe": 0.9}},
	}
	biases := BuildBiasesForScenario(sc)
	assert.Equal(t, 0.9, biases[gridasset.CategoryCafe])
}

func TestBuildBiasesForScenario_DerivedFromAdds(t *testing.T) {
	iy, ix := 1, 1
	sc := &scenario.Scenario{
		PoiAdd: []scenario.POIAdd{
			{Type: gridasset.CategoryCafe, IY: &iy, IX: &ix},
			{Type: gridasset.CategoryCafe, IY: &iy, IX: &ix},
			{Type: gridasset.CategoryGrocery, IY: &iy, IX: &ix},
		},
	}
	biases := BuildBiasesForScenario(sc)
	assert.InDelta(t, 0.4, biases[gridasset.CategoryCafe], 1e-9)
	assert.InDelta(t, 0.2, biases[gridasset.CategoryGrocery], 1e-9)
}

func TestBuildBiasesForScenario_ClampedAtOne(t *testing.T) {
	iy, ix := 1, 1
	adds := make([]scenario.POIAdd, 6)
	for i := range adds {
		adds[i] = scenario.POIAdd{Type: gridasset.CategoryCafe, IY: &iy, IX: &ix}
	}
	biases := BuildBiasesForScenario(&scenario.Scenario{PoiAdd: adds})
	assert.Equal(t, 1.0, biases[gridasset.CategoryCafe])
}

func TestSeed_StartsFromIntrinsicBaseline(t *testing.T) {
	state := Seed(RoleWorker, nil)
	assert.InDelta(t, 0.4, state[NeedHunger], 1e-9)
	assert.InDelta(t, 0.3, state[NeedGroceries], 1e-9)
	assert.InDelta(t, 0.4, state[NeedSocial], 1e-9)
}

func TestSeed_AppliesRoleFloorThenBias(t *testing.T) {
	state := Seed(RoleStudent, map[gridasset.Category]float64{gridasset.CategoryCafe: 0.9})
	assert.Equal(t, 0.5, state[NeedEducation])
	assert.InDelta(t, 1.0, state[NeedCaffeine], 1e-9)
}

func TestSeed_BiasDoesNotLowerExistingFloor(t *testing.T) {
	state := Seed(RoleStudent, map[gridasset.Category]float64{gridasset.CategoryCafe: 0.0})
	assert.Equal(t, 0.4, state[NeedCaffeine])
}

func TestSeed_FanInThroughSharedCategory(t *testing.T) {
	// caffeine and social both resolve to the cafe category; a cafe bias
	// only raises caffeine, never social.
	state := Seed(RoleWorker, map[gridasset.Category]float64{gridasset.CategoryCafe: 0.9})
	assert.InDelta(t, 1.0, state[NeedCaffeine], 1e-9)
	assert.InDelta(t, 0.4, state[NeedSocial], 1e-9)
}

func TestSeed_UnmappedCategoryBiasIsIgnored(t *testing.T) {
	state := Seed(RoleWorker, map[gridasset.Category]float64{gridasset.CategoryTransit: 0.9})
	assert.InDelta(t, 0.3, state[NeedGroceries], 1e-9)
}

func TestDecayAndReinforce_DecaysThenReinforces(t *testing.T) {
	state := State{NeedCaffeine: 0.5, NeedGroceries: 0.1}
	biases := map[gridasset.Category]float64{gridasset.CategoryGrocery: 0.8}

	out := DecayAndReinforce(state, 1.0, biases)
	assert.InDelta(t, 0.48, out[NeedCaffeine], 1e-9)
	assert.InDelta(t, 0.7, out[NeedGroceries], 1e-9)
}

func TestDecayAndReinforce_FloorsAtZero(t *testing.T) {
	state := State{NeedCaffeine: 0.01}
	out := DecayAndReinforce(state, 5.0, nil)
	assert.Equal(t, 0.0, out[NeedCaffeine])
}

func TestHighest_PicksMax(t *testing.T) {
	state := State{NeedCaffeine: 0.2, NeedGroceries: 0.8}
	assert.Equal(t, NeedGroceries, state.Highest())
}

func TestTop3_OrdersDescending(t *testing.T) {
	state := State{
		NeedCaffeine:  0.3,
		NeedGroceries: 0.9,
		NeedHealth:    0.5,
		NeedLeisure:   0.1,
	}
	top := state.Top3()
	assert.Equal(t, []Need{NeedGroceries, NeedHealth, NeedCaffeine}, top)
}
