package gridasset

// Category is a POI category drawn from the fixed closed set.
type Category string

const (
	CategoryGrocery    Category = "grocery"
	CategoryPharmacy   Category = "pharmacy"
	CategoryCafe       Category = "cafe"
	CategoryRestaurant Category = "restaurant"
	CategoryTransit    Category = "transit"
	CategoryEducation  Category = "education"
	CategoryHealth     Category = "health"
	CategoryRetail     Category = "retail"
	CategoryOther      Category = "other"
)

// Categories lists the closed category set in a fixed, deterministic order.
var Categories = []Category{
	CategoryGrocery, CategoryPharmacy, CategoryCafe, CategoryRestaurant,
	CategoryTransit, CategoryEducation, CategoryHealth, CategoryRetail, CategoryOther,
}

// ValidCategory reports whether cat is a member of the closed category set.
func ValidCategory(cat Category) bool {
	for _, c := range Categories {
		if c == cat {
			return true
		}
	}
	return false
}

// OriginTagScenario is the tags key the materializer sets on POIs it adds,
// so the simulation loop can apply the scenario-added purchase multiplier
// (spec 4.7 step 4) without re-deriving it from the scenario diff.
const OriginTagScenario = "_origin_scenario"

// POI is a typed point of interest sitting on the grid.
type POI struct {
	Type     Category          `json:"type"`
	IY       int               `json:"iy"`
	IX       int               `json:"ix"`
	Snapped  *Cell             `json:"snapped,omitempty"`
	Name     string            `json:"name,omitempty"`
	Tags     map[string]string `json:"tags,omitempty"`
	Lon      float64           `json:"lon,omitempty"`
	Lat      float64           `json:"lat,omitempty"`
}

// Raw returns the POI's unsnapped grid cell.
func (p *POI) Raw() Cell {
	return Cell{Y: p.IY, X: p.IX}
}

// Reachable reports whether the POI has a valid snapped position.
func (p *POI) Reachable() bool {
	return p.Snapped != nil
}

// FromScenario reports whether the materializer added this POI via a
// scenario diff (as opposed to being present in the baseline).
func (p *POI) FromScenario() bool {
	return p.Tags != nil && p.Tags[OriginTagScenario] == "1"
}
