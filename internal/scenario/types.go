// Package scenario models a Scenario: a diff over baseline assets that adds
// or updates POIs, plus needs-bias tags. See design doc Section 4.3.
package scenario

import "github.com/nyxgrid/cityflux/internal/gridasset"

// POIAnchor places a POI relative to a named anchor, shifted by dx/dy cells.
type POIAnchor struct {
	Name string `json:"name" jsonschema:"description=Anchor name, e.g. 'center'"`
	DX   int    `json:"dx,omitempty"`
	DY   int    `json:"dy,omitempty"`
}

// POIAdd defines a POI to add to the grid. Either Iy/Ix or Anchor must be
// set; Validate enforces this.
type POIAdd struct {
	Type  gridasset.Category `json:"type" jsonschema:"description=cafe, grocery, pharmacy, restaurant, retail, education, health, transit, or other"`
	Name  string             `json:"name,omitempty"`
	IY    *int               `json:"iy,omitempty"`
	IX    *int               `json:"ix,omitempty"`
	Anchor *POIAnchor        `json:"anchor,omitempty"`
	Attrs map[string]any     `json:"attrs,omitempty"`
}

// POIUpdate mutates POIs matching every key in Match, setting every key in
// Set. A "tags" key in Set merges into the POI's tags; every other key
// replaces.
type POIUpdate struct {
	Match map[string]any `json:"match"`
	Set   map[string]any `json:"set"`
}

// Scenario is a named diff over baseline assets.
type Scenario struct {
	ID          string            `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description,omitempty"`
	PoiAdd      []POIAdd          `json:"poi_add,omitempty"`
	PoiUpdate   []POIUpdate       `json:"poi_update,omitempty"`
	Tags        map[string]any    `json:"tags,omitempty"`
}

// Bias returns the scenario's declared need biases (tags.bias), if any, and
// whether the key was present.
func (s *Scenario) Bias() (map[string]float64, bool) {
	raw, ok := s.Tags["bias"]
	if !ok {
		return nil, false
	}
	m, ok := raw.(map[string]any)
	if !ok {
		return nil, false
	}
	out := make(map[string]float64, len(m))
	for k, v := range m {
		switch n := v.(type) {
		case float64:
			out[k] = n
		case int:
			out[k] = float64(n)
		}
	}
	return out, true
}
