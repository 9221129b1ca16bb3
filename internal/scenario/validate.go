package scenario

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Sentinel errors for the ScenarioError taxonomy (design doc Section 7).
var (
	ErrMissingID       = errors.New("scenario: missing id")
	ErrMissingPosition = errors.New("scenario: poi_add requires (iy,ix) or anchor")
	ErrEmptyUpdate     = errors.New("scenario: poi_update requires a non-empty match and set")
	ErrInvalidJSON     = errors.New("scenario: invalid json")
)

// ParseAndValidate unmarshals raw JSON into a Scenario and validates it as a
// whole: every structural defect is caught here, at the boundary, before a
// Scenario ever reaches the materializer. Schema (schema.go) publishes the
// accepted shape as documentation; this function is what actually enforces
// it, by hand, since the corpus carries no runtime JSON-schema validator to
// check a raw document against a *jsonschema.Schema.
func ParseAndValidate(raw []byte) (*Scenario, error) {
	var s Scenario
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks structural invariants: an id is present, every poi_add
// supplies a position, and every poi_update is non-empty on both sides.
func (s *Scenario) Validate() error {
	if s.ID == "" {
		return ErrMissingID
	}
	for i, add := range s.PoiAdd {
		if (add.IY == nil || add.IX == nil) && add.Anchor == nil {
			return fmt.Errorf("%w: poi_add[%d]", ErrMissingPosition, i)
		}
	}
	for i, upd := range s.PoiUpdate {
		if len(upd.Match) == 0 || len(upd.Set) == 0 {
			return fmt.Errorf("%w: poi_update[%d]", ErrEmptyUpdate, i)
		}
	}
	return nil
}
