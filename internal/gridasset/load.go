package gridasset

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Load reads a scenario asset directory and produces a validated, immutable
// Grid. Assets are JSON 2-D arrays rather than the spec's .npy dumps — an
// on-disk artifact format with no database involved, just a different
// serialization for the same raster (see SPEC_FULL.md Section 6). No I/O
// retries are performed; callers decide retry policy.
func Load(dir string) (*Grid, error) {
	var semanticRaw [][]uint8
	if err := readJSON(filepath.Join(dir, "semantic.json"), &semanticRaw); err != nil {
		return nil, err
	}
	var walkable [][]uint8
	if err := readJSON(filepath.Join(dir, "walkable.json"), &walkable); err != nil {
		return nil, err
	}
	var cost [][]uint8
	if err := readJSON(filepath.Join(dir, "cost.json"), &cost); err != nil {
		return nil, err
	}
	var featureID [][]int32
	if err := readJSON(filepath.Join(dir, "feature_id.json"), &featureID); err != nil {
		return nil, err
	}
	var pois []POI
	poisPath := filepath.Join(dir, "pois.json")
	if _, err := os.Stat(poisPath); err == nil {
		if err := readJSON(poisPath, &pois); err != nil {
			return nil, err
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("gridasset: stat %s: %w", poisPath, err)
	}
	var navgraph Navgraph
	navPath := filepath.Join(dir, "navgraph.json")
	if _, err := os.Stat(navPath); err == nil {
		if err := readJSON(navPath, &navgraph); err != nil {
			return nil, err
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("gridasset: stat %s: %w", navPath, err)
	}

	height := len(semanticRaw)
	width := 0
	if height > 0 {
		width = len(semanticRaw[0])
	}

	if err := checkShape("walkable", walkable, height, width); err != nil {
		return nil, err
	}
	if err := checkShape("cost", cost, height, width); err != nil {
		return nil, err
	}
	if err := checkShape("feature_id", featureID, height, width); err != nil {
		return nil, err
	}

	semantic := make([][]Class, height)
	for y, row := range semanticRaw {
		semantic[y] = make([]Class, width)
		for x, v := range row {
			if v >= NumClasses {
				return nil, fmt.Errorf("%w: semantic[%d][%d]=%d", ErrClassOutOfRange, y, x, v)
			}
			semantic[y][x] = Class(v)
		}
	}

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if walkable[y][x] != 0 && cost[y][x] == Blocked {
				return nil, fmt.Errorf("%w: walkable[%d][%d]=1 but cost=255", ErrShapeMismatch, y, x)
			}
		}
	}

	return &Grid{
		Semantic:  semantic,
		Walkable:  walkable,
		Cost:      cost,
		FeatureID: featureID,
		Pois:      pois,
		Navgraph:  navgraph,
		Height:    height,
		Width:     width,
	}, nil
}

func checkShape[T any](name string, grid [][]T, height, width int) error {
	if len(grid) != height {
		return fmt.Errorf("%w: %s has %d rows, want %d", ErrShapeMismatch, name, len(grid), height)
	}
	for y, row := range grid {
		if len(row) != width {
			return fmt.Errorf("%w: %s row %d has %d cols, want %d", ErrShapeMismatch, name, y, len(row), width)
		}
	}
	return nil
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrMissingAsset, path)
		}
		return fmt.Errorf("gridasset: read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("gridasset: parse %s: %w", path, err)
	}
	return nil
}
