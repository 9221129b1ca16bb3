package gridasset

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeAsset(t *testing.T, dir, name string, v any) {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), data, 0o644))
}

func writeValid3x3(t *testing.T, dir string) {
	t.Helper()
	writeAsset(t, dir, "semantic.json", [][]uint8{
		{0, 2, 2},
		{0, 2, 2},
		{0, 2, 2},
	})
	writeAsset(t, dir, "walkable.json", [][]uint8{
		{0, 1, 1},
		{0, 1, 1},
		{0, 1, 1},
	})
	writeAsset(t, dir, "cost.json", [][]uint8{
		{255, 10, 10},
		{255, 10, 10},
		{255, 10, 10},
	})
	writeAsset(t, dir, "feature_id.json", [][]int32{
		{-1, 1, 1},
		{-1, 1, 1},
		{-1, 1, 1},
	})
}

func TestLoad_Valid(t *testing.T) {
	dir := t.TempDir()
	writeValid3x3(t, dir)

	grid, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, 3, grid.Height)
	assert.Equal(t, 3, grid.Width)
	assert.True(t, grid.IsWalkable(Cell{Y: 0, X: 1}))
	assert.False(t, grid.IsWalkable(Cell{Y: 0, X: 0}))
	assert.Equal(t, Cell{Y: 1, X: 1}, grid.Center())
}

func TestLoad_MissingAsset(t *testing.T) {
	dir := t.TempDir()
	_, err := Load(dir)
	assert.ErrorIs(t, err, ErrMissingAsset)
}

func TestLoad_ShapeMismatch(t *testing.T) {
	dir := t.TempDir()
	writeValid3x3(t, dir)
	writeAsset(t, dir, "cost.json", [][]uint8{{10, 10, 10}})

	_, err := Load(dir)
	assert.ErrorIs(t, err, ErrShapeMismatch)
}

func TestLoad_ClassOutOfRange(t *testing.T) {
	dir := t.TempDir()
	writeValid3x3(t, dir)
	writeAsset(t, dir, "semantic.json", [][]uint8{
		{0, 2, 200},
		{0, 2, 2},
		{0, 2, 2},
	})

	_, err := Load(dir)
	assert.ErrorIs(t, err, ErrClassOutOfRange)
}

func TestLoad_WalkableImpliesCostBelowBlocked(t *testing.T) {
	dir := t.TempDir()
	writeValid3x3(t, dir)
	writeAsset(t, dir, "cost.json", [][]uint8{
		{255, 255, 10},
		{255, 10, 10},
		{255, 10, 10},
	})

	_, err := Load(dir)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrShapeMismatch))
}

func TestLoad_OptionalPoisAndNavgraph(t *testing.T) {
	dir := t.TempDir()
	writeValid3x3(t, dir)
	writeAsset(t, dir, "pois.json", []POI{
		{Type: CategoryCafe, IY: 1, IX: 1, Name: "corner cafe"},
	})
	writeAsset(t, dir, "navgraph.json", Navgraph{
		Origin: Origin{X: -79.38, Y: 43.65},
		CellM:  0.5,
	})

	grid, err := Load(dir)
	require.NoError(t, err)
	require.Len(t, grid.Pois, 1)
	assert.Equal(t, CategoryCafe, grid.Pois[0].Type)
	assert.Equal(t, float32(0.5), grid.Navgraph.CellM)
}
