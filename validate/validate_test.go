package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wricardo/hexsettlers/game/engine"
)

func writeJSON(t *testing.T, dir, name string, v any) string {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

func TestValidateBoard_Valid(t *testing.T) {
	path := writeJSON(t, t.TempDir(), "standard.json", engine.DefaultBoardConfig())

	result := validateBoard(path)
	assert.True(t, result.Valid, result.Errors)
	assert.Empty(t, result.Errors)
	assert.Empty(t, result.Warnings)
	assert.Equal(t, "standard.json", result.File)
}

func TestValidateBoard_ReportsEveryError(t *testing.T) {
	cfg := engine.DefaultBoardConfig()
	cfg.Name = ""
	cfg.Numbers[0] = 7
	cfg.Numbers[1] = 13
	cfg.Resources[2] = engine.Desert
	cfg.DesertIndex = 30
	path := writeJSON(t, t.TempDir(), "bad.json", cfg)

	result := validateBoard(path)
	assert.False(t, result.Valid)
	assert.Len(t, result.Errors, 5)
	joined := strings.Join(result.Errors, "\n")
	assert.Contains(t, joined, "name is required")
	assert.Contains(t, joined, "numbers[0]")
	assert.Contains(t, joined, "numbers[1]")
	assert.Contains(t, joined, "resources[2]")
	assert.Contains(t, joined, "desert_index 30")
}

func TestValidateBoard_InvalidJSON(t *testing.T) {
	dir := t.TempDir()

	broken := filepath.Join(dir, "broken.json")
	require.NoError(t, os.WriteFile(broken, []byte(`{"name":`), 0644))
	result := validateBoard(broken)
	assert.False(t, result.Valid)
	assert.Contains(t, result.Errors[0], "Invalid JSON")

	typo := filepath.Join(dir, "typo.json")
	require.NoError(t, os.WriteFile(typo, []byte(`{"name":"x","desert":3}`), 0644))
	result = validateBoard(typo)
	assert.False(t, result.Valid)
	assert.Contains(t, result.Errors[0], "unknown field")
}

func TestValidateBoard_MissingFile(t *testing.T) {
	result := validateBoard(filepath.Join(t.TempDir(), "missing.json"))
	assert.False(t, result.Valid)
	assert.Contains(t, result.Errors[0], "Failed to read file")
}

func TestValidateBoard_Warnings(t *testing.T) {
	cfg := engine.DefaultBoardConfig()
	// Tiles 0 and 1 are neighbours in the top row.
	cfg.Numbers[0] = 6
	cfg.Numbers[1] = 8
	for i, r := range cfg.Resources {
		if r == engine.Ore {
			cfg.Resources[i] = engine.Wood
		}
	}
	path := writeJSON(t, t.TempDir(), "lopsided.json", cfg)

	result := validateBoard(path)
	assert.True(t, result.Valid, result.Errors)
	joined := strings.Join(result.Warnings, "\n")
	assert.Contains(t, joined, "No ore tiles")
	assert.Contains(t, joined, "Tiles 0 and 1 both carry 6 or 8")
}

func TestRun(t *testing.T) {
	var buf bytes.Buffer
	assert.True(t, run(&buf, []string{filepath.Join("..", "boards")}), buf.String())
	assert.Contains(t, buf.String(), "ore_rich.json")
	assert.Contains(t, buf.String(), "All 2 boards are valid")

	dir := t.TempDir()
	writeJSON(t, dir, "good.json", engine.DefaultBoardConfig())
	bad := engine.DefaultBoardConfig()
	bad.Numbers = nil
	writeJSON(t, dir, "bad.json", bad)

	buf.Reset()
	assert.False(t, run(&buf, []string{dir}))
	assert.Contains(t, buf.String(), "❌ INVALID")
	assert.Contains(t, buf.String(), "Some boards have errors")

	buf.Reset()
	assert.False(t, run(&buf, []string{filepath.Join(dir, "nope")}))
}
