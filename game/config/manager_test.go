package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wricardo/hexsettlers/game/engine"
)

func writeBoard(t *testing.T, dir, name string, config any) {
	t.Helper()
	data, err := json.Marshal(config)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), data, 0644))
}

func customBoard() *engine.BoardConfig {
	config := engine.DefaultBoardConfig()
	config.Name = "Custom"
	config.Description = "Desert first"
	config.DesertIndex = 0
	return config
}

func TestNewManager(t *testing.T) {
	t.Run("empty dir serves built-ins", func(t *testing.T) {
		m, err := NewManager("")
		require.NoError(t, err)

		boards, err := m.ListBoards()
		require.NoError(t, err)
		require.Len(t, boards, 1)
		assert.Equal(t, StandardBoard, boards[0].BoardID)
		assert.True(t, boards[0].Builtin)
	})

	t.Run("missing dir", func(t *testing.T) {
		_, err := NewManager(filepath.Join(t.TempDir(), "nope"))
		assert.Error(t, err)
	})

	t.Run("file instead of dir", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "file")
		require.NoError(t, os.WriteFile(path, []byte("x"), 0644))
		_, err := NewManager(path)
		assert.Error(t, err)
	})
}

func TestLoadBoard(t *testing.T) {
	dir := t.TempDir()
	writeBoard(t, dir, "custom.json", customBoard())
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{"), 0644))

	bad := customBoard()
	bad.Numbers[0] = 7
	writeBoard(t, dir, "seven.json", bad)

	m, err := NewManager(dir)
	require.NoError(t, err)

	t.Run("standard", func(t *testing.T) {
		config, err := m.LoadBoard(StandardBoard)
		require.NoError(t, err)
		assert.Equal(t, engine.DefaultBoardConfig(), config)
	})

	t.Run("from file", func(t *testing.T) {
		config, err := m.LoadBoard("custom")
		require.NoError(t, err)
		assert.Equal(t, "Custom", config.Name)
		assert.Equal(t, 0, config.DesertIndex)

		withExt, err := m.LoadBoard("custom.json")
		require.NoError(t, err)
		assert.Equal(t, config, withExt)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := m.LoadBoard("missing")
		assert.ErrorIs(t, err, ErrBoardNotFound)
	})

	t.Run("path traversal", func(t *testing.T) {
		_, err := m.LoadBoard("../custom")
		assert.ErrorIs(t, err, ErrBoardNotFound)
	})

	t.Run("malformed json", func(t *testing.T) {
		_, err := m.LoadBoard("broken")
		assert.Error(t, err)
	})

	t.Run("invalid number", func(t *testing.T) {
		_, err := m.LoadBoard("seven")
		assert.ErrorIs(t, err, ErrInvalidBoard)
	})

	t.Run("copies are independent", func(t *testing.T) {
		a, err := m.LoadBoard("custom")
		require.NoError(t, err)
		a.Numbers[0] = 12

		b, err := m.LoadBoard("custom")
		require.NoError(t, err)
		assert.Equal(t, 5, b.Numbers[0])
	})
}

func TestParseBoard_FillsGeometryDefaults(t *testing.T) {
	config, err := ParseBoard([]byte(`{
		"name": "minimal",
		"resources": ["wood","brick","wheat","sheep","ore","wood","brick","wheat","sheep",
		              "wood","sheep","wheat","brick","ore","wood","sheep","brick","wheat"],
		"numbers": [5,2,6,3,8,10,9,12,11,4,8,10,9,4,5,6,3,11]
	}`))
	require.NoError(t, err)
	assert.Equal(t, engine.DefaultHexSize, config.HexSize)
	assert.Equal(t, engine.DefaultCenterX, config.CenterX)
	assert.Equal(t, engine.DefaultCenterY, config.CenterY)
	assert.Equal(t, engine.DefaultDesertIndex, config.DesertIndex)
}

func TestListBoards(t *testing.T) {
	dir := t.TempDir()
	writeBoard(t, dir, "zeta.json", customBoard())
	writeBoard(t, dir, "alpha.json", customBoard())
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("hi"), 0644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.json"), 0755))

	m, err := NewManager(dir)
	require.NoError(t, err)

	boards, err := m.ListBoards()
	require.NoError(t, err)
	require.Len(t, boards, 3)

	assert.Equal(t, StandardBoard, boards[0].BoardID)
	assert.Equal(t, "alpha", boards[1].BoardID)
	assert.Equal(t, "alpha.json", boards[1].Filename)
	assert.False(t, boards[1].Builtin)
	assert.Equal(t, "zeta", boards[2].BoardID)
}

func TestDefaultBoard(t *testing.T) {
	dir := t.TempDir()
	writeBoard(t, dir, "custom.json", customBoard())

	m, err := NewManager(dir)
	require.NoError(t, err)
	assert.Equal(t, StandardBoard, m.GetDefault().Name)

	require.NoError(t, m.SetDefault("custom"))
	assert.Equal(t, "Custom", m.GetDefault().Name)

	assert.ErrorIs(t, m.SetDefault("missing"), ErrBoardNotFound)
	assert.Equal(t, "Custom", m.GetDefault().Name)
}

func TestSaveBoard(t *testing.T) {
	dir := t.TempDir()
	m, err := NewManager(dir)
	require.NoError(t, err)

	require.NoError(t, m.SaveBoard("saved", customBoard()))
	_, err = os.Stat(filepath.Join(dir, "saved.json"))
	require.NoError(t, err)

	m.RefreshCache()
	loaded, err := m.LoadBoard("saved")
	require.NoError(t, err)
	assert.Equal(t, customBoard(), loaded)

	invalid := customBoard()
	invalid.Resources = invalid.Resources[:3]
	assert.ErrorIs(t, m.SaveBoard("invalid", invalid), ErrInvalidBoard)

	assert.Error(t, m.SaveBoard(StandardBoard, customBoard()))
	assert.Error(t, m.SaveBoard("../escape", customBoard()))

	builtinOnly, err := NewManager("")
	require.NoError(t, err)
	assert.Error(t, builtinOnly.SaveBoard("x", customBoard()))
}

func TestConcurrentLoad(t *testing.T) {
	dir := t.TempDir()
	writeBoard(t, dir, "custom.json", customBoard())

	m, err := NewManager(dir)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			config, err := m.LoadBoard("custom")
			assert.NoError(t, err)
			assert.Equal(t, "Custom", config.Name)
			_, err = m.ListBoards()
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
}

func TestRepositoryPresetsAreValid(t *testing.T) {
	m, err := NewManager(filepath.Join("..", "..", "boards"))
	require.NoError(t, err)

	boards, err := m.ListBoards()
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(boards), 3)

	for _, info := range boards {
		config, err := m.LoadBoard(info.BoardID)
		require.NoError(t, err, info.BoardID)
		_, err = engine.GenerateBoard(config)
		assert.NoError(t, err, info.BoardID)
	}
}
