package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/wricardo/hexsettlers/game/engine"
	"github.com/wricardo/hexsettlers/game/service"
)

var (
	ErrBoardNotFound = errors.New("board preset not found")
	ErrInvalidBoard  = errors.New("invalid board preset")
)

// StandardBoard is the id of the built-in preset.
const StandardBoard = "standard"

// Manager handles board preset loading and caching. The standard preset is
// always available; further presets are read from JSON files in boardDir.
type Manager struct {
	boardDir     string
	defaultBoard *engine.BoardConfig
	boards       map[string]*engine.BoardConfig
	mu           sync.RWMutex
}

// NewManager creates a new board manager. An empty boardDir serves only the
// built-in preset.
func NewManager(boardDir string) (*Manager, error) {
	if boardDir != "" {
		info, err := os.Stat(boardDir)
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("board directory does not exist: %s", boardDir)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to stat board directory: %w", err)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("board path is not a directory: %s", boardDir)
		}
	}

	return &Manager{
		boardDir:     boardDir,
		defaultBoard: engine.DefaultBoardConfig(),
		boards:       make(map[string]*engine.BoardConfig),
	}, nil
}

// LoadBoard loads a preset by id. Returned configs are copies and may be
// modified by the caller.
func (m *Manager) LoadBoard(name string) (*engine.BoardConfig, error) {
	name = strings.TrimSuffix(name, ".json")
	if name == StandardBoard {
		return engine.DefaultBoardConfig(), nil
	}

	m.mu.RLock()
	if config, exists := m.boards[name]; exists {
		m.mu.RUnlock()
		return cloneConfig(config), nil
	}
	m.mu.RUnlock()

	if m.boardDir == "" || name == "" || strings.ContainsAny(name, `/\`) {
		return nil, fmt.Errorf("%w: %s", ErrBoardNotFound, name)
	}

	config, err := ReadBoardFile(filepath.Join(m.boardDir, name+".json"))
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.boards[name] = config
	m.mu.Unlock()

	return cloneConfig(config), nil
}

// ListBoards returns information about every available preset, built-ins
// first. Files that fail to load are skipped.
func (m *Manager) ListBoards() ([]*service.BoardInfo, error) {
	standard := engine.DefaultBoardConfig()
	boards := []*service.BoardInfo{{
		BoardID:     StandardBoard,
		Name:        standard.Name,
		Description: standard.Description,
		Builtin:     true,
	}}

	if m.boardDir == "" {
		return boards, nil
	}

	entries, err := os.ReadDir(m.boardDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read board directory: %w", err)
	}

	var files []*service.BoardInfo
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		name := strings.TrimSuffix(entry.Name(), ".json")
		if name == StandardBoard {
			continue
		}

		config, err := m.LoadBoard(name)
		if err != nil {
			continue
		}

		files = append(files, &service.BoardInfo{
			Filename:    entry.Name(),
			BoardID:     name,
			Name:        config.Name,
			Description: config.Description,
		})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].BoardID < files[j].BoardID })

	return append(boards, files...), nil
}

// GetDefault returns a copy of the default preset
func (m *Manager) GetDefault() *engine.BoardConfig {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return cloneConfig(m.defaultBoard)
}

// SetDefault sets the default preset by id
func (m *Manager) SetDefault(name string) error {
	config, err := m.LoadBoard(name)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaultBoard = config
	return nil
}

// SaveBoard validates a preset and writes it to the board directory
func (m *Manager) SaveBoard(name string, config *engine.BoardConfig) error {
	if m.boardDir == "" {
		return fmt.Errorf("no board directory configured")
	}
	name = strings.TrimSuffix(name, ".json")
	if name == "" || name == StandardBoard || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("invalid board id %q", name)
	}
	if err := engine.ValidateBoardConfig(config); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidBoard, err)
	}

	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal board: %w", err)
	}

	if err := os.WriteFile(filepath.Join(m.boardDir, name+".json"), data, 0644); err != nil {
		return fmt.Errorf("failed to write board file: %w", err)
	}

	m.mu.Lock()
	m.boards[name] = cloneConfig(config)
	m.mu.Unlock()

	return nil
}

// RefreshCache drops every cached preset so the next load rereads the files.
func (m *Manager) RefreshCache() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.boards = make(map[string]*engine.BoardConfig)
}

// ReadBoardFile parses and validates a single preset file.
func ReadBoardFile(path string) (*engine.BoardConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrBoardNotFound, filepath.Base(path))
		}
		return nil, fmt.Errorf("failed to read board file: %w", err)
	}
	return ParseBoard(data)
}

// ParseBoard decodes a preset, filling unset geometry with the standard
// values, and validates it.
func ParseBoard(data []byte) (*engine.BoardConfig, error) {
	config := &engine.BoardConfig{
		HexSize:     engine.DefaultHexSize,
		CenterX:     engine.DefaultCenterX,
		CenterY:     engine.DefaultCenterY,
		DesertIndex: engine.DefaultDesertIndex,
	}
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse board: %w", err)
	}
	if err := engine.ValidateBoardConfig(config); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBoard, err)
	}
	return config, nil
}

func cloneConfig(c *engine.BoardConfig) *engine.BoardConfig {
	out := *c
	out.Resources = append([]engine.Resource{}, c.Resources...)
	out.Numbers = append([]int{}, c.Numbers...)
	if c.PlayerNames != nil {
		out.PlayerNames = append([]string{}, c.PlayerNames...)
	}
	return &out
}

var _ service.BoardManager = (*Manager)(nil)
