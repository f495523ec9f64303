package engine

import (
	"fmt"
)

const (
	// DefaultHexSize is the centre-to-corner distance of a tile in display units.
	DefaultHexSize = 60.0
	DefaultCenterX = 300.0
	DefaultCenterY = 260.0

	// DefaultDesertIndex is where the desert tile is inserted in row-major order.
	DefaultDesertIndex = 9

	// TileCount is the number of tiles on the fixed 3-4-5-4-3 layout.
	TileCount = 19
)

// RowLengths is the fixed tile row layout, top to bottom.
var RowLengths = []int{3, 4, 5, 4, 3}

var (
	standardNumbers   = []int{5, 2, 6, 3, 8, 10, 9, 12, 11, 4, 8, 10, 9, 4, 5, 6, 3, 11}
	standardResources = []Resource{
		Wood, Brick, Wheat, Sheep, Ore, Wood, Brick, Wheat, Sheep,
		Wood, Sheep, Wheat, Brick, Ore, Wood, Sheep, Brick, Wheat,
	}
)

// BoardConfig holds the fixed inputs of board generation plus the seat names.
type BoardConfig struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	HexSize     float64    `json:"hex_size"`
	CenterX     float64    `json:"center_x"`
	CenterY     float64    `json:"center_y"`
	Resources   []Resource `json:"resources"`
	Numbers     []int      `json:"numbers"`
	DesertIndex int        `json:"desert_index"`
	PlayerNames []string   `json:"player_names,omitempty"`
}

// DefaultBoardConfig returns the standard board preset.
func DefaultBoardConfig() *BoardConfig {
	return &BoardConfig{
		Name:        "standard",
		Description: "Standard 19-tile board with a fixed resource and number layout",
		HexSize:     DefaultHexSize,
		CenterX:     DefaultCenterX,
		CenterY:     DefaultCenterY,
		Resources:   append([]Resource{}, standardResources...),
		Numbers:     append([]int{}, standardNumbers...),
		DesertIndex: DefaultDesertIndex,
		PlayerNames: []string{"Player 1", "Player 2"},
	}
}

// ValidateBoardConfig checks that a preset can produce a legal board.
func ValidateBoardConfig(config *BoardConfig) error {
	if config == nil {
		return fmt.Errorf("config validation: config is nil")
	}
	if config.Name == "" {
		return fmt.Errorf("config validation: name is required")
	}
	if config.HexSize <= 0 {
		return fmt.Errorf("config validation: hex_size must be positive, got %v", config.HexSize)
	}

	producing := TileCount - 1
	if len(config.Resources) != producing {
		return fmt.Errorf("config validation: resources must list %d entries, got %d", producing, len(config.Resources))
	}
	if len(config.Numbers) != producing {
		return fmt.Errorf("config validation: numbers must list %d entries, got %d", producing, len(config.Numbers))
	}

	for i, res := range config.Resources {
		if !res.IsCountable() {
			return fmt.Errorf("config validation: resources[%d] %q is not a producing resource", i, res)
		}
	}
	for i, n := range config.Numbers {
		if n < MinNumber || n > MaxNumber || n == RobberNumber {
			return fmt.Errorf("config validation: numbers[%d] must be in %d..%d excluding %d, got %d",
				i, MinNumber, MaxNumber, RobberNumber, n)
		}
	}

	if config.DesertIndex < 0 || config.DesertIndex > producing {
		return fmt.Errorf("config validation: desert_index must be between 0 and %d, got %d", producing, config.DesertIndex)
	}

	if len(config.PlayerNames) != 0 && len(config.PlayerNames) != PlayerCount {
		return fmt.Errorf("config validation: player_names must list %d names, got %d", PlayerCount, len(config.PlayerNames))
	}

	return nil
}

// tileSpecs inserts the desert into the configured pairs, giving the
// row-major tile list.
func tileSpecs(config *BoardConfig) []Tile {
	tiles := make([]Tile, 0, TileCount)
	for i := range config.Resources {
		if i == config.DesertIndex {
			tiles = append(tiles, Tile{Resource: Desert, Number: RobberNumber})
		}
		tiles = append(tiles, Tile{Resource: config.Resources[i], Number: config.Numbers[i]})
	}
	if config.DesertIndex == len(config.Resources) {
		tiles = append(tiles, Tile{Resource: Desert, Number: RobberNumber})
	}
	return tiles
}

func playerName(config *BoardConfig, seat int) string {
	if seat < len(config.PlayerNames) && config.PlayerNames[seat] != "" {
		return config.PlayerNames[seat]
	}
	return fmt.Sprintf("Player %d", seat+1)
}
