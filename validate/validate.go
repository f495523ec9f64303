// Command validate checks board preset JSON files. For each file it reports:
//   - JSON structure, including unknown fields
//   - Resource and number lists of the right length and range
//   - Desert position and seat names
//   - That the generated board has the expected node and edge counts
//   - Warnings for a missing resource or 6/8 tiles that share a corner
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/wricardo/hexsettlers/game/config"
	"github.com/wricardo/hexsettlers/game/engine"
)

const (
	expectedNodes = 54
	expectedEdges = 72
)

// ValidationResult captures the outcome of validating a single file.
type ValidationResult struct {
	File     string
	Valid    bool
	Errors   []string
	Warnings []string
}

func (r *ValidationResult) fail(format string, args ...any) {
	r.Valid = false
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *ValidationResult) warn(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// validateBoard loads and validates a single preset file. Unlike
// engine.ValidateBoardConfig, which stops at the first problem, it reports
// every problem it finds.
func validateBoard(filePath string) ValidationResult {
	result := ValidationResult{File: filepath.Base(filePath), Valid: true}

	data, err := os.ReadFile(filePath)
	if err != nil {
		result.fail("Failed to read file: %v", err)
		return result
	}

	var raw engine.BoardConfig
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&raw); err != nil {
		result.fail("Invalid JSON: %v", err)
		return result
	}

	checkFields(&raw, &result)
	if !result.Valid {
		return result
	}

	// Fill geometry defaults the same way the server does.
	cfg, err := config.ParseBoard(data)
	if err != nil {
		result.fail("%v", err)
		return result
	}

	board, err := engine.GenerateBoard(cfg)
	if err != nil {
		result.fail("Board generation failed: %v", err)
		return result
	}
	if n := len(board.Nodes); n != expectedNodes {
		result.fail("Generated %d nodes, expected %d (check hex_size)", n, expectedNodes)
	}
	if n := len(board.Edges()); n != expectedEdges {
		result.fail("Generated %d edges, expected %d", n, expectedEdges)
	}

	checkBalance(board, &result)
	return result
}

func checkFields(cfg *engine.BoardConfig, result *ValidationResult) {
	producing := engine.TileCount - 1

	if cfg.Name == "" {
		result.fail("name is required")
	}
	if len(cfg.Resources) != producing {
		result.fail("resources must list %d entries, got %d", producing, len(cfg.Resources))
	}
	if len(cfg.Numbers) != producing {
		result.fail("numbers must list %d entries, got %d", producing, len(cfg.Numbers))
	}
	for i, r := range cfg.Resources {
		if !r.IsCountable() {
			result.fail("resources[%d]: %q is not one of wood, brick, wheat, sheep, ore", i, r)
		}
	}
	for i, n := range cfg.Numbers {
		if n < engine.MinNumber || n > engine.MaxNumber || n == engine.RobberNumber {
			result.fail("numbers[%d]: %d must be in %d..%d and not %d", i, n, engine.MinNumber, engine.MaxNumber, engine.RobberNumber)
		}
	}
	if cfg.DesertIndex < 0 || cfg.DesertIndex > producing {
		result.fail("desert_index %d must be between 0 and %d", cfg.DesertIndex, producing)
	}
	if cfg.HexSize < 0 {
		result.fail("hex_size must be positive, got %v", cfg.HexSize)
	}
	if len(cfg.PlayerNames) != 0 && len(cfg.PlayerNames) != engine.PlayerCount {
		result.fail("player_names must list %d names, got %d", engine.PlayerCount, len(cfg.PlayerNames))
	}
}

// checkBalance adds warnings for layouts that are legal but lopsided.
func checkBalance(board *engine.Board, result *ValidationResult) {
	counts := make(map[engine.Resource]int)
	for _, t := range board.Tiles {
		counts[t.Resource]++
	}
	for _, r := range engine.CountableResources {
		if counts[r] == 0 {
			result.warn("No %s tiles: %s can never be produced", r, r)
		}
	}

	hot := func(tid int) bool {
		n := board.Tiles[tid].Number
		return n == 6 || n == 8
	}
	seen := make(map[[2]int]bool)
	for _, tiles := range board.NodeToTiles {
		for i := 0; i < len(tiles); i++ {
			for j := i + 1; j < len(tiles); j++ {
				a, b := tiles[i], tiles[j]
				if a > b {
					a, b = b, a
				}
				if hot(a) && hot(b) && !seen[[2]int{a, b}] {
					seen[[2]int{a, b}] = true
					result.warn("Tiles %d and %d both carry 6 or 8 and share a corner", a, b)
				}
			}
		}
	}
}

func main() {
	cmd := &cli.Command{
		Name:      "validate",
		Usage:     "Validate board preset JSON files",
		ArgsUsage: "[dir or file...]",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			paths := cmd.Args().Slice()
			if len(paths) == 0 {
				paths = []string{"boards"}
			}
			if !run(os.Stdout, paths) {
				return errors.New("some boards are invalid")
			}
			return nil
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run validates every file named by paths, expanding directories to their
// *.json files, and reports whether all of them are valid.
func run(w io.Writer, paths []string) bool {
	var files []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			fmt.Fprintf(w, "❌ %s: %v\n", p, err)
			return false
		}
		if !info.IsDir() {
			files = append(files, p)
			continue
		}
		matches, err := filepath.Glob(filepath.Join(p, "*.json"))
		if err != nil {
			fmt.Fprintf(w, "❌ %s: %v\n", p, err)
			return false
		}
		files = append(files, matches...)
	}

	allValid := true
	for _, file := range files {
		result := validateBoard(file)

		fmt.Fprintf(w, "\n%s %s\n", strings.Repeat("=", 20), result.File)
		if result.Valid {
			fmt.Fprintln(w, "✅ VALID")
		} else {
			fmt.Fprintln(w, "❌ INVALID")
			allValid = false
		}
		for _, e := range result.Errors {
			fmt.Fprintln(w, "  ❌ "+e)
		}
		for _, warning := range result.Warnings {
			fmt.Fprintln(w, "  ⚠️  "+warning)
		}
	}

	fmt.Fprintf(w, "\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Fprintf(w, "✅ All %d boards are valid!\n", len(files))
	} else {
		fmt.Fprintln(w, "❌ Some boards have errors")
	}
	return allValid
}
