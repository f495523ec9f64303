// Command analyze prints quick, human-readable statistics about board
// presets: tile, node and edge counts, pips per resource, how many tiles each
// node touches, and the strongest settlement spots.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/wricardo/hexsettlers/game/config"
	"github.com/wricardo/hexsettlers/game/engine"
)

// Analysis is the summary of one generated board.
type Analysis struct {
	Name         string
	Tiles        int
	Nodes        int
	Edges        int
	Pips         map[engine.Resource]int
	TotalPips    int
	Degree       map[int]int // node degree -> node count
	TilesPerNode map[int]int // incident tiles -> node count
	BestNodes    []NodeScore
}

// NodeScore is the production weight of one node.
type NodeScore struct {
	Node  int
	Pips  int
	Tiles []int
}

func main() {
	cmd := &cli.Command{
		Name:      "analyze",
		Usage:     "Print statistics for board presets",
		ArgsUsage: "[board...]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "dir", Value: "boards", Usage: "Directory containing board presets"},
			&cli.IntFlag{Name: "top", Value: 5, Usage: "Number of best nodes to show"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return run(os.Stdout, cmd.String("dir"), cmd.Int("top"), cmd.Args().Slice())
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

// run analyzes the named presets, or every preset when names is empty.
func run(w io.Writer, dir string, top int, names []string) error {
	manager, err := config.NewManager(dir)
	if err != nil {
		return err
	}

	if len(names) == 0 {
		boards, err := manager.ListBoards()
		if err != nil {
			return err
		}
		for _, b := range boards {
			names = append(names, b.BoardID)
		}
	}

	for _, name := range names {
		board, err := manager.LoadBoard(name)
		if err != nil {
			fmt.Fprintf(w, "\n=== %s ===\nError: %v\n", name, err)
			continue
		}
		a, err := analyzeBoard(board, top)
		if err != nil {
			fmt.Fprintf(w, "\n=== %s ===\nError: %v\n", name, err)
			continue
		}
		fmt.Fprintf(w, "\n=== %s ===\n", name)
		writeReport(w, a)
	}
	return nil
}

func analyzeBoard(cfg *engine.BoardConfig, top int) (*Analysis, error) {
	board, err := engine.GenerateBoard(cfg)
	if err != nil {
		return nil, err
	}

	a := &Analysis{
		Name:         cfg.Name,
		Tiles:        len(board.Tiles),
		Nodes:        len(board.Nodes),
		Edges:        len(board.Edges()),
		Pips:         make(map[engine.Resource]int),
		Degree:       make(map[int]int),
		TilesPerNode: make(map[int]int),
	}

	for _, t := range board.Tiles {
		if t.Resource == engine.Desert {
			continue
		}
		p := engine.Pips(t.Number)
		a.Pips[t.Resource] += p
		a.TotalPips += p
	}

	scores := make([]NodeScore, 0, len(board.Nodes))
	for _, n := range board.Nodes {
		a.Degree[len(board.Neighbors(n.ID))]++
		tiles := board.NodeToTiles[n.ID]
		a.TilesPerNode[len(tiles)]++

		score := NodeScore{Node: n.ID, Tiles: append([]int{}, tiles...)}
		for _, tid := range tiles {
			if t := board.Tiles[tid]; t.Resource != engine.Desert {
				score.Pips += engine.Pips(t.Number)
			}
		}
		scores = append(scores, score)
	}

	sort.SliceStable(scores, func(i, j int) bool { return scores[i].Pips > scores[j].Pips })
	if top > len(scores) {
		top = len(scores)
	}
	if top > 0 {
		a.BestNodes = scores[:top]
	}
	return a, nil
}

func writeReport(w io.Writer, a *Analysis) {
	fmt.Fprintf(w, "Name: %s\n", a.Name)
	fmt.Fprintf(w, "Tiles: %d | Nodes: %d | Edges: %d\n", a.Tiles, a.Nodes, a.Edges)

	fmt.Fprintf(w, "Pips per resource (total %d):\n", a.TotalPips)
	for _, r := range engine.CountableResources {
		fmt.Fprintf(w, "  %-6s %2d %s\n", r, a.Pips[r], strings.Repeat("#", a.Pips[r]))
	}

	fmt.Fprintf(w, "Node degree: %s\n", histogram(a.Degree))
	fmt.Fprintf(w, "Tiles per node: %s\n", histogram(a.TilesPerNode))

	if len(a.BestNodes) > 0 {
		fmt.Fprintf(w, "Best nodes:\n")
		for _, s := range a.BestNodes {
			fmt.Fprintf(w, "  node %2d: %2d pips, tiles %v\n", s.Node, s.Pips, s.Tiles)
		}
	}
}

func histogram(h map[int]int) string {
	keys := make([]int, 0, len(h))
	for k := range h {
		keys = append(keys, k)
	}
	sort.Ints(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%d=%d", k, h[k])
	}
	return strings.Join(parts, " ")
}
