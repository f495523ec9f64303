package engine

import (
	"math"
	"sort"
)

// CoordPrecision is the number of decimal places corner coordinates are
// rounded to before deduplication. Neighbouring tiles compute the same corner
// with different float error; this rounding is what merges them into the
// 54 nodes of the standard board. Changing it changes the node set.
const CoordPrecision = 2

// Board is the generated tile/node graph. It is immutable after generation.
type Board struct {
	Tiles       []Tile
	Nodes       []Node
	TileToNodes [][6]int
	NodeToTiles map[int][]int
	Adjacency   map[int]map[int]struct{}
}

type cornerKey struct {
	x, y int64
}

func keyFor(x, y float64) cornerKey {
	scale := math.Pow(10, CoordPrecision)
	return cornerKey{int64(math.Round(x * scale)), int64(math.Round(y * scale))}
}

func roundCoord(v float64) float64 {
	scale := math.Pow(10, CoordPrecision)
	return math.Round(v*scale) / scale
}

// GenerateBoard lays out the 19 tiles, deduplicates their corners into nodes
// and derives tile/node incidence and node adjacency. Output depends only on
// config.
func GenerateBoard(config *BoardConfig) (*Board, error) {
	if err := ValidateBoardConfig(config); err != nil {
		return nil, err
	}

	board := &Board{
		Tiles:       tileSpecs(config),
		TileToNodes: make([][6]int, 0, TileCount),
		NodeToTiles: make(map[int][]int),
		Adjacency:   make(map[int]map[int]struct{}),
	}

	size := config.HexSize
	colStep := size * math.Sqrt(3) / 2
	rowStep := size * 1.5
	mid := len(RowLengths) / 2

	seen := make(map[cornerKey]int)
	tile := 0
	for row, count := range RowLengths {
		cy := config.CenterY + float64(row-mid)*rowStep
		for i := 0; i < count; i++ {
			col := 2*i - (count - 1)
			cx := config.CenterX + float64(col)*colStep

			var ring [6]int
			for k := 0; k < 6; k++ {
				angle := math.Pi/6 + float64(k)*math.Pi/3
				x := cx + size*math.Cos(angle)
				y := cy + size*math.Sin(angle)

				key := keyFor(x, y)
				id, ok := seen[key]
				if !ok {
					id = len(board.Nodes)
					seen[key] = id
					board.Nodes = append(board.Nodes, Node{ID: id, X: roundCoord(x), Y: roundCoord(y)})
				}
				ring[k] = id
				board.NodeToTiles[id] = append(board.NodeToTiles[id], tile)
			}

			board.TileToNodes = append(board.TileToNodes, ring)
			for k := 0; k < 6; k++ {
				board.connect(ring[k], ring[(k+1)%6])
			}
			tile++
		}
	}

	return board, nil
}

func (b *Board) connect(a, c int) {
	if b.Adjacency[a] == nil {
		b.Adjacency[a] = make(map[int]struct{})
	}
	if b.Adjacency[c] == nil {
		b.Adjacency[c] = make(map[int]struct{})
	}
	b.Adjacency[a][c] = struct{}{}
	b.Adjacency[c][a] = struct{}{}
}

// HasNode reports whether id names a generated node.
func (b *Board) HasNode(id int) bool {
	return id >= 0 && id < len(b.Nodes)
}

// Adjacent reports whether a road may join a and c.
func (b *Board) Adjacent(a, c int) bool {
	_, ok := b.Adjacency[a][c]
	return ok
}

// Neighbors returns the nodes adjacent to id in ascending order.
func (b *Board) Neighbors(id int) []int {
	out := make([]int, 0, len(b.Adjacency[id]))
	for n := range b.Adjacency[id] {
		out = append(out, n)
	}
	sort.Ints(out)
	return out
}

// Edges returns every adjacent pair once, lower id first, sorted.
func (b *Board) Edges() []Edge {
	var edges []Edge
	for a := range b.Nodes {
		for _, c := range b.Neighbors(a) {
			if a < c {
				edges = append(edges, Edge{a, c})
			}
		}
	}
	return edges
}

// AdjacencyLists returns the adjacency map in its serialized form.
func (b *Board) AdjacencyLists() map[int][]int {
	out := make(map[int][]int, len(b.Adjacency))
	for id := range b.Adjacency {
		out[id] = b.Neighbors(id)
	}
	return out
}
