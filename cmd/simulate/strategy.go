package main

import (
	"sort"

	"github.com/wricardo/hexsettlers/game/engine"
	"github.com/wricardo/hexsettlers/game/service"
)

// roadReserve is what a player must hold before spending on a road, so one
// wood and one brick stay back for the next settlement.
var roadReserve = engine.Resources{engine.Wood: 2, engine.Brick: 2}

// Strategy is a greedy builder. Settlements go on the free node with the most
// pips; roads only grow out of the player's own settlements, and only when
// they do not eat into the next settlement.
type Strategy struct {
	ranked []int
	weight map[int]int
}

// NewStrategy ranks every node of board by production weight, best first.
// Ties keep the lower node id first.
func NewStrategy(board *engine.Board) *Strategy {
	s := &Strategy{weight: make(map[int]int, len(board.Nodes))}
	for _, n := range board.Nodes {
		for _, tid := range board.NodeToTiles[n.ID] {
			if t := board.Tiles[tid]; t.Resource != engine.Desert {
				s.weight[n.ID] += engine.Pips(t.Number)
			}
		}
		s.ranked = append(s.ranked, n.ID)
	}
	sort.SliceStable(s.ranked, func(i, j int) bool {
		return s.weight[s.ranked[i]] > s.weight[s.ranked[j]]
	})
	return s
}

// Next returns the build player should make in state, or nil when the player
// should wait for more resources.
func (s *Strategy) Next(state *engine.Snapshot, player int) *service.BuildRequest {
	p := state.Players[player]

	if p.Resources.Covers(engine.SettlementCost) {
		occupied := make(map[int]bool)
		for _, other := range state.Players {
			for _, n := range other.Settlements {
				occupied[n] = true
			}
		}
		for _, node := range s.ranked {
			if !occupied[node] {
				return &service.BuildRequest{Player: &player, Type: string(engine.BuildSettlement), Node: &node}
			}
		}
	}

	if !p.Resources.Covers(roadReserve) {
		return nil
	}
	for _, from := range p.Settlements {
		for _, to := range state.NodeAdjacency[from] {
			if !roadTaken(state, engine.Edge{from, to}) {
				return &service.BuildRequest{Player: &player, Type: string(engine.BuildRoad), Edge: []int{from, to}}
			}
		}
	}
	return nil
}

func roadTaken(state *engine.Snapshot, e engine.Edge) bool {
	for _, p := range state.Players {
		for _, r := range p.Roads {
			if r.Same(e) {
				return true
			}
		}
	}
	return false
}
