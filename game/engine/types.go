package engine

import (
	"encoding/json"
	"fmt"
)

// Resource names a tile's yield and a player's holding.
type Resource string

const (
	Wood   Resource = "wood"
	Brick  Resource = "brick"
	Wheat  Resource = "wheat"
	Sheep  Resource = "sheep"
	Ore    Resource = "ore"
	Desert Resource = "desert"

	// Board constants
	PlayerCount  = 2
	RobberNumber = 7
	MinNumber    = 2
	MaxNumber    = 12
)

// CountableResources lists the resources a player can hold, in display order.
var CountableResources = []Resource{Wood, Brick, Wheat, Sheep, Ore}

// IsCountable reports whether r can be held by a player.
func (r Resource) IsCountable() bool {
	switch r {
	case Wood, Brick, Wheat, Sheep, Ore:
		return true
	}
	return false
}

// Resources maps a countable resource to a count.
type Resources map[Resource]int

// NewResources returns holdings with every countable resource set to zero.
func NewResources() Resources {
	r := make(Resources, len(CountableResources))
	for _, res := range CountableResources {
		r[res] = 0
	}
	return r
}

// Covers reports whether r holds at least the amounts in cost.
func (r Resources) Covers(cost Resources) bool {
	for res, n := range cost {
		if r[res] < n {
			return false
		}
	}
	return true
}

// Clone returns a copy that always carries every countable key.
func (r Resources) Clone() Resources {
	out := NewResources()
	for res, n := range r {
		out[res] = n
	}
	return out
}

// Tile is one hexagonal board cell.
type Tile struct {
	Resource Resource `json:"resource"`
	Number   int      `json:"number"`
	Robbed   bool     `json:"robbed"`
}

// Node is a hex corner where settlements are built.
type Node struct {
	ID int     `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}

// Edge is an unordered pair of adjacent node ids. It serializes as [a,b].
type Edge [2]int

// Normalized returns the edge with the lower node id first.
func (e Edge) Normalized() Edge {
	if e[0] > e[1] {
		return Edge{e[1], e[0]}
	}
	return e
}

// Same reports whether e and o join the same two nodes in either direction.
func (e Edge) Same(o Edge) bool {
	return e.Normalized() == o.Normalized()
}

func (e Edge) String() string {
	return fmt.Sprintf("%d-%d", e[0], e[1])
}

// Player holds one seat's resources and pieces.
type Player struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Resources   Resources `json:"resources"`
	Settlements []int     `json:"settlements"`
	Roads       []Edge    `json:"roads"`
	VP          int       `json:"vp"`
}

// HasSettlement reports whether the player owns a settlement on node.
func (p *Player) HasSettlement(node int) bool {
	for _, id := range p.Settlements {
		if id == node {
			return true
		}
	}
	return false
}

// HasRoad reports whether the player owns a road on edge, in either direction.
func (p *Player) HasRoad(edge Edge) bool {
	for _, r := range p.Roads {
		if r.Same(edge) {
			return true
		}
	}
	return false
}

func (p *Player) clone() Player {
	out := Player{
		ID:          p.ID,
		Name:        p.Name,
		Resources:   p.Resources.Clone(),
		Settlements: append([]int{}, p.Settlements...),
		Roads:       append([]Edge{}, p.Roads...),
		VP:          p.VP,
	}
	return out
}

// EventKind tags a roll event.
type EventKind string

const (
	EventRobber  EventKind = "robber"
	EventProduce EventKind = "produce"
)

// RollEvent records one outcome of a dice roll: either the robber or a
// single unit of production credited to a player.
type RollEvent struct {
	Kind     EventKind `json:"event"`
	Number   int       `json:"number,omitempty"`
	Player   int       `json:"player"`
	Resource Resource  `json:"resource,omitempty"`
	Node     int       `json:"node"`
	Tile     int       `json:"tile"`
}

// MarshalJSON drops the production fields from robber events.
func (e RollEvent) MarshalJSON() ([]byte, error) {
	if e.Kind == EventRobber {
		return json.Marshal(struct {
			Kind   EventKind `json:"event"`
			Number int       `json:"number"`
		}{e.Kind, e.Number})
	}
	type plain RollEvent
	return json.Marshal(plain(e))
}

// RollResult is the outcome of Game.Roll.
type RollResult struct {
	Dice         [2]int      `json:"dice"`
	Total        int         `json:"total"`
	Distribution []RollEvent `json:"distribution"`
}

// Robber reports whether the roll produced the robber event.
func (r *RollResult) Robber() bool {
	return r.Total == RobberNumber
}

// Snapshot is the serialized view of a game handed to callers outside the lock.
type Snapshot struct {
	GameID        string        `json:"game_id"`
	CurrentPlayer int           `json:"current_player"`
	Turn          int           `json:"turn"`
	Players       []Player      `json:"players"`
	Tiles         []Tile        `json:"tiles"`
	Nodes         []Node        `json:"nodes"`
	NodeAdjacency map[int][]int `json:"node_adjacency"`
}
