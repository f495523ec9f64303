package engine

import (
	"fmt"
)

// BuildKind selects what a build request places.
type BuildKind string

const (
	BuildSettlement BuildKind = "settlement"
	BuildRoad       BuildKind = "road"
)

var (
	SettlementCost = Resources{Wood: 1, Brick: 1, Wheat: 1, Sheep: 1}
	RoadCost       = Resources{Wood: 1, Brick: 1}
)

// BuildRequest is a validated build order. Node is used by settlements and
// Edge by roads.
type BuildRequest struct {
	Player int
	Kind   BuildKind
	Node   int
	Edge   Edge
}

// BuildResult describes what a successful build changed.
type BuildResult struct {
	Kind  BuildKind `json:"type"`
	Node  *int      `json:"node,omitempty"`
	Edge  *Edge     `json:"edge,omitempty"`
	Added bool      `json:"added"`
	Paid  Resources `json:"paid"`
}

// Build places a settlement or road for a player. Every check runs before
// any state is touched, so a failed build changes nothing.
func (g *Game) Build(req BuildRequest) (*BuildResult, error) {
	p, err := g.Player(req.Player)
	if err != nil {
		return nil, err
	}

	switch req.Kind {
	case BuildSettlement:
		return g.buildSettlement(p, req.Node)
	case BuildRoad:
		return g.buildRoad(p, req.Edge)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBuildType, req.Kind)
	}
}

func (g *Game) buildSettlement(p *Player, node int) (*BuildResult, error) {
	if !g.Board.HasNode(node) {
		return nil, fmt.Errorf("%w: %d", ErrInvalidNode, node)
	}
	if err := p.charge(SettlementCost); err != nil {
		return nil, err
	}

	result := &BuildResult{Kind: BuildSettlement, Node: &node, Paid: SettlementCost.Clone()}
	if !p.HasSettlement(node) {
		p.Settlements = append(p.Settlements, node)
		p.VP++
		result.Added = true
	}
	return result, nil
}

func (g *Game) buildRoad(p *Player, edge Edge) (*BuildResult, error) {
	if !g.Board.Adjacent(edge[0], edge[1]) {
		return nil, fmt.Errorf("%w: %d is not adjacent to %d", ErrInvalidEdge, edge[1], edge[0])
	}
	if err := p.charge(RoadCost); err != nil {
		return nil, err
	}

	result := &BuildResult{Kind: BuildRoad, Edge: &edge, Paid: RoadCost.Clone()}
	if !p.HasRoad(edge) {
		p.Roads = append(p.Roads, edge)
		result.Added = true
	}
	return result, nil
}

// charge deducts cost or, when any resource falls short, returns an
// InsufficientResourcesError and leaves holdings untouched.
func (p *Player) charge(cost Resources) error {
	if !p.Resources.Covers(cost) {
		return &InsufficientResourcesError{
			Player: p.ID,
			Have:   p.Resources.Clone(),
			Need:   cost.Clone(),
		}
	}
	for res, n := range cost {
		p.Resources[res] -= n
	}
	return nil
}
