package service

import (
	"fmt"

	"github.com/wricardo/hexsettlers/game/engine"
)

// BuildRequest is the wire shape of a build order. Pointer fields let the
// validator tell a missing value from a zero one.
type BuildRequest struct {
	Player *int   `json:"player"`
	Type   string `json:"type"`
	Node   *int   `json:"node,omitempty"`
	Edge   []int  `json:"edge,omitempty"`
}

// Validate rejects malformed requests and converts the rest into an engine
// build order.
func (r BuildRequest) Validate() (engine.BuildRequest, error) {
	if r.Player == nil {
		return engine.BuildRequest{}, fmt.Errorf("%w: player is required", engine.ErrBadRequest)
	}
	if r.Type == "" {
		return engine.BuildRequest{}, fmt.Errorf("%w: type is required", engine.ErrBadRequest)
	}

	req := engine.BuildRequest{Player: *r.Player, Kind: engine.BuildKind(r.Type)}
	switch req.Kind {
	case engine.BuildSettlement:
		if r.Node == nil {
			return engine.BuildRequest{}, fmt.Errorf("%w: settlement requires node", engine.ErrBadRequest)
		}
		req.Node = *r.Node
	case engine.BuildRoad:
		if len(r.Edge) != 2 {
			return engine.BuildRequest{}, fmt.Errorf("%w: road requires edge with two node ids, got %d", engine.ErrBadRequest, len(r.Edge))
		}
		req.Edge = engine.Edge{r.Edge[0], r.Edge[1]}
	default:
		return engine.BuildRequest{}, fmt.Errorf("%w: %q", engine.ErrUnknownBuildType, r.Type)
	}

	return req, nil
}

// RollResponse contains the dice, the events they produced and the state afterwards
type RollResponse struct {
	Dice         [2]int             `json:"dice"`
	Total        int                `json:"total"`
	Distribution []engine.RollEvent `json:"distribution"`
	State        *engine.Snapshot   `json:"state"`
}

// BuildResponse contains the result of a successful build
type BuildResponse struct {
	Result string              `json:"result"`
	Build  *engine.BuildResult `json:"build"`
	State  *engine.Snapshot    `json:"state"`
}

// BoardInfo provides information about a board preset
type BoardInfo struct {
	Filename    string `json:"filename,omitempty"`
	BoardID     string `json:"board_id"` // The identifier to use for new_game
	Name        string `json:"name"`
	Description string `json:"description"`
	Builtin     bool   `json:"builtin"`
}
