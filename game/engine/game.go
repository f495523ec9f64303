package engine

import (
	"fmt"
)

// Game holds one board and its two players. It has no internal locking;
// the session store serializes access.
type Game struct {
	ID            string
	Players       []*Player
	CurrentPlayer int
	Turn          int
	Board         *Board
	Config        *BoardConfig

	dice Dice
}

// NewGame generates the board for config and seats two players with empty
// holdings.
func NewGame(id string, config *BoardConfig, dice Dice) (*Game, error) {
	if dice == nil {
		return nil, fmt.Errorf("dice cannot be nil")
	}

	board, err := GenerateBoard(config)
	if err != nil {
		return nil, err
	}

	players := make([]*Player, PlayerCount)
	for i := range players {
		players[i] = &Player{
			ID:          i,
			Name:        playerName(config, i),
			Resources:   NewResources(),
			Settlements: []int{},
			Roads:       []Edge{},
		}
	}

	return &Game{
		ID:      id,
		Players: players,
		Board:   board,
		Config:  config,
		dice:    dice,
	}, nil
}

// Player returns the seat with the given id.
func (g *Game) Player(id int) (*Player, error) {
	if id < 0 || id >= len(g.Players) {
		return nil, fmt.Errorf("%w: unknown player %d", ErrBadRequest, id)
	}
	return g.Players[id], nil
}

// Grant credits resources to a player.
func (g *Game) Grant(playerID int, res Resources) error {
	p, err := g.Player(playerID)
	if err != nil {
		return err
	}
	for r, n := range res {
		if !r.IsCountable() {
			return fmt.Errorf("%w: %q cannot be held", ErrBadRequest, r)
		}
		if n < 0 {
			return fmt.Errorf("%w: negative amount %d of %s", ErrBadRequest, n, r)
		}
	}
	for r, n := range res {
		p.Resources[r] += n
	}
	return nil
}

// Snapshot returns a deep copy of the game in its serialized shape.
func (g *Game) Snapshot() *Snapshot {
	players := make([]Player, len(g.Players))
	for i, p := range g.Players {
		players[i] = p.clone()
	}

	return &Snapshot{
		GameID:        g.ID,
		CurrentPlayer: g.CurrentPlayer,
		Turn:          g.Turn,
		Players:       players,
		Tiles:         append([]Tile{}, g.Board.Tiles...),
		Nodes:         append([]Node{}, g.Board.Nodes...),
		NodeAdjacency: g.Board.AdjacencyLists(),
	}
}
