package service

import (
	"context"
	"errors"

	"github.com/wricardo/hexsettlers/game/engine"
)

var ErrNoActiveGame = errors.New("no active game")

// Events passed to a Publisher.
const (
	EventNewGame = "new_game"
	EventRoll    = "roll"
	EventBuild   = "build"
	EventGrant   = "grant"
)

// GameService defines all game-related operations
type GameService interface {
	// Lifecycle
	NewGame(ctx context.Context, board string) (*engine.Snapshot, error)
	GetState(ctx context.Context) (*engine.Snapshot, error)

	// Turn operations
	Roll(ctx context.Context) (*RollResponse, error)
	Build(ctx context.Context, req BuildRequest) (*BuildResponse, error)
	Grant(ctx context.Context, player int, resources engine.Resources) (*engine.Snapshot, error)

	// Boards
	ListBoards(ctx context.Context) ([]*BoardInfo, error)

	Metrics() MetricsSnapshot
}

// Publisher receives every state change. Publish is called while the game is
// still locked, so changes arrive in the order they were applied. It must not
// block or call back into the service.
type Publisher interface {
	Publish(event string, state *engine.Snapshot, data any)
}

// GameStore owns the single active game and serializes access to it.
type GameStore interface {
	// Replace installs game as the active game. fn, when non-nil, runs with
	// exclusive access to the new game before any other caller sees it.
	Replace(game *engine.Game, fn func(game *engine.Game))

	// View runs fn with shared access to the active game.
	View(fn func(game *engine.Game) error) error

	// Update runs fn with exclusive access to the active game.
	Update(fn func(game *engine.Game) error) error
}

// BoardManager handles board preset loading
type BoardManager interface {
	LoadBoard(name string) (*engine.BoardConfig, error)
	ListBoards() ([]*BoardInfo, error)
	GetDefault() *engine.BoardConfig
}
