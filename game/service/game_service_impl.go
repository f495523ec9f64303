package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wricardo/hexsettlers/game/engine"
)

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	store     GameStore
	boards    BoardManager
	dice      engine.Dice
	publisher Publisher
	logger    *zap.Logger
	metrics   *Metrics
	newID     func() string
}

// Option configures a game service.
type Option func(*gameServiceImpl)

// WithPublisher sends every state change to p.
func WithPublisher(p Publisher) Option {
	return func(s *gameServiceImpl) {
		s.publisher = p
	}
}

// NewGameService creates a new game service instance. dice is shared by every
// game the service creates; the store serializes all rolls.
func NewGameService(store GameStore, boards BoardManager, dice engine.Dice, logger *zap.Logger, opts ...Option) GameService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &gameServiceImpl{
		store:   store,
		boards:  boards,
		dice:    dice,
		logger:  logger.Named("service"),
		metrics: &Metrics{},
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// publish must be called with the game locked.
func (s *gameServiceImpl) publish(event string, state *engine.Snapshot, data any) {
	if s.publisher != nil {
		s.publisher.Publish(event, state, data)
	}
}

// NewGame builds a fresh game from a board preset and swaps it in
func (s *gameServiceImpl) NewGame(ctx context.Context, board string) (*engine.Snapshot, error) {
	var config *engine.BoardConfig
	if board == "" {
		config = s.boards.GetDefault()
	} else {
		var err error
		config, err = s.boards.LoadBoard(board)
		if err != nil {
			return nil, fmt.Errorf("failed to load board %s: %w", board, err)
		}
	}

	game, err := engine.NewGame(s.newID(), config, s.dice)
	if err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}

	// The board is generated before the swap so readers never wait on it.
	snap := game.Snapshot()
	s.store.Replace(game, func(*engine.Game) {
		s.publish(EventNewGame, snap, nil)
	})
	s.metrics.IncGamesStarted()

	s.logger.Info("new game",
		zap.String("game_id", game.ID),
		zap.String("board", config.Name),
		zap.Int("nodes", len(game.Board.Nodes)),
	)
	return snap, nil
}

// GetState returns a snapshot of the active game
func (s *gameServiceImpl) GetState(ctx context.Context) (*engine.Snapshot, error) {
	var snap *engine.Snapshot
	err := s.store.View(func(g *engine.Game) error {
		snap = g.Snapshot()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return snap, nil
}

// Roll throws the dice for the active game
func (s *gameServiceImpl) Roll(ctx context.Context) (*RollResponse, error) {
	var resp *RollResponse
	err := s.store.Update(func(g *engine.Game) error {
		roller := g.CurrentPlayer
		result := g.Roll()
		resp = &RollResponse{
			Dice:         result.Dice,
			Total:        result.Total,
			Distribution: result.Distribution,
			State:        g.Snapshot(),
		}
		s.publish(EventRoll, resp.State, map[string]any{
			"dice":         resp.Dice,
			"total":        resp.Total,
			"distribution": resp.Distribution,
		})

		produced := 0
		if !result.Robber() {
			produced = len(result.Distribution)
		}
		s.metrics.AddRoll(result.Robber())
		s.metrics.AddProduced(produced)

		s.logger.Debug("roll",
			zap.String("game_id", g.ID),
			zap.Int("turn", g.Turn),
			zap.Int("player", roller),
			zap.Ints("dice", result.Dice[:]),
			zap.Int("total", result.Total),
			zap.Bool("robber", result.Robber()),
			zap.Int("produced", produced),
		)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// Build validates the request and applies it to the active game
func (s *gameServiceImpl) Build(ctx context.Context, req BuildRequest) (*BuildResponse, error) {
	order, err := req.Validate()
	if err != nil {
		s.metrics.IncBuildsFailed()
		s.logger.Warn("rejected build request", zap.Error(err))
		return nil, err
	}

	var resp *BuildResponse
	err = s.store.Update(func(g *engine.Game) error {
		result, err := g.Build(order)
		if err != nil {
			return err
		}
		resp = &BuildResponse{Result: "ok", Build: result, State: g.Snapshot()}
		s.publish(EventBuild, resp.State, result)
		return nil
	})
	if err != nil {
		s.metrics.IncBuildsFailed()
		level := s.logger.Warn
		if !IsClientError(err) {
			level = s.logger.Error
		}
		level("build failed",
			zap.Int("player", order.Player),
			zap.String("type", string(order.Kind)),
			zap.Error(err),
		)
		return nil, err
	}

	s.metrics.IncBuildsSucceeded()
	s.logger.Info("build",
		zap.Int("player", order.Player),
		zap.String("type", string(order.Kind)),
		zap.Bool("added", resp.Build.Added),
	)
	return resp, nil
}

// Grant credits resources to a player of the active game
func (s *gameServiceImpl) Grant(ctx context.Context, player int, resources engine.Resources) (*engine.Snapshot, error) {
	var snap *engine.Snapshot
	err := s.store.Update(func(g *engine.Game) error {
		if err := g.Grant(player, resources); err != nil {
			return err
		}
		snap = g.Snapshot()
		s.publish(EventGrant, snap, map[string]any{"player": player, "resources": snap.Players[player].Resources})
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("grant", zap.Int("player", player), zap.Any("resources", resources))
	return snap, nil
}

// ListBoards returns the available board presets
func (s *gameServiceImpl) ListBoards(ctx context.Context) ([]*BoardInfo, error) {
	return s.boards.ListBoards()
}

// Metrics returns the activity counters
func (s *gameServiceImpl) Metrics() MetricsSnapshot {
	return s.metrics.Snapshot()
}

// IsClientError reports whether err was caused by the request rather than
// the server.
func IsClientError(err error) bool {
	return errors.Is(err, engine.ErrBadRequest) ||
		errors.Is(err, engine.ErrInvalidEdge) ||
		errors.Is(err, engine.ErrUnknownBuildType) ||
		errors.Is(err, engine.ErrInsufficientResources)
}
