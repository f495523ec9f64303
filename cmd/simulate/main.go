// Command simulate plays whole games in process with a greedy builder for
// every seat and reports how a board and the dice treat each seat. Every
// player starts with enough resources for a few settlements, since the game
// has no setup phase of its own.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/wricardo/hexsettlers/game/config"
	"github.com/wricardo/hexsettlers/game/engine"
	"github.com/wricardo/hexsettlers/game/service"
	"github.com/wricardo/hexsettlers/game/session"
	"github.com/wricardo/hexsettlers/logging"
)

// Options controls a simulation run.
type Options struct {
	Dir   string
	Board string
	Games int
	Rolls int
	Seed  uint64
	// Start is how many settlements' worth of resources each seat gets
	// before the first roll.
	Start int
}

// Report aggregates the outcome of every simulated game.
type Report struct {
	Board   string
	Seed    uint64
	Games   int
	Rolls   int
	Players []string
	Wins    []int
	Ties    int
	TotalVP []int
	Metrics service.MetricsSnapshot
}

func main() {
	cmd := &cli.Command{
		Name:  "simulate",
		Usage: "Play greedy games in process and report seat balance",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "dir", Value: "boards", Usage: "Directory containing board presets"},
			&cli.StringFlag{Name: "board", Usage: "Board preset (default: standard)"},
			&cli.IntFlag{Name: "games", Value: 10, Usage: "Number of games to play"},
			&cli.IntFlag{Name: "rolls", Value: 60, Usage: "Rolls per game"},
			&cli.IntFlag{Name: "seed", Usage: "Dice seed (0 picks a random one)"},
			&cli.IntFlag{Name: "start", Value: 2, Usage: "Settlements' worth of starting resources per seat"},
			&cli.BoolFlag{Name: "verbose", Usage: "Log every game, roll and build"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			logger := zap.NewNop()
			if cmd.Bool("verbose") {
				logger = logging.New(logging.Options{Debug: true})
			}
			defer logger.Sync()

			report, err := simulate(ctx, Options{
				Dir:   cmd.String("dir"),
				Board: cmd.String("board"),
				Games: cmd.Int("games"),
				Rolls: cmd.Int("rolls"),
				Seed:  uint64(cmd.Int("seed")),
				Start: cmd.Int("start"),
			}, logger)
			if err != nil {
				return err
			}
			writeReport(os.Stdout, report)
			return nil
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func simulate(ctx context.Context, opts Options, logger *zap.Logger) (*Report, error) {
	if opts.Games <= 0 {
		return nil, errors.New("games must be positive")
	}
	if opts.Rolls < 0 || opts.Start < 0 {
		return nil, errors.New("rolls and start must not be negative")
	}

	manager, err := config.NewManager(opts.Dir)
	if err != nil {
		return nil, err
	}
	cfg := manager.GetDefault()
	if opts.Board != "" {
		if cfg, err = manager.LoadBoard(opts.Board); err != nil {
			return nil, err
		}
	}
	board, err := engine.GenerateBoard(cfg)
	if err != nil {
		return nil, err
	}
	strategy := NewStrategy(board)

	seed := opts.Seed
	if seed == 0 {
		if seed, err = engine.NewSeed(); err != nil {
			return nil, err
		}
	}
	svc := service.NewGameService(session.NewStore(), manager, engine.NewRandomDice(seed), logger)

	report := &Report{
		Board:   cfg.Name,
		Seed:    seed,
		Games:   opts.Games,
		Rolls:   opts.Rolls,
		Wins:    make([]int, engine.PlayerCount),
		TotalVP: make([]int, engine.PlayerCount),
	}

	stock := engine.NewResources()
	for r, n := range engine.SettlementCost {
		stock[r] = n * opts.Start
	}

	for g := 0; g < opts.Games; g++ {
		state, err := svc.NewGame(ctx, opts.Board)
		if err != nil {
			return nil, err
		}
		if report.Players == nil {
			for _, p := range state.Players {
				report.Players = append(report.Players, p.Name)
			}
		}

		for _, p := range state.Players {
			if state, err = svc.Grant(ctx, p.ID, stock); err != nil {
				return nil, err
			}
		}
		if state, err = buildAll(ctx, svc, strategy, state); err != nil {
			return nil, err
		}

		for r := 0; r < opts.Rolls; r++ {
			resp, err := svc.Roll(ctx)
			if err != nil {
				return nil, err
			}
			if state, err = buildAll(ctx, svc, strategy, resp.State); err != nil {
				return nil, err
			}
		}

		tally(report, state)
	}

	report.Metrics = svc.Metrics()
	return report, nil
}

// buildAll lets every seat build until the strategy has nothing left to do.
// Each build spends resources, so the loop always ends.
func buildAll(ctx context.Context, svc service.GameService, s *Strategy, state *engine.Snapshot) (*engine.Snapshot, error) {
	for _, p := range state.Players {
		for req := s.Next(state, p.ID); req != nil; req = s.Next(state, p.ID) {
			resp, err := svc.Build(ctx, *req)
			if err != nil {
				return nil, fmt.Errorf("player %d %s: %w", p.ID, req.Type, err)
			}
			state = resp.State
		}
	}
	return state, nil
}

func tally(report *Report, state *engine.Snapshot) {
	best, winner := -1, -1
	for _, p := range state.Players {
		report.TotalVP[p.ID] += p.VP
		switch {
		case p.VP > best:
			best, winner = p.VP, p.ID
		case p.VP == best:
			winner = -1
		}
	}
	if winner < 0 {
		report.Ties++
		return
	}
	report.Wins[winner]++
}

func writeReport(w io.Writer, r *Report) {
	fmt.Fprintf(w, "Board: %s | Games: %d | Rolls per game: %d | Seed: %d\n", r.Board, r.Games, r.Rolls, r.Seed)
	fmt.Fprintln(w, strings.Repeat("-", 40))
	for i, name := range r.Players {
		fmt.Fprintf(w, "%-10s wins %3d | avg vp %5.2f\n", name, r.Wins[i], float64(r.TotalVP[i])/float64(r.Games))
	}
	fmt.Fprintf(w, "Ties: %d\n", r.Ties)

	m := r.Metrics
	robberPct := 0.0
	if m.Rolls > 0 {
		robberPct = 100 * float64(m.RobberEvents) / float64(m.Rolls)
	}
	fmt.Fprintf(w, "Rolls: %d | Robber: %d (%.1f%%) | Resources produced: %d\n", m.Rolls, m.RobberEvents, robberPct, m.ResourcesProduced)
	fmt.Fprintf(w, "Builds: %d succeeded, %d failed\n", m.BuildsSucceeded, m.BuildsFailed)
}
