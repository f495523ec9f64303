// Command hexsettlers starts the hex settlers game server.
//
// It supports two modes:
//  1. "server" (default) – runs the HTTP server exposing REST API, WebSocket, and an /mcp HTTP endpoint
//  2. "stdio-mcp" – runs an MCP stdio server and spins up an internal HTTP API if none is available
//
// Settings come from the environment (and .env); flags override host, port,
// board selection and debug logging. An optional ngrok tunnel exposes the
// server publicly during development.
package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"golang.ngrok.com/ngrok"
	ngrokConfig "golang.ngrok.com/ngrok/config"

	"github.com/wricardo/hexsettlers/api"
	"github.com/wricardo/hexsettlers/game/config"
	"github.com/wricardo/hexsettlers/game/engine"
	"github.com/wricardo/hexsettlers/game/service"
	"github.com/wricardo/hexsettlers/game/session"
	"github.com/wricardo/hexsettlers/logging"
	"github.com/wricardo/hexsettlers/settings"
	"github.com/wricardo/hexsettlers/transport/mcp"
	"github.com/wricardo/hexsettlers/transport/websocket"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "Hex Settlers Server"
)

func main() {
	s, err := settings.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load settings: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp(s).Run(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

// newApp builds the command tree. Flag defaults come from s, so the
// environment is the baseline and flags override it.
func newApp(s *settings.Settings) *cli.Command {
	return &cli.Command{
		Name:    "hexsettlers",
		Usage:   AppName,
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "host", Value: s.Host, Usage: "HTTP server host"},
			&cli.IntFlag{Name: "port", Value: s.Port, Usage: "HTTP server port"},
			&cli.StringFlag{Name: "boards-dir", Value: s.BoardsDir, Usage: "Directory containing board presets"},
			&cli.StringFlag{Name: "board", Value: s.DefaultBoard, Usage: "Board preset for new games"},
			&cli.BoolFlag{Name: "debug", Value: s.Debug, Usage: "Enable debug logging"},
			&cli.BoolFlag{Name: "ngrok", Value: s.Ngrok.Enabled, Usage: "Enable ngrok tunnel"},
		},
		DefaultCommand: "server",
		Commands: []*cli.Command{
			{
				Name:    "server",
				Aliases: []string{"http"},
				Usage:   "Run HTTP server with API, WebSocket, and MCP endpoint",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					applyFlags(s, cmd)
					logger := logging.New(logging.Options{Debug: s.Debug, File: s.LogFile})
					defer logger.Sync()

					logger.Info("starting", zap.String("app", AppName), zap.String("version", Version), zap.String("mode", "server"))
					hub := websocket.NewHub(logger)
					svc, err := initializeServices(ctx, s, logger, service.WithPublisher(hub))
					if err != nil {
						return err
					}
					return runHTTPServer(ctx, s, svc, hub, logger)
				},
			},
			{
				Name:    "stdio-mcp",
				Aliases: []string{"mcp-stdio", "mcp"},
				Usage:   "Run MCP stdio server with internal HTTP server",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					applyFlags(s, cmd)
					logger := logging.New(logging.Options{Debug: s.Debug, File: s.LogFile})
					defer logger.Sync()

					logger.Info("starting", zap.String("app", AppName), zap.String("version", Version), zap.String("mode", "stdio-mcp"))
					hub := websocket.NewHub(logger)
					svc, err := initializeServices(ctx, s, logger, service.WithPublisher(hub))
					if err != nil {
						return err
					}
					return runStdioMCPWithInternalServer(ctx, s, svc, hub, logger)
				},
			},
		},
	}
}

// applyFlags copies flag values onto the settings.
func applyFlags(s *settings.Settings, cmd *cli.Command) {
	s.Host = cmd.String("host")
	s.Port = cmd.Int("port")
	s.BoardsDir = cmd.String("boards-dir")
	s.DefaultBoard = cmd.String("board")
	s.Debug = cmd.Bool("debug")
	s.Ngrok.Enabled = cmd.Bool("ngrok")
}

// initializeServices wires the board manager, the session store and the game
// service, and starts the first game so the server is playable immediately.
func initializeServices(ctx context.Context, s *settings.Settings, logger *zap.Logger, opts ...service.Option) (service.GameService, error) {
	boardsDir := s.BoardsDir
	if boardsDir != "" {
		if _, err := os.Stat(boardsDir); errors.Is(err, os.ErrNotExist) {
			logger.Warn("board directory not found, serving built-in presets only", zap.String("dir", boardsDir))
			boardsDir = ""
		}
	}

	boards, err := config.NewManager(boardsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create board manager: %w", err)
	}
	if s.DefaultBoard != "" {
		if err := boards.SetDefault(s.DefaultBoard); err != nil {
			return nil, fmt.Errorf("failed to select default board %s: %w", s.DefaultBoard, err)
		}
	}

	seed := s.DiceSeed
	if seed == 0 {
		if seed, err = engine.NewSeed(); err != nil {
			return nil, err
		}
	}
	logger.Debug("dice seeded", zap.Uint64("seed", seed))

	gameService := service.NewGameService(session.NewStore(), boards, engine.NewRandomDice(seed), logger, opts...)
	if _, err := gameService.NewGame(ctx, ""); err != nil {
		return nil, fmt.Errorf("failed to start initial game: %w", err)
	}
	return gameService, nil
}

// newHandler assembles the API server, WebSocket hub and /mcp endpoint.
// mcpBaseURL is where the MCP proxy reaches the REST API.
func newHandler(svc service.GameService, hub *websocket.Hub, staticDir, mcpBaseURL string, logger *zap.Logger) http.Handler {
	apiServer := api.NewServer(svc, hub, logger, staticDir)
	mcpClient := mcp.NewClient(mcpBaseURL, logger)
	apiServer.Handle("/mcp", mcpClient.HTTPHandler())
	return apiServer
}

// loopbackURL returns a URL that reaches a listener bound to addr from the
// same host.
func loopbackURL(addr net.Addr) string {
	tcp, ok := addr.(*net.TCPAddr)
	if !ok {
		return "http://" + addr.String()
	}
	if tcp.IP == nil || tcp.IP.IsUnspecified() {
		return fmt.Sprintf("http://127.0.0.1:%d", tcp.Port)
	}
	return "http://" + tcp.String()
}

// runHTTPServer serves until ctx is cancelled. hub should be the publisher
// svc was built with. If ngrok is enabled it also serves through a public
// tunnel.
func runHTTPServer(ctx context.Context, s *settings.Settings, svc service.GameService, hub *websocket.Hub, logger *zap.Logger) error {
	listener, err := net.Listen("tcp", s.Addr())
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.Addr(), err)
	}

	go hub.Run(ctx)

	handler := newHandler(svc, hub, s.StaticDir, loopbackURL(listener.Addr()), logger)
	httpServer := &http.Server{
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	var wg sync.WaitGroup
	errCh := make(chan error, 1)

	wg.Add(1)
	go func() {
		defer wg.Done()

		addr := listener.Addr().String()
		logger.Info("HTTP server listening",
			zap.String("addr", addr),
			zap.String("api", fmt.Sprintf("http://%s/api", addr)),
			zap.String("ws", fmt.Sprintf("ws://%s/ws", addr)),
			zap.String("mcp", fmt.Sprintf("http://%s/mcp", addr)),
		)

		if err := httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("HTTP server failed: %w", err)
		}
	}()

	if s.Ngrok.Enabled {
		wg.Add(1)
		go func() {
			defer wg.Done()
			runNgrokTunnel(ctx, s.Ngrok, handler, logger)
		}()
	}

	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("shutting down")
	case runErr = <-errCh:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", zap.Error(err))
	}

	wg.Wait()
	logger.Info("server stopped")
	return runErr
}

// runNgrokTunnel serves handler through ngrok until ctx is cancelled.
func runNgrokTunnel(ctx context.Context, cfg settings.Ngrok, handler http.Handler, logger *zap.Logger) {
	if cfg.AuthToken == "" {
		logger.Warn("ngrok enabled but no auth token provided (set NGROK_AUTHTOKEN)")
		return
	}

	var tunnel ngrokConfig.Tunnel
	if cfg.Domain != "" {
		tunnel = ngrokConfig.HTTPEndpoint(ngrokConfig.WithDomain(cfg.Domain))
	} else {
		tunnel = ngrokConfig.HTTPEndpoint()
	}

	logger.Info("starting ngrok tunnel", zap.String("domain", cfg.Domain))
	tun, err := ngrok.Listen(ctx, tunnel, ngrok.WithAuthtoken(cfg.AuthToken))
	if err != nil {
		logger.Error("failed to start ngrok tunnel", zap.Error(err))
		return
	}

	go func() {
		<-ctx.Done()
		if err := tun.Close(); err != nil {
			logger.Warn("failed to close ngrok tunnel", zap.Error(err))
		}
	}()

	logger.Info("ngrok tunnel established", zap.String("url", tun.URL()))
	if err := http.Serve(tun, handler); err != nil && !errors.Is(err, http.ErrServerClosed) && ctx.Err() == nil {
		logger.Error("ngrok server error", zap.Error(err))
	}
	logger.Info("ngrok tunnel closed")
}

// runStdioMCPWithInternalServer runs an MCP stdio server. It reuses an API
// already listening on the configured address; otherwise it starts an
// internal HTTP API on a random loopback port and targets that.
func runStdioMCPWithInternalServer(ctx context.Context, s *settings.Settings, svc service.GameService, hub *websocket.Hub, logger *zap.Logger) error {
	externalURL := "http://" + s.Addr()
	baseURL := externalURL

	if !apiAvailable(externalURL) {
		listener, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			return fmt.Errorf("failed to get available port: %w", err)
		}
		baseURL = loopbackURL(listener.Addr())

		go hub.Run(ctx)

		httpServer := &http.Server{Handler: newHandler(svc, hub, "", baseURL, logger)}
		go func() {
			if err := httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("internal HTTP server error", zap.Error(err))
			}
		}()
		defer httpServer.Close()

		logger.Info("MCP stdio server ready (using internal HTTP server)", zap.String("api", baseURL))
	} else {
		logger.Info("MCP stdio server ready (using external HTTP server)", zap.String("api", baseURL))
	}

	mcpClient := mcp.NewClient(baseURL, logger)
	if err := server.ServeStdio(mcpClient.GetMCPServer()); err != nil {
		return fmt.Errorf("MCP stdio server error: %w", err)
	}
	return nil
}

// apiAvailable reports whether a hex settlers API answers at baseURL.
func apiAvailable(baseURL string) bool {
	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(baseURL + "/healthz")
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}
