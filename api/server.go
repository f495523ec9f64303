package api

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/wricardo/hexsettlers/game/config"
	"github.com/wricardo/hexsettlers/game/engine"
	"github.com/wricardo/hexsettlers/game/service"
	"github.com/wricardo/hexsettlers/transport/websocket"
)

// Machine-readable error codes returned in the "code" field.
const (
	CodeBadRequest            = "bad_request"
	CodeInvalidEdge           = "invalid_edge"
	CodeUnknownBuildType      = "unknown_build_type"
	CodeInsufficientResources = "insufficient_resources"
	CodeNoActiveGame          = "no_active_game"
	CodeBoardNotFound         = "board_not_found"
	CodeNotFound              = "not_found"
	CodeMethodNotAllowed      = "method_not_allowed"
	CodeInternal              = "internal"
)

// maxBodyBytes bounds request bodies; every request body is a small JSON object.
const maxBodyBytes = 1 << 16

// Server represents the REST API server
type Server struct {
	service service.GameService
	hub     *websocket.Hub
	router  *mux.Router
	logger  *zap.Logger
}

// NewServer creates a new API server. hub may be nil, in which case /ws is
// not served. State changes reach the hub through the game service's
// publisher, not through the handlers. Paths outside /api that match no
// route are served from staticDir when it is non-empty.
func NewServer(gameService service.GameService, hub *websocket.Hub, logger *zap.Logger, staticDir string) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		service: gameService,
		hub:     hub,
		router:  mux.NewRouter(),
		logger:  logger.Named("api"),
	}

	s.setupRoutes(staticDir)
	return s
}

// setupRoutes configures all API routes
func (s *Server) setupRoutes(staticDir string) {
	s.router.Use(s.logRequests)

	api := s.router.PathPrefix("/api").Subrouter()
	// Subrouters answer method mismatches with 404 unless they have their own
	// handler.
	api.NotFoundHandler = http.HandlerFunc(s.handleNotFound)
	api.MethodNotAllowedHandler = http.HandlerFunc(s.handleMethodNotAllowed)
	s.router.MethodNotAllowedHandler = api.MethodNotAllowedHandler

	// Game operations
	api.HandleFunc("/new_game", s.handleNewGame).Methods("POST")
	api.HandleFunc("/state", s.handleGetState).Methods("GET")
	api.HandleFunc("/roll", s.handleRoll).Methods("POST")
	api.HandleFunc("/build", s.handleBuild).Methods("POST")

	// Boards and diagnostics
	api.HandleFunc("/boards", s.handleListBoards).Methods("GET")
	api.HandleFunc("/metrics", s.handleMetrics).Methods("GET")
	s.router.HandleFunc("/healthz", s.handleHealth).Methods("GET")

	if s.hub != nil {
		s.router.HandleFunc("/ws", s.handleWebSocket)
	}

	// Static files
	if staticDir != "" {
		s.router.NotFoundHandler = http.FileServer(http.Dir(staticDir))
	} else {
		s.router.NotFoundHandler = api.NotFoundHandler
	}
}

// Handle mounts an extra handler, such as the MCP endpoint, on the router.
func (s *Server) Handle(path string, handler http.Handler) {
	s.router.Handle(path, handler)
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Response helpers
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// ErrorResponse is the body of every non-2xx API response.
type ErrorResponse struct {
	Error string           `json:"error"`
	Code  string           `json:"code"`
	Have  engine.Resources `json:"have,omitempty"`
}

// respondError maps err onto a status code and machine code
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	status, body := classifyError(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", zap.String("path", r.URL.Path), zap.Error(err))
	} else {
		s.logger.Debug("request rejected", zap.String("path", r.URL.Path), zap.String("code", body.Code), zap.Error(err))
	}
	respondJSON(w, status, body)
}

func classifyError(err error) (int, ErrorResponse) {
	body := ErrorResponse{Error: err.Error()}

	var insufficient *engine.InsufficientResourcesError
	switch {
	case errors.As(err, &insufficient):
		body.Code = CodeInsufficientResources
		body.Have = insufficient.Have
		return http.StatusBadRequest, body
	case errors.Is(err, engine.ErrInvalidEdge):
		body.Code = CodeInvalidEdge
		return http.StatusBadRequest, body
	case errors.Is(err, engine.ErrUnknownBuildType):
		body.Code = CodeUnknownBuildType
		return http.StatusBadRequest, body
	case errors.Is(err, engine.ErrBadRequest):
		body.Code = CodeBadRequest
		return http.StatusBadRequest, body
	case errors.Is(err, service.ErrNoActiveGame):
		body.Code = CodeNoActiveGame
		return http.StatusConflict, body
	case errors.Is(err, config.ErrBoardNotFound):
		body.Code = CodeBoardNotFound
		return http.StatusNotFound, body
	default:
		body.Code = CodeInternal
		return http.StatusInternalServerError, body
	}
}

// decodeBody decodes an optional JSON body. An empty body leaves v untouched.
func decodeBody(r *http.Request, v any) error {
	if r.Body == nil {
		return nil
	}
	err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(v)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}
	return &requestError{err: err}
}

// requestError marks a body that could not be decoded.
type requestError struct {
	err error
}

func (e *requestError) Error() string { return "invalid request body: " + e.err.Error() }
func (e *requestError) Unwrap() error { return e.err }
func (e *requestError) Is(target error) bool {
	return target == engine.ErrBadRequest
}

// Game Operation Handlers

func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Board string `json:"board,omitempty"`
	}
	if err := decodeBody(r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}

	state, err := s.service.NewGame(r.Context(), req.Board)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"state":  state,
	})
}

func (s *Server) handleGetState(w http.ResponseWriter, r *http.Request) {
	state, err := s.service.GetState(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, state)
}

func (s *Server) handleRoll(w http.ResponseWriter, r *http.Request) {
	result, err := s.service.Roll(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleBuild(w http.ResponseWriter, r *http.Request) {
	var req service.BuildRequest
	if err := decodeBody(r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}

	result, err := s.service.Build(r.Context(), req)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// Board and diagnostic handlers

func (s *Server) handleListBoards(w http.ResponseWriter, r *http.Request) {
	boards, err := s.service.ListBoards(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"count":  len(boards),
		"boards": boards,
	})
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	resp := map[string]any{"game": s.service.Metrics()}
	if s.hub != nil {
		resp["websocket"] = map[string]any{
			"clients": s.hub.ClientCount(),
			"dropped": s.hub.Dropped(),
		}
	}
	respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusNotFound, ErrorResponse{
		Error: "no route for " + r.URL.Path,
		Code:  CodeNotFound,
	})
}

func (s *Server) handleMethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusMethodNotAllowed, ErrorResponse{
		Error: fmt.Sprintf("method %s not allowed for %s", r.Method, r.URL.Path),
		Code:  CodeMethodNotAllowed,
	})
}

// Health check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}

// WebSocket Handler

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	var initial *websocket.Message
	if state, err := s.service.GetState(r.Context()); err == nil {
		initial = &websocket.Message{GameID: state.GameID, Event: websocket.EventStateUpdate, State: state}
	} else if !errors.Is(err, service.ErrNoActiveGame) {
		s.respondError(w, r, err)
		return
	}

	s.hub.ServeWS(w, r, initial)
}

// logRequests logs every request with its status and latency.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		s.logger.Debug("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("latency", time.Since(start)),
		)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Hijack lets the websocket upgrader take over the connection.
func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hj, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	return hj.Hijack()
}

// Flush supports streaming handlers mounted on the router.
func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}
