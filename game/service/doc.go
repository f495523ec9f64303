// Package service provides the business logic layer for the hex settlers
// server.
//
// The service package implements:
//   - Starting a new game from a board preset
//   - Rolling dice and building settlements and roads
//   - Request validation and error classification
//   - Activity metrics
//
// Core Interfaces:
//
// GameService is the main service interface providing high-level game
// operations. GameStore owns the single active game and serializes access to
// it. BoardManager loads and lists board presets. Publisher, set with
// WithPublisher, hears about every change while the game is still locked.
//
// Architecture:
//
// The service layer sits between the transport layer (HTTP/WebSocket/MCP) and
// the game engine. Every operation on the active game runs inside the store's
// View or Update, so a roll or build is applied completely or not at all and
// the returned snapshot is consistent with it.
//
// Usage:
//
//	store := session.NewStore()
//	boards, _ := config.NewManager("boards")
//	svc := service.NewGameService(store, boards, engine.NewRandomDice(seed), logger)
//
//	state, err := svc.NewGame(ctx, "")
//	roll, err := svc.Roll(ctx)
//
// Errors:
//
// Request problems surface as the engine's sentinel errors (ErrBadRequest,
// ErrInvalidEdge, ErrUnknownBuildType, ErrInsufficientResources).
// IsClientError tells transports which errors map to a 4xx response.
package service
