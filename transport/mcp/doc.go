// Package mcp exposes the game to AI agents over the Model Context Protocol.
//
// Client is a thin proxy: every tool call becomes a request against the REST
// API, so agents, browsers and curl all see the same game.
//
// MCP Tools:
//   - new_game: Start a new game, optionally from a board preset
//   - game_state: Players, resources, tiles and turn as text
//   - roll_dice: Roll and report who was paid
//   - build_settlement: Build a settlement on a node
//   - build_road: Build a road between two adjacent nodes
//   - describe_node: Neighbours and pieces around one node
//   - list_boards: Available board presets
//   - game_rules: Full rules text
//
// Transport Modes:
//   - Stdio: server.ServeStdio(client.GetMCPServer()) for local MCP clients
//   - HTTP: client.HTTPHandler() answers single JSON-RPC messages on POST
//
// API failures are returned as tool errors carrying the API's error code, so
// an agent can tell "insufficient_resources" from "invalid_edge".
package mcp
