// Package api provides the HTTP REST API for the hex settlers server.
//
// Endpoints:
//
// Game Operations:
//   - POST /api/new_game - Start a new game, optional body {"board": "standard"}
//   - GET /api/state - Get the current game snapshot
//   - POST /api/roll - Roll the dice and pay out production
//   - POST /api/build - Build a settlement or road
//
// Boards and diagnostics:
//   - GET /api/boards - List board presets
//   - GET /api/metrics - Game and websocket counters
//   - GET /healthz - Liveness check
//
// Real-time:
//   - GET /ws - WebSocket stream of state changes
//
// Request/Response Format:
//
// All endpoints accept and return JSON. A build order looks like:
//
//	{"player": 0, "type": "settlement", "node": 12}
//	{"player": 1, "type": "road", "edge": [12, 13]}
//
// A successful build returns {"result": "ok", "build": {...}, "state": {...}}.
//
// Errors:
//
// Failures return a JSON body with a human-readable message and a machine
// code:
//
//	{"error": "insufficient resources: ...", "code": "insufficient_resources", "have": {...}}
//
// Codes are bad_request, invalid_edge, unknown_build_type and
// insufficient_resources (all 400), no_active_game (409), board_not_found
// and not_found (404), method_not_allowed (405) and internal (500).
//
// Paths outside /api that match no route fall through to the static file
// directory when one is configured. A known path with the wrong method gets
// 405 method_not_allowed. Extra handlers, such as the MCP endpoint, are mounted
// with Server.Handle.
package api
