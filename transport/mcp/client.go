package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/wricardo/hexsettlers/game/engine"
	"github.com/wricardo/hexsettlers/game/service"
)

const (
	ServerName    = "Hex Settlers"
	ServerVersion = "1.0.0"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
	logger     *zap.Logger
}

// NewClient creates a new MCP client that calls the REST API at baseURL
func NewClient(baseURL string, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: logger.Named("mcp"),
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		ServerName,
		ServerVersion,
		server.WithToolCapabilities(true),
		server.WithInstructions(`Hex Settlers - MCP Interface

This is a thin client that proxies all requests to the REST API server.
There is one shared game with two players (0 and 1).

AVAILABLE TOOLS:
- new_game: Start a fresh game, optionally from a named board preset
- game_state: Players, resources, tiles and turn
- roll_dice: Roll for the current player and pay out production
- build_settlement: Place a settlement on a node (wood, brick, wheat, sheep)
- build_road: Place a road between two adjacent nodes (wood, brick)
- describe_node: Coordinates, neighbours and pieces around one node
- list_boards: Available board presets
- game_rules: Full rules`),
	)

	c.registerTools()
}

func intProperty(description string) map[string]any {
	return map[string]any{"type": "integer", "description": description}
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "new_game",
		Description: "Start a new game, discarding the current one",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"board": map[string]any{
					"type":        "string",
					"description": "Board preset id from list_boards (optional, defaults to the server default)",
				},
			},
		},
	}, c.handleNewGame)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_state",
		Description: "Get the current game state",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]any{},
		},
	}, c.handleGameState)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "roll_dice",
		Description: "Roll two dice. A 7 triggers the robber event (no resources paid); any other total pays every settlement on matching tiles",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]any{},
		},
	}, c.handleRoll)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "build_settlement",
		Description: "Build a settlement on a node. Costs 1 wood, 1 brick, 1 wheat and 1 sheep and is worth 1 VP",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"player": intProperty("Player index (0 or 1)"),
				"node":   intProperty("Node id (0-53)"),
			},
			Required: []string{"player", "node"},
		},
	}, c.handleBuildSettlement)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "build_road",
		Description: "Build a road between two adjacent nodes. Costs 1 wood and 1 brick",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"player": intProperty("Player index (0 or 1)"),
				"from":   intProperty("First node id"),
				"to":     intProperty("Second node id, adjacent to the first"),
			},
			Required: []string{"player", "from", "to"},
		},
	}, c.handleBuildRoad)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "describe_node",
		Description: "Describe a node: coordinates, adjacent nodes, settlements and roads touching it",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"node": intProperty("Node id (0-53)"),
			},
			Required: []string{"node"},
		},
	}, c.handleDescribeNode)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_boards",
		Description: "List the board presets new_game accepts",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]any{},
		},
	}, c.handleListBoards)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_rules",
		Description: "Get the complete game rules",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]any{},
		},
	}, c.handleGameRules)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// HTTPHandler serves single JSON-RPC messages over POST.
func (c *Client) HTTPHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "Failed to read request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		response := c.mcpServer.HandleMessage(r.Context(), body)
		if response == nil {
			// Notifications have no reply.
			w.WriteHeader(http.StatusAccepted)
			return
		}

		responseData, err := json.Marshal(response)
		if err != nil {
			c.logger.Error("failed to marshal mcp response", zap.Error(err))
			http.Error(w, "Failed to marshal response", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(responseData)
	})
}

// APIError is a non-2xx response from the REST API.
type APIError struct {
	Status  int
	Code    string
	Message string
	Have    engine.Resources
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = fmt.Sprintf("API error: %d", e.Status)
	}
	if e.Code != "" {
		msg = fmt.Sprintf("%s (%s)", msg, e.Code)
	}
	if e.Have != nil {
		msg += "\nYou have: " + formatResources(e.Have)
	}
	return msg
}

// Helper methods for API calls

func (c *Client) apiCall(ctx context.Context, method, path string, body any, result any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp struct {
			Error string           `json:"error"`
			Code  string           `json:"code"`
			Have  engine.Resources `json:"have"`
		}
		json.NewDecoder(resp.Body).Decode(&errResp)
		return &APIError{Status: resp.StatusCode, Code: errResp.Code, Message: errResp.Error, Have: errResp.Have}
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}
	return nil
}

// intArg reads an integer argument. JSON numbers arrive as float64.
func intArg(args map[string]any, key string) (int, error) {
	v, ok := args[key]
	if !ok || v == nil {
		return 0, fmt.Errorf("%s is required", key)
	}
	switch n := v.(type) {
	case float64:
		if n != float64(int(n)) {
			return 0, fmt.Errorf("%s must be an integer, got %v", key, n)
		}
		return int(n), nil
	case int:
		return n, nil
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, fmt.Errorf("%s must be an integer: %w", key, err)
		}
		return int(i), nil
	default:
		return 0, fmt.Errorf("%s must be an integer, got %T", key, v)
	}
}

// Tool handlers

func (c *Client) handleNewGame(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	board, _ := request.GetArguments()["board"].(string)

	body := map[string]string{}
	if board != "" {
		body["board"] = board
	}

	var resp struct {
		Status string           `json:"status"`
		State  *engine.Snapshot `json:"state"`
	}
	if err := c.apiCall(ctx, "POST", "/api/new_game", body, &resp); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText("New game started.\n\n" + formatState(resp.State)), nil
}

func (c *Client) handleGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var state engine.Snapshot
	if err := c.apiCall(ctx, "GET", "/api/state", nil, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatState(&state)), nil
}

func (c *Client) handleRoll(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var resp service.RollResponse
	if err := c.apiCall(ctx, "POST", "/api/roll", nil, &resp); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatRoll(&resp)), nil
}

func (c *Client) handleBuildSettlement(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	player, err := intArg(args, "player")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	node, err := intArg(args, "node")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	req := service.BuildRequest{Player: &player, Type: string(engine.BuildSettlement), Node: &node}
	return c.build(ctx, req)
}

func (c *Client) handleBuildRoad(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	player, err := intArg(args, "player")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	from, err := intArg(args, "from")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	to, err := intArg(args, "to")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	req := service.BuildRequest{Player: &player, Type: string(engine.BuildRoad), Edge: []int{from, to}}
	return c.build(ctx, req)
}

func (c *Client) build(ctx context.Context, req service.BuildRequest) (*mcp.CallToolResult, error) {
	var resp service.BuildResponse
	if err := c.apiCall(ctx, "POST", "/api/build", req, &resp); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatBuild(&resp)), nil
}

func (c *Client) handleDescribeNode(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	node, err := intArg(request.GetArguments(), "node")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var state engine.Snapshot
	if err := c.apiCall(ctx, "GET", "/api/state", nil, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	text, err := describeNode(&state, node)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(text), nil
}

func (c *Client) handleListBoards(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var resp struct {
		Count  int                  `json:"count"`
		Boards []*service.BoardInfo `json:"boards"`
	}
	if err := c.apiCall(ctx, "GET", "/api/boards", nil, &resp); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Available boards (%d):\n", resp.Count)
	for _, board := range resp.Boards {
		fmt.Fprintf(&b, "- %s: %s", board.BoardID, board.Name)
		if board.Description != "" {
			fmt.Fprintf(&b, " - %s", board.Description)
		}
		if board.Builtin {
			b.WriteString(" [built-in]")
		}
		b.WriteString("\n")
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGameRules(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(gameRules), nil
}

const gameRules = `Hex Settlers - Rules

BOARD:
19 hexagonal tiles in rows of 3, 4, 5, 4 and 3. Each tile yields wood, brick,
wheat, sheep or ore and carries a number from 2 to 12. The single desert tile
carries 7 and never produces. Settlements sit on the 54 corners (nodes) shared
between tiles; roads run along the 72 edges between adjacent nodes.

PLAYERS:
Two players, 0 and 1, start with no resources and no pieces.

ROLLING:
roll_dice throws two dice for the current player and then passes the turn.
- A total of 7 triggers the robber. Nobody is paid.
- Any other total pays one resource for every settlement on every corner of
  each tile showing that number. Two settlements on one tile are paid twice.

BUILDING:
- Settlement: 1 wood, 1 brick, 1 wheat, 1 sheep. Worth 1 victory point.
- Road: 1 wood, 1 brick. Both nodes must be adjacent.
Either player may build at any time. There is no distance rule and roads do
not need to connect. A failed build costs nothing.

ERRORS:
- insufficient_resources: you cannot pay; your holdings are shown
- invalid_edge: the two nodes are not adjacent
- bad_request: unknown player or node, or a missing field
`

// Response formatting

func formatResources(res engine.Resources) string {
	parts := make([]string, 0, len(engine.CountableResources))
	for _, r := range engine.CountableResources {
		parts = append(parts, fmt.Sprintf("%s=%d", r, res[r]))
	}
	return strings.Join(parts, " ")
}

func playerName(state *engine.Snapshot, id int) string {
	if state != nil && id >= 0 && id < len(state.Players) {
		return state.Players[id].Name
	}
	return fmt.Sprintf("Player %d", id+1)
}

func formatState(state *engine.Snapshot) string {
	if state == nil {
		return "No game state available"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Game %s | Turn %d | Current player: %d (%s)\n\n",
		state.GameID, state.Turn, state.CurrentPlayer, playerName(state, state.CurrentPlayer))

	b.WriteString("PLAYERS:\n")
	for _, p := range state.Players {
		fmt.Fprintf(&b, "  %d %s: VP %d | %s\n", p.ID, p.Name, p.VP, formatResources(p.Resources))
		if len(p.Settlements) > 0 {
			fmt.Fprintf(&b, "     settlements: %v\n", p.Settlements)
		}
		if len(p.Roads) > 0 {
			roads := make([]string, len(p.Roads))
			for i, r := range p.Roads {
				roads[i] = r.String()
			}
			fmt.Fprintf(&b, "     roads: %s\n", strings.Join(roads, ", "))
		}
	}

	b.WriteString("\nTILES (index resource/number):\n")
	for i, t := range state.Tiles {
		fmt.Fprintf(&b, "  %2d %s/%d\n", i, t.Resource, t.Number)
	}

	fmt.Fprintf(&b, "\nNodes: %d (use describe_node for neighbours)\n", len(state.Nodes))
	return b.String()
}

func formatRoll(resp *service.RollResponse) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Rolled %d + %d = %d\n", resp.Dice[0], resp.Dice[1], resp.Total)

	switch {
	case resp.Total == engine.RobberNumber:
		b.WriteString("Robber! Nobody is paid.\n")
	case len(resp.Distribution) == 0:
		b.WriteString("No settlements on matching tiles.\n")
	default:
		for _, ev := range resp.Distribution {
			fmt.Fprintf(&b, "  %s +1 %s (node %d, tile %d)\n",
				playerName(resp.State, ev.Player), ev.Resource, ev.Node, ev.Tile)
		}
	}

	if resp.State != nil {
		fmt.Fprintf(&b, "Next player: %d (%s)\n", resp.State.CurrentPlayer, playerName(resp.State, resp.State.CurrentPlayer))
	}
	return b.String()
}

func formatBuild(resp *service.BuildResponse) string {
	if resp.Build == nil {
		return "Build accepted."
	}

	var b strings.Builder
	switch {
	case resp.Build.Node != nil:
		fmt.Fprintf(&b, "Built %s on node %d", resp.Build.Kind, *resp.Build.Node)
	case resp.Build.Edge != nil:
		fmt.Fprintf(&b, "Built %s on edge %s", resp.Build.Kind, resp.Build.Edge)
	default:
		fmt.Fprintf(&b, "Built %s", resp.Build.Kind)
	}
	if !resp.Build.Added {
		b.WriteString(" (already owned, resources still spent)")
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "Paid: %s\n", formatResources(resp.Build.Paid))
	return b.String()
}

func describeNode(state *engine.Snapshot, id int) (string, error) {
	if id < 0 || id >= len(state.Nodes) {
		return "", fmt.Errorf("node %d does not exist (0-%d)", id, len(state.Nodes)-1)
	}
	node := state.Nodes[id]
	neighbours := append([]int{}, state.NodeAdjacency[id]...)
	sort.Ints(neighbours)

	var b strings.Builder
	fmt.Fprintf(&b, "Node %d at (%.2f, %.2f)\n", node.ID, node.X, node.Y)
	fmt.Fprintf(&b, "Adjacent nodes: %v\n", neighbours)

	for _, p := range state.Players {
		for _, s := range p.Settlements {
			if s == id {
				fmt.Fprintf(&b, "Settlement: %s\n", p.Name)
			}
		}
		for _, r := range p.Roads {
			if r[0] == id || r[1] == id {
				fmt.Fprintf(&b, "Road %s: %s\n", r, p.Name)
			}
		}
	}
	return b.String(), nil
}
