package mcp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/wricardo/hexsettlers/api"
	"github.com/wricardo/hexsettlers/game/config"
	"github.com/wricardo/hexsettlers/game/engine"
	"github.com/wricardo/hexsettlers/game/service"
	"github.com/wricardo/hexsettlers/game/session"
)

// newBackend starts a real REST API backed by scripted dice.
func newBackend(t *testing.T, rolls ...[2]int) (*Client, service.GameService) {
	t.Helper()
	logger := zaptest.NewLogger(t)
	boards, err := config.NewManager("")
	require.NoError(t, err)
	svc := service.NewGameService(session.NewStore(), boards, engine.NewFixedDice(rolls...), logger)

	ts := httptest.NewServer(api.NewServer(svc, nil, logger, ""))
	t.Cleanup(ts.Close)

	return NewClient(ts.URL+"/", logger), svc
}

func callTool(t *testing.T, c *Client, handler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error), args map[string]any) (string, bool) {
	t.Helper()
	result, err := handler(context.Background(), mcp.CallToolRequest{
		Params: mcp.CallToolParams{Arguments: args},
	})
	require.NoError(t, err)
	require.NotEmpty(t, result.Content)
	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content")
	return text.Text, result.IsError
}

func TestNewClient(t *testing.T) {
	c := NewClient("http://localhost:8080/", nil)
	assert.Equal(t, "http://localhost:8080", c.baseURL)
	assert.NotNil(t, c.httpClient)
	assert.NotNil(t, c.GetMCPServer())
}

func TestGameFlow(t *testing.T) {
	c, svc := newBackend(t, [2]int{2, 3}, [2]int{3, 4})

	text, isErr := callTool(t, c, c.handleGameState, nil)
	assert.True(t, isErr)
	assert.Contains(t, text, "no_active_game")

	text, isErr = callTool(t, c, c.handleNewGame, map[string]any{"board": "standard"})
	require.False(t, isErr, text)
	assert.Contains(t, text, "New game started")
	assert.Contains(t, text, "Current player: 0 (Player 1)")
	assert.Contains(t, text, " 0 wood/5")

	text, isErr = callTool(t, c, c.handleBuildSettlement, map[string]any{"player": 0.0, "node": 0.0})
	assert.True(t, isErr)
	assert.Contains(t, text, "insufficient_resources")
	assert.Contains(t, text, "You have: wood=0 brick=0 wheat=0 sheep=0 ore=0")

	_, err := svc.Grant(context.Background(), 0, engine.Resources{engine.Wood: 2, engine.Brick: 2, engine.Wheat: 1, engine.Sheep: 1})
	require.NoError(t, err)

	text, isErr = callTool(t, c, c.handleBuildSettlement, map[string]any{"player": 0.0, "node": 0.0})
	require.False(t, isErr, text)
	assert.Contains(t, text, "Built settlement on node 0")

	text, isErr = callTool(t, c, c.handleBuildRoad, map[string]any{"player": 0.0, "from": 0.0, "to": 1.0})
	require.False(t, isErr, text)
	assert.Contains(t, text, "Built road on edge 0-1")

	text, isErr = callTool(t, c, c.handleRoll, nil)
	require.False(t, isErr, text)
	assert.Contains(t, text, "Rolled 2 + 3 = 5")
	assert.Contains(t, text, "Player 1 +1 wood (node 0, tile 0)")
	assert.Contains(t, text, "Next player: 1")

	text, isErr = callTool(t, c, c.handleRoll, nil)
	require.False(t, isErr, text)
	assert.Contains(t, text, "Robber")

	text, isErr = callTool(t, c, c.handleDescribeNode, map[string]any{"node": 0.0})
	require.False(t, isErr, text)
	assert.Contains(t, text, "Adjacent nodes: [1 5 7]")
	assert.Contains(t, text, "Settlement: Player 1")
	assert.Contains(t, text, "Road 0-1: Player 1")
}

func TestBuildArgumentErrors(t *testing.T) {
	c, _ := newBackend(t)
	callTool(t, c, c.handleNewGame, nil)

	text, isErr := callTool(t, c, c.handleBuildSettlement, map[string]any{"node": 1.0})
	assert.True(t, isErr)
	assert.Contains(t, text, "player is required")

	text, isErr = callTool(t, c, c.handleBuildRoad, map[string]any{"player": 0.0, "from": 0.0, "to": 1.5})
	assert.True(t, isErr)
	assert.Contains(t, text, "to must be an integer")

	text, isErr = callTool(t, c, c.handleBuildRoad, map[string]any{"player": 0.0, "from": 0.0, "to": 2.0})
	assert.True(t, isErr)
	assert.Contains(t, text, "invalid_edge")

	text, isErr = callTool(t, c, c.handleDescribeNode, map[string]any{"node": 54.0})
	assert.True(t, isErr)
	assert.Contains(t, text, "does not exist")
}

func TestListBoardsAndRules(t *testing.T) {
	c, _ := newBackend(t)

	text, isErr := callTool(t, c, c.handleListBoards, nil)
	require.False(t, isErr, text)
	assert.Contains(t, text, "- standard:")
	assert.Contains(t, text, "[built-in]")

	text, _ = callTool(t, c, c.handleGameRules, nil)
	assert.Contains(t, text, "1 wood, 1 brick, 1 wheat, 1 sheep")
}

func TestAPIError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("Internal Server Error"))
	}))
	defer ts.Close()

	c := NewClient(ts.URL, zaptest.NewLogger(t))
	err := c.apiCall(context.Background(), "GET", "/api/state", nil, nil)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.Status)
	assert.Equal(t, "API error: 500", apiErr.Error())

	unreachable := NewClient("http://127.0.0.1:1", zaptest.NewLogger(t))
	assert.Error(t, unreachable.apiCall(context.Background(), "GET", "/api/state", nil, nil))
}

func TestHTTPHandler(t *testing.T) {
	c := NewClient("http://localhost:0", zaptest.NewLogger(t))
	handler := c.HTTPHandler()

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("GET", "/mcp", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)

	w = httptest.NewRecorder()
	body := `{"jsonrpc":"2.0","id":1,"method":"tools/list"}`
	handler.ServeHTTP(w, httptest.NewRequest("POST", "/mcp", strings.NewReader(body)))
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Result struct {
			Tools []struct {
				Name        string `json:"name"`
				Description string `json:"description"`
			} `json:"tools"`
		} `json:"result"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	var names []string
	for _, tool := range resp.Result.Tools {
		names = append(names, tool.Name)
		if tool.Name == "roll_dice" {
			// Tiles are never marked robbed; a 7 only reports the event.
			assert.Contains(t, tool.Description, "robber event (no resources paid)")
			assert.NotContains(t, tool.Description, "moves the robber")
		}
	}
	assert.ElementsMatch(t, []string{
		"new_game", "game_state", "roll_dice", "build_settlement",
		"build_road", "describe_node", "list_boards", "game_rules",
	}, names)
}

func TestIntArg(t *testing.T) {
	n, err := intArg(map[string]any{"x": 3.0}, "x")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	n, err = intArg(map[string]any{"x": json.Number("7")}, "x")
	require.NoError(t, err)
	assert.Equal(t, 7, n)

	_, err = intArg(map[string]any{"x": "3"}, "x")
	assert.Error(t, err)

	_, err = intArg(map[string]any{}, "x")
	assert.Error(t, err)
}
