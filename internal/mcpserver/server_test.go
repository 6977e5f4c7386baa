package mcpserver

import (
	"errors"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omarshaarawi/fmvboard/internal/creds"
	"github.com/omarshaarawi/fmvboard/internal/metrics"
	"github.com/omarshaarawi/fmvboard/internal/service"
)

func newTestServer() *Server {
	board := service.NewBoardService(nil, nil, nil, metrics.NewMock())
	return New(board, Defaults{
		LeagueID: "99881",
		Season:   2025,
		Creds:    creds.FromEnv("{AAAAAAAA-BBBB-CCCC-DDDD-EEEEEEEEEEEE}", "s2token1234567890"),
	})
}

func TestNewRegistersTools(t *testing.T) {
	s := newTestServer()

	var names []string
	for _, tool := range s.Tools() {
		names = append(names, tool.Name)
		assert.NotEmpty(t, tool.Description, tool.Name)
	}
	assert.Equal(t, []string{"fmv_roster", "fmv_free_agents", "fmv_all_players", "who_has"}, names)
}

func TestHandlerIsMountable(t *testing.T) {
	assert.NotNil(t, newTestServer().Handler())
}

func TestDefaultsFillMissingArgs(t *testing.T) {
	s := newTestServer()

	assert.Equal(t, "99881", s.leagueID(""))
	assert.Equal(t, "123", s.leagueID("123"))
	assert.Equal(t, 2025, s.season(0))
	assert.Equal(t, 2024, s.season(2024))
}

func TestToolJSON(t *testing.T) {
	result, _, err := toolJSON(map[string]any{"ok": true, "count": 2})
	require.NoError(t, err)
	require.False(t, result.IsError)
	require.Len(t, result.Content, 1)

	text, ok := result.Content[0].(*mcp.TextContent)
	require.True(t, ok)
	assert.Contains(t, text.Text, `"ok": true`)
	assert.Contains(t, text.Text, `"count": 2`)
}

func TestToolError(t *testing.T) {
	result := toolError(errors.New("missing leagueId"))
	require.True(t, result.IsError)
	require.Len(t, result.Content, 1)

	text, ok := result.Content[0].(*mcp.TextContent)
	require.True(t, ok)
	assert.Equal(t, "error: missing leagueId", text.Text)
}
