// Package mcpserver exposes the board reads as Model Context Protocol tools
// over the streamable HTTP transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/omarshaarawi/fmvboard/internal/creds"
	"github.com/omarshaarawi/fmvboard/internal/models"
	"github.com/omarshaarawi/fmvboard/internal/service"
)

// Defaults fill in tool arguments the caller leaves out, so a chat client can
// ask for "my roster" without repeating the league id on every call.
type Defaults struct {
	LeagueID string
	Season   int
	Creds    creds.Credentials
}

// BoardArgs are the shared arguments for the three board tools.
type BoardArgs struct {
	LeagueID string   `json:"league_id,omitempty" jsonschema:"ESPN league id (defaults to the configured league)"`
	Season   int      `json:"season,omitempty" jsonschema:"Season year (0 = current)"`
	Week     int      `json:"week,omitempty" jsonschema:"NFL week 1-18 (0 = current)"`
	Pos      string   `json:"pos,omitempty" jsonschema:"Position filter: QB|RB|WR|TE|K|DST"`
	TeamID   *int     `json:"team_id,omitempty" jsonschema:"Narrow roster mode to one fantasy team id"`
	MinProj  *float64 `json:"min_proj,omitempty" jsonschema:"Minimum projected points (free-agent modes)"`
}

// WhoHasArgs are the arguments for the ownership search tool.
type WhoHasArgs struct {
	LeagueID string `json:"league_id,omitempty" jsonschema:"ESPN league id (defaults to the configured league)"`
	Season   int    `json:"season,omitempty" jsonschema:"Season year (0 = current)"`
	Week     int    `json:"week,omitempty" jsonschema:"NFL week 1-18 (0 = current)"`
	Query    string `json:"query" jsonschema:"Player name to search for (required)"`
}

// ToolInfo describes one registered tool.
type ToolInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Server binds the board service to an MCP server.
type Server struct {
	mcp      *mcp.Server
	board    *service.BoardService
	defaults Defaults
	tools    []ToolInfo
}

func New(board *service.BoardService, defaults Defaults) *Server {
	s := &Server{
		mcp: mcp.NewServer(&mcp.Implementation{
			Name:    "fmvboard",
			Version: "0.1.0",
		}, nil),
		board:    board,
		defaults: defaults,
	}

	s.addBoardTool("fmv_roster",
		"League rosters with per-player fair market value, grouped by fantasy team",
		models.ModeRoster)
	s.addBoardTool("fmv_free_agents",
		"Free agents ranked by fair market value",
		models.ModeFreeAgents)
	s.addBoardTool("fmv_all_players",
		"Rostered players and free agents on one fair market value board",
		models.ModeAllPlayers)

	addTool(s.mcp, &s.tools, &mcp.Tool{
		Name:        "who_has",
		Description: "Fuzzy-search which fantasy team rosters a player",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args WhoHasArgs) (*mcp.CallToolResult, any, error) {
		if strings.TrimSpace(args.Query) == "" {
			return toolError(fmt.Errorf("query is required")), nil, nil
		}
		resp, err := s.board.WhoHas(ctx, service.WhoHasRequest{
			LeagueID: s.leagueID(args.LeagueID),
			Season:   s.season(args.Season),
			Week:     args.Week,
			Query:    args.Query,
			Creds:    s.defaults.Creds,
		})
		if err != nil {
			return toolError(err), nil, nil
		}
		return toolJSON(resp)
	})

	return s
}

func (s *Server) addBoardTool(name, description string, mode models.Mode) {
	addTool(s.mcp, &s.tools, &mcp.Tool{
		Name:        name,
		Description: description,
	}, func(ctx context.Context, req *mcp.CallToolRequest, args BoardArgs) (*mcp.CallToolResult, any, error) {
		resp, err := s.board.Board(ctx, service.BoardRequest{
			Mode:     mode,
			LeagueID: s.leagueID(args.LeagueID),
			Season:   s.season(args.Season),
			Week:     args.Week,
			Pos:      args.Pos,
			TeamID:   args.TeamID,
			MinProj:  args.MinProj,
			Creds:    s.defaults.Creds,
		})
		if err != nil {
			return toolError(err), nil, nil
		}
		return toolJSON(resp)
	})
}

func (s *Server) leagueID(id string) string {
	if id != "" {
		return id
	}
	return s.defaults.LeagueID
}

func (s *Server) season(season int) int {
	if season > 0 {
		return season
	}
	return s.defaults.Season
}

// Tools lists the registered tools in registration order.
func (s *Server) Tools() []ToolInfo {
	return s.tools
}

// Handler returns the streamable HTTP transport, ready to mount on a mux.
func (s *Server) Handler() http.Handler {
	return mcp.NewStreamableHTTPHandler(func(r *http.Request) *mcp.Server {
		return s.mcp
	}, &mcp.StreamableHTTPOptions{JSONResponse: true})
}

func addTool[T any](server *mcp.Server, registry *[]ToolInfo, tool *mcp.Tool, handler func(context.Context, *mcp.CallToolRequest, T) (*mcp.CallToolResult, any, error)) {
	*registry = append(*registry, ToolInfo{Name: tool.Name, Description: tool.Description})
	mcp.AddTool(server, tool, handler)
}

func toolJSON(payload any) (*mcp.CallToolResult, any, error) {
	b, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return toolError(err), nil, nil
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(b)},
		},
	}, nil, nil
}

func toolError(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{
			&mcp.TextContent{Text: fmt.Sprintf("error: %v", err)},
		},
	}
}
