// Package http serves the board API: the three read shapes, the ownership
// search, the supplementary depth chart and player points surfaces, health,
// metrics and the MCP endpoint.
package http

import (
	"net/http"

	"github.com/omarshaarawi/fmvboard/internal/api/fantasypros"
	"github.com/omarshaarawi/fmvboard/internal/config"
	"github.com/omarshaarawi/fmvboard/internal/metrics"
	"github.com/omarshaarawi/fmvboard/internal/models"
	"github.com/omarshaarawi/fmvboard/internal/service"
)

func NewServer(
	board *service.BoardService,
	depthCharts *service.DepthChartService,
	playerPoints *fantasypros.Client,
	metricsSvc metrics.Metrics,
	metricsHandler http.Handler,
	mcpHandler http.Handler,
	cfg *config.Config,
) *Server {
	server := &Server{
		Board:          board,
		DepthCharts:    depthCharts,
		PlayerPoints:   playerPoints,
		Metrics:        metricsSvc,
		MetricsHandler: metricsHandler,
		MCPHandler:     mcpHandler,
		Cfg:            cfg,
		Router:         http.NewServeMux(),
	}

	server.routes()
	return server
}

func (s *Server) routes() {
	// All handlers are wrapped with middleware using the Chain helper, so
	// adding another middleware later is a one-line change per route.
	s.Router.Handle("/metrics", s.MetricsHandler)
	s.Router.Handle("/healthz", Chain(s.HealthzHandler(), logRequests))

	s.Router.Handle("/api/roster", Chain(s.BoardHandler(models.ModeRoster), logRequests, recoverPanics))
	s.Router.Handle("/api/free-agents", Chain(s.BoardHandler(models.ModeFreeAgents), logRequests, recoverPanics))
	s.Router.Handle("/api/all-players", Chain(s.BoardHandler(models.ModeAllPlayers), logRequests, recoverPanics))
	s.Router.Handle("/api/who-has", Chain(s.WhoHasHandler(), logRequests, recoverPanics))
	s.Router.Handle("/api/depth-charts", Chain(s.DepthChartsHandler(), logRequests, recoverPanics))
	s.Router.Handle("/api/player-points", Chain(s.PlayerPointsHandler(), logRequests, recoverPanics))

	if s.MCPHandler != nil {
		s.Router.Handle("/mcp", s.MCPHandler)
	}
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}
