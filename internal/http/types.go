package http

import (
	"net/http"

	"github.com/omarshaarawi/fmvboard/internal/api/fantasypros"
	"github.com/omarshaarawi/fmvboard/internal/config"
	"github.com/omarshaarawi/fmvboard/internal/metrics"
	"github.com/omarshaarawi/fmvboard/internal/service"
)

type Server struct {
	Board          *service.BoardService
	DepthCharts    *service.DepthChartService
	PlayerPoints   *fantasypros.Client
	Metrics        metrics.Metrics
	MetricsHandler http.Handler
	MCPHandler     http.Handler
	Cfg            *config.Config
	Router         *http.ServeMux
}
