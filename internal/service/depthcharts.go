package service

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/omarshaarawi/fmvboard/internal/api/espn"
	"github.com/omarshaarawi/fmvboard/internal/models"
	"github.com/omarshaarawi/fmvboard/internal/nfl"
	"github.com/omarshaarawi/fmvboard/internal/repository/memory"
)

// DepthChartService builds and caches the league-wide depth chart snapshot.
// It never touches the valuation pipeline; a failed build only affects the
// depth-charts surface.
type DepthChartService struct {
	site *espn.SiteClient
	repo *memory.Repository
}

func NewDepthChartService(site *espn.SiteClient, repo *memory.Repository) *DepthChartService {
	return &DepthChartService{site: site, repo: repo}
}

// DepthCharts returns the season snapshot, rebuilding it when the cached one
// has gone stale. Season 0 means the current calendar year.
func (s *DepthChartService) DepthCharts(ctx context.Context, season int) (*models.DepthCharts, error) {
	if season == 0 {
		season = time.Now().Year()
	}

	if charts, ok := s.repo.GetDepthCharts(season); ok {
		return charts, nil
	}

	charts, err := s.site.DepthCharts(ctx, season)
	if err != nil {
		log.Error("depth chart build failed", "season", season, "err", err)
		return nil, &Error{
			Status:  http.StatusBadGateway,
			Message: "depth chart source unavailable",
			Detail:  err.Error(),
		}
	}

	s.repo.SaveDepthCharts(season, charts)
	return charts, nil
}

// TeamDepthChart narrows the snapshot to a single team.
func (s *DepthChartService) TeamDepthChart(ctx context.Context, season int, team string) (*models.DepthCharts, error) {
	charts, err := s.DepthCharts(ctx, season)
	if err != nil {
		return nil, err
	}

	abbr := nfl.CanonicalAbbr(team)
	slots, ok := charts.Teams[abbr]
	if !ok {
		return nil, NotFound("unknown team " + abbr)
	}

	return &models.DepthCharts{
		Season:      charts.Season,
		Source:      charts.Source,
		LastUpdated: charts.LastUpdated,
		Teams:       map[string]models.DepthChartSlots{abbr: slots},
	}, nil
}
