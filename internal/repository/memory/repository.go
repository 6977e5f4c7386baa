// Package memory caches the slow-moving upstream data: pro-team schedules
// keyed by season and per-league metadata with a freshness window. Schedules
// never change within a season, so the cache has no eviction.
package memory

import (
	"sync"
	"time"

	"github.com/omarshaarawi/fmvboard/internal/models"
)

const (
	metadataTTL = 24 * time.Hour

	// Depth charts shift with injuries during the week, so the snapshot is
	// rebuilt a few times a day.
	depthChartTTL = 6 * time.Hour
)

type Repository struct {
	mu          sync.RWMutex
	schedules   map[int]*models.ProSchedule
	metadata    map[string]*models.LeagueMetadata
	depthCharts map[int]*models.DepthCharts
}

func NewRepository() *Repository {
	return &Repository{
		schedules:   make(map[int]*models.ProSchedule),
		metadata:    make(map[string]*models.LeagueMetadata),
		depthCharts: make(map[int]*models.DepthCharts),
	}
}

func (r *Repository) SaveSchedule(season int, schedule *models.ProSchedule) {
	if schedule == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.schedules[season] = schedule
}

func (r *Repository) GetSchedule(season int) (*models.ProSchedule, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	schedule, found := r.schedules[season]
	return schedule, found
}

func (r *Repository) SaveMetadata(metadata *models.LeagueMetadata) {
	if metadata == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.metadata[metadata.LeagueID] = metadata
}

// GetMetadata returns cached league metadata younger than the freshness
// window.
func (r *Repository) GetMetadata(leagueID string) (*models.LeagueMetadata, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	metadata, found := r.metadata[leagueID]
	if !found || time.Since(metadata.LastUpdated) > metadataTTL {
		return nil, false
	}
	return metadata, true
}

func (r *Repository) SaveDepthCharts(season int, charts *models.DepthCharts) {
	if charts == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.depthCharts[season] = charts
}

// GetDepthCharts returns the cached season snapshot while it is fresh.
func (r *Repository) GetDepthCharts(season int) (*models.DepthCharts, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	charts, found := r.depthCharts[season]
	if !found || time.Since(time.Unix(charts.LastUpdated, 0)) > depthChartTTL {
		return nil, false
	}
	return charts, true
}
