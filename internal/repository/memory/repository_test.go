package memory

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omarshaarawi/fmvboard/internal/models"
)

func TestScheduleCache(t *testing.T) {
	repo := NewRepository()

	_, found := repo.GetSchedule(2025)
	assert.False(t, found)

	schedule := &models.ProSchedule{
		Opponents: models.ScheduleMap{"PHI": {3: "NYG"}},
		ByeWeeks:  models.ByeMap{"PHI": 5},
	}
	repo.SaveSchedule(2025, schedule)

	got, found := repo.GetSchedule(2025)
	require.True(t, found)
	assert.Equal(t, schedule, got)

	_, found = repo.GetSchedule(2024)
	assert.False(t, found)
}

func TestMetadataFreshness(t *testing.T) {
	repo := NewRepository()

	repo.SaveMetadata(&models.LeagueMetadata{
		LeagueID:             "1204123789",
		CurrentScoringPeriod: 3,
		LastUpdated:          time.Now(),
	})

	got, found := repo.GetMetadata("1204123789")
	require.True(t, found)
	assert.Equal(t, 3, got.CurrentScoringPeriod)

	repo.SaveMetadata(&models.LeagueMetadata{
		LeagueID:    "stale",
		LastUpdated: time.Now().Add(-25 * time.Hour),
	})
	_, found = repo.GetMetadata("stale")
	assert.False(t, found)

	_, found = repo.GetMetadata("missing")
	assert.False(t, found)
}
