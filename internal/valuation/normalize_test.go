package valuation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omarshaarawi/fmvboard/internal/models"
)

func TestFromPoolEntry(t *testing.T) {
	entry := models.PlayerPoolEntry{
		ID: 4262921,
		Player: models.RawPlayer{
			ID:                4262921,
			FullName:          "Justin Jefferson",
			DefaultPositionID: 3,
			ProTeamID:         16,
			Stats: []models.PlayerStat{
				{ScoringPeriodID: 3, StatSourceID: 1, StatSplitTypeID: 1, AppliedTotal: fp(19.2)},
			},
		},
	}

	p := FromPoolEntry(entry, 3)

	assert.Equal(t, 4262921, p.ID)
	assert.Equal(t, "Justin Jefferson", p.Name)
	assert.Equal(t, "WR", p.Position)
	require.NotNil(t, p.ProTeamID)
	assert.Equal(t, 16, *p.ProTeamID)
	require.NotNil(t, p.TeamAbbr)
	assert.Equal(t, "MIN", *p.TeamAbbr)
	require.NotNil(t, p.Proj)
	assert.Equal(t, 19.2, *p.Proj)
	assert.Nil(t, p.SlotID)
	assert.False(t, p.IsStarter)
}

func TestFromPoolEntryFallbacks(t *testing.T) {
	t.Run("name from first and last", func(t *testing.T) {
		p := FromPoolEntry(models.PlayerPoolEntry{
			Player: models.RawPlayer{FirstName: " Jalen ", LastName: "Hurts"},
		}, 1)
		assert.Equal(t, "Jalen Hurts", p.Name)
	})

	t.Run("position strings when id unknown", func(t *testing.T) {
		p := FromPoolEntry(models.PlayerPoolEntry{
			Player: models.RawPlayer{DefaultPositionID: 9, Position: "d/st"},
		}, 1)
		assert.Equal(t, "DST", p.Position)
	})

	t.Run("missing position becomes UTIL", func(t *testing.T) {
		p := FromPoolEntry(models.PlayerPoolEntry{
			Player: models.RawPlayer{DefaultPositionID: 9},
		}, 1)
		assert.Equal(t, "UTIL", p.Position)
	})

	t.Run("dst id 23 accepted", func(t *testing.T) {
		p := FromPoolEntry(models.PlayerPoolEntry{
			Player: models.RawPlayer{DefaultPositionID: 23},
		}, 1)
		assert.Equal(t, "DST", p.Position)
	})

	t.Run("abbreviation beats id table and is canonicalized", func(t *testing.T) {
		p := FromPoolEntry(models.PlayerPoolEntry{
			Player: models.RawPlayer{ProTeamID: 28, ProTeamAbbreviation: "was"},
		}, 1)
		require.NotNil(t, p.TeamAbbr)
		assert.Equal(t, "WSH", *p.TeamAbbr)
	})

	t.Run("free agent has no team", func(t *testing.T) {
		p := FromPoolEntry(models.PlayerPoolEntry{
			Player: models.RawPlayer{ProTeamID: 0},
		}, 1)
		assert.Nil(t, p.ProTeamID)
		assert.Nil(t, p.TeamAbbr)
	})

	t.Run("missing projection is zero in pool shapes", func(t *testing.T) {
		p := FromPoolEntry(models.PlayerPoolEntry{Player: models.RawPlayer{}}, 1)
		require.NotNil(t, p.Proj)
		assert.Equal(t, 0.0, *p.Proj)
	})
}

func TestFromRosterEntry(t *testing.T) {
	entry := models.RosterEntry{
		LineupSlotID: 20,
		PlayerPoolEntry: models.PlayerPoolEntry{
			Player: models.RawPlayer{
				ID:                12483,
				FullName:          "Patrick Mahomes",
				DefaultPositionID: 1,
				ProTeamID:         12,
			},
		},
	}

	p := FromRosterEntry(entry, 3)

	require.NotNil(t, p.SlotID)
	assert.Equal(t, 20, *p.SlotID)
	require.NotNil(t, p.SlotName)
	assert.Equal(t, "BE", *p.SlotName)
	assert.False(t, p.IsStarter)

	// roster shapes keep a missing projection null
	assert.Nil(t, p.Proj)
}

func TestFromRosterEntryStarterSlots(t *testing.T) {
	for _, slot := range []int{0, 2, 4, 6, 7, 16, 17, 23, 25} {
		entry := models.RosterEntry{LineupSlotID: slot}
		assert.True(t, FromRosterEntry(entry, 1).IsStarter, "slot %d", slot)
	}
	for _, slot := range []int{20, 21} {
		entry := models.RosterEntry{LineupSlotID: slot}
		assert.False(t, FromRosterEntry(entry, 1).IsStarter, "slot %d", slot)
	}
}
