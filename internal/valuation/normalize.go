package valuation

import (
	"strings"

	"github.com/omarshaarawi/fmvboard/internal/models"
	"github.com/omarshaarawi/fmvboard/internal/nfl"
)

// FromPoolEntry normalizes a kona player pool entry. Pool shapes report a
// missing projection as an explicit zero.
func FromPoolEntry(entry models.PlayerPoolEntry, week int) models.Player {
	return fromRawPlayer(entry.Player, week, false)
}

// FromRosterEntry normalizes an mRoster entry, carrying the lineup slot.
// Roster shapes keep a missing projection null.
func FromRosterEntry(entry models.RosterEntry, week int) models.Player {
	p := fromRawPlayer(entry.PlayerPoolEntry.Player, week, true)

	slotID := entry.LineupSlotID
	p.SlotID = &slotID
	if name, known := nfl.SlotName(slotID); known {
		p.SlotName = &name
	}
	p.IsStarter = nfl.IsStarterSlot(slotID)

	return p
}

func fromRawPlayer(raw models.RawPlayer, week int, roster bool) models.Player {
	name := strings.TrimSpace(raw.FullName)
	if name == "" {
		name = strings.TrimSpace(raw.Name)
	}
	if name == "" {
		name = strings.TrimSpace(strings.TrimSpace(raw.FirstName) + " " + strings.TrimSpace(raw.LastName))
	}

	position, _ := nfl.PositionFromID(raw.DefaultPositionID)
	if position == "" {
		position = nfl.NormalizePosition(raw.Position)
	}
	if position == "" {
		position = nfl.NormalizePosition(raw.DefaultPosition)
	}
	if position == "" && !roster {
		position = "UTIL"
	}

	p := models.Player{
		ID:       raw.ID,
		Name:     name,
		Position: position,
	}

	if raw.ProTeamID > 0 {
		id := raw.ProTeamID
		p.ProTeamID = &id
	}

	abbr := strings.TrimSpace(raw.ProTeamAbbreviation)
	if abbr == "" {
		abbr, _ = nfl.ProTeamAbbr(raw.ProTeamID)
	}
	if abbr != "" {
		canonical := nfl.CanonicalAbbr(abbr)
		p.TeamAbbr = &canonical
	}

	if proj := SelectProjection(raw.Stats, week); proj != nil {
		p.Proj = proj
	} else if !roster {
		zero := 0.0
		p.Proj = &zero
	}

	return p
}
