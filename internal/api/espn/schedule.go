package espn

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/omarshaarawi/fmvboard/internal/models"
	"github.com/omarshaarawi/fmvboard/internal/nfl"
)

type proTeamSchedule struct {
	ID      int                  `json:"id"`
	Abbrev  string               `json:"abbrev"`
	Name    string               `json:"name"`
	ByeWeek int                  `json:"byeWeek"`
	Games   map[string][]proGame `json:"proGamesByScoringPeriod"`
}

type proGame struct {
	HomeProTeamID int `json:"homeProTeamId"`
	AwayProTeamID int `json:"awayProTeamId"`
}

// ProSchedule fetches the public proTeamSchedules_wl view and flattens it to
// per-team opponent and bye-week maps keyed by canonical abbreviation. The
// view needs no cookies.
func (a *API) ProSchedule(ctx context.Context, season int) (*models.ProSchedule, error) {
	var response struct {
		Settings struct {
			ProTeams []proTeamSchedule `json:"proTeams"`
		} `json:"settings"`
	}

	endpoint := fmt.Sprintf("/apis/v3/games/ffl/seasons/%d", season)
	params := map[string]string{
		"view": ViewProSchedules,
	}

	var lastErr error
	for _, at := range a.client.attempts("") {
		raw, err := a.client.get(ctx, at.base, endpoint, params, nil)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			lastErr = err
			continue
		}
		if !raw.ok() {
			lastErr = fmt.Errorf("espn: schedule fetch from %s returned status %d", at.label, raw.status)
			continue
		}
		if err := json.Unmarshal(raw.body, &response); err != nil {
			lastErr = fmt.Errorf("decoding schedule: %w", err)
			continue
		}
		return buildProSchedule(response.Settings.ProTeams), nil
	}

	return nil, lastErr
}

func buildProSchedule(teams []proTeamSchedule) *models.ProSchedule {
	abbrByID := make(map[int]string, len(teams))
	for _, team := range teams {
		// id 0 is ESPN's free-agent pseudo-team
		if team.ID == 0 {
			continue
		}
		if abbr := scheduleTeamAbbr(team); abbr != "" {
			abbrByID[team.ID] = abbr
		}
	}

	schedule := &models.ProSchedule{
		Opponents: make(models.ScheduleMap, len(abbrByID)),
		ByeWeeks:  make(models.ByeMap, len(abbrByID)),
	}

	for _, team := range teams {
		abbr, found := abbrByID[team.ID]
		if !found {
			continue
		}

		weeks := make(map[int]string, 18)
		for week := 1; week <= 18; week++ {
			games := team.Games[strconv.Itoa(week)]
			if len(games) == 0 {
				weeks[week] = "BYE"
				continue
			}

			game := games[0]
			oppID := game.AwayProTeamID
			if oppID == team.ID {
				oppID = game.HomeProTeamID
			}
			opp, known := abbrByID[oppID]
			if !known {
				opp, _ = nfl.ProTeamAbbr(oppID)
			}
			if opp != "" {
				weeks[week] = opp
			}
		}
		schedule.Opponents[abbr] = weeks

		bye := team.ByeWeek
		if bye <= 0 {
			for week := 1; week <= 18; week++ {
				if weeks[week] == "BYE" {
					bye = week
					break
				}
			}
		}
		if bye > 0 {
			schedule.ByeWeeks[abbr] = bye
		}
	}

	return schedule
}

func scheduleTeamAbbr(team proTeamSchedule) string {
	if abbr := strings.TrimSpace(team.Abbrev); abbr != "" {
		return nfl.CanonicalAbbr(abbr)
	}
	abbr, _ := nfl.ProTeamAbbr(team.ID)
	return abbr
}
