package espn

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildProSchedule(t *testing.T) {
	teams := []proTeamSchedule{
		{ID: 0, Abbrev: "FA"},
		{
			ID:      28,
			Abbrev:  "Was",
			ByeWeek: 0,
			Games: map[string][]proGame{
				"1": {{HomeProTeamID: 28, AwayProTeamID: 19}},
				"3": {{HomeProTeamID: 6, AwayProTeamID: 28}},
			},
		},
		{
			ID:      19,
			Abbrev:  "NYG",
			ByeWeek: 2,
			Games: map[string][]proGame{
				"1": {{HomeProTeamID: 28, AwayProTeamID: 19}},
			},
		},
	}

	schedule := buildProSchedule(teams)

	// payload abbreviations are canonicalized, so WAS becomes WSH
	require.Contains(t, schedule.Opponents, "WSH")
	assert.NotContains(t, schedule.Opponents, "FA")

	wsh := schedule.Opponents["WSH"]
	assert.Equal(t, "NYG", wsh[1])
	assert.Equal(t, "BYE", wsh[2])
	assert.Equal(t, "DAL", wsh[3])

	nyg := schedule.Opponents["NYG"]
	assert.Equal(t, "WSH", nyg[1])
	assert.Equal(t, "BYE", nyg[2])

	// byeWeek of 0 falls back to the week with no scheduled game
	assert.Equal(t, 2, schedule.ByeWeeks["WSH"])
	assert.Equal(t, 2, schedule.ByeWeeks["NYG"])
}

func TestProScheduleFetch(t *testing.T) {
	payload := `{
		"settings": {
			"proTeams": [
				{"id": 12, "abbrev": "KC", "byeWeek": 10, "proGamesByScoringPeriod": {
					"1": [{"homeProTeamId": 12, "awayProTeamId": 24}]
				}},
				{"id": 24, "abbrev": "LAC", "byeWeek": 5, "proGamesByScoringPeriod": {
					"1": [{"homeProTeamId": 12, "awayProTeamId": 24}]
				}}
			]
		}
	}`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "proTeamSchedules_wl", r.URL.Query().Get("view"))
		assert.Empty(t, r.Header.Get("Cookie"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(payload))
	}))
	defer srv.Close()

	api := NewAPI(NewClientWithBases(srv.Client(), srv.URL, srv.URL))

	schedule, err := api.ProSchedule(context.Background(), 2025)
	require.NoError(t, err)

	assert.Equal(t, "LAC", schedule.Opponents["KC"][1])
	assert.Equal(t, "KC", schedule.Opponents["LAC"][1])
	assert.Equal(t, 10, schedule.ByeWeeks["KC"])
	assert.Equal(t, 5, schedule.ByeWeeks["LAC"])
}

func TestResolveTeamID(t *testing.T) {
	payload := `{
		"teams": [
			{"id": 4, "name": "UGF Pandas", "owners": ["{ABCDEF12-3456-7890-ABCD-EF1234567890}"]},
			{"id": 7, "name": "", "owners": ["{00000000-0000-0000-0000-000000000001}"]}
		]
	}`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(payload))
	}))
	defer srv.Close()

	api := NewAPI(NewClientWithBases(srv.Client(), srv.URL, srv.URL))

	result, err := api.FetchLeague(context.Background(), LeagueQuery{
		LeagueID: "1",
		Season:   2025,
		Views:    []string{ViewRoster, ViewTeam},
	})
	require.NoError(t, err)

	id, found := ResolveTeamID(result.League, "abcdef12-3456-7890-abcd-ef1234567890")
	require.True(t, found)
	assert.Equal(t, 4, id)

	_, found = ResolveTeamID(result.League, "{11111111-2222-3333-4444-555555555555}")
	assert.False(t, found)

	assert.Equal(t, "UGF Pandas", TeamName(result.League, 4))
	assert.Equal(t, "Team 7", TeamName(result.League, 7))
	assert.Equal(t, "Team 9", TeamName(result.League, 9))
}
