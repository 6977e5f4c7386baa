package service

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omarshaarawi/fmvboard/internal/api/assets"
	"github.com/omarshaarawi/fmvboard/internal/api/espn"
	"github.com/omarshaarawi/fmvboard/internal/creds"
	"github.com/omarshaarawi/fmvboard/internal/metrics"
	"github.com/omarshaarawi/fmvboard/internal/models"
	"github.com/omarshaarawi/fmvboard/internal/repository/memory"
)

const poolPayload = `{
	"players": [
		{"id": 101, "onTeamId": 0, "status": "FREEAGENT", "player": {
			"id": 101, "fullName": "J. Doe", "defaultPositionId": 2, "proTeamId": 12,
			"ownership": {"percentOwned": 55.5},
			"stats": [{"statSourceId": 1, "statSplitTypeId": 1, "scoringPeriodId": 3, "appliedTotal": 10.0}]
		}},
		{"id": 102, "onTeamId": 0, "status": "FREEAGENT", "player": {
			"id": 102, "fullName": "Deep Bench", "defaultPositionId": 3, "proTeamId": 24,
			"ownership": {"percentOwned": 1.0},
			"stats": [{"statSourceId": 1, "statSplitTypeId": 1, "scoringPeriodId": 3, "appliedTotal": 0.5}]
		}}
	]
}`

const rosterPayload = `{
	"teams": [
		{"id": 4, "abbrev": "UGF", "name": "UGF Pandas",
		 "owners": ["{AAAAAAAA-BBBB-CCCC-DDDD-EEEEEEEEEEEE}"],
		 "roster": {"entries": [
			{"lineupSlotId": 2, "playerPoolEntry": {"id": 201, "onTeamId": 4, "player": {
				"id": 201, "fullName": "Buck Allen", "defaultPositionId": 2, "proTeamId": 12,
				"ownership": {"percentOwned": 98.5},
				"stats": [{"statSourceId": 1, "statSplitTypeId": 1, "scoringPeriodId": 3, "appliedTotal": 12.0}]
			}}},
			{"lineupSlotId": 20, "playerPoolEntry": {"id": 202, "onTeamId": 4, "player": {
				"id": 202, "fullName": "Spare Wideout", "defaultPositionId": 3, "proTeamId": 24,
				"ownership": {"percentOwned": 40.0},
				"stats": [{"statSourceId": 1, "statSplitTypeId": 1, "scoringPeriodId": 3, "appliedTotal": 8.0}]
			}}}
		 ]}},
		{"id": 7, "owners": ["{99999999-9999-9999-9999-999999999999}"],
		 "roster": {"entries": [
			{"lineupSlotId": 0, "playerPoolEntry": {"id": 203, "onTeamId": 7, "player": {
				"id": 203, "fullName": "Buck Alston", "defaultPositionId": 1, "proTeamId": 24,
				"ownership": {"percentOwned": 70.0},
				"stats": []
			}}}
		 ]}}
	]
}`

const settingsPayload = `{
	"scoringPeriodId": 3,
	"seasonId": 2025,
	"settings": {"name": "The League", "size": 10},
	"status": {"isActive": true, "firstScoringPeriod": 1, "finalScoringPeriod": 17}
}`

const schedulePayload = `{
	"settings": {"proTeams": [
		{"id": 12, "abbrev": "KC", "byeWeek": 10,
		 "proGamesByScoringPeriod": {"3": [{"homeProTeamId": 12, "awayProTeamId": 24}]}},
		{"id": 24, "abbrev": "LAC", "byeWeek": 5,
		 "proGamesByScoringPeriod": {"3": [{"homeProTeamId": 12, "awayProTeamId": 24}]}}
	]}
}`

// espnFixtureHandler routes the three upstream shapes the pipeline fetches:
// the schedule view, the settings view and the league views.
func espnFixtureHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		if !strings.Contains(r.URL.Path, "/segments/") {
			fmt.Fprint(w, schedulePayload)
			return
		}

		views := r.URL.Query()["view"]
		switch {
		case contains(views, espn.ViewPlayerInfo):
			fmt.Fprint(w, poolPayload)
		case contains(views, espn.ViewRoster):
			fmt.Fprint(w, rosterPayload)
		case contains(views, espn.ViewSettings):
			fmt.Fprint(w, settingsPayload)
		default:
			http.Error(w, `{"messages":["unknown view"]}`, http.StatusBadRequest)
		}
	}
}

// assetsFixtureHandler serves week-2 rankings (week 3 is missing upstream so
// the loader backs off) and a small DvP map.
func assetsFixtureHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "_Rankings.csv"):
			if strings.Contains(r.URL.Path, "_Week_3_") {
				http.NotFound(w, r)
				return
			}
			w.Header().Set("Content-Type", "text/csv")
			if strings.Contains(r.URL.Path, "_RB_") {
				fmt.Fprint(w, "RK,PLAYER NAME\n10,J. Doe\n")
				return
			}
			fmt.Fprint(w, "RK,PLAYER NAME\n")
		case r.URL.Path == "/api/dvp":
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, `{"map":{"LAC|RB":5}}`)
		default:
			http.NotFound(w, r)
		}
	}
}

func emptyAssetsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}
}

func contains(values []string, want string) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}

func newBoardService(t *testing.T, readsURL, mainURL, assetsURL string) (*BoardService, *metrics.Mock) {
	t.Helper()

	client := espn.NewClientWithBases(&http.Client{Timeout: 5 * time.Second}, readsURL, mainURL)
	mock := metrics.NewMock()
	svc := NewBoardService(
		espn.NewAPI(client),
		assets.NewClient(assetsURL, "fp"),
		memory.NewRepository(),
		mock,
	)
	return svc, mock
}

func testCreds() creds.Credentials {
	return creds.Credentials{
		SWID:   "{AAAAAAAA-BBBB-CCCC-DDDD-EEEEEEEEEEEE}",
		S2:     "s2token",
		Source: "test",
	}
}

func TestBoardFreeAgents(t *testing.T) {
	espnSrv := httptest.NewServer(espnFixtureHandler())
	defer espnSrv.Close()
	assetsSrv := httptest.NewServer(assetsFixtureHandler())
	defer assetsSrv.Close()

	svc, mock := newBoardService(t, espnSrv.URL, espnSrv.URL, assetsSrv.URL)

	resp, err := svc.Board(context.Background(), BoardRequest{
		Mode:     models.ModeFreeAgents,
		LeagueID: "99881",
		Season:   2025,
		Week:     3,
		Creds:    testCreds(),
	})
	require.NoError(t, err)
	require.True(t, resp.OK)

	// the sub-2-point player with no value drops out
	require.Equal(t, 1, resp.Count)
	require.Len(t, resp.Players, 1)

	p := resp.Players[0]
	assert.Equal(t, "J. Doe", p.Name)
	assert.Equal(t, "RB", p.Position)
	require.NotNil(t, p.TeamAbbr)
	assert.Equal(t, "KC", *p.TeamAbbr)
	require.NotNil(t, p.Proj)
	assert.InDelta(t, 10.0, *p.Proj, 1e-9)
	require.NotNil(t, p.EcrRank)
	assert.Equal(t, 10, *p.EcrRank)
	require.NotNil(t, p.OpponentAbbr)
	assert.Equal(t, "LAC", *p.OpponentAbbr)
	require.NotNil(t, p.DefensiveRank)
	assert.Equal(t, 5, *p.DefensiveRank)
	require.NotNil(t, p.ByeWeek)
	assert.Equal(t, 10, *p.ByeWeek)
	require.NotNil(t, p.FMV)
	assert.Equal(t, 10, *p.FMV)

	assert.Equal(t, "99881", resp.Meta.LeagueID)
	assert.Equal(t, 2025, resp.Meta.Season)
	assert.Equal(t, 3, resp.Meta.Week)
	require.NotNil(t, resp.Meta.UsedWeek)
	assert.Equal(t, 2, *resp.Meta.UsedWeek)
	assert.Equal(t, "reads", resp.Meta.Host)
	assert.Equal(t, []string{"FREEAGENT", "WAIVERS"}, resp.Meta.Statuses)
	assert.Equal(t, poolSlotIDs, resp.Meta.SlotIDs)
	require.NotNil(t, resp.Meta.MinProj)
	assert.InDelta(t, 1.0, *resp.Meta.MinProj, 1e-9)
	assert.NotEmpty(t, resp.Meta.FetchedAt)

	assert.Equal(t, 1, mock.BoardRequests())
	assert.Equal(t, 0, mock.BoardErrors())
	assert.Equal(t, 1, mock.RanksBackoffs())
	assert.Equal(t, 0, mock.HostFallbacks())
	assert.Equal(t, 0, mock.UpstreamFailures())
}

func TestBoardRosterResolvesTeamFromSWID(t *testing.T) {
	espnSrv := httptest.NewServer(espnFixtureHandler())
	defer espnSrv.Close()
	assetsSrv := httptest.NewServer(emptyAssetsHandler())
	defer assetsSrv.Close()

	svc, _ := newBoardService(t, espnSrv.URL, espnSrv.URL, assetsSrv.URL)

	resp, err := svc.Board(context.Background(), BoardRequest{
		Mode:     models.ModeRoster,
		LeagueID: "99881",
		Season:   2025,
		Week:     3,
		Creds:    testCreds(),
	})
	require.NoError(t, err)

	require.NotNil(t, resp.TeamID)
	assert.Equal(t, 4, *resp.TeamID)
	assert.Equal(t, "UGF Pandas", resp.TeamName)
	assert.Equal(t, 2, resp.Count)

	require.NotNil(t, resp.Counts)
	assert.Equal(t, 1, resp.Counts.Starters)
	assert.Equal(t, 1, resp.Counts.Bench)

	require.Len(t, resp.Starters, 1)
	starter := resp.Starters[0]
	assert.Equal(t, "Buck Allen", starter.Name)
	assert.True(t, starter.IsStarter)
	require.NotNil(t, starter.SlotName)
	assert.Equal(t, "RB", *starter.SlotName)
	require.NotNil(t, starter.OpponentAbbr)
	assert.Equal(t, "LAC", *starter.OpponentAbbr)

	require.Len(t, resp.Bench, 1)
	benched := resp.Bench[0]
	assert.Equal(t, "Spare Wideout", benched.Name)
	assert.False(t, benched.IsStarter)
	require.NotNil(t, benched.SlotName)
	assert.Equal(t, "BE", *benched.SlotName)

	// players is the full roster ordered by projection
	require.Len(t, resp.Players, 2)
	assert.Equal(t, "Buck Allen", resp.Players[0].Name)
	assert.Equal(t, "Spare Wideout", resp.Players[1].Name)

	// rankings never loaded, so no value math happened
	assert.Nil(t, resp.Meta.UsedWeek)
	assert.Nil(t, starter.FMV)
}

func TestBoardRosterExplicitTeam(t *testing.T) {
	espnSrv := httptest.NewServer(espnFixtureHandler())
	defer espnSrv.Close()
	assetsSrv := httptest.NewServer(emptyAssetsHandler())
	defer assetsSrv.Close()

	svc, _ := newBoardService(t, espnSrv.URL, espnSrv.URL, assetsSrv.URL)

	teamID := 7
	resp, err := svc.Board(context.Background(), BoardRequest{
		Mode:     models.ModeRoster,
		LeagueID: "99881",
		Season:   2025,
		Week:     3,
		TeamID:   &teamID,
		Creds:    testCreds(),
	})
	require.NoError(t, err)

	assert.Equal(t, "Team 7", resp.TeamName)
	assert.Equal(t, 1, resp.Count)
}

func TestBoardRosterTeamNotFound(t *testing.T) {
	espnSrv := httptest.NewServer(espnFixtureHandler())
	defer espnSrv.Close()
	assetsSrv := httptest.NewServer(emptyAssetsHandler())
	defer assetsSrv.Close()

	svc, _ := newBoardService(t, espnSrv.URL, espnSrv.URL, assetsSrv.URL)

	t.Run("explicit team id absent", func(t *testing.T) {
		teamID := 9
		_, err := svc.Board(context.Background(), BoardRequest{
			Mode:     models.ModeRoster,
			LeagueID: "99881",
			Season:   2025,
			Week:     3,
			TeamID:   &teamID,
			Creds:    testCreds(),
		})

		var svcErr *Error
		require.ErrorAs(t, err, &svcErr)
		assert.Equal(t, http.StatusNotFound, svcErr.Status)
	})

	t.Run("swid owns no team", func(t *testing.T) {
		c := testCreds()
		c.SWID = "{00000000-0000-0000-0000-000000000000}"

		_, err := svc.Board(context.Background(), BoardRequest{
			Mode:     models.ModeRoster,
			LeagueID: "99881",
			Season:   2025,
			Week:     3,
			Creds:    c,
		})

		var svcErr *Error
		require.ErrorAs(t, err, &svcErr)
		assert.Equal(t, http.StatusNotFound, svcErr.Status)
	})
}

func TestBoardValidation(t *testing.T) {
	espnSrv := httptest.NewServer(espnFixtureHandler())
	defer espnSrv.Close()
	assetsSrv := httptest.NewServer(emptyAssetsHandler())
	defer assetsSrv.Close()

	svc, mock := newBoardService(t, espnSrv.URL, espnSrv.URL, assetsSrv.URL)

	t.Run("missing league id", func(t *testing.T) {
		_, err := svc.Board(context.Background(), BoardRequest{
			Mode:  models.ModeFreeAgents,
			Creds: testCreds(),
		})

		var svcErr *Error
		require.ErrorAs(t, err, &svcErr)
		assert.Equal(t, http.StatusBadRequest, svcErr.Status)
	})

	t.Run("missing credentials", func(t *testing.T) {
		_, err := svc.Board(context.Background(), BoardRequest{
			Mode:     models.ModeFreeAgents,
			LeagueID: "99881",
		})

		var svcErr *Error
		require.ErrorAs(t, err, &svcErr)
		assert.Equal(t, http.StatusUnauthorized, svcErr.Status)
	})

	assert.Equal(t, 2, mock.BoardErrors())
}

func TestBoardUpstreamFailure(t *testing.T) {
	espnSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"messages":["You are not authorized to view this League."]}`)
	}))
	defer espnSrv.Close()
	assetsSrv := httptest.NewServer(emptyAssetsHandler())
	defer assetsSrv.Close()

	svc, mock := newBoardService(t, espnSrv.URL, espnSrv.URL, assetsSrv.URL)

	t.Run("diag requested", func(t *testing.T) {
		_, err := svc.Board(context.Background(), BoardRequest{
			Mode:     models.ModeFreeAgents,
			LeagueID: "99881",
			Season:   2025,
			Week:     3,
			Diag:     true,
			Creds:    testCreds(),
		})

		var svcErr *Error
		require.ErrorAs(t, err, &svcErr)
		assert.Equal(t, http.StatusBadGateway, svcErr.Status)
		require.NotNil(t, svcErr.Diag)
		assert.Equal(t, "reads", svcErr.Diag.HostTried)
		assert.Equal(t, http.StatusUnauthorized, svcErr.Diag.UpstreamStatus)
		assert.Contains(t, svcErr.Diag.UpstreamSnippet, "not authorized")
		assert.NotContains(t, svcErr.Diag.ForwardedCookieHeader, "s2token")
	})

	t.Run("diag suppressed by default", func(t *testing.T) {
		_, err := svc.Board(context.Background(), BoardRequest{
			Mode:     models.ModeFreeAgents,
			LeagueID: "99881",
			Season:   2025,
			Week:     3,
			Creds:    testCreds(),
		})

		var svcErr *Error
		require.ErrorAs(t, err, &svcErr)
		assert.Equal(t, http.StatusBadGateway, svcErr.Status)
		assert.Nil(t, svcErr.Diag)
	})

	assert.Equal(t, 2, mock.UpstreamFailures())
	assert.Equal(t, 2, mock.BoardErrors())
}

func TestBoardFallsBackToMainHost(t *testing.T) {
	badSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "<html>gateway error</html>", http.StatusServiceUnavailable)
	}))
	defer badSrv.Close()
	goodSrv := httptest.NewServer(espnFixtureHandler())
	defer goodSrv.Close()
	assetsSrv := httptest.NewServer(assetsFixtureHandler())
	defer assetsSrv.Close()

	svc, mock := newBoardService(t, badSrv.URL, goodSrv.URL, assetsSrv.URL)

	resp, err := svc.Board(context.Background(), BoardRequest{
		Mode:     models.ModeFreeAgents,
		LeagueID: "99881",
		Season:   2025,
		Week:     3,
		Creds:    testCreds(),
	})
	require.NoError(t, err)

	assert.Equal(t, "main", resp.Meta.Host)
	assert.Equal(t, 1, mock.HostFallbacks())
	assert.Equal(t, 0, mock.UpstreamFailures())
}

func TestBoardResolvesCurrentWeek(t *testing.T) {
	var settingsHits atomic.Int32
	var konaWeek atomic.Value
	konaWeek.Store("")

	espnSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		if !strings.Contains(r.URL.Path, "/segments/") {
			fmt.Fprint(w, schedulePayload)
			return
		}

		views := r.URL.Query()["view"]
		switch {
		case contains(views, espn.ViewSettings):
			settingsHits.Add(1)
			fmt.Fprint(w, `{"scoringPeriodId": 5, "seasonId": 2025, "settings": {"name": "The League", "size": 10}, "status": {"isActive": true, "firstScoringPeriod": 1, "finalScoringPeriod": 17}}`)
		case contains(views, espn.ViewPlayerInfo):
			konaWeek.Store(r.URL.Query().Get("scoringPeriodId"))
			fmt.Fprint(w, `{"players": []}`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer espnSrv.Close()
	assetsSrv := httptest.NewServer(emptyAssetsHandler())
	defer assetsSrv.Close()

	svc, _ := newBoardService(t, espnSrv.URL, espnSrv.URL, assetsSrv.URL)

	req := BoardRequest{
		Mode:     models.ModeAllPlayers,
		LeagueID: "99881",
		Season:   2025,
		Creds:    testCreds(),
	}

	resp, err := svc.Board(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 5, resp.Meta.Week)
	assert.Equal(t, "5", konaWeek.Load().(string))

	// second request reuses the cached scoring period
	_, err = svc.Board(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, int32(1), settingsHits.Load())
}

func TestBoardAllPlayersFilter(t *testing.T) {
	var filterHeader atomic.Value
	filterHeader.Store("")

	espnSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if strings.Contains(r.URL.Path, "/segments/") {
			if views := r.URL.Query()["view"]; contains(views, espn.ViewPlayerInfo) {
				filterHeader.Store(r.Header.Get("x-fantasy-filter"))
			}
			fmt.Fprint(w, `{"players": []}`)
			return
		}
		fmt.Fprint(w, schedulePayload)
	}))
	defer espnSrv.Close()
	assetsSrv := httptest.NewServer(emptyAssetsHandler())
	defer assetsSrv.Close()

	svc, _ := newBoardService(t, espnSrv.URL, espnSrv.URL, assetsSrv.URL)

	resp, err := svc.Board(context.Background(), BoardRequest{
		Mode:     models.ModeAllPlayers,
		LeagueID: "99881",
		Season:   2025,
		Week:     3,
		Creds:    testCreds(),
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"ONTEAM", "WAIVERS", "FREEAGENT"}, resp.Meta.Statuses)

	filter := filterHeader.Load().(string)
	assert.Contains(t, filter, `"limit":5000`)
	assert.Contains(t, filter, "ONTEAM")
}
