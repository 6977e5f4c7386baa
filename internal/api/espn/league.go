package espn

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/omarshaarawi/fmvboard/internal/creds"
	"github.com/omarshaarawi/fmvboard/internal/models"
)

const (
	ViewPlayerInfo   = "kona_player_info"
	ViewRoster       = "mRoster"
	ViewTeam         = "mTeam"
	ViewSettings     = "mSettings"
	ViewProSchedules = "proTeamSchedules_wl"
)

type API struct {
	client *Client
}

func NewAPI(client *Client) *API {
	return &API{client: client}
}

// LeagueQuery describes one league fetch. Statuses, SlotIDs and Limit feed
// the x-fantasy-filter header and only matter for the kona_player_info view.
type LeagueQuery struct {
	LeagueID string
	Season   int
	Week     int
	Views    []string
	HostPin  string
	Creds    creds.Credentials
	Statuses []string
	SlotIDs  []int
	Limit    int
}

// LeagueResult pairs the decoded payload with the host that served it.
type LeagueResult struct {
	League   *models.LeagueResponse
	Host     string
	Fallback bool
}

// FetchLeague walks the host order and returns the first attempt that yields
// JSON containing the key the requested views are expected to populate. When
// every host fails the error is an *UpstreamError carrying the first failure.
func (a *API) FetchLeague(ctx context.Context, q LeagueQuery) (*LeagueResult, error) {
	endpoint := fmt.Sprintf("/apis/v3/games/ffl/seasons/%d/segments/0/leagues/%s", q.Season, q.LeagueID)

	params := map[string]string{
		"view": strings.Join(q.Views, ","),
	}
	if q.Week > 0 {
		params["scoringPeriodId"] = strconv.Itoa(q.Week)
	}

	headers := map[string]string{
		"x-fantasy-source":   "kona",
		"x-fantasy-platform": "kona-PROD",
		"Referer":            "https://fantasy.espn.com/",
		"Origin":             "https://fantasy.espn.com",
	}
	if q.Creds.Complete() {
		headers["Cookie"] = q.Creds.CookieHeader()
	}
	if filter := buildPlayerFilter(q); filter != "" {
		headers["x-fantasy-filter"] = filter
	}

	requiredKey := requiredKeyFor(q.Views)

	var firstDiag *models.UpstreamDiag
	for i, at := range a.client.attempts(q.HostPin) {
		raw, err := a.client.get(ctx, at.base, endpoint, params, headers)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			if firstDiag == nil {
				firstDiag = &models.UpstreamDiag{
					HostTried:             at.label,
					UpstreamType:          "network",
					UpstreamSnippet:       err.Error(),
					ForwardedCookieHeader: q.Creds.MaskedCookieHeader(),
				}
			}
			continue
		}

		league, ok := decodeLeague(raw, requiredKey)
		if !ok {
			if firstDiag == nil {
				firstDiag = diagFrom(at.label, raw, q.Creds)
			}
			continue
		}

		return &LeagueResult{League: league, Host: at.label, Fallback: i > 0}, nil
	}

	return nil, &UpstreamError{Diag: firstDiag}
}

// requiredKeyFor maps a view set to the top-level key that proves the payload
// is a real league document rather than an HTML shell or an error page.
func requiredKeyFor(views []string) string {
	for _, v := range views {
		if v == ViewPlayerInfo {
			return "players"
		}
	}
	for _, v := range views {
		if v == ViewRoster || v == ViewTeam {
			return "teams"
		}
	}
	for _, v := range views {
		if v == ViewSettings {
			return "settings"
		}
	}
	return ""
}

func decodeLeague(raw *rawResponse, requiredKey string) (*models.LeagueResponse, bool) {
	if !raw.ok() {
		return nil, false
	}

	var probe map[string]json.RawMessage
	if err := json.Unmarshal(raw.body, &probe); err != nil {
		return nil, false
	}
	if requiredKey != "" {
		if _, found := probe[requiredKey]; !found {
			return nil, false
		}
	}

	var league models.LeagueResponse
	if err := json.Unmarshal(raw.body, &league); err != nil {
		return nil, false
	}
	return &league, true
}

// buildPlayerFilter renders the x-fantasy-filter header. An empty query gets
// no header at all, which matters for the roster and settings views.
func buildPlayerFilter(q LeagueQuery) string {
	if q.Limit == 0 && len(q.Statuses) == 0 && len(q.SlotIDs) == 0 {
		return ""
	}

	players := map[string]interface{}{
		"sortPercOwned": map[string]interface{}{
			"sortAsc":      false,
			"sortPriority": 1,
		},
	}
	if len(q.Statuses) > 0 {
		players["filterStatus"] = map[string]interface{}{"value": q.Statuses}
	}
	if len(q.SlotIDs) > 0 {
		players["filterSlotIds"] = map[string]interface{}{"value": q.SlotIDs}
	}
	if q.Limit > 0 {
		players["limit"] = q.Limit
	}

	filter, err := json.Marshal(map[string]interface{}{"players": players})
	if err != nil {
		return ""
	}
	return string(filter)
}

func diagFrom(host string, raw *rawResponse, c creds.Credentials) *models.UpstreamDiag {
	return &models.UpstreamDiag{
		HostTried:             host,
		UpstreamStatus:        raw.status,
		UpstreamType:          raw.contentType,
		UpstreamSnippet:       raw.snippet(),
		ForwardedCookieHeader: c.MaskedCookieHeader(),
	}
}

// GetLeagueMetadata fetches the mSettings view and reduces it to the fields
// the rest of the service needs, most importantly the current scoring period.
func (a *API) GetLeagueMetadata(ctx context.Context, leagueID string, season int, c creds.Credentials) (*models.LeagueMetadata, error) {
	result, err := a.FetchLeague(ctx, LeagueQuery{
		LeagueID: leagueID,
		Season:   season,
		Views:    []string{ViewSettings},
		Creds:    c,
	})
	if err != nil {
		return nil, fmt.Errorf("fetching league settings: %w", err)
	}

	league := result.League
	metadata := &models.LeagueMetadata{
		LeagueID:             leagueID,
		Name:                 league.Settings.Name,
		CurrentScoringPeriod: league.ScoringPeriodID,
		SeasonID:             league.SeasonID,
		FirstWeek:            league.Status.FirstScoringPeriod,
		LastWeek:             league.Status.FinalScoringPeriod,
		IsActive:             league.Status.IsActive,
		LastUpdated:          time.Now().UTC(),
	}

	return metadata, nil
}

// ResolveTeamID finds the fantasy team whose owner list contains the given
// SWID. ESPN stores owners as braced GUIDs with inconsistent casing.
func ResolveTeamID(league *models.LeagueResponse, swid string) (int, bool) {
	want := creds.BareGUID(swid)
	if want == "" {
		return 0, false
	}
	for _, team := range league.Teams {
		for _, owner := range team.Owners {
			if creds.BareGUID(owner) == want {
				return team.ID, true
			}
		}
	}
	return 0, false
}

// TeamName falls back to "Team {id}" for unnamed teams, mirroring what the
// ESPN UI shows.
func TeamName(league *models.LeagueResponse, teamID int) string {
	for _, team := range league.Teams {
		if team.ID == teamID {
			if name := strings.TrimSpace(team.Name); name != "" {
				return name
			}
			break
		}
	}
	return fmt.Sprintf("Team %d", teamID)
}
