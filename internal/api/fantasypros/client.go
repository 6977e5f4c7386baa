// Package fantasypros fetches weekly player points from the FantasyPros
// public API. Every call needs an API key, so the surface stays disabled
// until FANTASYPROS_API_KEY is configured.
package fantasypros

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/omarshaarawi/fmvboard/internal/models"
	"github.com/omarshaarawi/fmvboard/internal/nfl"
)

const (
	defaultBaseURL = "https://api.fantasypros.com/public/v2/json/nfl"
	defaultScoring = "PPR"

	maxBodyBytes = 16 << 20
)

// ErrNoAPIKey means the client was built without a key. Callers map it to a
// 503 on the HTTP surface.
var ErrNoAPIKey = errors.New("FANTASYPROS_API_KEY is not configured")

type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

func NewClient(apiKey string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 8 * time.Second},
		baseURL:    defaultBaseURL,
		apiKey:     apiKey,
	}
}

// NewClientWithBase points the client at an alternate endpoint.
func NewClientWithBase(httpClient *http.Client, baseURL, apiKey string) *Client {
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		apiKey:     apiKey,
	}
}

// Enabled reports whether an API key is configured.
func (c *Client) Enabled() bool {
	return c.apiKey != ""
}

type upstreamPlayer struct {
	PlayerID   json.RawMessage `json:"player_id"`
	PlayerName string          `json:"player_name"`
	PositionID string          `json:"position_id"`
	TeamID     string          `json:"team_id"`
	Points     json.RawMessage `json:"points"`
}

// PlayerPoints fetches PPR points for weeks [start, end] of a season and
// normalizes them into the snapshot envelope. A zero start or end leaves the
// bound unset, which the upstream treats as the whole season.
func (c *Client) PlayerPoints(ctx context.Context, season, start, end int) (*models.PlayerPointsResponse, error) {
	if !c.Enabled() {
		return nil, ErrNoAPIKey
	}

	url := fmt.Sprintf("%s/%d/player-points", c.baseURL, season)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	q := req.URL.Query()
	q.Set("scoring", defaultScoring)
	if start > 0 {
		q.Set("start", strconv.Itoa(start))
	}
	if end > 0 {
		q.Set("end", strconv.Itoa(end))
	}
	req.URL.RawQuery = q.Encode()
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("requesting player points: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fantasypros returned status %d", resp.StatusCode)
	}

	var payload struct {
		Players []upstreamPlayer `json:"players"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decoding player points: %w", err)
	}

	weeksSeen := make(map[int]bool)
	players := make([]models.PlayerPoints, 0, len(payload.Players))
	for _, p := range payload.Players {
		weeks := parseWeekPoints(p.Points, start)
		for week := range weeks {
			weeksSeen[week] = true
		}

		id, _ := flexNumber(p.PlayerID)
		players = append(players, models.PlayerPoints{
			FpID:     int(id),
			Name:     p.PlayerName,
			Position: strings.ToUpper(strings.TrimSpace(p.PositionID)),
			Team:     canonicalTeam(p.TeamID),
			Weeks:    weeks,
		})
	}

	weeks := make([]int, 0, len(weeksSeen))
	for week := range weeksSeen {
		weeks = append(weeks, week)
	}
	sort.Ints(weeks)

	return &models.PlayerPointsResponse{
		OK: true,
		Meta: models.PlayerPointsMeta{
			Season:    season,
			Scoring:   defaultScoring,
			Weeks:     weeks,
			FetchedAt: time.Now().UTC().Format(time.RFC3339),
		},
		Players: players,
	}, nil
}

func canonicalTeam(team string) string {
	if strings.TrimSpace(team) == "" {
		return ""
	}
	return nfl.CanonicalAbbr(team)
}

// parseWeekPoints accepts the three point shapes the API has served: a list
// of {week, value} rows, an object keyed by week number, or a bare total.
// A bare total lands on the start week (week 1 for whole-season pulls).
func parseWeekPoints(raw json.RawMessage, start int) map[int]float64 {
	weeks := make(map[int]float64)
	if len(raw) == 0 {
		return weeks
	}

	var rows []struct {
		Week  json.RawMessage `json:"week"`
		Value json.RawMessage `json:"value"`
	}
	if err := json.Unmarshal(raw, &rows); err == nil {
		for _, row := range rows {
			week, ok := flexNumber(row.Week)
			if !ok {
				continue
			}
			value, ok := flexNumber(row.Value)
			if !ok {
				continue
			}
			weeks[int(week)] = value
		}
		return weeks
	}

	var keyed map[string]json.RawMessage
	if err := json.Unmarshal(raw, &keyed); err == nil {
		for key, rawValue := range keyed {
			week, err := strconv.Atoi(strings.TrimSpace(key))
			if err != nil {
				continue
			}
			if value, ok := flexNumber(rawValue); ok {
				weeks[week] = value
			}
		}
		return weeks
	}

	if value, ok := flexNumber(raw); ok {
		week := start
		if week < 1 {
			week = 1
		}
		weeks[week] = value
	}
	return weeks
}

// flexNumber reads a JSON value that may be a number or a quoted numeric
// string.
func flexNumber(raw json.RawMessage) (float64, bool) {
	s := strings.Trim(strings.TrimSpace(string(raw)), `"`)
	if s == "" || s == "null" {
		return 0, false
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
