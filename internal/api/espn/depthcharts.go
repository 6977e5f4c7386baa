package espn

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/omarshaarawi/fmvboard/internal/models"
	"github.com/omarshaarawi/fmvboard/internal/nfl"
)

const (
	defaultSiteBase = "https://site.api.espn.com/apis/site/v2/sports/football/nfl"

	depthChartSource = "ESPN site API depth charts"
)

// SiteClient talks to ESPN's public site API, which needs no authentication.
// It backs the depth chart builder.
type SiteClient struct {
	httpClient *http.Client
	base       string
}

func NewSiteClient() *SiteClient {
	return &SiteClient{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		base:       defaultSiteBase,
	}
}

// NewSiteClientWithBase points the client at an alternate base URL.
func NewSiteClientWithBase(httpClient *http.Client, base string) *SiteClient {
	return &SiteClient{
		httpClient: httpClient,
		base:       strings.TrimSuffix(base, "/"),
	}
}

// DepthCharts builds the league-wide snapshot for a season. Teams are
// fetched concurrently; a team whose depth chart cannot be read degrades to
// empty slots with only the synthesized D/ST entry. Only the team directory
// call is fatal.
func (c *SiteClient) DepthCharts(ctx context.Context, season int) (*models.DepthCharts, error) {
	directory, err := c.teamDirectory(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching team directory: %w", err)
	}

	teams := make(map[string]models.DepthChartSlots, len(nfl.TeamAbbrs))
	var mu sync.Mutex
	var wg sync.WaitGroup
	for _, abbr := range nfl.TeamAbbrs {
		wg.Add(1)
		go func(abbr string) {
			defer wg.Done()
			slots := c.teamSlots(ctx, abbr, directory[abbr])
			mu.Lock()
			teams[abbr] = slots
			mu.Unlock()
		}(abbr)
	}
	wg.Wait()

	return &models.DepthCharts{
		Season:      season,
		Source:      depthChartSource,
		LastUpdated: time.Now().Unix(),
		Teams:       teams,
	}, nil
}

// proTeamEntry is one team from the site API directory: the numeric id for
// the current depth chart endpoint, the slug for the legacy one, and the
// nickname for the synthesized D/ST label.
type proTeamEntry struct {
	id   int
	slug string
	name string
}

func (c *SiteClient) teamDirectory(ctx context.Context) (map[string]proTeamEntry, error) {
	body, err := c.getJSON(ctx, c.base+"/teams?limit=40")
	if err != nil {
		return nil, err
	}

	var envelope struct {
		Sports []struct {
			Leagues []struct {
				Teams []json.RawMessage `json:"teams"`
			} `json:"leagues"`
		} `json:"sports"`
		Teams []json.RawMessage `json:"teams"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("decoding team directory: %w", err)
	}

	entries := make([]json.RawMessage, 0, 40)
	for _, sport := range envelope.Sports {
		for _, league := range sport.Leagues {
			entries = append(entries, league.Teams...)
		}
	}
	if len(entries) == 0 {
		entries = envelope.Teams
	}

	directory := make(map[string]proTeamEntry, len(entries))
	for _, raw := range entries {
		abbr, entry, ok := decodeSiteTeam(raw)
		if !ok {
			continue
		}
		directory[abbr] = entry
	}
	if len(directory) == 0 {
		return nil, errors.New("team directory empty")
	}
	return directory, nil
}

type siteTeam struct {
	ID           json.RawMessage `json:"id"`
	Abbreviation string          `json:"abbreviation"`
	Slug         string          `json:"slug"`
	Location     string          `json:"location"`
	Nickname     string          `json:"nickname"`
	Name         string          `json:"name"`
	DisplayName  string          `json:"displayName"`
}

// decodeSiteTeam accepts both directory shapes: entries wrapping the team in
// a "team" key and bare team objects.
func decodeSiteTeam(raw json.RawMessage) (string, proTeamEntry, bool) {
	var wrapper struct {
		Team *siteTeam `json:"team"`
	}
	_ = json.Unmarshal(raw, &wrapper)
	team := wrapper.Team
	if team == nil {
		team = &siteTeam{}
		if err := json.Unmarshal(raw, team); err != nil {
			return "", proTeamEntry{}, false
		}
	}

	abbr := nfl.CanonicalAbbr(team.Abbreviation)
	id, _ := flexInt(team.ID)
	if abbr == "" || id == 0 {
		return "", proTeamEntry{}, false
	}

	slug := team.Slug
	if slug == "" && (team.Location != "" || team.Nickname != "") {
		slug = strings.ToLower(strings.ReplaceAll(team.Location+"-"+team.Nickname, " ", "-"))
	}
	if slug == "" {
		slug = strings.ToLower(abbr)
	}

	name := team.Nickname
	if name == "" {
		name = team.Name
	}
	if name == "" {
		name = team.DisplayName
	}
	if name == "" {
		name = abbr
	}

	return abbr, proTeamEntry{id: id, slug: slug, name: name}, true
}

// teamSlots fetches one team's depth chart, trying the id endpoint before
// the older slug endpoint. Failures leave every slot empty except the
// synthesized D/ST entry, matching the directory fallback.
func (c *SiteClient) teamSlots(ctx context.Context, abbr string, team proTeamEntry) models.DepthChartSlots {
	name := team.name
	if name == "" {
		name = abbr
	}
	slots := emptySlots(name)
	if team.id == 0 {
		return slots
	}

	endpoints := []string{
		fmt.Sprintf("%s/teams/%d/depthcharts", c.base, team.id),
		fmt.Sprintf("%s/teams/%s/depthchart", c.base, team.slug),
	}
	for _, url := range endpoints {
		body, err := c.getJSON(ctx, url)
		if err != nil {
			continue
		}
		positions := parseDepthPositions(body)
		if !hasAthletes(positions) {
			continue
		}
		fillSlots(&slots, positions)
		return slots
	}
	return slots
}

func emptySlots(nickname string) models.DepthChartSlots {
	return models.DepthChartSlots{
		QB:  []string{},
		RB:  []string{},
		WR1: []string{},
		WR2: []string{},
		WR3: []string{},
		TE:  []string{},
		K:   []string{},
		DST: []string{nickname + " D/ST"},
	}
}

func fillSlots(slots *models.DepthChartSlots, positions map[string][]string) {
	slots.QB = topAthletes(positions["QB"], 2)
	slots.RB = topAthletes(positions["RB"], 2)
	slots.TE = topAthletes(positions["TE"], 2)
	slots.K = topAthletes(positions["K"], 1)

	wrs := topAthletes(positions["WR"], 3)
	slots.WR1 = wrSlot(wrs, 0)
	slots.WR2 = wrSlot(wrs, 1)
	slots.WR3 = wrSlot(wrs, 2)
}

func topAthletes(names []string, n int) []string {
	out := make([]string, 0, n)
	for _, name := range names {
		if name == "" {
			continue
		}
		out = append(out, name)
		if len(out) == n {
			break
		}
	}
	return out
}

func wrSlot(wrs []string, i int) []string {
	if i < len(wrs) {
		return []string{wrs[i]}
	}
	return []string{}
}

func hasAthletes(positions map[string][]string) bool {
	for _, names := range positions {
		if len(names) > 0 {
			return true
		}
	}
	return false
}

// parseDepthPositions walks the payload for position blocks: any object with
// a position abbreviation and an athletes (or items) list. The two depth
// chart endpoints nest those blocks differently, so the walk covers both.
func parseDepthPositions(body []byte) map[string][]string {
	var payload any
	if err := json.Unmarshal(body, &payload); err != nil {
		return map[string][]string{}
	}

	positions := map[string][]string{}
	walkDepthBlocks(payload, positions)
	for pos, names := range positions {
		positions[pos] = dedupeNames(names)
	}
	return positions
}

func walkDepthBlocks(node any, positions map[string][]string) {
	switch v := node.(type) {
	case map[string]any:
		if pos, names, ok := depthBlock(v); ok {
			positions[pos] = append(positions[pos], names...)
		}
		for _, child := range v {
			walkDepthBlocks(child, positions)
		}
	case []any:
		for _, child := range v {
			walkDepthBlocks(child, positions)
		}
	}
}

func depthBlock(obj map[string]any) (string, []string, bool) {
	rows, ok := obj["athletes"].([]any)
	if !ok {
		rows, ok = obj["items"].([]any)
	}
	if !ok {
		return "", nil, false
	}

	pos := blockPosition(obj)
	if pos == "" {
		return "", nil, false
	}

	names := make([]string, 0, len(rows))
	for _, row := range rows {
		if name := athleteName(row); name != "" {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return "", nil, false
	}
	return pos, names, true
}

func blockPosition(obj map[string]any) string {
	if pos, ok := obj["position"].(map[string]any); ok {
		if abbr, ok := pos["abbreviation"].(string); ok {
			return depthPosition(abbr)
		}
	}
	if abbr, ok := obj["positionAbbreviation"].(string); ok {
		return depthPosition(abbr)
	}
	return ""
}

// depthPosition folds the depth chart spellings into the rosterable
// positions. Halfback, tailback and fullback rows count as RB; placekicker
// rows count as K. Anything else is dropped.
func depthPosition(raw string) string {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "QB":
		return "QB"
	case "RB", "HB", "TB", "FB":
		return "RB"
	case "WR":
		return "WR"
	case "TE":
		return "TE"
	case "K", "PK":
		return "K"
	}
	return ""
}

func athleteName(row any) string {
	obj, ok := row.(map[string]any)
	if !ok {
		return ""
	}
	if athlete, ok := obj["athlete"].(map[string]any); ok {
		for _, key := range []string{"displayName", "fullName", "name"} {
			if name, ok := athlete[key].(string); ok && name != "" {
				return cleanAthleteName(name)
			}
		}
	}
	for _, key := range []string{"displayName", "name"} {
		if name, ok := obj[key].(string); ok && name != "" {
			return cleanAthleteName(name)
		}
	}
	return ""
}

func cleanAthleteName(name string) string {
	name = strings.Join(strings.Fields(name), " ")
	name = strings.ReplaceAll(name, "’", "'")
	name = strings.ReplaceAll(name, "–", "-")
	return name
}

func dedupeNames(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		key := strings.ToLower(name)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, name)
	}
	return out
}

func (c *SiteClient) getJSON(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("requesting %s: %w", url, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("GET %s: status %d", url, resp.StatusCode)
	}
	return body, nil
}

// flexInt reads a JSON value that may be a number or a quoted numeric
// string, which the site API mixes freely.
func flexInt(raw json.RawMessage) (int, bool) {
	s := strings.Trim(strings.TrimSpace(string(raw)), `"`)
	if s == "" || s == "null" {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}
