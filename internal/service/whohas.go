package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/omarshaarawi/fmvboard/internal/api/espn"
	"github.com/omarshaarawi/fmvboard/internal/creds"
	"github.com/omarshaarawi/fmvboard/internal/models"
	"github.com/omarshaarawi/fmvboard/internal/nfl"
	"github.com/omarshaarawi/fmvboard/internal/valuation"
)

const (
	whoHasThreshold = 0.7
	maxCandidates   = 5
)

type WhoHasRequest struct {
	LeagueID string
	Season   int
	Week     int
	Query    string
	HostPin  string
	Diag     bool
	Creds    creds.Credentials
}

// WhoHas searches every roster in the league for the named player using
// Levenshtein similarity, returning the best match plus close runners-up.
func (s *BoardService) WhoHas(ctx context.Context, req WhoHasRequest) (*models.WhoHasResponse, error) {
	if strings.TrimSpace(req.LeagueID) == "" {
		return nil, BadRequest("missing leagueId")
	}
	query := strings.TrimSpace(req.Query)
	if query == "" {
		return nil, BadRequest("missing player query")
	}
	if !req.Creds.Complete() {
		return nil, Unauthorized("ESPN credentials missing after all fallbacks")
	}

	season := req.Season
	if season <= 0 {
		season = time.Now().UTC().Year()
	}
	week := req.Week
	if week == 0 {
		week = s.currentWeek(ctx, req.LeagueID, season, req.Creds)
	}
	week = nfl.ClampWeek(week)

	result, err := s.espn.FetchLeague(ctx, espn.LeagueQuery{
		LeagueID: req.LeagueID,
		Season:   season,
		Week:     week,
		Views:    []string{espn.ViewRoster, espn.ViewTeam},
		HostPin:  req.HostPin,
		Creds:    req.Creds,
	})
	if err != nil {
		var upstream *espn.UpstreamError
		if errors.As(err, &upstream) {
			s.metrics.IncUpstreamFailures()
			log.Error("roster fetch failed on all hosts", "league", req.LeagueID)
			diag := upstream.Diag
			if !req.Diag {
				diag = nil
			}
			return nil, Upstream(diag)
		}
		return nil, fmt.Errorf("fetching rosters: %w", err)
	}
	if result.Fallback {
		s.metrics.IncHostFallbacks()
	}

	matches := searchRosters(result.League, query, week)

	resp := &models.WhoHasResponse{
		OK:        true,
		Query:     query,
		FetchedAt: time.Now().UTC().Format(time.RFC3339),
	}
	if len(matches) > 0 {
		resp.Found = true
		resp.Best = &matches[0]
		if rest := matches[1:]; len(rest) > 0 {
			if len(rest) > maxCandidates {
				rest = rest[:maxCandidates]
			}
			resp.Candidates = rest
		}
	}
	return resp, nil
}

type scoredMatch struct {
	match models.WhoHasMatch
	score float64
}

func searchRosters(league *models.LeagueResponse, query string, week int) []models.WhoHasMatch {
	want := strings.ToLower(query)

	var scored []scoredMatch
	for _, team := range league.Teams {
		for _, entry := range team.Roster.Entries {
			p := valuation.FromRosterEntry(entry, week)
			score := nameSimilarity(want, strings.ToLower(p.Name))
			if score <= whoHasThreshold {
				continue
			}

			m := models.WhoHasMatch{
				PlayerName:   p.Name,
				PlayerID:     p.ID,
				TeamID:       team.ID,
				TeamName:     espn.TeamName(league, team.ID),
				Position:     p.Position,
				LineupSlot:   "Unknown",
				PercentOwned: entry.PlayerPoolEntry.Player.Ownership.PercentOwned,
			}
			if p.TeamAbbr != nil {
				m.ProTeam = *p.TeamAbbr
			}
			if p.SlotName != nil {
				m.LineupSlot = *p.SlotName
			}
			scored = append(scored, scoredMatch{match: m, score: score})
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})

	matches := make([]models.WhoHasMatch, 0, len(scored))
	for _, s := range scored {
		matches = append(matches, s.match)
	}
	return matches
}

func nameSimilarity(a, b string) float64 {
	maxLen := float64(max(len(a), len(b)))
	if maxLen == 0 {
		return 0
	}
	distance := fuzzy.LevenshteinDistance(a, b)
	return 1 - float64(distance)/maxLen
}
