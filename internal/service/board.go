// Package service orchestrates the valuation pipeline: input validation,
// credential checks, the concurrent upstream joins, normalization,
// enrichment and the three board shapes.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/omarshaarawi/fmvboard/internal/api/assets"
	"github.com/omarshaarawi/fmvboard/internal/api/espn"
	"github.com/omarshaarawi/fmvboard/internal/creds"
	"github.com/omarshaarawi/fmvboard/internal/metrics"
	"github.com/omarshaarawi/fmvboard/internal/models"
	"github.com/omarshaarawi/fmvboard/internal/nfl"
	"github.com/omarshaarawi/fmvboard/internal/repository/memory"
	"github.com/omarshaarawi/fmvboard/internal/valuation"
)

const defaultMinProj = 1.0

const (
	freeAgentLimit = 2000
	allPlayerLimit = 5000
)

var (
	freeAgentStatuses = []string{"FREEAGENT", "WAIVERS"}
	allPlayerStatuses = []string{"ONTEAM", "WAIVERS", "FREEAGENT"}

	// every slot the board renders; bench and IR players still arrive via
	// these because the filter applies to eligible slots, not current slot
	poolSlotIDs = []int{0, 2, 3, 4, 5, 6, 7, 16, 17, 23}
)

type BoardService struct {
	espn    *espn.API
	assets  *assets.Client
	repo    *memory.Repository
	metrics metrics.Metrics
}

func NewBoardService(espnAPI *espn.API, assetsClient *assets.Client, repo *memory.Repository, m metrics.Metrics) *BoardService {
	return &BoardService{
		espn:    espnAPI,
		assets:  assetsClient,
		repo:    repo,
		metrics: m,
	}
}

// BoardRequest carries one fully resolved board request. Week 0 means "the
// league's current scoring period". MinProj nil means the default of 1.
type BoardRequest struct {
	Mode     models.Mode
	LeagueID string
	Season   int
	Week     int
	TeamID   *int
	Pos      string
	MinProj  *float64
	HostPin  string
	Diag     bool
	Creds    creds.Credentials
}

// Board runs the pipeline for one request and returns either a success
// envelope or an *Error from the taxonomy.
func (s *BoardService) Board(ctx context.Context, req BoardRequest) (*models.BoardResponse, error) {
	started := time.Now()
	s.metrics.IncBoardRequests()

	resp, err := s.board(ctx, req)
	s.metrics.ObserveBoardDuration(time.Since(started).Seconds())
	if err != nil {
		s.metrics.IncBoardErrors()
		return nil, err
	}
	return resp, nil
}

func (s *BoardService) board(ctx context.Context, req BoardRequest) (*models.BoardResponse, error) {
	if strings.TrimSpace(req.LeagueID) == "" {
		return nil, BadRequest("missing leagueId")
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

	query := s.leagueQuery(req, season, week)

	var (
		wg           sync.WaitGroup
		ranks        *models.RanksResult
		dvp          models.DvpMap
		schedule     *models.ProSchedule
		leagueResult *espn.LeagueResult
		leagueErr    error
	)

	wg.Add(4)
	go func() {
		defer wg.Done()
		ranks = s.assets.LoadRanks(ctx, season, week)
	}()
	go func() {
		defer wg.Done()
		dvp = s.assets.LoadDvp(ctx, season)
	}()
	go func() {
		defer wg.Done()
		schedule = s.loadSchedule(ctx, season)
	}()
	go func() {
		defer wg.Done()
		leagueResult, leagueErr = s.espn.FetchLeague(ctx, query)
	}()
	wg.Wait()

	if leagueErr != nil {
		var upstream *espn.UpstreamError
		if errors.As(leagueErr, &upstream) {
			s.metrics.IncUpstreamFailures()
			log.Error("league fetch failed on all hosts", "league", req.LeagueID, "mode", req.Mode)
			diag := upstream.Diag
			if !req.Diag {
				diag = nil
			}
			return nil, Upstream(diag)
		}
		return nil, fmt.Errorf("fetching league: %w", leagueErr)
	}
	if leagueResult.Fallback {
		s.metrics.IncHostFallbacks()
	}
	if ranks.UsedWeek != nil && *ranks.UsedWeek < week {
		s.metrics.IncRanksBackoffs()
	}

	join := valuation.JoinData{
		Schedule: schedule,
		Ranks:    ranks.Ranks,
		Dvp:      dvp,
		Week:     week,
	}

	if req.Mode == models.ModeRoster {
		return s.shapeRoster(ctx, req, season, week, ranks, join, leagueResult)
	}
	return s.shapePool(ctx, req, season, week, ranks, join, query, leagueResult)
}

func (s *BoardService) leagueQuery(req BoardRequest, season, week int) espn.LeagueQuery {
	q := espn.LeagueQuery{
		LeagueID: req.LeagueID,
		Season:   season,
		Week:     week,
		HostPin:  req.HostPin,
		Creds:    req.Creds,
	}

	switch req.Mode {
	case models.ModeRoster:
		q.Views = []string{espn.ViewRoster, espn.ViewTeam}
	case models.ModeFreeAgents:
		q.Views = []string{espn.ViewPlayerInfo}
		q.Statuses = freeAgentStatuses
		q.SlotIDs = poolSlotIDs
		q.Limit = freeAgentLimit
	default:
		q.Views = []string{espn.ViewPlayerInfo}
		q.Statuses = allPlayerStatuses
		q.SlotIDs = poolSlotIDs
		q.Limit = allPlayerLimit
	}
	return q
}

func (s *BoardService) shapePool(ctx context.Context, req BoardRequest, season, week int, ranks *models.RanksResult, join valuation.JoinData, query espn.LeagueQuery, result *espn.LeagueResult) (*models.BoardResponse, error) {
	entries := result.League.Players
	players := make([]models.Player, 0, len(entries))
	for _, entry := range entries {
		players = append(players, valuation.FromPoolEntry(entry, week))
	}

	join.OppFill = s.opponentFill(ctx, season, week, join.Schedule, players)
	valuation.Enrich(players, join)

	minProj := defaultMinProj
	if req.MinProj != nil {
		minProj = *req.MinProj
	}
	players = valuation.ApplyFilters(players, valuation.Filter{Pos: req.Pos, MinProj: minProj})
	valuation.SortByProjected(players)

	meta := buildMeta(req, season, week, ranks, result.Host)
	meta.Statuses = query.Statuses
	meta.SlotIDs = query.SlotIDs
	meta.MinProj = &minProj
	meta.Pos = strings.TrimSpace(req.Pos)

	return &models.BoardResponse{
		OK:      true,
		Meta:    meta,
		Count:   len(players),
		Players: players,
	}, nil
}

func (s *BoardService) shapeRoster(ctx context.Context, req BoardRequest, season, week int, ranks *models.RanksResult, join valuation.JoinData, result *espn.LeagueResult) (*models.BoardResponse, error) {
	league := result.League

	teamID := 0
	if req.TeamID != nil {
		teamID = *req.TeamID
	} else {
		id, found := espn.ResolveTeamID(league, req.Creds.SWID)
		if !found {
			return nil, NotFound("no team in this league is owned by the given SWID")
		}
		teamID = id
	}

	var roster *models.Roster
	for i := range league.Teams {
		if league.Teams[i].ID == teamID {
			roster = &league.Teams[i].Roster
			break
		}
	}
	if roster == nil {
		return nil, NotFound(fmt.Sprintf("teamId %d not found in league", teamID))
	}

	players := make([]models.Player, 0, len(roster.Entries))
	for _, entry := range roster.Entries {
		players = append(players, valuation.FromRosterEntry(entry, week))
	}

	join.OppFill = s.opponentFill(ctx, season, week, join.Schedule, players)
	valuation.Enrich(players, join)

	starters := make([]models.Player, 0, len(players))
	bench := make([]models.Player, 0)
	for _, p := range players {
		if p.IsStarter {
			starters = append(starters, p)
		} else {
			bench = append(bench, p)
		}
	}

	sorted := make([]models.Player, len(players))
	copy(sorted, players)
	valuation.SortByProjected(sorted)

	return &models.BoardResponse{
		OK:       true,
		Meta:     buildMeta(req, season, week, ranks, result.Host),
		Count:    len(players),
		Players:  sorted,
		Starters: starters,
		Bench:    bench,
		Counts:   &models.RosterCounts{Starters: len(starters), Bench: len(bench)},
		TeamID:   &teamID,
		TeamName: espn.TeamName(league, teamID),
	}, nil
}

// opponentFill fans out once across the teams the schedule could not answer
// for this week. Per-team failures are tolerated; those players keep a null
// opponent.
func (s *BoardService) opponentFill(ctx context.Context, season, week int, schedule *models.ProSchedule, players []models.Player) map[string]string {
	missing := make(map[string]struct{})
	for _, p := range players {
		if p.TeamAbbr == nil {
			continue
		}
		team := *p.TeamAbbr
		if schedule != nil {
			if weeks, found := schedule.Opponents[team]; found {
				if opp, found := weeks[week]; found {
					if opp != "BYE" || schedule.ByeWeeks[team] == week {
						continue
					}
				}
			}
		}
		missing[team] = struct{}{}
	}
	if len(missing) == 0 {
		return nil
	}

	var (
		mu   sync.Mutex
		wg   sync.WaitGroup
		fill = make(map[string]string, len(missing))
	)
	for team := range missing {
		wg.Add(1)
		go func(team string) {
			defer wg.Done()
			opp, err := s.assets.LoadOpponent(ctx, season, week, team)
			if err != nil || opp == "" {
				return
			}
			mu.Lock()
			fill[team] = opp
			mu.Unlock()
		}(team)
	}
	wg.Wait()

	return fill
}

// currentWeek resolves a missing week from the league's settings, cached for
// a day. Resolution failures fall back to week 1 rather than failing the
// request.
func (s *BoardService) currentWeek(ctx context.Context, leagueID string, season int, c creds.Credentials) int {
	if metadata, found := s.repo.GetMetadata(leagueID); found {
		return metadata.CurrentScoringPeriod
	}

	metadata, err := s.espn.GetLeagueMetadata(ctx, leagueID, season, c)
	if err != nil {
		log.Warn("could not resolve current week", "league", leagueID, "err", err)
		return 1
	}
	s.repo.SaveMetadata(metadata)
	return metadata.CurrentScoringPeriod
}

// loadSchedule serves the season schedule from the process cache, fetching
// once per season. A failed fetch degrades opponents and byes to null.
func (s *BoardService) loadSchedule(ctx context.Context, season int) *models.ProSchedule {
	if schedule, found := s.repo.GetSchedule(season); found {
		return schedule
	}

	schedule, err := s.espn.ProSchedule(ctx, season)
	if err != nil {
		log.Warn("schedule fetch failed, opponents degrade to null", "season", season, "err", err)
		return nil
	}
	s.repo.SaveSchedule(season, schedule)
	return schedule
}

func buildMeta(req BoardRequest, season, week int, ranks *models.RanksResult, host string) models.Meta {
	return models.Meta{
		LeagueID:  req.LeagueID,
		Season:    season,
		Week:      week,
		UsedWeek:  ranks.UsedWeek,
		UsedByPos: ranks.UsedByPos,
		Host:      host,
		FetchedAt: time.Now().UTC().Format(time.RFC3339),
	}
}
