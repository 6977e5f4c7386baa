package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/omarshaarawi/fmvboard/internal/creds"
	"github.com/omarshaarawi/fmvboard/internal/models"
)

// DigestConfig selects which league the scheduled digest reports on.
type DigestConfig struct {
	LeagueID string
	Season   int
	TopN     int
	MinProj  float64
}

// DigestText renders the weekly waiver digest: the best-valued free agents on
// the board, lowest FMV first. Players without an FMV never make the list.
func (s *BoardService) DigestText(ctx context.Context, cfg DigestConfig, c creds.Credentials) (string, error) {
	minProj := cfg.MinProj
	resp, err := s.Board(ctx, BoardRequest{
		Mode:     models.ModeFreeAgents,
		LeagueID: cfg.LeagueID,
		Season:   cfg.Season,
		MinProj:  &minProj,
		Creds:    c,
	})
	if err != nil {
		return "", fmt.Errorf("building free agent board: %w", err)
	}

	valued := make([]models.Player, 0, len(resp.Players))
	for _, p := range resp.Players {
		if p.FMV != nil {
			valued = append(valued, p)
		}
	}
	sort.SliceStable(valued, func(i, j int) bool {
		return *valued[i].FMV < *valued[j].FMV
	})

	topN := cfg.TopN
	if topN <= 0 {
		topN = 10
	}
	if len(valued) > topN {
		valued = valued[:topN]
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📈 *Week %d Waiver Targets*\n\n", resp.Meta.Week))

	if len(valued) == 0 {
		sb.WriteString("No valued free agents this week.")
		return sb.String(), nil
	}

	for i, p := range valued {
		team := "FA"
		if p.TeamAbbr != nil {
			team = *p.TeamAbbr
		}
		sb.WriteString(fmt.Sprintf("%d. *%s* (%s - %s)\n", i+1, p.Name, p.Position, team))
		sb.WriteString(fmt.Sprintf("   FMV: %d | Proj: %.1f", *p.FMV, p.ProjectedPoints()))
		if p.OpponentAbbr != nil {
			sb.WriteString(fmt.Sprintf(" | vs %s", *p.OpponentAbbr))
		}
		sb.WriteString("\n\n")
	}

	if resp.Meta.UsedWeek != nil && *resp.Meta.UsedWeek < resp.Meta.Week {
		sb.WriteString(fmt.Sprintf("_Rankings from week %d._", *resp.Meta.UsedWeek))
	}

	return sb.String(), nil
}
