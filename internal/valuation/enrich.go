package valuation

import (
	"math"
	"sort"
	"strings"

	"github.com/omarshaarawi/fmvboard/internal/models"
	"github.com/omarshaarawi/fmvboard/internal/nfl"
)

// JoinData carries the side inputs the enrichment joins against. OppFill is
// an optional opponent map consulted only when the schedule has no answer.
type JoinData struct {
	Schedule *models.ProSchedule
	Ranks    models.RanksMap
	Dvp      models.DvpMap
	OppFill  map[string]string
	Week     int
}

// Enrich resolves opponent, ECR rank, defensive rank and bye week for each
// player in place, then computes FMV.
func Enrich(players []models.Player, join JoinData) {
	for i := range players {
		enrichOne(&players[i], join)
	}
}

func enrichOne(p *models.Player, join JoinData) {
	teamAbbr := ""
	if p.TeamAbbr != nil {
		teamAbbr = *p.TeamAbbr
	}

	// Opponent comes from the schedule. A "BYE" that disagrees with the bye
	// map means the scoring periods have shifted, so the opponent is unknown.
	if teamAbbr != "" && join.Schedule != nil {
		if weeks, found := join.Schedule.Opponents[teamAbbr]; found {
			if opp, found := weeks[join.Week]; found {
				if opp != "BYE" || join.Schedule.ByeWeeks[teamAbbr] == join.Week {
					o := opp
					p.OpponentAbbr = &o
				}
			}
		}
	}
	if p.OpponentAbbr == nil && teamAbbr != "" && join.OppFill != nil {
		if opp := strings.TrimSpace(join.OppFill[teamAbbr]); opp != "" {
			o := nfl.CanonicalAbbr(opp)
			p.OpponentAbbr = &o
		}
	}

	rankPos := rankPosition(p.Position)

	if rank, found := join.Ranks[rankPos+":"+p.Name]; found {
		r := rank
		p.EcrRank = &r
	} else if rankPos == "DST" && teamAbbr != "" {
		// DST rows in the rankings CSV carry the franchise name
		if full, known := nfl.FullTeamName(teamAbbr); known {
			if rank, found := join.Ranks["DST:"+full]; found {
				r := rank
				p.EcrRank = &r
			}
		}
	}

	if p.OpponentAbbr != nil && *p.OpponentAbbr != "BYE" {
		if rank, found := join.Dvp[*p.OpponentAbbr+"|"+rankPos]; found {
			r := rank
			p.DefensiveRank = &r
		}
	}

	if teamAbbr != "" && join.Schedule != nil {
		if bye, found := join.Schedule.ByeWeeks[teamAbbr]; found {
			b := bye
			p.ByeWeek = &b
		}
	}

	p.FMV = computeFMV(p)
}

func rankPosition(pos string) string {
	if normalized := nfl.NormalizePosition(pos); normalized != "" {
		return normalized
	}
	return pos
}

// computeFMV is defined only when the projection is positive and both ranks
// resolved. QB, K and DST add the ranks straight; TE softens ECR by 1.4;
// every other position halves it.
func computeFMV(p *models.Player) *int {
	if p.Proj == nil || *p.Proj <= 0 || p.EcrRank == nil || p.DefensiveRank == nil {
		return nil
	}

	ecr := float64(*p.EcrRank)
	dvp := float64(*p.DefensiveRank)

	var fmv float64
	switch rankPosition(p.Position) {
	case "QB", "K", "DST":
		fmv = ecr + dvp
	case "TE":
		fmv = ecr/1.4 + dvp
	default:
		fmv = ecr/2 + dvp
	}

	v := int(math.Round(fmv))
	return &v
}

// Filter holds the pool-mode drop rules. Roster mode never filters.
type Filter struct {
	Pos     string
	MinProj float64
}

// ApplyFilters drops pool players with no usable projection or value and
// applies the position filter. FLEX keeps RB, WR and TE; ALL or empty keeps
// everything.
func ApplyFilters(players []models.Player, f Filter) []models.Player {
	out := make([]models.Player, 0, len(players))
	for _, p := range players {
		if keep(p, f) {
			out = append(out, p)
		}
	}
	return out
}

func keep(p models.Player, f Filter) bool {
	proj := p.ProjectedPoints()
	if proj < 2 && (p.FMV == nil || *p.FMV == 0) {
		return false
	}
	if proj < f.MinProj {
		return false
	}
	if p.EcrRank != nil && *p.EcrRank < 1 {
		return false
	}
	return matchesPos(p.Position, f.Pos)
}

func matchesPos(pos, filter string) bool {
	switch want := strings.ToUpper(strings.TrimSpace(filter)); want {
	case "", "ALL":
		return true
	case "FLEX":
		switch rankPosition(pos) {
		case "RB", "WR", "TE":
			return true
		}
		return false
	default:
		return rankPosition(pos) == want
	}
}

// SortByProjected orders players by projection descending. Ties keep their
// upstream order, which for pool fetches is percent-owned descending.
func SortByProjected(players []models.Player) {
	sort.SliceStable(players, func(i, j int) bool {
		return players[i].ProjectedPoints() > players[j].ProjectedPoints()
	})
}
