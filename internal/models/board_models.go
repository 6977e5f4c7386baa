package models

// Mode selects one of the three board shapes.
type Mode string

const (
	ModeRoster     Mode = "roster"
	ModeFreeAgents Mode = "free-agents"
	ModeAllPlayers Mode = "all-players"
)

// RanksMap holds weekly positional rankings keyed "{POS}:{name}". DST
// entries may additionally be keyed by full team name.
type RanksMap map[string]int

// DvpMap holds defense-vs-position ranks keyed "{teamAbbr}|{POS}".
type DvpMap map[string]int

// RanksResult is the CSV loader output. UsedByPos records, per position, the
// week whose CSV was accepted (nil when every week failed); UsedWeek is the
// maximum across positions.
type RanksResult struct {
	Ranks     RanksMap
	UsedWeek  *int
	UsedByPos map[string]*int
}

// Player is the normalized, enriched record served in every board shape.
// Nullable fields are pointers so the JSON envelope carries explicit nulls.
type Player struct {
	ID            int      `json:"id"`
	Name          string   `json:"name"`
	Position      string   `json:"position"`
	ProTeamID     *int     `json:"proTeamId"`
	TeamAbbr      *string  `json:"teamAbbr"`
	SlotID        *int     `json:"slotId"`
	SlotName      *string  `json:"slotName"`
	IsStarter     bool     `json:"isStarter"`
	Proj          *float64 `json:"proj"`
	EcrRank       *int     `json:"ecrRank"`
	OpponentAbbr  *string  `json:"opponentAbbr"`
	DefensiveRank *int     `json:"defensiveRank"`
	ByeWeek       *int     `json:"byeWeek"`
	FMV           *int     `json:"fmv"`
}

// ProjectedPoints treats a missing projection as zero for sorting and
// filtering.
func (p Player) ProjectedPoints() float64 {
	if p.Proj == nil {
		return 0
	}
	return *p.Proj
}

// Meta is the shared envelope metadata. Roster responses omit statuses and
// slotIds; week is echoed in every mode.
type Meta struct {
	LeagueID  string          `json:"leagueId"`
	Season    int             `json:"season"`
	Week      int             `json:"week"`
	UsedWeek  *int            `json:"usedWeek"`
	UsedByPos map[string]*int `json:"usedByPos"`
	SlotIDs   []int           `json:"slotIds,omitempty"`
	Statuses  []string        `json:"statuses,omitempty"`
	MinProj   *float64        `json:"minProj,omitempty"`
	Pos       string          `json:"pos,omitempty"`
	Host      string          `json:"host"`
	FetchedAt string          `json:"fetchedAt"`
}

type RosterCounts struct {
	Starters int `json:"starters"`
	Bench    int `json:"bench"`
}

// BoardResponse is the success envelope for the three read shapes.
type BoardResponse struct {
	OK       bool          `json:"ok"`
	Meta     Meta          `json:"meta"`
	Count    int           `json:"count"`
	Players  []Player      `json:"players,omitempty"`
	Starters []Player      `json:"starters,omitempty"`
	Bench    []Player      `json:"bench,omitempty"`
	Counts   *RosterCounts `json:"counts,omitempty"`
	TeamID   *int          `json:"teamId,omitempty"`
	TeamName string        `json:"teamName,omitempty"`
}

// UpstreamDiag captures the first failed host attempt for diag responses.
type UpstreamDiag struct {
	HostTried             string `json:"hostTried,omitempty"`
	UpstreamStatus        int    `json:"upstreamStatus,omitempty"`
	UpstreamType          string `json:"upstreamType,omitempty"`
	UpstreamSnippet       string `json:"upstreamSnippet,omitempty"`
	ForwardedCookieHeader string `json:"forwardedCookieHeader,omitempty"`
}

// ErrorResponse is the uniform failure envelope.
type ErrorResponse struct {
	OK     bool   `json:"ok"`
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
	Status int    `json:"status,omitempty"`
	*UpstreamDiag
}

// CredsEcho is the masked credential snapshot returned by creds=1 requests.
type CredsEcho struct {
	SWID   string `json:"swid"`
	S2     string `json:"s2"`
	Cookie string `json:"cookie"`
	Source string `json:"source"`
}

// CredsResponse is the creds=1 diagnostic envelope. It never carries players.
type CredsResponse struct {
	OK    bool      `json:"ok"`
	Mode  Mode      `json:"mode"`
	Creds CredsEcho `json:"creds"`
}

// WhoHasMatch is one fuzzy match from the ownership search.
type WhoHasMatch struct {
	PlayerName   string  `json:"playerName"`
	PlayerID     int     `json:"playerId"`
	TeamID       int     `json:"teamId"`
	TeamName     string  `json:"teamName"`
	Position     string  `json:"position"`
	ProTeam      string  `json:"proTeam"`
	LineupSlot   string  `json:"lineupSlot"`
	PercentOwned float64 `json:"percentOwned"`
}

// WhoHasResponse answers "which fantasy team rosters this player".
type WhoHasResponse struct {
	OK         bool          `json:"ok"`
	Query      string        `json:"query"`
	Found      bool          `json:"found"`
	Best       *WhoHasMatch  `json:"best,omitempty"`
	Candidates []WhoHasMatch `json:"candidates,omitempty"`
	FetchedAt  string        `json:"fetchedAt"`
}
