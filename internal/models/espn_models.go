package models

import "time"

// LeagueResponse is the subset of ESPN's v3 league payload the service
// consumes. Unknown upstream fields are ignored at decode time and never
// leak into response envelopes.
type LeagueResponse struct {
	ID              int               `json:"id"`
	ScoringPeriodID int               `json:"scoringPeriodId"`
	SeasonID        int               `json:"seasonId"`
	SegmentID       int               `json:"segmentId"`
	Status          LeagueStatus      `json:"status"`
	Settings        LeagueSettings    `json:"settings"`
	Teams           []Team            `json:"teams"`
	Players         []PlayerPoolEntry `json:"players"`
}

type LeagueSettings struct {
	Name string `json:"name"`
	Size int    `json:"size"`
}

type LeagueStatus struct {
	CurrentMatchupPeriod int  `json:"currentMatchupPeriod"`
	FinalScoringPeriod   int  `json:"finalScoringPeriod"`
	FirstScoringPeriod   int  `json:"firstScoringPeriod"`
	IsActive             bool `json:"isActive"`
}

type Team struct {
	ID           int      `json:"id"`
	Abbreviation string   `json:"abbrev"`
	Name         string   `json:"name"`
	Owners       []string `json:"owners"`
	Roster       Roster   `json:"roster"`
}

type Roster struct {
	Entries []RosterEntry `json:"entries"`
}

type RosterEntry struct {
	PlayerPoolEntry PlayerPoolEntry `json:"playerPoolEntry"`
	LineupSlotID    int             `json:"lineupSlotId"`
}

type PlayerPoolEntry struct {
	ID               int       `json:"id"`
	OnTeamID         int       `json:"onTeamId"`
	Status           string    `json:"status"`
	Player           RawPlayer `json:"player"`
	AppliedStatTotal float64   `json:"appliedStatTotal"`
}

// RawPlayer mirrors ESPN's player object. Name and position carry several
// alternate spellings across views; the normalizer owns the fallback order.
type RawPlayer struct {
	ID                  int          `json:"id"`
	FullName            string       `json:"fullName"`
	Name                string       `json:"name"`
	FirstName           string       `json:"firstName"`
	LastName            string       `json:"lastName"`
	DefaultPositionID   int          `json:"defaultPositionId"`
	Position            string       `json:"position"`
	DefaultPosition     string       `json:"defaultPosition"`
	ProTeamID           int          `json:"proTeamId"`
	ProTeamAbbreviation string       `json:"proTeamAbbreviation"`
	Ownership           Ownership    `json:"ownership"`
	InjuryStatus        string       `json:"injuryStatus"`
	Stats               []PlayerStat `json:"stats"`
}

type Ownership struct {
	PercentOwned float64 `json:"percentOwned"`
}

// PlayerStat is one row of ESPN's multi-source stats array. The value fields
// are pointers so a present-but-zero total is distinguishable from a missing
// one.
type PlayerStat struct {
	StatSourceID          int                `json:"statSourceId"`
	StatSplitTypeID       int                `json:"statSplitTypeId"`
	ScoringPeriodID       int                `json:"scoringPeriodId"`
	AppliedTotal          *float64           `json:"appliedTotal"`
	AppliedProjectedTotal *float64           `json:"appliedProjectedTotal"`
	TotalProjectedPoints  *float64           `json:"totalProjectedPoints"`
	AppliedAverage        *float64           `json:"appliedAverage"`
	Points                *float64           `json:"points"`
	AppliedStats          map[string]float64 `json:"appliedStats"`
}

// ScheduleMap resolves (teamAbbr, week) to the opponent abbreviation or "BYE".
type ScheduleMap map[string]map[int]string

// ByeMap resolves a team abbreviation to its bye week.
type ByeMap map[string]int

// ProSchedule is the resolved season schedule for every pro team.
type ProSchedule struct {
	Opponents ScheduleMap
	ByeWeeks  ByeMap
}

// LeagueMetadata caches the slow-moving league settings used to resolve the
// current scoring period.
type LeagueMetadata struct {
	LeagueID             string
	Name                 string
	CurrentScoringPeriod int
	SeasonID             int
	FirstWeek            int
	LastWeek             int
	IsActive             bool
	LastUpdated          time.Time
}
