// Package nfl holds the fixed NFL lookup tables shared by the valuation
// pipeline: position ids, lineup slots, pro team abbreviations and names.
package nfl

import "strings"

// Positions lists the six rankable positions in CSV order.
var Positions = []string{"QB", "RB", "WR", "TE", "K", "DST"}

// TeamAbbrs lists the 32 canonical team abbreviations in alphabetical order.
var TeamAbbrs = []string{
	"ARI", "ATL", "BAL", "BUF", "CAR", "CHI", "CIN", "CLE", "DAL", "DEN",
	"DET", "GB", "HOU", "IND", "JAX", "KC", "LV", "LAC", "LAR", "MIA",
	"MIN", "NE", "NO", "NYG", "NYJ", "PHI", "PIT", "SF", "SEA", "TB",
	"TEN", "WSH",
}

var positionByID = map[int]string{
	1:  "QB",
	2:  "RB",
	3:  "WR",
	4:  "TE",
	5:  "K",
	16: "DST",
	23: "DST",
}

// PositionFromID maps ESPN's defaultPositionId to a position label.
func PositionFromID(id int) (string, bool) {
	pos, ok := positionByID[id]
	return pos, ok
}

// NormalizePosition folds defensive spellings into DST and uppercases the rest.
func NormalizePosition(raw string) string {
	pos := strings.ToUpper(strings.TrimSpace(raw))
	switch pos {
	case "D/ST", "DEF", "DST":
		return "DST"
	}
	return pos
}

var slotNames = map[int]string{
	0:  "QB",
	2:  "RB",
	3:  "RB/WR",
	4:  "WR",
	5:  "WR/TE",
	6:  "TE",
	7:  "OP",
	16: "DST",
	17: "K",
	18: "P",
	19: "HC",
	20: "BE",
	21: "IR",
	22: "ES",
	23: "FLEX",
	24: "ED",
	25: "DL",
	26: "LB",
	27: "DB",
	28: "DP",
}

// SlotName maps an ESPN lineupSlotId to its label.
func SlotName(id int) (string, bool) {
	name, ok := slotNames[id]
	return name, ok
}

// IsStarterSlot reports whether a lineup slot counts as a starting slot.
// Only bench (20) and IR (21) are excluded.
func IsStarterSlot(id int) bool {
	return id != 20 && id != 21
}

var proTeamAbbr = map[int]string{
	1:  "ATL",
	2:  "BUF",
	3:  "CHI",
	4:  "CIN",
	5:  "CLE",
	6:  "DAL",
	7:  "DEN",
	8:  "DET",
	9:  "GB",
	10: "TEN",
	11: "IND",
	12: "KC",
	13: "LV",
	14: "LAR",
	15: "MIA",
	16: "MIN",
	17: "NE",
	18: "NO",
	19: "NYG",
	20: "NYJ",
	21: "PHI",
	22: "ARI",
	23: "PIT",
	24: "LAC",
	25: "SF",
	26: "SEA",
	27: "TB",
	28: "WSH",
	29: "CAR",
	30: "JAX",
	31: "BAL",
	32: "HOU",
	33: "BAL",
	34: "HOU",
}

// ProTeamAbbr maps an ESPN proTeamId to a canonical team abbreviation.
func ProTeamAbbr(id int) (string, bool) {
	abbr, ok := proTeamAbbr[id]
	if !ok {
		return "", false
	}
	return CanonicalAbbr(abbr), true
}

var canonicalAbbr = map[string]string{
	"JAC": "JAX",
	"WAS": "WSH",
	"OAK": "LV",
	"SD":  "LAC",
	"STL": "LAR",
	"LA":  "LAR",
}

// CanonicalAbbr uppercases a team abbreviation and folds relocated or
// alternate spellings into the canonical form.
func CanonicalAbbr(raw string) string {
	abbr := strings.ToUpper(strings.TrimSpace(raw))
	if canon, ok := canonicalAbbr[abbr]; ok {
		return canon
	}
	return abbr
}

var fullTeamNames = map[string]string{
	"ARI": "Arizona Cardinals",
	"ATL": "Atlanta Falcons",
	"BAL": "Baltimore Ravens",
	"BUF": "Buffalo Bills",
	"CAR": "Carolina Panthers",
	"CHI": "Chicago Bears",
	"CIN": "Cincinnati Bengals",
	"CLE": "Cleveland Browns",
	"DAL": "Dallas Cowboys",
	"DEN": "Denver Broncos",
	"DET": "Detroit Lions",
	"GB":  "Green Bay Packers",
	"HOU": "Houston Texans",
	"IND": "Indianapolis Colts",
	"JAX": "Jacksonville Jaguars",
	"KC":  "Kansas City Chiefs",
	"LV":  "Las Vegas Raiders",
	"LAC": "Los Angeles Chargers",
	"LAR": "Los Angeles Rams",
	"MIA": "Miami Dolphins",
	"MIN": "Minnesota Vikings",
	"NE":  "New England Patriots",
	"NO":  "New Orleans Saints",
	"NYG": "New York Giants",
	"NYJ": "New York Jets",
	"PHI": "Philadelphia Eagles",
	"PIT": "Pittsburgh Steelers",
	"SF":  "San Francisco 49ers",
	"SEA": "Seattle Seahawks",
	"TB":  "Tampa Bay Buccaneers",
	"TEN": "Tennessee Titans",
	"WSH": "Washington Commanders",
}

// FullTeamName returns the franchise name for a canonical abbreviation.
func FullTeamName(abbr string) (string, bool) {
	name, ok := fullTeamNames[CanonicalAbbr(abbr)]
	return name, ok
}

// ClampWeek bounds a scoring period to the regular season; anything outside
// [1, 18] falls back to week 1.
func ClampWeek(week int) int {
	if week < 1 || week > 18 {
		return 1
	}
	return week
}
