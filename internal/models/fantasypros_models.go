package models

// PlayerPointsMeta describes one FantasyPros points snapshot.
type PlayerPointsMeta struct {
	Season    int    `json:"season"`
	Scoring   string `json:"scoring"`
	Weeks     []int  `json:"weeks"`
	FetchedAt string `json:"fetchedAt"`
}

// PlayerPoints carries one player's fantasy points keyed by week number.
type PlayerPoints struct {
	FpID     int             `json:"fpId"`
	Name     string          `json:"name"`
	Position string          `json:"position"`
	Team     string          `json:"team"`
	Weeks    map[int]float64 `json:"weeks"`
}

// PlayerPointsResponse is the envelope served by the player-points endpoint.
type PlayerPointsResponse struct {
	OK      bool             `json:"ok"`
	Meta    PlayerPointsMeta `json:"meta"`
	Players []PlayerPoints   `json:"players"`
}
