package models

import "sort"

// DepthChartSlots holds one NFL team's filled lineup slots: the top two
// quarterbacks, running backs and tight ends, the first three wide receivers
// split into WR1..WR3, the kicker, and a synthesized "{nickname} D/ST" entry.
type DepthChartSlots struct {
	QB  []string `json:"QB"`
	RB  []string `json:"RB"`
	WR1 []string `json:"WR1"`
	WR2 []string `json:"WR2"`
	WR3 []string `json:"WR3"`
	TE  []string `json:"TE"`
	K   []string `json:"K"`
	DST []string `json:"DST"`
}

// DepthCharts is the season snapshot served by the depth-charts endpoint and
// written to depth_charts_{season}.json. LastUpdated is unix seconds.
type DepthCharts struct {
	Season      int                        `json:"season"`
	Source      string                     `json:"source"`
	LastUpdated int64                      `json:"lastUpdated"`
	Teams       map[string]DepthChartSlots `json:"teams"`
}

// DepthChartRow is one flattened depth chart entry. Rank is the athlete's
// 1-based order within the slot.
type DepthChartRow struct {
	Team    string `json:"team"`
	Slot    string `json:"slot"`
	Rank    int    `json:"rank"`
	Athlete string `json:"athlete"`
}

var depthChartSlotOrder = []string{"QB", "RB", "WR1", "WR2", "WR3", "TE", "K", "DST"}

func (s DepthChartSlots) athletes(slot string) []string {
	switch slot {
	case "QB":
		return s.QB
	case "RB":
		return s.RB
	case "WR1":
		return s.WR1
	case "WR2":
		return s.WR2
	case "WR3":
		return s.WR3
	case "TE":
		return s.TE
	case "K":
		return s.K
	case "DST":
		return s.DST
	}
	return nil
}

// Rows flattens the per-team slot lists into rows, teams alphabetical and
// slots in lineup order.
func (d *DepthCharts) Rows() []DepthChartRow {
	teams := make([]string, 0, len(d.Teams))
	for abbr := range d.Teams {
		teams = append(teams, abbr)
	}
	sort.Strings(teams)

	var rows []DepthChartRow
	for _, abbr := range teams {
		slots := d.Teams[abbr]
		for _, slot := range depthChartSlotOrder {
			for i, athlete := range slots.athletes(slot) {
				rows = append(rows, DepthChartRow{
					Team:    abbr,
					Slot:    slot,
					Rank:    i + 1,
					Athlete: athlete,
				})
			}
		}
	}
	return rows
}

// DepthChartsResponse is the depth-charts endpoint envelope. The default
// shape carries Teams; flat requests carry Rows and Count instead.
type DepthChartsResponse struct {
	OK          bool                       `json:"ok"`
	Season      int                        `json:"season"`
	Source      string                     `json:"source,omitempty"`
	LastUpdated int64                      `json:"lastUpdated,omitempty"`
	FetchedAt   string                     `json:"fetchedAt"`
	Teams       map[string]DepthChartSlots `json:"teams,omitempty"`
	Count       int                        `json:"count,omitempty"`
	Rows        []DepthChartRow            `json:"rows,omitempty"`
}
