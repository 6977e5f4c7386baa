// Package valuation turns raw ESPN player entries into the normalized,
// enriched records the board serves: positions and teams from the fixed
// tables, projected points picked from the stat rows, then the ECR/DvP joins
// and the FMV number.
package valuation

import (
	"math"

	"github.com/omarshaarawi/fmvboard/internal/models"
)

// SelectProjection picks a stat row for the requested week by a fixed
// priority and reads the first finite value from it. The row is chosen
// first; a matched row with no usable value does not fall through to the
// next priority. Only when no row matches at all does the scan fall back to
// the first row with a finite value.
func SelectProjection(stats []models.PlayerStat, week int) *float64 {
	if row := findRow(stats, week); row != nil {
		return rowValue(*row)
	}

	for _, stat := range stats {
		if v := rowValue(stat); v != nil {
			return v
		}
	}
	return nil
}

func findRow(stats []models.PlayerStat, week int) *models.PlayerStat {
	for i := range stats {
		s := &stats[i]
		if s.ScoringPeriodID == week && s.StatSourceID == 1 && s.StatSplitTypeID == 1 {
			return s
		}
	}
	for i := range stats {
		s := &stats[i]
		if s.ScoringPeriodID == week && s.StatSourceID == 1 {
			return s
		}
	}
	for i := range stats {
		s := &stats[i]
		if s.ScoringPeriodID == week {
			return s
		}
	}

	var latest *models.PlayerStat
	for i := range stats {
		s := &stats[i]
		if s.StatSourceID == 1 && (latest == nil || s.ScoringPeriodID > latest.ScoringPeriodID) {
			latest = s
		}
	}
	return latest
}

// rowValue reads the first finite of the projection fields ESPN scatters
// across stat rows.
func rowValue(stat models.PlayerStat) *float64 {
	candidates := []*float64{
		stat.AppliedTotal,
		stat.AppliedProjectedTotal,
		stat.TotalProjectedPoints,
		stat.AppliedAverage,
		stat.Points,
	}
	for _, candidate := range candidates {
		if candidate != nil && isFinite(*candidate) {
			v := *candidate
			return &v
		}
	}
	return nil
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
