// Package poolreport exports historical league standings from the
// pool_position_view Postgres view into the standings CSV consumed by the
// pool tooling.
package poolreport

import (
	"context"
	"database/sql"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/lib/pq"
)

// DefaultSizes covers the league sizes the pool tracks.
var DefaultSizes = []int{6, 8, 10, 12, 14, 16}

// csvHeader is the fixed column order of the export.
var csvHeader = []string{
	"season",
	"leagueId",
	"teamId",
	"teamName",
	"leagueName",
	"leagueSize",
	"weekPts",
	"seasonPts",
	"rank",
	"powerRank",
	"owner",
	"logo",
}

const selectPoolPositions = `
SELECT
  season,
  league_id,
  team_id,
  team_name,
  league_name,
  league_size,
  COALESCE(week_pts, 0)   AS week_pts,
  COALESCE(season_pts, 0) AS season_pts,
  rank,
  COALESCE(power_rank, 0) AS power_rank,
  COALESCE(owner, '')     AS owner,
  COALESCE(logo,  '')     AS logo
FROM pool_position_view
WHERE season = $1
  AND league_size = ANY($2)
ORDER BY league_size, season DESC, season_pts DESC, week_pts DESC`

// Row is one standings line. Rank stays nullable because the view leaves it
// unset for leagues that have not been ranked yet.
type Row struct {
	Season     int
	LeagueID   string
	TeamID     string
	TeamName   string
	LeagueName string
	LeagueSize int
	WeekPts    float64
	SeasonPts  float64
	Rank       *int
	PowerRank  float64
	Owner      string
	Logo       string
}

// Exporter reads the pool position view over a single connection pool.
type Exporter struct {
	db *sql.DB
}

// Open connects to Postgres using a DATABASE_URL style DSN and verifies the
// connection before returning.
func Open(databaseURL string) (*Exporter, error) {
	if databaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("opening postgres connection: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging postgres: %w", err)
	}

	return &Exporter{db: db}, nil
}

func (e *Exporter) Close() error {
	return e.db.Close()
}

// Fetch returns the standings for a season across the given league sizes.
func (e *Exporter) Fetch(ctx context.Context, season int, sizes []int) ([]Row, error) {
	if len(sizes) == 0 {
		sizes = DefaultSizes
	}

	rows, err := e.db.QueryContext(ctx, selectPoolPositions, season, pq.Array(sizes))
	if err != nil {
		return nil, fmt.Errorf("querying pool_position_view: %w", err)
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		var (
			row        Row
			teamName   sql.NullString
			leagueName sql.NullString
			rank       sql.NullInt64
		)
		if err := rows.Scan(
			&row.Season,
			&row.LeagueID,
			&row.TeamID,
			&teamName,
			&leagueName,
			&row.LeagueSize,
			&row.WeekPts,
			&row.SeasonPts,
			&rank,
			&row.PowerRank,
			&row.Owner,
			&row.Logo,
		); err != nil {
			return nil, fmt.Errorf("scanning pool position row: %w", err)
		}
		shapeRow(&row, teamName, leagueName, rank)
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading pool position rows: %w", err)
	}
	return out, nil
}

// shapeRow applies the export fallbacks: unnamed teams become "Team",
// unnamed leagues become "League", and a missing rank stays empty.
func shapeRow(row *Row, teamName, leagueName sql.NullString, rank sql.NullInt64) {
	row.TeamName = teamName.String
	if row.TeamName == "" {
		row.TeamName = "Team"
	}
	row.LeagueName = leagueName.String
	if row.LeagueName == "" {
		row.LeagueName = "League"
	}
	if rank.Valid {
		value := int(rank.Int64)
		row.Rank = &value
	}
}

// WriteCSV writes the header and rows and reports how many rows it wrote.
func WriteCSV(w io.Writer, rows []Row) (int, error) {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return 0, fmt.Errorf("writing header: %w", err)
	}

	count := 0
	for _, row := range rows {
		rank := ""
		if row.Rank != nil {
			rank = strconv.Itoa(*row.Rank)
		}
		record := []string{
			strconv.Itoa(row.Season),
			row.LeagueID,
			row.TeamID,
			row.TeamName,
			row.LeagueName,
			strconv.Itoa(row.LeagueSize),
			formatPoints(row.WeekPts),
			formatPoints(row.SeasonPts),
			rank,
			formatPoints(row.PowerRank),
			row.Owner,
			row.Logo,
		}
		if err := cw.Write(record); err != nil {
			return count, fmt.Errorf("writing row: %w", err)
		}
		count++
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return count, fmt.Errorf("flushing csv: %w", err)
	}
	return count, nil
}

func formatPoints(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
