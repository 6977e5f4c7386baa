package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/omarshaarawi/fmvboard/internal/api/espn"
	"github.com/omarshaarawi/fmvboard/internal/poolreport"
	"github.com/spf13/cobra"
)

var (
	leagueID string
	season   int
	week     int
	pos      string
	teamID   int
	minProj  float64
	diag     bool

	outFile   string
	poolSizes []int
)

func init() {
	for _, cmd := range []*cobra.Command{rosterCmd, freeAgentsCmd, allPlayersCmd, whoHasCmd} {
		cmd.Flags().StringVar(&leagueID, "league", "", "ESPN league id (defaults to the server's configured league)")
		cmd.Flags().IntVar(&season, "season", 0, "Season year (0 = current)")
		cmd.Flags().IntVar(&week, "week", 0, "NFL week 1-18 (0 = current)")
		cmd.Flags().BoolVar(&diag, "diag", false, "Include upstream diagnostics on failure")
	}
	for _, cmd := range []*cobra.Command{rosterCmd, freeAgentsCmd, allPlayersCmd} {
		cmd.Flags().StringVar(&pos, "pos", "", "Position filter: QB|RB|WR|TE|K|DST")
	}
	rosterCmd.Flags().IntVar(&teamID, "team-id", 0, "Narrow to one fantasy team id")
	freeAgentsCmd.Flags().Float64Var(&minProj, "min-proj", 0, "Minimum projected points")
	allPlayersCmd.Flags().Float64Var(&minProj, "min-proj", 0, "Minimum projected points")

	depthChartsCmd.Flags().IntVar(&season, "season", 0, "Season year (0 = current)")
	depthChartsCmd.Flags().StringVar(&outFile, "out", "", "Output path (default depth_charts_<season>.json)")

	poolExportCmd.Flags().IntVar(&season, "season", 0, "Season year (0 = current)")
	poolExportCmd.Flags().IntSliceVar(&poolSizes, "sizes", nil, "League sizes to include (default 6,8,10,12,14,16)")
	poolExportCmd.Flags().StringVar(&outFile, "out", "", "Output path (default pool_position_<season>.csv)")

	rootCmd.AddCommand(rosterCmd)
	rootCmd.AddCommand(freeAgentsCmd)
	rootCmd.AddCommand(allPlayersCmd)
	rootCmd.AddCommand(whoHasCmd)
	rootCmd.AddCommand(depthChartsCmd)
	rootCmd.AddCommand(poolExportCmd)
}

var rosterCmd = &cobra.Command{
	Use:   "roster",
	Short: "Fetch the roster board with per-player fair market value",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/api/roster", boardQuery(cmd))
	},
}

var freeAgentsCmd = &cobra.Command{
	Use:   "free-agents",
	Short: "Fetch the free agent board",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/api/free-agents", boardQuery(cmd))
	},
}

var allPlayersCmd = &cobra.Command{
	Use:   "all-players",
	Short: "Fetch the combined rostered-plus-free-agent board",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/api/all-players", boardQuery(cmd))
	},
}

var whoHasCmd = &cobra.Command{
	Use:   "who-has <player name>",
	Short: "Find which fantasy team rosters a player",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		q := boardQuery(cmd)
		q.Set("q", strings.Join(args, " "))
		return performGetRequest("/api/who-has", q)
	},
}

var depthChartsCmd = &cobra.Command{
	Use:   "depth-charts",
	Short: "Build the NFL depth chart snapshot and write it to a JSON file",
	RunE: func(cmd *cobra.Command, args []string) error {
		s := season
		if s == 0 {
			s = time.Now().Year()
		}

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		charts, err := espn.NewSiteClient().DepthCharts(ctx, s)
		if err != nil {
			return fmt.Errorf("building depth charts: %w", err)
		}

		out := outFile
		if out == "" {
			out = fmt.Sprintf("depth_charts_%d.json", s)
		}
		b, err := json.MarshalIndent(charts, "", "  ")
		if err != nil {
			return err
		}
		if err := os.WriteFile(out, b, 0o644); err != nil {
			return err
		}

		fmt.Printf("Wrote %d teams to %s\n", len(charts.Teams), out)
		return nil
	},
}

var poolExportCmd = &cobra.Command{
	Use:   "pool-export",
	Short: "Export pool standings from Postgres to CSV",
	Long: `Reads the pool_position_view Postgres view and writes the standings
CSV. Requires DATABASE_URL (a .env file next to the binary also works).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_ = godotenv.Load()

		s := season
		if s == 0 {
			s = time.Now().Year()
		}

		exporter, err := poolreport.Open(os.Getenv("DATABASE_URL"))
		if err != nil {
			return err
		}
		defer exporter.Close()

		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		rows, err := exporter.Fetch(ctx, s, poolSizes)
		if err != nil {
			return err
		}

		out := outFile
		if out == "" {
			out = fmt.Sprintf("pool_position_%d.csv", s)
		}
		f, err := os.Create(out)
		if err != nil {
			return err
		}
		defer f.Close()

		n, err := poolreport.WriteCSV(f, rows)
		if err != nil {
			return err
		}

		fmt.Printf("Wrote %d rows to %s\n", n, out)
		return nil
	},
}

func boardQuery(cmd *cobra.Command) url.Values {
	q := url.Values{}
	if leagueID != "" {
		q.Set("leagueId", leagueID)
	}
	if season > 0 {
		q.Set("season", strconv.Itoa(season))
	}
	if week > 0 {
		q.Set("week", strconv.Itoa(week))
	}
	if pos != "" {
		q.Set("pos", pos)
	}
	if teamID > 0 {
		q.Set("teamId", strconv.Itoa(teamID))
	}
	if cmd.Flags().Changed("min-proj") {
		q.Set("minProj", strconv.FormatFloat(minProj, 'f', -1, 64))
	}
	if diag {
		q.Set("diag", "1")
	}
	return q
}

func performGetRequest(endpoint string, query url.Values) error {
	u := host + endpoint
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	fmt.Printf("Making request to %s\n", u)

	req, err := http.NewRequest(http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if swid != "" {
		req.Header.Set("x-espn-swid", swid)
	}
	if s2 != "" {
		req.Header.Set("x-espn-s2", s2)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	fmt.Printf("Status Code: %d\n", resp.StatusCode)
	fmt.Println("Response Body:")
	fmt.Println(string(body))

	return nil
}
