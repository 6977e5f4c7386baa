package assets

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/omarshaarawi/fmvboard/internal/models"
	"github.com/omarshaarawi/fmvboard/internal/nfl"
)

var utf8BOM = []byte{0xef, 0xbb, 0xbf}

var rankHeaderPattern = regexp.MustCompile(`(?i)rk|player`)

type positionRanks struct {
	pos     string
	week    int
	entries map[string]int
}

// LoadRanks fetches the six positional ranking CSVs concurrently. Each
// position independently backs off from the requested week toward week 1 and
// keeps the first CSV that is accepted. Positions that never succeed carry a
// nil week and contribute no entries; the request proceeds either way.
func (c *Client) LoadRanks(ctx context.Context, season, week int) *models.RanksResult {
	results := make([]positionRanks, len(nfl.Positions))

	var wg sync.WaitGroup
	for i, pos := range nfl.Positions {
		wg.Add(1)
		go func(i int, pos string) {
			defer wg.Done()
			results[i] = c.loadPositionRanks(ctx, season, week, pos)
		}(i, pos)
	}
	wg.Wait()

	out := &models.RanksResult{
		Ranks:     models.RanksMap{},
		UsedByPos: make(map[string]*int, len(nfl.Positions)),
	}

	maxWeek := 0
	for _, r := range results {
		if r.week == 0 {
			out.UsedByPos[r.pos] = nil
			continue
		}
		w := r.week
		out.UsedByPos[r.pos] = &w
		if w > maxWeek {
			maxWeek = w
		}
		for key, rank := range r.entries {
			out.Ranks[key] = rank
		}
	}
	if maxWeek > 0 {
		out.UsedWeek = &maxWeek
	}

	return out
}

func (c *Client) loadPositionRanks(ctx context.Context, season, week int, pos string) positionRanks {
	for w := week; w >= 1; w-- {
		url := fmt.Sprintf("%s/%s/FantasyPros_%d_Week_%d_%s_Rankings.csv", c.origin, c.fpBase, season, w, pos)

		body, accepted := c.fetchCSV(ctx, url)
		if !accepted {
			continue
		}

		return positionRanks{
			pos:     pos,
			week:    w,
			entries: parseRankCSV(body, pos),
		}
	}
	return positionRanks{pos: pos}
}

// fetchCSV applies the acceptance rules: HTTP success, non-empty, not HTML,
// and either a CSV-ish content type or a first line that looks like a
// rankings header.
func (c *Client) fetchCSV(ctx context.Context, url string) ([]byte, bool) {
	raw, err := c.get(ctx, url)
	if err != nil || !raw.success() {
		return nil, false
	}

	body := bytes.TrimPrefix(raw.body, utf8BOM)
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] == '<' {
		return nil, false
	}
	if strings.Contains(raw.contentType, "text/html") {
		return nil, false
	}
	if strings.Contains(raw.contentType, "csv") || strings.Contains(raw.contentType, "text/plain") {
		return body, true
	}

	firstLine := string(trimmed)
	if idx := strings.IndexByte(firstLine, '\n'); idx >= 0 {
		firstLine = firstLine[:idx]
	}
	if strings.Contains(firstLine, ",") && rankHeaderPattern.MatchString(firstLine) {
		return body, true
	}

	return nil, false
}

func parseRankCSV(body []byte, pos string) map[string]int {
	reader := csv.NewReader(bytes.NewReader(body))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil || len(records) < 2 {
		return nil
	}

	rankCol, nameCol := resolveColumns(records[0])

	entries := make(map[string]int, len(records)-1)
	for _, row := range records[1:] {
		if len(row) == 0 {
			continue
		}
		name := ""
		if nameCol < len(row) {
			name = strings.TrimSpace(row[nameCol])
		}
		if name == "" {
			continue
		}
		rank := parseRank(row, rankCol)
		if rank <= 0 {
			continue
		}
		entries[pos+":"+name] = rank
	}
	return entries
}

func resolveColumns(header []string) (rankCol, nameCol int) {
	for i, h := range header {
		cell := strings.ToUpper(strings.TrimSpace(h))
		switch cell {
		case "RK":
			rankCol = i
		case "PLAYER NAME", "PLAYER":
			nameCol = i
		}
	}
	return rankCol, nameCol
}

// parseRank strips non-digits from the RK cell and falls back to a plain
// numeric parse of column 0, matching how the rankings exports drift between
// "1", "1.0" and "1)".
func parseRank(row []string, rankCol int) int {
	if rankCol < len(row) {
		if n := digitsToInt(row[rankCol]); n > 0 {
			return n
		}
	}
	if f, err := strconv.ParseFloat(strings.TrimSpace(row[0]), 64); err == nil && f > 0 {
		return int(f)
	}
	return 0
}

func digitsToInt(cell string) int {
	var digits strings.Builder
	for _, r := range cell {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	if digits.Len() == 0 {
		return 0
	}
	n, err := strconv.Atoi(digits.String())
	if err != nil {
		return 0
	}
	return n
}
