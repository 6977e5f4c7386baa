package assets

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/omarshaarawi/fmvboard/internal/nfl"
)

// LoadOpponent asks the origin's opponent endpoint for one team's opponent in
// the given week. It backfills players whose team the schedule view did not
// cover. Errors surface so callers can decide to tolerate them.
func (c *Client) LoadOpponent(ctx context.Context, season, week int, team string) (string, error) {
	endpoint := fmt.Sprintf("%s/api/opponent?season=%d&week=%d&team=%s", c.origin, season, week, url.QueryEscape(team))

	raw, err := c.get(ctx, endpoint)
	if err != nil {
		return "", err
	}
	if !raw.success() {
		return "", fmt.Errorf("opponent fetch for %s returned status %d", team, raw.status)
	}

	var doc struct {
		Opponent string `json:"opponent"`
		Data     struct {
			Opponent string `json:"opponent"`
		} `json:"data"`
	}
	if err := json.Unmarshal(raw.body, &doc); err != nil {
		return "", fmt.Errorf("decoding opponent for %s: %w", team, err)
	}

	opp := strings.TrimSpace(doc.Opponent)
	if opp == "" {
		opp = strings.TrimSpace(doc.Data.Opponent)
	}
	if opp == "" {
		return "", nil
	}
	return nfl.CanonicalAbbr(opp), nil
}
