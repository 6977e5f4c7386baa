package assets

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"github.com/omarshaarawi/fmvboard/internal/models"
)

// LoadDvp fetches the defense-vs-position map. Every failure mode degrades
// to an empty map; the valuation engine treats missing keys as null ranks.
func (c *Client) LoadDvp(ctx context.Context, season int) models.DvpMap {
	url := fmt.Sprintf("%s/api/dvp?season=%d", c.origin, season)

	raw, err := c.get(ctx, url)
	if err != nil || !raw.success() {
		return models.DvpMap{}
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(raw.body, &doc); err != nil {
		return models.DvpMap{}
	}

	// the payload nests the map under "map" or "data" depending on which
	// exporter produced it; older dumps are the bare map
	for _, key := range []string{"map", "data"} {
		if nested, found := doc[key]; found {
			var inner map[string]json.RawMessage
			if err := json.Unmarshal(nested, &inner); err == nil {
				doc = inner
				break
			}
		}
	}

	out := make(models.DvpMap, len(doc))
	for key, value := range doc {
		if rank, ok := numericRank(value); ok {
			out[key] = rank
		}
	}
	return out
}

// numericRank accepts both JSON numbers and numeric strings, dropping
// anything else.
func numericRank(raw json.RawMessage) (int, bool) {
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return int(math.Round(f)), true
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return int(math.Round(f)), true
		}
	}

	return 0, false
}
