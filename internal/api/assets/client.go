// Package assets fetches the static companion data the valuation engine
// joins against: weekly FantasyPros positional ranking CSVs and the
// defense-vs-position map, both served from a configurable origin.
package assets

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"
)

const maxBodyBytes = 4 << 20

type Client struct {
	httpClient *http.Client
	origin     string
	fpBase     string
}

func NewClient(origin, fpBase string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 8 * time.Second},
		origin:     strings.TrimSuffix(origin, "/"),
		fpBase:     strings.Trim(fpBase, "/"),
	}
}

type rawResponse struct {
	status      int
	contentType string
	body        []byte
}

func (c *Client) get(ctx context.Context, url string) (*rawResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, err
	}

	return &rawResponse{
		status:      resp.StatusCode,
		contentType: strings.ToLower(resp.Header.Get("Content-Type")),
		body:        body,
	}, nil
}

func (r *rawResponse) success() bool {
	return r.status >= 200 && r.status < 300 && len(r.body) > 0
}
