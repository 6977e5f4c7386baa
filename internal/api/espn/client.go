// Package espn talks to ESPN's fantasy football v3 API: the authenticated
// league views behind SWID/espn_s2 cookies and the public pro-team schedule
// view. Every call tries the read-optimized host first and falls back to the
// main host unless the caller pins one.
package espn

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/omarshaarawi/fmvboard/internal/models"
)

const (
	HostReads = "lm-api-reads.fantasy.espn.com"
	HostMain  = "fantasy.espn.com"

	// kona payloads with a 5000-player limit run to several megabytes.
	maxBodyBytes = 32 << 20

	snippetLimit = 1200
)

type Client struct {
	httpClient *http.Client
	readsBase  string
	mainBase   string
}

func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 8 * time.Second},
		readsBase:  "https://" + HostReads,
		mainBase:   "https://" + HostMain,
	}
}

// NewClientWithBases points the client at alternate base URLs. Callers keep
// the reads-then-main ordering semantics.
func NewClientWithBases(httpClient *http.Client, readsBase, mainBase string) *Client {
	return &Client{
		httpClient: httpClient,
		readsBase:  strings.TrimSuffix(readsBase, "/"),
		mainBase:   strings.TrimSuffix(mainBase, "/"),
	}
}

type attempt struct {
	base  string
	label string
}

// attempts resolves a host pin ("reads" or "main") to the fallback order.
// Unrecognized pins get the default order.
func (c *Client) attempts(pin string) []attempt {
	reads := attempt{base: c.readsBase, label: "reads"}
	main := attempt{base: c.mainBase, label: "main"}

	switch strings.ToLower(strings.TrimSpace(pin)) {
	case "reads":
		return []attempt{reads}
	case "main":
		return []attempt{main}
	default:
		return []attempt{reads, main}
	}
}

type rawResponse struct {
	status      int
	contentType string
	body        []byte
}

func (r *rawResponse) ok() bool {
	return r.status >= 200 && r.status < 300 &&
		strings.Contains(r.contentType, "application/json") &&
		len(r.body) > 0
}

func (r *rawResponse) snippet() string {
	s := string(r.body)
	if len(s) > snippetLimit {
		return s[:snippetLimit]
	}
	return s
}

func (c *Client) get(ctx context.Context, base, endpoint string, params, headers map[string]string) (*rawResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	q := req.URL.Query()
	for key, value := range params {
		values := strings.Split(value, ",")
		for _, v := range values {
			q.Add(key, strings.TrimSpace(v))
		}
	}
	req.URL.RawQuery = q.Encode()

	req.Header.Set("Accept", "application/json")
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("requesting %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	return &rawResponse{
		status:      resp.StatusCode,
		contentType: resp.Header.Get("Content-Type"),
		body:        body,
	}, nil
}

// UpstreamError means no host returned a usable JSON payload for a league
// fetch. Diag holds the first failed attempt for diagnostic responses.
type UpstreamError struct {
	Diag *models.UpstreamDiag
}

func (e *UpstreamError) Error() string {
	if e.Diag != nil && e.Diag.UpstreamStatus != 0 {
		return fmt.Sprintf("espn: no host returned league JSON (first failure: %s status %d)", e.Diag.HostTried, e.Diag.UpstreamStatus)
	}
	return "espn: no host returned league JSON"
}
