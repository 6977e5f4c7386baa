// Package creds resolves and masks the ESPN authentication cookie pair
// (SWID + espn_s2) from the request and environment fallbacks.
package creds

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
)

// Credentials carries the resolved cookie pair and where it came from.
type Credentials struct {
	SWID   string
	S2     string
	Source string
}

// Resolve walks the fallback chain for each credential: x-espn-* headers,
// then SWID/espn_s2 cookies, then swid/s2 query parameters, then the
// environment values supplied by config.
func Resolve(r *http.Request, envSWID, envS2 string) Credentials {
	swid, swidSrc := firstNonEmpty(
		source{"header", r.Header.Get("x-espn-swid")},
		source{"cookie", cookieValue(r, "SWID")},
		source{"query", r.URL.Query().Get("swid")},
		source{"env", envSWID},
	)
	s2, s2Src := firstNonEmpty(
		source{"header", r.Header.Get("x-espn-s2")},
		source{"cookie", cookieValue(r, "espn_s2")},
		source{"query", r.URL.Query().Get("s2")},
		source{"env", envS2},
	)

	c := Credentials{
		SWID: CanonicalSWID(swid),
		S2:   cleanS2(s2),
	}
	switch {
	case swidSrc == "":
		c.Source = s2Src
	case s2Src == "" || s2Src == swidSrc:
		c.Source = swidSrc
	default:
		c.Source = "mixed"
	}
	return c
}

// FromEnv builds Credentials straight from configured values, for callers
// with no request to resolve against (scheduler, bot, MCP defaults).
func FromEnv(swid, s2 string) Credentials {
	return Credentials{
		SWID:   CanonicalSWID(swid),
		S2:     cleanS2(s2),
		Source: "env",
	}
}

type source struct {
	name  string
	value string
}

func firstNonEmpty(sources ...source) (string, string) {
	for _, s := range sources {
		if strings.TrimSpace(s.value) != "" {
			return s.value, s.name
		}
	}
	return "", ""
}

func cookieValue(r *http.Request, name string) string {
	c, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return c.Value
}

// Complete reports whether both cookies resolved.
func (c Credentials) Complete() bool {
	return c.SWID != "" && c.S2 != ""
}

// CookieHeader renders the outbound Cookie header exactly the way ESPN's web
// client sends it: SWID quoted with braces kept, espn_s2 bare.
func (c Credentials) CookieHeader() string {
	return fmt.Sprintf("SWID=%q; espn_s2=%s", c.SWID, c.S2)
}

// MaskedCookieHeader is the diagnostic-safe rendering of CookieHeader.
func (c Credentials) MaskedCookieHeader() string {
	return fmt.Sprintf("SWID=%s; espn_s2=%s", Mask(c.SWID), Mask(c.S2))
}

// CanonicalSWID normalizes a SWID into the {UPPER-UUID} shape ESPN expects,
// tolerating URL encoding, surrounding quotes, and missing braces.
func CanonicalSWID(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	if unescaped, err := url.QueryUnescape(s); err == nil {
		s = unescaped
	}
	s = strings.Trim(s, `"'`)
	s = strings.TrimPrefix(s, "{")
	s = strings.TrimSuffix(s, "}")
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if u, err := uuid.Parse(s); err == nil {
		return "{" + strings.ToUpper(u.String()) + "}"
	}
	return "{" + strings.ToUpper(s) + "}"
}

// BareGUID strips braces and uppercases, the form ESPN uses in team owner
// lists.
func BareGUID(swid string) string {
	s := strings.TrimSpace(swid)
	s = strings.TrimPrefix(s, "{")
	s = strings.TrimSuffix(s, "}")
	return strings.ToUpper(s)
}

func cleanS2(raw string) string {
	return strings.Trim(strings.TrimSpace(raw), `"'`)
}

// Mask keeps just enough of a secret to recognize it in diagnostics.
func Mask(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 8 {
		return "****"
	}
	return s[:4] + "…" + s[len(s)-4:]
}
