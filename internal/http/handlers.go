package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/omarshaarawi/fmvboard/internal/creds"
	"github.com/omarshaarawi/fmvboard/internal/models"
	"github.com/omarshaarawi/fmvboard/internal/service"
)

func (s *Server) HealthzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "ok")
	}
}

// BoardHandler serves the three read shapes. creds=1 echoes the masked
// credential resolution without touching any upstream.
func (s *Server) BoardHandler(mode models.Mode) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		c := creds.Resolve(r, s.Cfg.ESPN.SWID, s.Cfg.ESPN.ESPNS2)

		if q.Get("creds") == "1" {
			respondJSON(w, http.StatusOK, credsEcho(mode, c))
			return
		}

		req := service.BoardRequest{
			Mode:     mode,
			LeagueID: s.leagueID(q),
			Pos:      q.Get("pos"),
			HostPin:  q.Get("host"),
			Diag:     q.Get("diag") == "1",
			Creds:    c,
		}

		var err error
		if req.Season, err = queryInt(q, "season"); err != nil {
			respondError(w, err)
			return
		}
		if req.Week, err = queryInt(q, "week"); err != nil {
			respondError(w, err)
			return
		}
		if req.TeamID, err = queryIntPtr(q, "teamId"); err != nil {
			respondError(w, err)
			return
		}
		if req.MinProj, err = queryFloatPtr(q, "minProj"); err != nil {
			respondError(w, err)
			return
		}

		resp, err := s.Board.Board(r.Context(), req)
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, resp)
	}
}

func (s *Server) WhoHasHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		req := service.WhoHasRequest{
			LeagueID: s.leagueID(q),
			Query:    q.Get("q"),
			HostPin:  q.Get("host"),
			Diag:     q.Get("diag") == "1",
			Creds:    creds.Resolve(r, s.Cfg.ESPN.SWID, s.Cfg.ESPN.ESPNS2),
		}

		var err error
		if req.Season, err = queryInt(q, "season"); err != nil {
			respondError(w, err)
			return
		}
		if req.Week, err = queryInt(q, "week"); err != nil {
			respondError(w, err)
			return
		}

		resp, err := s.Board.WhoHas(r.Context(), req)
		if err != nil {
			respondError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, resp)
	}
}

// DepthChartsHandler serves the cached season snapshot, optionally narrowed
// to one team or flattened to rows with flat=1.
func (s *Server) DepthChartsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		season, err := queryInt(q, "season")
		if err != nil {
			respondError(w, err)
			return
		}

		var charts *models.DepthCharts
		if team := q.Get("team"); team != "" {
			charts, err = s.DepthCharts.TeamDepthChart(r.Context(), season, team)
		} else {
			charts, err = s.DepthCharts.DepthCharts(r.Context(), season)
		}
		if err != nil {
			respondError(w, err)
			return
		}

		resp := models.DepthChartsResponse{
			OK:        true,
			Season:    charts.Season,
			FetchedAt: time.Now().UTC().Format(time.RFC3339),
		}
		if q.Get("flat") == "1" {
			rows := charts.Rows()
			resp.Count = len(rows)
			resp.Rows = rows
		} else {
			resp.Source = charts.Source
			resp.LastUpdated = charts.LastUpdated
			resp.Teams = charts.Teams
		}
		respondJSON(w, http.StatusOK, resp)
	}
}

// PlayerPointsHandler proxies the FantasyPros weekly points snapshot. The
// surface responds 503 until an API key is configured.
func (s *Server) PlayerPointsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.PlayerPoints.Enabled() {
			respondJSON(w, http.StatusServiceUnavailable, models.ErrorResponse{
				OK:     false,
				Error:  "FANTASYPROS_API_KEY is not configured",
				Status: http.StatusServiceUnavailable,
			})
			return
		}

		q := r.URL.Query()
		season, err := queryInt(q, "season")
		if err != nil {
			respondError(w, err)
			return
		}
		if season == 0 {
			season = time.Now().Year()
		}
		week, err := queryInt(q, "week")
		if err != nil {
			respondError(w, err)
			return
		}

		start, end := 0, 0
		if week > 0 {
			start, end = week, week
		}

		resp, err := s.PlayerPoints.PlayerPoints(r.Context(), season, start, end)
		if err != nil {
			respondError(w, &service.Error{
				Status:  http.StatusBadGateway,
				Message: "player points source unavailable",
				Detail:  err.Error(),
			})
			return
		}
		respondJSON(w, http.StatusOK, resp)
	}
}

// leagueID prefers the query parameter over the configured default.
func (s *Server) leagueID(q url.Values) string {
	if id := q.Get("leagueId"); id != "" {
		return id
	}
	return s.Cfg.ESPN.LeagueID
}

func credsEcho(mode models.Mode, c creds.Credentials) models.CredsResponse {
	return models.CredsResponse{
		OK:   true,
		Mode: mode,
		Creds: models.CredsEcho{
			SWID:   creds.Mask(c.SWID),
			S2:     creds.Mask(c.S2),
			Cookie: c.MaskedCookieHeader(),
			Source: c.Source,
		},
	}
}

func queryInt(q url.Values, name string) (int, error) {
	raw := q.Get(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, service.BadRequest("invalid " + name)
	}
	return n, nil
}

func queryIntPtr(q url.Values, name string) (*int, error) {
	raw := q.Get(name)
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, service.BadRequest("invalid " + name)
	}
	return &n, nil
}

func queryFloatPtr(q url.Values, name string) (*float64, error) {
	raw := q.Get(name)
	if raw == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, service.BadRequest("invalid " + name)
	}
	return &f, nil
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Error("encoding response failed", "error", err)
	}
}

// respondError folds any error into the taxonomy and renders the uniform
// failure envelope.
func respondError(w http.ResponseWriter, err error) {
	e := service.AsError(err)
	respondJSON(w, e.Status, models.ErrorResponse{
		OK:           false,
		Error:        e.Message,
		Detail:       e.Detail,
		Status:       e.Status,
		UpstreamDiag: e.Diag,
	})
}
