package assets

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/omarshaarawi/fmvboard/internal/models"
)

func dvpFrom(t *testing.T, payload string, status int) models.DvpMap {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/dvp", r.URL.Path)
		assert.Equal(t, "2025", r.URL.Query().Get("season"))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		fmt.Fprint(w, payload)
	}))
	defer srv.Close()

	return NewClient(srv.URL, "fp").LoadDvp(context.Background(), 2025)
}

func TestLoadDvpUnwrapsNestedMaps(t *testing.T) {
	wrapped := dvpFrom(t, `{"map": {"NYG|RB": 5, "DAL|WR": 12}}`, http.StatusOK)
	assert.Equal(t, models.DvpMap{"NYG|RB": 5, "DAL|WR": 12}, wrapped)

	data := dvpFrom(t, `{"data": {"KC|QB": 31}}`, http.StatusOK)
	assert.Equal(t, models.DvpMap{"KC|QB": 31}, data)

	bare := dvpFrom(t, `{"PHI|TE": 3}`, http.StatusOK)
	assert.Equal(t, models.DvpMap{"PHI|TE": 3}, bare)
}

func TestLoadDvpToleratesDirtyValues(t *testing.T) {
	got := dvpFrom(t, `{"NYG|RB": "5", "DAL|WR": 11.6, "BAD|X": "n/a", "WORSE|Y": [1]}`, http.StatusOK)
	assert.Equal(t, models.DvpMap{"NYG|RB": 5, "DAL|WR": 12}, got)
}

func TestLoadDvpDegradesToEmpty(t *testing.T) {
	assert.Empty(t, dvpFrom(t, `{"map": {}}`, http.StatusOK))
	assert.Empty(t, dvpFrom(t, `<html>oops</html>`, http.StatusOK))
	assert.Empty(t, dvpFrom(t, `{"NYG|RB": 5}`, http.StatusBadGateway))

	client := NewClient("http://127.0.0.1:0", "fp")
	assert.Empty(t, client.LoadDvp(context.Background(), 2025))
}
