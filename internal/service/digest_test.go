package service

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDigestTextListsValuedFreeAgents(t *testing.T) {
	espnSrv := httptest.NewServer(espnFixtureHandler())
	defer espnSrv.Close()
	assetsSrv := httptest.NewServer(assetsFixtureHandler())
	defer assetsSrv.Close()

	svc, _ := newBoardService(t, espnSrv.URL, espnSrv.URL, assetsSrv.URL)

	text, err := svc.DigestText(context.Background(), DigestConfig{
		LeagueID: "99881",
		Season:   2025,
		TopN:     5,
		MinProj:  1,
	}, testCreds())
	require.NoError(t, err)

	assert.Contains(t, text, "Week 3 Waiver Targets")
	assert.Contains(t, text, "*J. Doe*")
	assert.Contains(t, text, "FMV: 10")
	assert.Contains(t, text, "vs LAC")
	assert.Contains(t, text, "Rankings from week 2")
}

func TestDigestTextEmptyBoard(t *testing.T) {
	espnSrv := httptest.NewServer(espnFixtureHandler())
	defer espnSrv.Close()
	assetsSrv := httptest.NewServer(emptyAssetsHandler())
	defer assetsSrv.Close()

	svc, _ := newBoardService(t, espnSrv.URL, espnSrv.URL, assetsSrv.URL)

	text, err := svc.DigestText(context.Background(), DigestConfig{
		LeagueID: "99881",
		Season:   2025,
	}, testCreds())
	require.NoError(t, err)

	assert.Contains(t, text, "No valued free agents")
}
