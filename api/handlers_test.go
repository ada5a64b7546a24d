package api

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/intraday/backtest"
	"github.com/rustyeddy/intraday/risk"
)

type fakeSource struct {
	report    *backtest.Report
	positions []backtest.Position
}

func (f *fakeSource) Report() *backtest.Report       { return f.report }
func (f *fakeSource) Positions() []backtest.Position { return f.positions }

func newTestServer(t *testing.T) (*httptest.Server, *fakeSource) {
	t.Helper()

	src := &fakeSource{
		report: &backtest.Report{
			Summary: backtest.Summary{InitialCapital: 1_000_000, FinalValue: 1_004_000},
		},
	}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	rm := risk.NewManager(1_000_000, risk.DefaultLimits(), log)

	ts := httptest.NewServer(SetupRoutes(NewHandler(src, rm)))
	t.Cleanup(ts.Close)
	return ts, src
}

func TestHealthCheck(t *testing.T) {
	t.Parallel()

	ts, _ := newTestServer(t)
	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "healthy", body["status"])
}

func TestGetReport(t *testing.T) {
	t.Parallel()

	ts, _ := newTestServer(t)
	resp, err := http.Get(ts.URL + "/api/v1/report")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var report backtest.Report
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&report))
	assert.Equal(t, 1_004_000.0, report.Summary.FinalValue)
}

func TestGetPositions(t *testing.T) {
	t.Parallel()

	ts, src := newTestServer(t)
	src.positions = []backtest.Position{{Symbol: "TCS.NS", Direction: risk.Long, Quantity: 10, EntryPrice: 400}}

	resp, err := http.Get(ts.URL + "/api/v1/positions")
	require.NoError(t, err)
	defer resp.Body.Close()

	var positions []backtest.Position
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&positions))
	require.Len(t, positions, 1)
	assert.Equal(t, "TCS.NS", positions[0].Symbol)
}

func TestGetRisk(t *testing.T) {
	t.Parallel()

	ts, _ := newTestServer(t)
	resp, err := http.Get(ts.URL + "/api/v1/risk")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var report risk.Report
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&report))
	assert.True(t, report.Status.CanTrade)
	assert.Zero(t, report.Metrics.TotalValue, "no open lots")
	assert.Equal(t, 10, report.Limits.MaxDailyTrades)
}

func TestNilDependencies(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(SetupRoutes(NewHandler(nil, nil)))
	t.Cleanup(ts.Close)

	for _, path := range []string{"/api/v1/report", "/api/v1/positions", "/api/v1/risk"} {
		resp, err := http.Get(ts.URL + path)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode, path)
	}
}

func TestUnknownRoute(t *testing.T) {
	t.Parallel()

	ts, _ := newTestServer(t)
	resp, err := http.Get(ts.URL + "/api/v1/nope")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
