package journal

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
)

func newTestSQLite(t *testing.T) (*SQLiteJournal, string) {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "test.db")

	j, err := NewSQLite(path)
	assert.NoError(t, err)

	return j, path
}

func TestSQLiteSchemaCreated(t *testing.T) {
	t.Parallel()

	j, path := newTestSQLite(t)
	assert.NoError(t, j.Close())

	db, err := sql.Open("sqlite3", path)
	assert.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	rows, err := db.Query(`SELECT name FROM sqlite_master WHERE type='table' AND name IN ('trades','equity')`)
	assert.NoError(t, err)
	defer rows.Close()

	found := map[string]bool{}
	for rows.Next() {
		var name string
		assert.NoError(t, rows.Scan(&name))
		found[name] = true
	}
	assert.NoError(t, rows.Err())

	assert.True(t, found["trades"])
	assert.True(t, found["equity"])
}

func TestSQLiteRecordAndGetTrade(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	t.Cleanup(func() { _ = j.Close() })

	ts := time.Date(2024, 1, 2, 15, 25, 0, 0, time.UTC)
	rec := TradeRecord{
		TradeID:   "T1",
		Date:      ts,
		Symbol:    "RELIANCE",
		Action:    "SELL",
		Direction: "LONG",
		Quantity:  100,
		Price:     520,
		Value:     52000,
		PnL:       2000,
		Reason:    "take profit",
	}

	assert.NoError(t, j.RecordTrade(rec))

	got, err := j.GetTrade("T1")
	assert.NoError(t, err)
	assert.Equal(t, rec.TradeID, got.TradeID)
	assert.Equal(t, rec.Symbol, got.Symbol)
	assert.Equal(t, rec.Action, got.Action)
	assert.Equal(t, rec.Direction, got.Direction)
	assert.Equal(t, rec.Quantity, got.Quantity)
	assert.True(t, got.Date.Equal(rec.Date))
	assert.InDelta(t, rec.Price, got.Price, 1e-9)
	assert.InDelta(t, rec.Value, got.Value, 1e-6)
	assert.InDelta(t, rec.PnL, got.PnL, 1e-6)
	assert.Equal(t, rec.Reason, got.Reason)

	_, err = j.GetTrade("missing")
	assert.Error(t, err)
}

func TestSQLiteListTradesBetween(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	t.Cleanup(func() { _ = j.Close() })

	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		err := j.RecordTrade(TradeRecord{
			TradeID: string(rune('A' + i)),
			Date:    base.AddDate(0, 0, i),
			Symbol:  "TCS",
			Action:  "BUY",
		})
		assert.NoError(t, err)
	}

	got, err := j.ListTradesBetween(base, base.AddDate(0, 0, 2))
	assert.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, "A", got[0].TradeID)
	assert.Equal(t, "B", got[1].TradeID)
}

func TestSQLiteRecordEquity(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	t.Cleanup(func() { _ = j.Close() })

	ts := time.Date(2024, 2, 3, 15, 30, 0, 0, time.UTC)
	rec := EquitySnapshot{
		Time:          ts,
		Cash:          950000,
		Equity:        1002000,
		OpenPositions: 2,
	}

	assert.NoError(t, j.RecordEquity(rec))

	got, err := j.ListEquityBetween(ts.Add(-time.Hour), ts.Add(time.Hour))
	assert.NoError(t, err)
	assert.Len(t, got, 1)
	assert.True(t, got[0].Time.Equal(ts))
	assert.InDelta(t, rec.Cash, got[0].Cash, 1e-6)
	assert.InDelta(t, rec.Equity, got[0].Equity, 1e-6)
	assert.Equal(t, rec.OpenPositions, got[0].OpenPositions)
}
