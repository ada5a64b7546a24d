package marketdata

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rustyeddy/intraday/market"
)

// CSVSource reads daily candles from a directory of per-symbol CSV files.
// Each file is named <symbol>.csv with a header row and columns
// date,open,high,low,close,volume (date formatted 2006-01-02).
type CSVSource struct {
	dir string

	mu    sync.Mutex
	cache map[string]market.Series
}

func NewCSVSource(dir string) *CSVSource {
	return &CSVSource{
		dir:   dir,
		cache: make(map[string]market.Series),
	}
}

func (s *CSVSource) History(ctx context.Context, symbol string, through time.Time) (market.Series, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	series, ok := s.cache[symbol]
	s.mu.Unlock()

	if !ok {
		var err error
		series, err = s.load(symbol)
		if err != nil {
			return nil, err
		}
		s.mu.Lock()
		s.cache[symbol] = series
		s.mu.Unlock()
	}

	return series.Through(through), nil
}

func (s *CSVSource) load(symbol string) (market.Series, error) {
	path := filepath.Join(s.dir, symbol+".csv")
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Missing file is just an empty history.
			return market.Series{}, nil
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = 6

	header := true
	var series market.Series
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		if header {
			header = false
			if strings.EqualFold(rec[0], "date") {
				continue
			}
		}

		c, err := parseRow(rec)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		series = append(series, c)
	}

	sort.Slice(series, func(i, j int) bool { return series[i].Time.Before(series[j].Time) })
	return series, nil
}

func parseRow(rec []string) (market.Candle, error) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(rec[0]))
	if err != nil {
		return market.Candle{}, err
	}
	vals := make([]float64, 5)
	for i := 0; i < 5; i++ {
		vals[i], err = strconv.ParseFloat(strings.TrimSpace(rec[i+1]), 64)
		if err != nil {
			return market.Candle{}, err
		}
	}
	return market.Candle{
		Time:   t,
		Open:   vals[0],
		High:   vals[1],
		Low:    vals[2],
		Close:  vals[3],
		Volume: vals[4],
	}, nil
}
