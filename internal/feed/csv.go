package feed

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/jwtly10/pivotbook/internal/types"
)

var ErrOutOfOrder = errors.New("bars out of order")

// Accepted values for the Date column, tried in order.
var dateLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	time.RFC3339,
	"2006-01-02",
}

var columns = []string{"date", "open", "high", "low", "close", "volume"}

// LoadCSV reads bars from a Date,Open,High,Low,Close,Volume file.
func LoadCSV(path string, loc *time.Location) ([]types.Bar, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open bar file: %w", err)
	}
	defer f.Close()

	bars, err := ReadCSV(f, loc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	slog.Info("Loaded bars from CSV", "path", path, "count", len(bars))
	return bars, nil
}

// ReadCSV parses bars from r. The header row is required; column names are
// matched case-insensitively and Adj Close, if present, is ignored.
// Timestamps without a zone are read in loc (UTC when nil). Bars must be in
// non-decreasing time order.
func ReadCSV(r io.Reader, loc *time.Location) ([]types.Bar, error) {
	if loc == nil {
		loc = time.UTC
	}

	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	idx, err := columnIndex(header)
	if err != nil {
		return nil, err
	}

	var bars []types.Bar
	for row := 2; ; row++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}

		bar, err := parseRow(rec, idx, loc)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}
		if n := len(bars); n > 0 && bar.Timestamp.Before(bars[n-1].Timestamp) {
			return nil, fmt.Errorf("row %d: %w: %s after %s", row, ErrOutOfOrder, bar.Timestamp, bars[n-1].Timestamp)
		}
		bars = append(bars, bar)
	}
	return bars, nil
}

func columnIndex(header []string) (map[string]int, error) {
	idx := make(map[string]int, len(columns))
	for i, name := range header {
		idx[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, c := range columns {
		if _, ok := idx[c]; !ok {
			return nil, fmt.Errorf("missing column %q in header %v", c, header)
		}
	}
	return idx, nil
}

func parseRow(rec []string, idx map[string]int, loc *time.Location) (types.Bar, error) {
	ts, err := parseTime(rec[idx["date"]], loc)
	if err != nil {
		return types.Bar{}, err
	}

	var v [5]float64
	for i, c := range columns[1:] {
		raw := strings.TrimSpace(rec[idx[c]])
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return types.Bar{}, fmt.Errorf("failed to parse %s %q: %w", c, raw, err)
		}
		v[i] = f
	}

	return types.Bar{
		Timestamp: ts,
		Open:      v[0],
		High:      v[1],
		Low:       v[2],
		Close:     v[3],
		Volume:    v[4],
	}, nil
}

func parseTime(raw string, loc *time.Location) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("failed to parse date %q", raw)
}
