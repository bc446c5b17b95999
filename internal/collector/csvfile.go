package collector

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"TrendSentinel/internal/model"
)

var barHeader = []string{"date", "open", "high", "low", "close", "adj_close", "volume"}

// FileFetcher serves bars from a local OHLCV CSV file, for offline runs and
// for replaying a cached download.
type FileFetcher struct {
	Path string
}

func (f *FileFetcher) Name() string { return "csv" }

func (f *FileFetcher) FetchDailyBars(_ context.Context, _ string, start, end time.Time) ([]model.Bar, error) {
	bars, err := ReadBarsCSV(f.Path)
	if err != nil {
		return nil, err
	}
	return clipBars(bars, start, end), nil
}

// ReadBarsCSV loads a bar series from a CSV file with the columns
// date,open,high,low,close,adj_close,volume.
func ReadBarsCSV(path string) ([]model.Bar, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open bars csv: %w", err)
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read bars csv %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("bars csv %s is empty", path)
	}
	if len(records[0]) < len(barHeader) || records[0][0] != barHeader[0] {
		return nil, fmt.Errorf("bars csv %s: unexpected header %v", path, records[0])
	}

	bars := make([]model.Bar, 0, len(records)-1)
	for _, rec := range records[1:] {
		if len(rec) < len(barHeader) {
			return nil, fmt.Errorf("bars csv %s: short row %v", path, rec)
		}
		date, err := time.ParseInLocation("2006-01-02", rec[0], time.UTC)
		if err != nil {
			return nil, fmt.Errorf("bars csv %s: parse date %q: %w", path, rec[0], err)
		}
		vals := make([]float64, 6)
		for i := 0; i < 6; i++ {
			v, err := strconv.ParseFloat(rec[i+1], 64)
			if err != nil {
				return nil, fmt.Errorf("bars csv %s: parse %q on %s: %w", path, rec[i+1], rec[0], err)
			}
			vals[i] = v
		}
		bars = append(bars, model.Bar{
			Date:     date,
			Open:     vals[0],
			High:     vals[1],
			Low:      vals[2],
			Close:    vals[3],
			AdjClose: vals[4],
			Volume:   vals[5],
		})
	}
	return bars, nil
}

// WriteBarsCSV stores a bar series in the format ReadBarsCSV loads.
func WriteBarsCSV(path string, bars []model.Bar) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create bars csv: %w", err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.Write(barHeader); err != nil {
		return err
	}
	for _, b := range bars {
		rec := []string{
			b.Date.Format("2006-01-02"),
			strconv.FormatFloat(b.Open, 'g', -1, 64),
			strconv.FormatFloat(b.High, 'g', -1, 64),
			strconv.FormatFloat(b.Low, 'g', -1, 64),
			strconv.FormatFloat(b.Close, 'g', -1, 64),
			strconv.FormatFloat(b.AdjClose, 'g', -1, 64),
			strconv.FormatFloat(b.Volume, 'g', -1, 64),
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
