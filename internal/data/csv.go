package data

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"dayahead-procurement/internal/model"
)

// Column layout of a Transparency Platform day-ahead price export:
// the first column is the delivery period ("dd/mm/yyyy HH:MM:SS - dd/mm/yyyy
// HH:MM:SS"), the fourth is the price. The columns in between (area, sequence)
// are not needed here.
const (
	exportPeriodColumn = 0
	exportPriceColumn  = 3
	exportPeriodLayout = "02/01/2006 15:04:05"
)

// ReadExportCSV parses an ENTSO-E day-ahead price CSV export into a series.
// Each row's timestamp is the start of its delivery period. Rows with an
// empty price cell (not-yet-published hours) are skipped.
func ReadExportCSV(path, zoneCode string) (model.Series, error) {
	f, err := os.Open(path)
	if err != nil {
		return model.Series{}, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	series := model.Series{Zone: zoneCode}
	line := 0
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return model.Series{}, fmt.Errorf("read %s: %w", path, err)
		}
		line++
		if line == 1 {
			// header
			continue
		}
		if len(record) <= exportPriceColumn {
			return model.Series{}, fmt.Errorf("%s line %d: want at least %d columns, got %d",
				path, line, exportPriceColumn+1, len(record))
		}

		periodStart, _, found := strings.Cut(record[exportPeriodColumn], " - ")
		if !found {
			return model.Series{}, fmt.Errorf("%s line %d: malformed delivery period %q",
				path, line, record[exportPeriodColumn])
		}
		t, err := time.Parse(exportPeriodLayout, strings.TrimSpace(periodStart))
		if err != nil {
			return model.Series{}, fmt.Errorf("%s line %d: %w", path, line, err)
		}

		raw := strings.TrimSpace(record[exportPriceColumn])
		if raw == "" {
			continue
		}
		price, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return model.Series{}, fmt.Errorf("%s line %d: bad price %q: %w", path, line, raw, err)
		}

		series.Points = append(series.Points, model.PricePoint{Time: t.UTC(), Price: price})
	}
	return series, nil
}

// WriteSeriesCSV writes a series as "time,price" rows, RFC3339 timestamps.
// This is the exchange format handed to external plotting.
func WriteSeriesCSV(path string, s model.Series) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"time", "price"}); err != nil {
		return err
	}
	for _, p := range s.Points {
		row := []string{
			p.Time.UTC().Format(time.RFC3339),
			strconv.FormatFloat(p.Price, 'f', 6, 64),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return w.Error()
}

// ReadSeriesCSV reads a "time,price" CSV written by WriteSeriesCSV.
func ReadSeriesCSV(path, zoneCode string) (model.Series, error) {
	f, err := os.Open(path)
	if err != nil {
		return model.Series{}, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return model.Series{}, fmt.Errorf("read %s: %w", path, err)
	}

	series := model.Series{Zone: zoneCode}
	for i, record := range records {
		if i == 0 {
			continue
		}
		if len(record) != 2 {
			return model.Series{}, fmt.Errorf("%s line %d: want time,price", path, i+1)
		}
		t, err := time.Parse(time.RFC3339, record[0])
		if err != nil {
			return model.Series{}, fmt.Errorf("%s line %d: %w", path, i+1, err)
		}
		price, err := strconv.ParseFloat(record[1], 64)
		if err != nil {
			return model.Series{}, fmt.Errorf("%s line %d: %w", path, i+1, err)
		}
		series.Points = append(series.Points, model.PricePoint{Time: t.UTC(), Price: price})
	}
	return series, nil
}
