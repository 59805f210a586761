package data

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleExport = `"MTU (CET/CEST)","Area","Sequence","Day-ahead Price (EUR/MWh)"
"01/01/2025 00:00:00 - 01/01/2025 01:00:00","BZN|DK2","1","55.10"
"01/01/2025 01:00:00 - 01/01/2025 02:00:00","BZN|DK2","1","48.73"
"01/01/2025 02:00:00 - 01/01/2025 03:00:00","BZN|DK2","1","-3.20"
"01/01/2025 03:00:00 - 01/01/2025 04:00:00","BZN|DK2","1",""
`

func writeTempFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestReadExportCSV(t *testing.T) {
	path := writeTempFile(t, "export.csv", sampleExport)

	series, err := ReadExportCSV(path, "DK_2")
	require.NoError(t, err)
	require.Equal(t, 3, series.Len(), "unpublished hour must be skipped")

	assert.Equal(t, "DK_2", series.Zone)
	assert.Equal(t, 55.10, series.Points[0].Price)
	assert.Equal(t, -3.20, series.Points[2].Price)
	assert.Equal(t,
		time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		series.Points[0].Time)
	require.NoError(t, series.Validate())
}

func TestReadExportCSVMalformedPeriod(t *testing.T) {
	path := writeTempFile(t, "bad.csv", `"MTU","Area","Sequence","Price"
"01/01/2025 00:00:00","BZN|DK2","1","55.10"
`)
	_, err := ReadExportCSV(path, "DK_2")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "delivery period")
}

func TestReadExportCSVBadPrice(t *testing.T) {
	path := writeTempFile(t, "bad.csv", `"MTU","Area","Sequence","Price"
"01/01/2025 00:00:00 - 01/01/2025 01:00:00","BZN|DK2","1","n/a"
`)
	_, err := ReadExportCSV(path, "DK_2")
	require.Error(t, err)
}

func TestSeriesCSVRoundTrip(t *testing.T) {
	exportPath := writeTempFile(t, "export.csv", sampleExport)
	series, err := ReadExportCSV(exportPath, "DK_2")
	require.NoError(t, err)

	outPath := filepath.Join(t.TempDir(), "series.csv")
	require.NoError(t, WriteSeriesCSV(outPath, series))

	back, err := ReadSeriesCSV(outPath, "DK_2")
	require.NoError(t, err)
	assert.Equal(t, series, back)
}
