package data

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePublication = `<?xml version="1.0" encoding="UTF-8"?>
<Publication_MarketDocument xmlns="urn:iec62325.351:tc57wg16:451-3:publicationdocument:7:0">
  <TimeSeries>
    <currency_Unit.name>EUR</currency_Unit.name>
    <price_Measure_Unit.name>MWH</price_Measure_Unit.name>
    <Period>
      <timeInterval>
        <start>2025-01-01T00:00Z</start>
        <end>2025-01-01T04:00Z</end>
      </timeInterval>
      <resolution>PT60M</resolution>
      <Point><position>1</position><price.amount>55.10</price.amount></Point>
      <Point><position>2</position><price.amount>48.73</price.amount></Point>
      <Point><position>4</position><price.amount>61.00</price.amount></Point>
    </Period>
  </TimeSeries>
</Publication_MarketDocument>`

const sampleAcknowledgement = `<?xml version="1.0" encoding="UTF-8"?>
<Acknowledgement_MarketDocument xmlns="urn:iec62325.351:tc57wg16:451-1:acknowledgementdocument:7:0">
  <Reason>
    <code>999</code>
    <text>No matching data found</text>
  </Reason>
</Acknowledgement_MarketDocument>`

func testZone() Zone {
	return Zone{Code: "DK_2", Name: "Denmark East", EIC: "10YDK-2--------M"}
}

func TestDayAheadPrices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "test-token", q.Get("securityToken"))
		assert.Equal(t, "A44", q.Get("documentType"))
		assert.Equal(t, "10YDK-2--------M", q.Get("in_Domain"))
		assert.Equal(t, "10YDK-2--------M", q.Get("out_Domain"))
		assert.Equal(t, "202501010000", q.Get("periodStart"))

		w.Header().Set("Content-Type", "application/xml")
		_, _ = w.Write([]byte(samplePublication))
	}))
	defer srv.Close()

	client := NewClient("test-token", srv.URL, nil)
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	series, err := client.DayAheadPrices(context.Background(), testZone(), start, start.Add(4*time.Hour))
	require.NoError(t, err)
	require.Equal(t, 3, series.Len())

	assert.Equal(t, 55.10, series.Points[0].Price)
	assert.Equal(t, start, series.Points[0].Time)
	// Position 3 is absent from the document; position 4 still lands on its
	// own slot, not on the gap.
	assert.Equal(t, start.Add(3*time.Hour), series.Points[2].Time)
	assert.Equal(t, 61.0, series.Points[2].Price)
	require.NoError(t, series.Validate())
}

func TestDayAheadPricesAcknowledgement(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/xml")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(sampleAcknowledgement))
	}))
	defer srv.Close()

	client := NewClient("test-token", srv.URL, nil)
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	_, err := client.DayAheadPrices(context.Background(), testZone(), start, start.Add(time.Hour))
	require.Error(t, err)

	apiErr, ok := err.(*APIError)
	require.True(t, ok, "want *APIError, got %T", err)
	assert.Equal(t, "999", apiErr.Code)
	assert.Contains(t, apiErr.Message, "No matching data")
}

func TestDayAheadPricesUnauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := NewClient("bad-token", srv.URL, nil)
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	_, err := client.DayAheadPrices(context.Background(), testZone(), start, start.Add(time.Hour))
	require.Error(t, err)
	apiErr, ok := err.(*APIError)
	require.True(t, ok)
	assert.Equal(t, "UNAUTHORIZED", apiErr.Code)
}

func TestDayAheadPricesMissingToken(t *testing.T) {
	client := NewClient("", "http://localhost:0", nil)
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	_, err := client.DayAheadPrices(context.Background(), testZone(), start, start.Add(time.Hour))
	require.Error(t, err)
	apiErr, ok := err.(*APIError)
	require.True(t, ok)
	assert.Equal(t, "MISSING_API_KEY", apiErr.Code)
}

func TestDayAheadPricesInvalidRange(t *testing.T) {
	client := NewClient("test-token", "http://localhost:0", nil)
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	_, err := client.DayAheadPrices(context.Background(), testZone(), start, start)
	require.Error(t, err)
}

func TestParseResolution(t *testing.T) {
	for spec, want := range map[string]time.Duration{
		"PT15M": 15 * time.Minute,
		"PT30M": 30 * time.Minute,
		"PT60M": time.Hour,
	} {
		got, err := parseResolution(spec)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := parseResolution("PT7M")
	require.Error(t, err)
}
