package data

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"go.uber.org/zap"

	"dayahead-procurement/internal/model"
)

// Client fetches day-ahead prices from the ENTSO-E Transparency Platform
// REST API (document type A44).
type Client struct {
	APIKey  string
	BaseURL string
	HTTP    *http.Client

	logger *zap.Logger
}

// NewClient creates an ENTSO-E client. If baseURL is empty, the public
// Transparency Platform endpoint is used.
func NewClient(apiKey, baseURL string, logger *zap.Logger) *Client {
	if baseURL == "" {
		baseURL = "https://web-api.tp.entsoe.eu/api"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		APIKey:  apiKey,
		BaseURL: baseURL,
		HTTP:    &http.Client{Timeout: 60 * time.Second},
		logger:  logger,
	}
}

// APIError represents an error response from the Transparency Platform.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("entsoe: %s (code=%s, http=%d)", e.Message, e.Code, e.StatusCode)
}

// publicationDocument is the subset of Publication_MarketDocument we need.
type publicationDocument struct {
	XMLName    xml.Name `xml:"Publication_MarketDocument"`
	TimeSeries []struct {
		Period []struct {
			TimeInterval struct {
				Start string `xml:"start"`
				End   string `xml:"end"`
			} `xml:"timeInterval"`
			Resolution string `xml:"resolution"`
			Point      []struct {
				Position int     `xml:"position"`
				Price    float64 `xml:"price.amount"`
			} `xml:"Point"`
		} `xml:"Period"`
	} `xml:"TimeSeries"`
}

// acknowledgementDocument is returned instead of a publication when the
// request is rejected or the range holds no data.
type acknowledgementDocument struct {
	XMLName xml.Name `xml:"Acknowledgement_MarketDocument"`
	Reason  struct {
		Code string `xml:"code"`
		Text string `xml:"text"`
	} `xml:"Reason"`
}

// DayAheadPrices fetches the day-ahead price series for one bidding zone over
// [start, end). Periods from all returned TimeSeries are merged, sorted and
// de-duplicated (DST switchovers produce overlapping periods).
func (c *Client) DayAheadPrices(ctx context.Context, zone Zone, start, end time.Time) (model.Series, error) {
	if c.APIKey == "" {
		return model.Series{}, &APIError{Code: "MISSING_API_KEY", Message: "security token is required"}
	}
	if !start.Before(end) {
		return model.Series{}, fmt.Errorf("entsoe: start %s must be before end %s", start, end)
	}

	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return model.Series{}, fmt.Errorf("entsoe: invalid base URL: %w", err)
	}
	q := u.Query()
	q.Set("securityToken", c.APIKey)
	q.Set("documentType", "A44")
	q.Set("in_Domain", zone.EIC)
	q.Set("out_Domain", zone.EIC)
	q.Set("periodStart", start.UTC().Format("200601021504"))
	q.Set("periodEnd", end.UTC().Format("200601021504"))
	u.RawQuery = q.Encode()

	c.logger.Debug("requesting day-ahead prices",
		zap.String("zone", zone.Code),
		zap.Time("start", start),
		zap.Time("end", end))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return model.Series{}, fmt.Errorf("entsoe: build request: %w", err)
	}

	began := time.Now()
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return model.Series{}, fmt.Errorf("entsoe: execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return model.Series{}, fmt.Errorf("entsoe: read response: %w", err)
	}

	c.logger.Debug("day-ahead response",
		zap.String("zone", zone.Code),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(began)),
		zap.Int("bytes", len(body)))

	var ack acknowledgementDocument
	if xml.Unmarshal(body, &ack) == nil && ack.XMLName.Local == "Acknowledgement_MarketDocument" {
		return model.Series{}, &APIError{
			StatusCode: resp.StatusCode,
			Code:       ack.Reason.Code,
			Message:    ack.Reason.Text,
		}
	}
	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized, http.StatusForbidden:
		return model.Series{}, &APIError{
			StatusCode: resp.StatusCode,
			Code:       "UNAUTHORIZED",
			Message:    "invalid or unauthorized security token",
		}
	case http.StatusTooManyRequests:
		return model.Series{}, &APIError{
			StatusCode: resp.StatusCode,
			Code:       "RATE_LIMIT_EXCEEDED",
			Message:    "rate limit exceeded",
		}
	default:
		return model.Series{}, &APIError{
			StatusCode: resp.StatusCode,
			Code:       "API_ERROR",
			Message:    fmt.Sprintf("unexpected status %d", resp.StatusCode),
		}
	}

	var doc publicationDocument
	if err := xml.Unmarshal(body, &doc); err != nil {
		return model.Series{}, fmt.Errorf("entsoe: decode publication document: %w", err)
	}
	return decodePublication(zone.Code, &doc)
}

func decodePublication(zoneCode string, doc *publicationDocument) (model.Series, error) {
	byTime := map[int64]float64{}
	for _, ts := range doc.TimeSeries {
		for _, period := range ts.Period {
			start, err := parseInterval(period.TimeInterval.Start)
			if err != nil {
				return model.Series{}, err
			}
			step, err := parseResolution(period.Resolution)
			if err != nil {
				return model.Series{}, err
			}
			for _, pt := range period.Point {
				if pt.Position < 1 {
					return model.Series{}, fmt.Errorf("entsoe: invalid point position %d", pt.Position)
				}
				t := start.Add(time.Duration(pt.Position-1) * step)
				byTime[t.Unix()] = pt.Price
			}
		}
	}

	series := model.Series{Zone: zoneCode}
	keys := make([]int64, 0, len(byTime))
	for k := range byTime {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	for _, k := range keys {
		series.Points = append(series.Points, model.PricePoint{
			Time:  time.Unix(k, 0).UTC(),
			Price: byTime[k],
		})
	}
	return series, nil
}

func parseInterval(s string) (time.Time, error) {
	// The platform stamps intervals like "2025-01-01T23:00Z".
	for _, layout := range []string{"2006-01-02T15:04Z", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("entsoe: unparseable interval start %q", s)
}

func parseResolution(s string) (time.Duration, error) {
	switch s {
	case "PT15M":
		return 15 * time.Minute, nil
	case "PT30M":
		return 30 * time.Minute, nil
	case "PT60M", "PT1H":
		return time.Hour, nil
	case "P1D":
		return 24 * time.Hour, nil
	default:
		return 0, fmt.Errorf("entsoe: unsupported resolution %q", s)
	}
}
