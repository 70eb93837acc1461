package collector

import (
	"context"
	"net/url"
	"strconv"
	"strings"
)

const DefaultFREDBaseURL = "https://api.stlouisfed.org"

// FRED reads the latest observation of a FRED series.
type FRED struct {
	Client  *Client
	BaseURL string
	APIKey  string
}

func NewFRED(client *Client, baseURL, apiKey string) *FRED {
	if baseURL == "" {
		baseURL = DefaultFREDBaseURL
	}
	return &FRED{Client: client, BaseURL: strings.TrimRight(baseURL, "/"), APIKey: apiKey}
}

type fredObservations struct {
	ErrorMessage string `json:"error_message"`
	Observations []struct {
		Date  string `json:"date"`
		Value any    `json:"value"`
	} `json:"observations"`
}

// Latest returns the newest value of series. The query sorts descending
// with limit=1, so the first observation is the latest. FRED reports
// missing data as ".".
func (f *FRED) Latest(ctx context.Context, series string) (float64, error) {
	q := url.Values{}
	q.Set("series_id", series)
	q.Set("api_key", f.APIKey)
	q.Set("file_type", "json")
	q.Set("sort_order", "desc")
	q.Set("limit", "1")
	endpoint := f.BaseURL + "/fred/series/observations?" + q.Encode()
	tag := "FRED_" + series

	var resp fredObservations
	if err := f.Client.FetchJSON(ctx, endpoint, tag, &resp); err != nil {
		return 0, err
	}
	if resp.ErrorMessage != "" {
		return 0, shapeError(tag, "fred: %s", resp.ErrorMessage)
	}
	if len(resp.Observations) == 0 {
		return 0, shapeError(tag, "no observations")
	}
	v, ok := toFloat(resp.Observations[0].Value)
	if !ok {
		return 0, shapeError(tag, "no value for %s", resp.Observations[0].Date)
	}
	return v, nil
}

// toFloat accepts a JSON number or a numeric string. The FRED "." sentinel,
// empty strings, non-numeric strings, NaN and Inf all report false.
func toFloat(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case string:
		s := strings.TrimSpace(n)
		if s == "" || s == "." {
			return 0, false
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if !finite(f) {
		return 0, false
	}
	return f, true
}
