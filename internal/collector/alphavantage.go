package collector

import (
	"context"
	"net/url"
	"strings"
	"time"
)

const DefaultAlphaVantageBaseURL = "https://www.alphavantage.co"

// AlphaVantage reads FX closes and equity quotes.
type AlphaVantage struct {
	Client  *Client
	BaseURL string
	APIKey  string
}

func NewAlphaVantage(client *Client, baseURL, apiKey string) *AlphaVantage {
	if baseURL == "" {
		baseURL = DefaultAlphaVantageBaseURL
	}
	return &AlphaVantage{Client: client, BaseURL: strings.TrimRight(baseURL, "/"), APIKey: apiKey}
}

// avNotice captures the fields Alpha Vantage returns instead of data when a
// request is throttled or rejected.
type avNotice struct {
	Note         string `json:"Note"`
	Information  string `json:"Information"`
	ErrorMessage string `json:"Error Message"`
}

func (n avNotice) message() string {
	switch {
	case n.ErrorMessage != "":
		return n.ErrorMessage
	case n.Note != "":
		return n.Note
	case n.Information != "":
		return n.Information
	}
	return ""
}

func (a *AlphaVantage) query(ctx context.Context, tag string, params url.Values, dest any) error {
	params.Set("apikey", a.APIKey)
	endpoint := a.BaseURL + "/query?" + params.Encode()
	return a.Client.FetchJSON(ctx, endpoint, tag, dest)
}

// FXDailyClose returns the closing rate of the most recent trading day.
// The latest day is chosen by comparing the date keys, not by their order
// in the response object.
func (a *AlphaVantage) FXDailyClose(ctx context.Context, from, to string) (float64, error) {
	tag := "ALPHA_" + from + to
	params := url.Values{}
	params.Set("function", "FX_DAILY")
	params.Set("from_symbol", from)
	params.Set("to_symbol", to)

	var resp struct {
		avNotice
		Series map[string]map[string]any `json:"Time Series FX (Daily)"`
	}
	if err := a.query(ctx, tag, params, &resp); err != nil {
		return 0, err
	}
	if msg := resp.message(); msg != "" {
		return 0, shapeError(tag, "alphavantage: %s", msg)
	}
	day, ok := latestDate(resp.Series)
	if !ok {
		return 0, shapeError(tag, "no dated entries in series")
	}
	v, ok := toFloat(resp.Series[day]["4. close"])
	if !ok {
		return 0, shapeError(tag, "no close for %s", day)
	}
	return v, nil
}

// GlobalQuotePrice returns the last traded price of symbol.
func (a *AlphaVantage) GlobalQuotePrice(ctx context.Context, symbol string) (float64, error) {
	tag := "ALPHA_" + symbol
	params := url.Values{}
	params.Set("function", "GLOBAL_QUOTE")
	params.Set("symbol", symbol)

	var resp struct {
		avNotice
		Quote map[string]any `json:"Global Quote"`
	}
	if err := a.query(ctx, tag, params, &resp); err != nil {
		return 0, err
	}
	if msg := resp.message(); msg != "" {
		return 0, shapeError(tag, "alphavantage: %s", msg)
	}
	v, ok := toFloat(resp.Quote["05. price"])
	if !ok {
		return 0, shapeError(tag, "no price in quote")
	}
	return v, nil
}

// latestDate returns the greatest YYYY-MM-DD key. Keys that do not parse
// as dates are ignored.
func latestDate[V any](series map[string]V) (string, bool) {
	var (
		best    string
		bestDay time.Time
	)
	for k := range series {
		d, err := time.Parse(time.DateOnly, k)
		if err != nil {
			continue
		}
		if best == "" || d.After(bestDay) {
			best, bestDay = k, d
		}
	}
	return best, best != ""
}
