package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"MacroSentinel/internal/dashboard"
	"MacroSentinel/internal/model"
	"MacroSentinel/internal/registry"
	"MacroSentinel/internal/strategy"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRenderer struct {
	lastOpts dashboard.Options
	panics   bool
}

func (r *stubRenderer) Render(_ context.Context, opts dashboard.Options) (*model.DashboardState, *model.Trace) {
	if r.panics {
		panic("render exploded")
	}
	r.lastOpts = opts
	defs := registry.Default()
	values := make([]model.ResolvedValue, len(defs))
	for i, d := range defs {
		values[i] = model.ResolvedValue{Key: d.Key, Value: d.Fallback, Stale: true, Err: "offline"}
	}
	state := strategy.Evaluate(defs, values)

	var trace *model.Trace
	if opts.Debug {
		trace = model.NewTrace()
		trace.Add(model.TraceRecord{Time: time.Now(), Tag: "FRED_VIXCLS", HTTPStatus: 503, ErrCode: "PROTOCOL"})
	}
	return state, trace
}

func newTestServer(r Renderer) *Server {
	reg := prometheus.NewRegistry()
	reg.MustRegister(prometheus.NewCounter(prometheus.CounterOpts{Name: "probe_total", Help: "probe"}))
	return New(Config{Host: "127.0.0.1", Port: 0}, r, reg, zerolog.Nop())
}

func do(t *testing.T, s *Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestDashboardJSON(t *testing.T) {
	r := &stubRenderer{}
	rec := do(t, newTestServer(r), "/api/dashboard")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, r.lastOpts.Debug)

	var body struct {
		Indicators []struct {
			Key      string  `json:"key"`
			Value    float64 `json:"value"`
			Stale    bool    `json:"stale"`
			Severity string  `json:"severity"`
		} `json:"indicators"`
		CriticalCount int             `json:"critical_count"`
		Level         string          `json:"level"`
		Trace         json.RawMessage `json:"trace"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Len(t, body.Indicators, 10)
	assert.Equal(t, "JPY_USD", body.Indicators[0].Key)
	assert.True(t, body.Indicators[0].Stale)
	assert.Equal(t, 3, body.CriticalCount)
	assert.Equal(t, "CAUTION", body.Level)
	assert.Nil(t, body.Trace)
}

func TestDashboardJSON_Debug(t *testing.T) {
	r := &stubRenderer{}
	rec := do(t, newTestServer(r), "/api/dashboard?debug=1")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, r.lastOpts.Debug)

	var body struct {
		Trace []model.TraceRecord `json:"trace"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Trace, 1)
	assert.Equal(t, "FRED_VIXCLS", body.Trace[0].Tag)
	assert.Equal(t, 503, body.Trace[0].HTTPStatus)
}

func TestDashboardPage(t *testing.T) {
	rec := do(t, newTestServer(&stubRenderer{}), "/")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")

	html := rec.Body.String()
	assert.Contains(t, html, "CAUTION – BE VIGILANT")
	assert.Contains(t, html, "(fallback)")
	assert.NotContains(t, html, "Upstream trace")
}

func TestDashboardPage_Debug(t *testing.T) {
	rec := do(t, newTestServer(&stubRenderer{}), "/?debug=1")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Upstream trace")
	assert.Contains(t, rec.Body.String(), "FRED_VIXCLS")
}

func TestHealthzAndMetrics(t *testing.T) {
	s := newTestServer(&stubRenderer{})

	rec := do(t, s, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = do(t, s, "/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "probe_total")
}

func TestPanicIsRecovered(t *testing.T) {
	rec := do(t, newTestServer(&stubRenderer{panics: true}), "/api/dashboard")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
