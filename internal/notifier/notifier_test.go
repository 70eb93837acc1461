package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"MacroSentinel/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleState() *model.DashboardState {
	return &model.DashboardState{
		Indicators: []model.ClassifiedIndicator{
			{ResolvedValue: model.ResolvedValue{Key: "VIX", Value: 40}, Name: "VIX Volatility", Severity: model.SeverityCritical},
			{ResolvedValue: model.ResolvedValue{Key: "KRE", Value: 45.2, Stale: true}, Name: "Regional Banks <KRE>", Severity: model.SeverityCaution},
			{ResolvedValue: model.ResolvedValue{Key: "UNEMPLOYMENT", Value: 4.4}, Severity: model.SeverityNormal},
		},
		CriticalCount: 1,
		StaleCount:    1,
		Level:         model.LevelStable,
		Title:         "STABLE – NORMAL CONDITIONS",
		Message:       "Market conditions remain stable.",
		Recommendation: model.Recommendation{
			Text: "Stay invested", GrowthPct: 80, DefensivePct: 20,
		},
		GeneratedAt: time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC),
	}
}

func TestFormatDashboard(t *testing.T) {
	msg := FormatDashboard(sampleState())
	assert.Contains(t, msg, "STABLE – NORMAL CONDITIONS")
	assert.Contains(t, msg, "2026-03-02 08:00 UTC")
	assert.Contains(t, msg, "🔴 VIX Volatility: 40.00")
	assert.Contains(t, msg, "Regional Banks &lt;KRE&gt;: 45.20 <i>(fallback)</i>")
	assert.Contains(t, msg, "🟢 UNEMPLOYMENT: 4.40")
	assert.Contains(t, msg, "Critical: 1/3 | Fallback: 1")
	assert.Contains(t, msg, "growth 80% / defensive 20%")
}

func TestFormatAlert_OnlyCritical(t *testing.T) {
	msg := FormatAlert(sampleState())
	assert.Contains(t, msg, "VIX Volatility")
	assert.NotContains(t, msg, "KRE")
	assert.NotContains(t, msg, "UNEMPLOYMENT")
}

func newTestNotifier(srv *httptest.Server) *TelegramNotifier {
	tn := NewTelegramNotifier("test-token", "42", "", zerolog.Nop())
	tn.APIBase = srv.URL
	return tn
}

func TestSend(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/bottest-token/sendMessage", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	require.NoError(t, newTestNotifier(srv).Send(context.Background(), "hello"))
	assert.Equal(t, "42", got["chat_id"])
	assert.Equal(t, "hello", got["text"])
	assert.Equal(t, "HTML", got["parse_mode"])
}

func TestSendWithBackoff_RetriesThenSucceeds(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	err := newTestNotifier(srv).sendWithBackoff(context.Background(), "x", 3, time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, int32(3), calls.Load())
}

func TestSendWithBackoff_Exhausted(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	err := newTestNotifier(srv).sendWithBackoff(context.Background(), "x", 2, time.Millisecond)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "all 3 attempts failed")
	assert.Equal(t, int32(3), calls.Load())
}

func TestSend_ErrorDoesNotLeakToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	tn := NewTelegramNotifier("secret-token", "42", "", zerolog.Nop())
	tn.APIBase = url
	err := tn.Send(context.Background(), "x")
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "secret-token")
}

func TestStartPolling_DispatchesCommands(t *testing.T) {
	var sent atomic.Value
	var polls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/getUpdates"):
			if polls.Add(1) == 1 {
				w.Write([]byte(`{"ok":true,"result":[{"update_id":7,"message":{"text":" /status "}}]}`))
				return
			}
			w.Write([]byte(`{"ok":true,"result":[]}`))
		case strings.HasSuffix(r.URL.Path, "/sendMessage"):
			var body map[string]string
			_ = json.NewDecoder(r.Body).Decode(&body)
			sent.Store(body["text"])
			w.Write([]byte(`{"ok":true}`))
		}
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		newTestNotifier(srv).StartPolling(ctx, func(_ context.Context, cmd string) string {
			return "reply to " + cmd
		})
	}()

	require.Eventually(t, func() bool { return sent.Load() != nil }, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, "reply to /status", sent.Load())
	cancel()
	<-done
}

func TestNewTelegramNotifier_BadProxyIsLogged(t *testing.T) {
	var buf bytes.Buffer
	tn := NewTelegramNotifier("t", "1", "://user:secret@proxy", zerolog.New(&buf))

	transport, ok := tn.Client.Transport.(*http.Transport)
	require.True(t, ok)
	assert.Nil(t, transport.Proxy)
	assert.Contains(t, buf.String(), "ignoring unparsable proxy")
	assert.NotContains(t, buf.String(), "secret")
}

func TestPoll_OversizedResponseIsCut(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ok":true,"result":[],"pad":"`))
		w.Write(bytes.Repeat([]byte("x"), 2*maxUpdateBytes))
		w.Write([]byte(`"}`))
	}))
	defer srv.Close()

	tn := newTestNotifier(srv)
	_, err := tn.poll(context.Background(), tn.Client, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode polling response")
}
