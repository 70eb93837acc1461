package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"

	"MacroSentinel/internal/dashboard"
	"MacroSentinel/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRenderer struct {
	mu    sync.Mutex
	calls int
	state model.DashboardState
}

func (f *fakeRenderer) Render(context.Context, dashboard.Options) (*model.DashboardState, *model.Trace) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	st := f.state
	return &st, nil
}

type fakeSender struct {
	sent []string
	err  error
}

func (f *fakeSender) SendWithRetry(_ context.Context, text string, _ int) error {
	f.sent = append(f.sent, text)
	return f.err
}

func stateWith(level model.Level, critical int) model.DashboardState {
	st := model.DashboardState{Level: level, Title: string(level) + " TITLE", CriticalCount: critical}
	for i := 0; i < critical; i++ {
		st.Indicators = append(st.Indicators, model.ClassifiedIndicator{
			ResolvedValue: model.ResolvedValue{Key: "IND", Value: float64(i)},
			Severity:      model.SeverityCritical,
		})
	}
	return st
}

func newTestScheduler(r Renderer, s Sender) *Scheduler {
	return NewScheduler(context.Background(), r, s, zerolog.Nop())
}

func TestReportTask_RendersEachTick(t *testing.T) {
	r := &fakeRenderer{state: stateWith(model.LevelStable, 0)}
	s := &fakeSender{}
	sched := newTestScheduler(r, s)

	sched.RunReportNow()
	sched.RunReportNow()
	assert.Equal(t, 2, r.calls)
	require.Len(t, s.sent, 2)
	assert.Contains(t, s.sent[0], "STABLE TITLE")
}

func TestReportTask_SendFailureIsLogged(t *testing.T) {
	s := &fakeSender{err: errors.New("telegram down")}
	sched := newTestScheduler(&fakeRenderer{state: stateWith(model.LevelStable, 0)}, s)
	assert.NotPanics(t, sched.RunReportNow)
	assert.Len(t, s.sent, 1)
}

func TestAlertTask(t *testing.T) {
	s := &fakeSender{}
	newTestScheduler(&fakeRenderer{state: stateWith(model.LevelStable, 2)}, s).alertTask()
	assert.Empty(t, s.sent)

	newTestScheduler(&fakeRenderer{state: stateWith(model.LevelCaution, 3)}, s).alertTask()
	require.Len(t, s.sent, 1)
	assert.Contains(t, s.sent[0], "CAUTION TITLE")
}

func TestRegisterAll(t *testing.T) {
	sched := newTestScheduler(&fakeRenderer{}, &fakeSender{})
	require.NoError(t, sched.RegisterAll("0 0 8 * * 1-5", ""))
	assert.Len(t, sched.Cron.Entries(), 1)

	require.NoError(t, sched.RegisterAll("", "0 */30 * * * *"))
	assert.Len(t, sched.Cron.Entries(), 2)

	assert.Error(t, sched.RegisterAll("not a cron", ""))
}

func TestHandleCommand(t *testing.T) {
	r := &fakeRenderer{state: stateWith(model.LevelWarning, 5)}
	sched := newTestScheduler(r, &fakeSender{})
	ctx := context.Background()

	assert.Contains(t, sched.HandleCommand(ctx, "/status"), "WARNING TITLE")
	assert.Contains(t, sched.HandleCommand(ctx, "/status@MacroBot"), "WARNING TITLE")
	assert.Contains(t, sched.HandleCommand(ctx, "/alerts"), "🔴")
	assert.Contains(t, sched.HandleCommand(ctx, "hello"), "/status")
	assert.Contains(t, sched.HandleCommand(ctx, ""), "/status")
	assert.Equal(t, 3, r.calls)

	r.state = stateWith(model.LevelStable, 0)
	assert.Equal(t, "No critical indicators.", sched.HandleCommand(ctx, "/alerts"))
}
