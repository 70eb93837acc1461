package scheduler

import (
	"context"
	"fmt"
	"strings"

	"MacroSentinel/internal/dashboard"
	"MacroSentinel/internal/model"
	"MacroSentinel/internal/notifier"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Renderer produces one dashboard state per call. *dashboard.Service satisfies it.
type Renderer interface {
	Render(ctx context.Context, opts dashboard.Options) (*model.DashboardState, *model.Trace)
}

// Sender delivers a formatted message. *notifier.TelegramNotifier satisfies it.
type Sender interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

const sendRetries = 3

// Scheduler manages all cron tasks.
type Scheduler struct {
	Cron     *cron.Cron
	Renderer Renderer
	Sender   Sender
	Ctx      context.Context
	lg       zerolog.Logger
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, r Renderer, s Sender, lg zerolog.Logger) *Scheduler {
	return &Scheduler{
		Cron:     cron.New(cron.WithSeconds()),
		Renderer: r,
		Sender:   s,
		Ctx:      ctx,
		lg:       lg.With().Str("module", "scheduler").Logger(),
	}
}

// RegisterAll registers the report and alert tasks. An empty cron expression skips its task.
func (s *Scheduler) RegisterAll(reportCron, alertCron string) error {
	if reportCron != "" {
		if _, err := s.Cron.AddFunc(reportCron, s.reportTask); err != nil {
			return fmt.Errorf("register report task: %w", err)
		}
	}
	if alertCron != "" {
		if _, err := s.Cron.AddFunc(alertCron, s.alertTask); err != nil {
			return fmt.Errorf("register alert task: %w", err)
		}
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.lg.Info().Int("jobs", len(s.Cron.Entries())).Msg("scheduler started")
}

// Stop stops the cron scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.lg.Info().Msg("scheduler stopped")
}

// RunReportNow executes the report task immediately.
func (s *Scheduler) RunReportNow() {
	s.reportTask()
}

// reportTask renders a fresh dashboard and pushes it.
func (s *Scheduler) reportTask() {
	s.lg.Info().Msg("running report task")
	state, _ := s.Renderer.Render(s.Ctx, dashboard.Options{})
	s.trySend(notifier.FormatDashboard(state))
}

// alertTask pushes only when the level is above stable.
func (s *Scheduler) alertTask() {
	state, _ := s.Renderer.Render(s.Ctx, dashboard.Options{})
	if state.Level == model.LevelStable {
		s.lg.Debug().Int("critical", state.CriticalCount).Msg("stable, no alert")
		return
	}
	s.lg.Info().Str("risk_level", string(state.Level)).Msg("sending alert")
	s.trySend(notifier.FormatAlert(state))
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(ctx context.Context, command string) string {
	var cmd string
	if fields := strings.Fields(command); len(fields) > 0 {
		// "/status@MyBot" in group chats
		cmd, _, _ = strings.Cut(fields[0], "@")
	}
	switch cmd {
	case "/status":
		state, _ := s.Renderer.Render(ctx, dashboard.Options{})
		return notifier.FormatDashboard(state)
	case "/alerts":
		state, _ := s.Renderer.Render(ctx, dashboard.Options{})
		if state.CriticalCount == 0 {
			return "No critical indicators."
		}
		return notifier.FormatAlert(state)
	default:
		return notifier.FormatHelp()
	}
}

func (s *Scheduler) trySend(text string) {
	if err := s.Sender.SendWithRetry(s.Ctx, text, sendRetries); err != nil {
		s.lg.Error().Err(err).Msg("send notification")
	}
}
