package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"MacroSentinel/internal/collector"
	"MacroSentinel/internal/config"
	"MacroSentinel/internal/dashboard"
	"MacroSentinel/internal/logger"
	"MacroSentinel/internal/metrics"
	"MacroSentinel/internal/notifier"
	"MacroSentinel/internal/registry"
	"MacroSentinel/internal/scheduler"
	"MacroSentinel/internal/server"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Load config
	cfgPath := config.DefaultPath
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("config validation")
	}

	lg, err := logger.New(cfg.Log)
	if err != nil {
		log.Fatal().Err(err).Msg("init logger")
	}
	lg.Info().Str("config", cfgPath).Msg("MacroSentinel starting")

	// Indicator catalogue
	reg, err := registry.Load(registry.Default())
	if err != nil {
		var cerr *registry.ConfigurationError
		if errors.As(err, &cerr) {
			lg.Fatal().Str("indicator", cerr.Key).Str("reason", cerr.Reason).Msg("invalid indicator catalogue")
		}
		lg.Fatal().Err(err).Msg("load registry")
	}
	for _, w := range reg.Warnings() {
		lg.Warn().Str("detail", w).Msg("indicator thresholds inconsistent with kind")
	}
	lg.Info().Int("indicators", reg.Len()).Msg("registry loaded")

	// Metrics
	promReg := prometheus.NewRegistry()
	promReg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	rec := metrics.New(promReg)

	// Providers
	client := collector.NewClient(collector.ClientConfig{
		ConnectTimeout: cfg.HTTP.ConnectTimeout,
		Timeout:        cfg.HTTP.Timeout,
		UserAgent:      cfg.HTTP.UserAgent,
		Proxy:          cfg.Proxy,
	}, lg)
	client.Observer = rec
	sources := collector.NewSources(
		collector.NewFRED(client, cfg.Providers.FRED.BaseURL, cfg.Providers.FRED.APIKey),
		collector.NewAlphaVantage(client, cfg.Providers.AlphaVantage.BaseURL, cfg.Providers.AlphaVantage.APIKey),
	)
	lg.Info().Str("fetcher", sources.Name()).Msg("data sources ready")

	col := collector.NewCollector(sources, cfg.Render.ResolveTimeout, cfg.Render.Concurrency, lg)
	svc := dashboard.NewService(reg, col, rec, cfg.Render.Deadline, lg)

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	srv := server.New(server.Config{
		Host:            cfg.Server.Host,
		Port:            cfg.Server.Port,
		ReadTimeout:     cfg.Server.ReadTimeout,
		WriteTimeout:    cfg.Server.WriteTimeout,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	}, svc, promReg, lg)
	srv.Start()

	if cfg.TelegramEnabled() {
		startTelegram(ctx, cfg, svc, lg)
	} else {
		lg.Info().Msg("telegram not configured, reports disabled")
	}

	lg.Info().Msg("MacroSentinel is running. Press Ctrl+C to stop.")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	lg.Info().Msg("shutdown signal received, stopping...")
	cancel()
	if err := srv.Stop(context.Background()); err != nil {
		lg.Error().Err(err).Msg("http shutdown")
	}
	lg.Info().Msg("MacroSentinel stopped")
}

func startTelegram(ctx context.Context, cfg *config.Config, svc *dashboard.Service, lg zerolog.Logger) {
	tn := notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy, lg)

	sched := scheduler.NewScheduler(ctx, svc, tn, lg)
	if err := sched.RegisterAll(cfg.Schedule.ReportCron, cfg.Schedule.AlertCron); err != nil {
		lg.Fatal().Err(err).Msg("register cron tasks")
	}
	sched.Start()
	go func() {
		<-ctx.Done()
		sched.Stop()
	}()

	go tn.StartPolling(ctx, sched.HandleCommand)
	lg.Info().Msg("telegram polling started")

	if os.Getenv("RUN_ON_START") == "true" {
		lg.Info().Msg("RUN_ON_START enabled, sending report now")
		go sched.RunReportNow()
	}
}
