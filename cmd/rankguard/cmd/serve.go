package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/asoguard/rankguard/internal/api"
	"github.com/asoguard/rankguard/internal/config"
	"github.com/asoguard/rankguard/internal/engine"
	"github.com/asoguard/rankguard/internal/itunes"
	"github.com/asoguard/rankguard/internal/notify"
	"github.com/asoguard/rankguard/internal/store"
	"github.com/asoguard/rankguard/pkg/alerting"
	"github.com/asoguard/rankguard/pkg/logger"
	"github.com/asoguard/rankguard/pkg/report"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server and scheduler",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)

	connectCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	st, err := store.NewPostgresStore(connectCtx, cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer st.Close()

	rl := itunes.NewRateLimiter(
		cfg.ITunes.RateLimit.PerSecond,
		cfg.ITunes.RateLimit.Burst,
		cfg.ITunes.RateLimit.DailyLimit,
	)

	lookup := itunes.NewClient(cfg.App.AppID, cfg.App.BundleID,
		itunes.WithSearchURL(cfg.ITunes.SearchURL),
		itunes.WithScanDepth(cfg.ITunes.ScanDepth),
		itunes.WithRetries(cfg.ITunes.Retries),
		itunes.WithHTTPClient(&http.Client{Timeout: cfg.ITunes.Timeout}),
		itunes.WithRateLimiter(rl),
	)

	notifier := buildNotifier(cfg.Notifications, log)

	eng := engine.NewEngine(st, lookup, notifier,
		engine.WithLogger(log),
		engine.WithClassifier(alerting.NewClassifier(cfg.Alerts.Thresholds)),
		engine.WithEnricher(alerting.NewEnricher(cfg.Alerts.ImpactWeights)),
		engine.WithPatternThresholds(cfg.Alerts.PatternThresholds),
		engine.WithFormatter(report.NewFormatter(cfg.Alerts.Caps)),
		engine.WithLookupStagger(cfg.Schedule.LookupStagger),
		engine.WithRetention(
			time.Duration(cfg.Retention.ObservationDays)*24*time.Hour,
			time.Duration(cfg.Retention.AlertDays)*24*time.Hour,
		),
	)

	sched, err := engine.NewScheduler(
		eng,
		cfg.Schedule.TrackingInterval,
		cfg.Schedule.DigestTime,
		cfg.Schedule.PruneInterval,
		log,
	)
	if err != nil {
		return fmt.Errorf("building scheduler: %w", err)
	}
	sched.Start()

	e := api.NewRouter(api.Deps{
		Store:       st,
		Engine:      eng,
		RateLimiter: rl,
		Log:         log,
		Version:     Version,
	})
	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Info("starting server", "addr", addr, "app_id", cfg.App.AppID)

	go func() {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")

	<-sched.Stop().Done()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}

	log.Info("server stopped")
	return nil
}

// buildNotifier assembles the delivery channels from config. With no
// channel enabled, messages are logged instead of sent.
func buildNotifier(cfg config.NotificationsConfig, log *slog.Logger) notify.Notifier {
	var notifiers []notify.Notifier

	if cfg.Telegram.Enabled {
		var opts []notify.TelegramOption
		if cfg.Telegram.APIURL != "" {
			opts = append(opts, notify.WithTelegramAPIURL(cfg.Telegram.APIURL))
		}
		notifiers = append(notifiers,
			notify.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, opts...))
	}
	if cfg.Slack.Enabled {
		notifiers = append(notifiers, notify.NewSlackNotifier(cfg.Slack.WebhookURL))
	}

	switch len(notifiers) {
	case 0:
		return notify.NewNoOpNotifier(log)
	case 1:
		return notifiers[0]
	default:
		return notify.NewMultiNotifier(notifiers...)
	}
}
