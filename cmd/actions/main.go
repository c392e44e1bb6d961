package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"reddit_actions/internal/archive"
	"reddit_actions/internal/config"
	"reddit_actions/internal/executor"
	"reddit_actions/internal/instapaper"
	"reddit_actions/internal/notify"
	"reddit_actions/internal/reddit"
	"reddit_actions/internal/rule"
)

func main() {
	// Missing .env is fine; credentials can come straight from the
	// environment.
	_ = godotenv.Load()

	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	log := newLogger(cfg.LogLevel)

	redditClient := reddit.New(http.DefaultClient, reddit.Credentials{
		ClientID:     cfg.RedditClientID,
		ClientSecret: cfg.RedditClientSecret,
		Username:     cfg.RedditUsername,
		Password:     cfg.RedditPassword,
	}, cfg.UserAgent)

	instaClient := instapaper.New(http.DefaultClient, cfg.InstapaperUser, cfg.InstapaperPass, cfg.UserAgent)
	effect := archive.New(instaClient, log)

	rules := []*rule.Rule{
		archive.NewRule(effect, cfg.Subreddits(), cfg.DryRun, log),
	}

	exec := executor.New(rules, redditClient, cfg.Limit, cfg.DryRun, log)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	log.Info("starting run", "dry_run", cfg.DryRun, "limit", cfg.Limit)

	report, err := exec.Run(ctx)
	if err != nil {
		log.Error("run failed", "error", err)
		os.Exit(1)
	}

	log.Info("run finished", "summary", report.Summary())

	if cfg.NotifyEnabled() {
		notifier, err := notify.NewTelegram(cfg.TelegramBotToken, cfg.TelegramChatID, log)
		if err != nil {
			log.Error("create notifier", "error", err)
			return
		}
		notifier.Notify(report.Summary())
	}
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
