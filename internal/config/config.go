// Package config handles application configuration from environment
// variables and command-line flags.
package config

import (
	"fmt"
	"strings"

	"github.com/jessevdk/go-flags"
)

// Config holds the application configuration. Credentials come from the
// environment; behavior switches can also be passed as flags.
type Config struct {
	RedditClientID     string `long:"reddit-client-id" env:"REDDIT_CLIENT_ID" description:"Reddit script app client ID" required:"true"`
	RedditClientSecret string `long:"reddit-client-secret" env:"REDDIT_CLIENT_SECRET" description:"Reddit script app client secret" required:"true"`
	RedditUsername     string `long:"reddit-username" env:"REDDIT_USERNAME" description:"Reddit account username" required:"true"`
	RedditPassword     string `long:"reddit-password" env:"REDDIT_PASSWORD" description:"Reddit account password" required:"true"`
	InstapaperUser     string `long:"instapaper-user" env:"INSTAPAPER_USER" description:"Instapaper account email" required:"true"`
	InstapaperPass     string `long:"instapaper-pass" env:"INSTAPAPER_PASS" description:"Instapaper account password" required:"true"`

	UserAgent     string `long:"user-agent" env:"REDDIT_USER_AGENT" default:"reddit-actions/1.0" description:"User agent for outbound requests"`
	SubredditsRaw string `long:"subreddits" env:"SUBREDDITS" description:"Comma-separated subreddit allow list (empty = all)"`
	Limit         int    `long:"limit" env:"MAX_POSTS" default:"0" description:"Maximum number of saved items to process (0 = all)"`
	DryRun        bool   `long:"dry-run" env:"DRY_RUN" description:"Report intended actions without archiving or unsaving"`
	LogLevel      string `long:"log-level" env:"LOG_LEVEL" default:"info" description:"Log level (debug, info, warn, error)"`

	TelegramBotToken string `long:"telegram-bot-token" env:"TELEGRAM_BOT_TOKEN" description:"Telegram bot token for run summaries (optional)"`
	TelegramChatID   int64  `long:"telegram-chat-id" env:"TELEGRAM_CHAT_ID" description:"Telegram chat ID for run summaries (optional)"`
}

// Load parses configuration from the environment and the given
// command-line arguments (without the program name).
func Load(args []string) (*Config, error) {
	var cfg Config
	parser := flags.NewParser(&cfg, flags.HelpFlag|flags.PassDoubleDash)
	if _, err := parser.ParseArgs(args); err != nil {
		return nil, fmt.Errorf("parse configuration: %w", err)
	}
	if cfg.Limit < 0 {
		return nil, fmt.Errorf("limit must not be negative, got %d", cfg.Limit)
	}
	return &cfg, nil
}

// Subreddits returns the parsed subreddit allow list. Nil means no
// restriction.
func (c *Config) Subreddits() []string {
	if strings.TrimSpace(c.SubredditsRaw) == "" {
		return nil
	}
	var subs []string
	for _, s := range strings.Split(c.SubredditsRaw, ",") {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		subs = append(subs, s)
	}
	return subs
}

// NotifyEnabled reports whether a Telegram run summary is configured.
func (c *Config) NotifyEnabled() bool {
	return c.TelegramBotToken != "" && c.TelegramChatID != 0
}
