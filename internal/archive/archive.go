// Package archive implements the rule effect that saves link posts to
// Instapaper.
package archive

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"

	"reddit_actions/internal/instapaper"
	"reddit_actions/internal/model"
	"reddit_actions/internal/rule"
)

// Hosts whose content is not worth archiving: image hosts, Reddit
// itself, and video sites. Matching is by exact host string; an unlisted
// subdomain is not excluded.
var excludedHosts = map[string]struct{}{
	"i.redd.it":       {},
	"imgur.com":       {},
	"reddit.com":      {},
	"v.redd.it":       {},
	"www.reddit.com":  {},
	"www.youtube.com": {},
	"youtu.be":        {},
	"youtube.com":     {},
}

// Effect saves a post's URL to Instapaper, annotated with the source
// subreddit and title.
type Effect struct {
	client *instapaper.Client
	log    *slog.Logger
}

// New creates the archive effect backed by the given Instapaper client.
func New(client *instapaper.Client, log *slog.Logger) *Effect {
	return &Effect{client: client, log: log}
}

// Name implements rule.Effect.
func (e *Effect) Name() string { return "instapaper" }

// Execute saves the post's URL to Instapaper. URLs on an excluded host
// fail without a network call.
func (e *Effect) Execute(ctx context.Context, post model.Post) error {
	u, err := url.Parse(post.URL)
	if err != nil {
		return fmt.Errorf("parse url %q: %w", post.URL, err)
	}
	if _, ok := excludedHosts[u.Host]; ok {
		return fmt.Errorf("host %s is excluded", u.Host)
	}

	e.log.Info("archiving", "url", post.URL, "subreddit", post.Subreddit)

	selection := fmt.Sprintf("From r/%s: %q", post.Subreddit, post.Title)
	if err := e.client.Add(ctx, post.URL, selection); err != nil {
		return fmt.Errorf("add to instapaper: %w", err)
	}
	return nil
}

// NewRule wraps the effect in its standard rule configuration: link
// posts with a URL, unsaved after a successful archive, optionally
// restricted to certain subreddits.
func NewRule(effect *Effect, subreddits []string, dryRun bool, log *slog.Logger) *rule.Rule {
	selfPost := false
	return rule.New(effect.Name(), effect, rule.Options{
		Subreddits:  subreddits,
		SelfPost:    &selfPost,
		RequireURL:  true,
		DryRun:      dryRun,
		DeleteAfter: true,
	}, log)
}
