// Package rule implements the post matching and action dispatch engine.
package rule

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"reddit_actions/internal/model"
)

// Effect performs the action of a rule on a matching post. A nil error
// means the action succeeded.
type Effect interface {
	Name() string
	Execute(ctx context.Context, post model.Post) error
}

// Options configures the filters and behavior of a rule. Unset filters
// match everything.
type Options struct {
	// Subreddits restricts the rule to posts from these subreddits,
	// compared case-insensitively. Empty means all subreddits.
	Subreddits []string
	// MaxAgeDays excludes posts older than this many days.
	MaxAgeDays *int
	// MinAgeDays excludes posts newer than this many days.
	MinAgeDays *int
	// SelfPost requires the post to be a self post (true) or a link
	// post (false).
	SelfPost *bool
	// RequireURL excludes posts with an empty URL.
	RequireURL bool
	// DryRun logs the would-be action instead of invoking the effect.
	DryRun bool
	// DeleteAfter marks the post for unsaving once the effect succeeds.
	DeleteAfter bool
}

// Rule pairs a filter predicate with an effect. A post that passes every
// configured filter has the effect invoked on it.
type Rule struct {
	name        string
	effect      Effect
	subreddits  map[string]struct{}
	maxAgeDays  *int
	minAgeDays  *int
	selfPost    *bool
	requireURL  bool
	dryRun      bool
	deleteAfter bool
	log         *slog.Logger
	now         func() time.Time
}

// New creates a Rule with the given effect and options. Subreddit names
// are case-folded once here; Matches folds the post's subreddit to match.
func New(name string, effect Effect, opts Options, log *slog.Logger) *Rule {
	var subs map[string]struct{}
	if len(opts.Subreddits) > 0 {
		subs = make(map[string]struct{}, len(opts.Subreddits))
		for _, s := range opts.Subreddits {
			subs[strings.ToLower(s)] = struct{}{}
		}
	}
	return &Rule{
		name:        name,
		effect:      effect,
		subreddits:  subs,
		maxAgeDays:  opts.MaxAgeDays,
		minAgeDays:  opts.MinAgeDays,
		selfPost:    opts.SelfPost,
		requireURL:  opts.RequireURL,
		dryRun:      opts.DryRun,
		deleteAfter: opts.DeleteAfter,
		log:         log,
		now:         time.Now,
	}
}

// Name returns the rule's identifier.
func (r *Rule) Name() string { return r.name }

// DeleteAfter reports whether a successful run marks the post for cleanup.
func (r *Rule) DeleteAfter() bool { return r.deleteAfter }

// SetNow overrides the clock used for age comparisons (useful for testing).
func (r *Rule) SetNow(now func() time.Time) { r.now = now }

// Matches checks whether a post passes every configured filter. Filters
// combine with AND; an unset filter always passes. Age bounds are strict:
// a post exactly MaxAgeDays or MinAgeDays old still matches. The clock is
// read per evaluation, so a borderline-age post can flip during a long
// scan.
func (r *Rule) Matches(post model.Post) bool {
	if r.subreddits != nil {
		if _, ok := r.subreddits[strings.ToLower(post.Subreddit)]; !ok {
			return false
		}
	}
	if r.maxAgeDays != nil {
		cutoff := r.now().AddDate(0, 0, -*r.maxAgeDays)
		if post.CreatedAt.Before(cutoff) {
			return false
		}
	}
	if r.minAgeDays != nil {
		cutoff := r.now().AddDate(0, 0, -*r.minAgeDays)
		if post.CreatedAt.After(cutoff) {
			return false
		}
	}
	if r.selfPost != nil && post.IsSelf != *r.selfPost {
		return false
	}
	if r.requireURL && post.URL == "" {
		return false
	}
	return true
}

// Run applies the rule to a post: filters first, then dry-run handling,
// then the effect. Dry-run never invokes the effect, so the post is never
// queued for cleanup.
func (r *Rule) Run(ctx context.Context, post model.Post) model.Outcome {
	if !r.Matches(post) {
		return model.OutcomeSkipped
	}
	if r.dryRun {
		r.log.Info("would execute", "rule", r.name, "post", post.ID, "title", post.Title)
		return model.OutcomeDryRun
	}
	if err := r.effect.Execute(ctx, post); err != nil {
		r.log.Error("effect failed", "rule", r.name, "post", post.ID, "error", err)
		return model.OutcomeFailed
	}
	return model.OutcomeExecuted
}
