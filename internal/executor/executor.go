// Package executor runs a set of rules over the account's saved posts
// and unsaves the posts whose rules asked for cleanup.
package executor

import (
	"context"
	"fmt"
	"log/slog"

	"reddit_actions/internal/model"
	"reddit_actions/internal/rule"
)

// SavedSource lists saved items and removes them from the saved list.
type SavedSource interface {
	Saved(ctx context.Context, limit int) ([]model.SavedItem, error)
	Unsave(ctx context.Context, fullname string) error
}

// Report summarizes one run for logging and notification.
type Report struct {
	Scanned       int
	SkippedKinds  int
	Matched       int
	Executed      int
	Failed        int
	DryRun        int
	Cleaned       int
	CleanupFailed int
	WouldClean    int
}

// Executor applies rules to saved posts in a single sequential pass.
type Executor struct {
	rules  []*rule.Rule
	source SavedSource
	limit  int
	dryRun bool
	log    *slog.Logger
}

// New creates an Executor. A limit of 0 processes all saved items. When
// dryRun is true the cleanup step is suppressed for the whole run,
// regardless of per-rule settings.
func New(rules []*rule.Rule, source SavedSource, limit int, dryRun bool, log *slog.Logger) *Executor {
	return &Executor{
		rules:  rules,
		source: source,
		limit:  limit,
		dryRun: dryRun,
		log:    log,
	}
}

// Run fetches the saved listing, applies every rule to each post in
// order, and afterwards unsaves each post that a cleanup-marked rule
// successfully acted on. A post is unsaved at most once even if several
// rules mark it. Failed effects never abort the scan; a cleanup failure
// is logged and counted but does not stop the remaining cleanups.
func (e *Executor) Run(ctx context.Context) (*Report, error) {
	items, err := e.source.Saved(ctx, e.limit)
	if err != nil {
		return nil, fmt.Errorf("list saved items: %w", err)
	}

	report := &Report{}
	pending := make(map[string]model.Post)

	for _, item := range items {
		if ctx.Err() != nil {
			return report, ctx.Err()
		}
		if item.Post == nil {
			report.SkippedKinds++
			e.log.Debug("skipping non-post item", "kind", item.Kind)
			continue
		}
		report.Scanned++

		post := *item.Post
		matchedAny := false
		for _, r := range e.rules {
			outcome := r.Run(ctx, post)
			switch outcome {
			case model.OutcomeSkipped:
				continue
			case model.OutcomeDryRun:
				report.DryRun++
			case model.OutcomeFailed:
				report.Failed++
			case model.OutcomeExecuted:
				report.Executed++
				if r.DeleteAfter() {
					pending[post.ID] = post
				}
			}
			matchedAny = true
		}
		if matchedAny {
			report.Matched++
		}
	}

	if e.dryRun {
		report.WouldClean = len(pending)
		e.log.Info("dry run, skipping cleanup", "would_unsave", len(pending))
		return report, nil
	}

	for id, post := range pending {
		if err := e.source.Unsave(ctx, id); err != nil {
			report.CleanupFailed++
			e.log.Error("unsave failed", "post", id, "error", err)
			continue
		}
		report.Cleaned++
		e.log.Info("unsaved", "post", id, "title", post.Title)
	}

	return report, nil
}

// Summary renders the report as a single human-readable line.
func (r *Report) Summary() string {
	if r.WouldClean > 0 || r.DryRun > 0 {
		return fmt.Sprintf("scanned %d posts: %d matched, %d simulated, would unsave %d",
			r.Scanned, r.Matched, r.DryRun, r.WouldClean)
	}
	return fmt.Sprintf("scanned %d posts: %d matched, %d archived, %d failed, %d unsaved",
		r.Scanned, r.Matched, r.Executed, r.Failed, r.Cleaned)
}
