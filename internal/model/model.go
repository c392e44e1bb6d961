// Package model defines the domain types used across the application.
package model

import "time"

// KindPost is the Reddit listing kind for a submission.
const KindPost = "t3"

// Post represents a saved Reddit submission.
type Post struct {
	// ID is the fullname of the post (e.g. "t3_abc123"), used for
	// deduplication and for the unsave call.
	ID        string
	Subreddit string
	Title     string
	URL       string
	IsSelf    bool
	CreatedAt time.Time
	Permalink string
}

// SavedItem is a single entry from the saved listing. Entries whose kind
// is not a post (e.g. saved comments) carry a nil Post and are skipped.
type SavedItem struct {
	Kind string
	Post *Post
}

// Outcome is the result of running a rule against a post.
type Outcome int

// Possible rule outcomes.
const (
	// OutcomeSkipped means the post did not match the rule's filters.
	OutcomeSkipped Outcome = iota
	// OutcomeDryRun means the post matched but the rule is in dry-run
	// mode, so the effect was not invoked.
	OutcomeDryRun
	// OutcomeFailed means the effect ran and reported an error.
	OutcomeFailed
	// OutcomeExecuted means the effect ran successfully.
	OutcomeExecuted
)

// String returns a short label for logging.
func (o Outcome) String() string {
	switch o {
	case OutcomeSkipped:
		return "skipped"
	case OutcomeDryRun:
		return "dry_run"
	case OutcomeFailed:
		return "failed"
	case OutcomeExecuted:
		return "executed"
	}
	return "unknown"
}
