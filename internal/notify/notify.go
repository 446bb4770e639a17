// Package notify sends the repository owner email about noteworthy
// activity. Email is optional; a disabled notifier drops everything.
package notify

import (
	"context"
)

// AssignmentEvent describes an issue assignment that was just made.
type AssignmentEvent struct {
	Repo        string
	IssueNumber int
	IssueTitle  string
	Assignee    string
	Candidates  int
}

// PRActivity identifies which pull request transition happened.
type PRActivity string

const (
	PROpened          PRActivity = "opened"
	PRReviewRequested PRActivity = "review_requested"
	PRMerged          PRActivity = "merged"
)

// PREvent describes pull request activity worth an email.
type PREvent struct {
	Activity PRActivity
	Repo     string
	Number   int
	Title    string
	Author   string
	// Reviewer is set for review request activity.
	Reviewer string
	// MergedBy is set for merge activity.
	MergedBy string
}

// QuestionEvent describes a question asked in a comment thread.
type QuestionEvent struct {
	Repo      string
	Kind      string
	Number    int
	Title     string
	Commenter string
	Question  string
}

// ErrorEvent describes a processing failure the owner should know about.
type ErrorEvent struct {
	Repo    string
	Subject string
	Err     error
}

// Notifier delivers owner notifications. Implementations must treat
// delivery as best-effort; callers log and continue on error.
type Notifier interface {
	AssignmentMade(ctx context.Context, event AssignmentEvent) error
	PullRequestActivity(ctx context.Context, event PREvent) error
	QuestionAsked(ctx context.Context, event QuestionEvent) error
	ErrorOccurred(ctx context.Context, event ErrorEvent) error
}

// Nop is a Notifier that silently drops everything. Used when no email
// settings are configured.
type Nop struct{}

func (Nop) AssignmentMade(context.Context, AssignmentEvent) error { return nil }
func (Nop) PullRequestActivity(context.Context, PREvent) error    { return nil }
func (Nop) QuestionAsked(context.Context, QuestionEvent) error    { return nil }
func (Nop) ErrorOccurred(context.Context, ErrorEvent) error       { return nil }
