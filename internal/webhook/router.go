// Package webhook receives GitHub webhook deliveries, verifies their
// signatures, and routes supported events to the bot.
package webhook

import (
	"context"
	"log/slog"

	"github.com/google/go-github/v72/github"
)

// Outcome reports what the router did with a delivery.
type Outcome int

const (
	// OutcomeIgnored means the delivery was valid but nothing handles it.
	OutcomeIgnored Outcome = iota
	// OutcomeProcessed means a handler ran for the delivery.
	OutcomeProcessed
)

// Handler processes the event types the router recognizes.
type Handler interface {
	HandleIssueComment(ctx context.Context, event *github.IssueCommentEvent) error
	HandleIssues(ctx context.Context, event *github.IssuesEvent) error
	HandlePullRequest(ctx context.Context, event *github.PullRequestEvent) error
}

// Router decodes webhook payloads and dispatches them by event type and
// action.
type Router struct {
	handler Handler
	logger  *slog.Logger
}

func NewRouter(handler Handler, logger *slog.Logger) *Router {
	return &Router{handler: handler, logger: logger}
}

// Dispatch decodes and routes one delivery. Malformed payloads are ignored
// rather than treated as errors so a bad delivery cannot wedge the sender's
// retry queue. A non-nil error comes from the handler itself.
func (r *Router) Dispatch(ctx context.Context, eventType string, payload []byte) (Outcome, error) {
	event, err := github.ParseWebHook(eventType, payload)
	if err != nil {
		r.logger.Warn("discarding malformed payload", "event", eventType, "error", err)
		return OutcomeIgnored, nil
	}

	switch e := event.(type) {
	case *github.IssueCommentEvent:
		if e.GetAction() != "created" {
			return OutcomeIgnored, nil
		}
		if err := r.handler.HandleIssueComment(ctx, e); err != nil {
			return OutcomeProcessed, err
		}
		return OutcomeProcessed, nil

	case *github.IssuesEvent:
		if err := r.handler.HandleIssues(ctx, e); err != nil {
			return OutcomeProcessed, err
		}
		return OutcomeProcessed, nil

	case *github.PullRequestEvent:
		switch e.GetAction() {
		case "opened", "review_requested", "closed":
			if err := r.handler.HandlePullRequest(ctx, e); err != nil {
				return OutcomeProcessed, err
			}
			return OutcomeProcessed, nil
		default:
			return OutcomeIgnored, nil
		}

	default:
		r.logger.Debug("no handler for event", "event", eventType)
		return OutcomeIgnored, nil
	}
}
