// Package bot contains the event handling logic: resolving assignment
// contests, drafting replies, and forwarding pull request activity.
package bot

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/go-github/v72/github"

	"github.com/stewardbot/steward/internal/ai"
	"github.com/stewardbot/steward/internal/assign"
	"github.com/stewardbot/steward/internal/gh"
	"github.com/stewardbot/steward/internal/notify"
	"github.com/stewardbot/steward/internal/style"
)

// styleSampleSize is how many of a user's recent comments feed the style
// profile.
const styleSampleSize = 10

// Repository is the slice of a repository handle the bot needs.
type Repository interface {
	FullName() string
	Issue(ctx context.Context, number int) (*gh.Issue, error)
	PullRequest(ctx context.Context, number int) (*gh.PullRequest, error)
	ListIssueComments(ctx context.Context, number int) ([]gh.Comment, error)
	PostComment(ctx context.Context, number int, body string) error
	AssignIssue(ctx context.Context, number int, login string) error
	UserRecentComments(ctx context.Context, login string, limit int) ([]string, error)
}

// RepositoryAccessor opens repository handles by owner and name.
type RepositoryAccessor interface {
	Resolve(ctx context.Context, owner, name string) (Repository, error)
}

// Completer produces reply text for a composed prompt.
type Completer interface {
	Generate(ctx context.Context, prompt ai.Prompt) (string, error)
}

// Bot reacts to webhook events on behalf of a repository owner.
type Bot struct {
	accessor RepositoryAccessor
	composer *ai.Composer
	complete Completer
	notifier notify.Notifier
	logger   *slog.Logger

	// login is the bot's own GitHub username, used to ignore its own
	// comments.
	login string
}

func New(
	accessor RepositoryAccessor,
	composer *ai.Composer,
	completer Completer,
	notifier notify.Notifier,
	login string,
	logger *slog.Logger,
) *Bot {
	return &Bot{
		accessor: accessor,
		composer: composer,
		complete: completer,
		notifier: notifier,
		login:    login,
		logger:   logger,
	}
}

// HandleIssueComment processes a newly created comment on an issue or pull
// request thread. Assignment requests on issues go through the resolver;
// everything else gets a drafted reply.
func (b *Bot) HandleIssueComment(ctx context.Context, event *github.IssueCommentEvent) error {
	commenter := event.GetComment().GetUser().GetLogin()
	if b.shouldIgnoreCommenter(event.GetComment().GetUser()) {
		b.logger.Debug("ignoring comment from bot account", "commenter", commenter)
		return nil
	}

	repo, err := b.resolveEventRepo(ctx, event.GetRepo())
	if err != nil {
		return err
	}

	number := event.GetIssue().GetNumber()
	body := event.GetComment().GetBody()
	isPullRequest := event.GetIssue().IsPullRequest()

	if !isPullRequest && assign.IsRequest(body) {
		return b.resolveAssignment(ctx, repo, number)
	}

	return b.replyToComment(ctx, repo, event, commenter, body, isPullRequest)
}

// HandleIssues records issue lifecycle events. They carry no work today but
// are logged for operator visibility.
func (b *Bot) HandleIssues(ctx context.Context, event *github.IssuesEvent) error {
	b.logger.Info("issue event",
		"action", event.GetAction(),
		"repo", event.GetRepo().GetFullName(),
		"issue", event.GetIssue().GetNumber())
	return nil
}

// HandlePullRequest welcomes new pull requests, forwards review requests,
// and congratulates merged contributions.
func (b *Bot) HandlePullRequest(ctx context.Context, event *github.PullRequestEvent) error {
	repo, err := b.resolveEventRepo(ctx, event.GetRepo())
	if err != nil {
		return err
	}

	pr := event.GetPullRequest()
	author := pr.GetUser().GetLogin()

	switch event.GetAction() {
	case "opened":
		welcome := fmt.Sprintf(
			"@%s Thanks for opening this pull request! A maintainer will review it soon. "+
				"In the meantime, please make sure the checks pass. 🙌", author)
		if err := repo.PostComment(ctx, pr.GetNumber(), welcome); err != nil {
			return fmt.Errorf("failed to welcome pull request #%d: %w", pr.GetNumber(), err)
		}
		b.notify(ctx, func(ctx context.Context) error {
			return b.notifier.PullRequestActivity(ctx, notify.PREvent{
				Activity: notify.PROpened,
				Repo:     repo.FullName(),
				Number:   pr.GetNumber(),
				Title:    pr.GetTitle(),
				Author:   author,
			})
		})

	case "review_requested":
		b.notify(ctx, func(ctx context.Context) error {
			return b.notifier.PullRequestActivity(ctx, notify.PREvent{
				Activity: notify.PRReviewRequested,
				Repo:     repo.FullName(),
				Number:   pr.GetNumber(),
				Title:    pr.GetTitle(),
				Author:   author,
				Reviewer: event.GetRequestedReviewer().GetLogin(),
			})
		})

	case "closed":
		if !pr.GetMerged() {
			return nil
		}
		congrats := fmt.Sprintf(
			"@%s Congratulations on getting your pull request merged! 🎉 "+
				"Thank you for contributing.", author)
		if err := repo.PostComment(ctx, pr.GetNumber(), congrats); err != nil {
			return fmt.Errorf("failed to congratulate pull request #%d: %w", pr.GetNumber(), err)
		}
		b.notify(ctx, func(ctx context.Context) error {
			return b.notifier.PullRequestActivity(ctx, notify.PREvent{
				Activity: notify.PRMerged,
				Repo:     repo.FullName(),
				Number:   pr.GetNumber(),
				Title:    pr.GetTitle(),
				Author:   author,
				MergedBy: pr.GetMergedBy().GetLogin(),
			})
		})
	}

	return nil
}

// resolveAssignment re-reads the full comment thread and settles the
// assignment contest. The three GitHub writes are individually tolerant of
// failure: one failed decline must not block the assignment itself.
func (b *Bot) resolveAssignment(ctx context.Context, repo Repository, number int) error {
	issue, err := repo.Issue(ctx, number)
	if err != nil {
		return fmt.Errorf("failed to fetch issue #%d: %w", number, err)
	}

	if len(issue.Assignees) > 0 {
		message := fmt.Sprintf(
			"This issue is already assigned to @%s. Please check out other open issues where you can contribute!",
			issue.Assignees[0])
		if err := repo.PostComment(ctx, number, message); err != nil {
			b.logger.Error("failed to post already-assigned notice", "issue", number, "error", err)
		}
		return nil
	}

	comments, err := repo.ListIssueComments(ctx, number)
	if err != nil {
		return fmt.Errorf("failed to list comments on issue #%d: %w", number, err)
	}

	requests := assign.CollectRequests(comments)
	winner, ok := assign.Resolve(requests)
	if !ok {
		// The triggering comment matched but the thread re-read did not.
		// Likely a deleted comment; nothing to do.
		b.logger.Warn("no assignment candidates found on re-read", "issue", number)
		return nil
	}

	b.logger.Info("resolved assignment contest",
		"issue", number, "winner", winner, "candidates", len(requests))

	if err := repo.AssignIssue(ctx, number, winner); err != nil {
		b.logger.Error("failed to assign issue", "issue", number, "winner", winner, "error", err)
	}
	if err := repo.PostComment(ctx, number, assign.ConfirmationMessage(winner)); err != nil {
		b.logger.Error("failed to post confirmation", "issue", number, "error", err)
	}
	for _, request := range requests {
		if request.Login == winner {
			continue
		}
		if err := repo.PostComment(ctx, number, assign.DeclineMessage(request.Login, winner)); err != nil {
			b.logger.Error("failed to post decline", "issue", number, "login", request.Login, "error", err)
		}
	}

	b.notify(ctx, func(ctx context.Context) error {
		return b.notifier.AssignmentMade(ctx, notify.AssignmentEvent{
			Repo:        repo.FullName(),
			IssueNumber: number,
			IssueTitle:  issue.Title,
			Assignee:    winner,
			Candidates:  len(requests),
		})
	})
	return nil
}

func (b *Bot) replyToComment(
	ctx context.Context,
	repo Repository,
	event *github.IssueCommentEvent,
	commenter string,
	body string,
	isPullRequest bool,
) error {
	kind := "issue"
	if isPullRequest {
		kind = "pull request"
	}
	number := event.GetIssue().GetNumber()

	history, err := repo.UserRecentComments(ctx, commenter, styleSampleSize)
	if err != nil {
		b.logger.Warn("failed to sample comment history, using neutral style",
			"commenter", commenter, "error", err)
		history = nil
	}

	rctx := ai.ReplyContext{
		RepoFullName:    repo.FullName(),
		RepoDescription: event.GetRepo().GetDescription(),
		Kind:            kind,
		Number:          number,
		Title:           event.GetIssue().GetTitle(),
		Body:            event.GetIssue().GetBody(),
		State:           event.GetIssue().GetState(),
		Labels:          labelNames(event.GetIssue().Labels),
		Commenter:       commenter,
		CommentBody:     body,
		Style:           style.Analyze(history),
	}
	if isPullRequest {
		// Branch info is only on the pull request object, not the issue
		// payload. Missing detail degrades the prompt, not the reply.
		if pr, err := repo.PullRequest(ctx, number); err != nil {
			b.logger.Warn("failed to fetch pull request details", "number", number, "error", err)
		} else {
			rctx.BaseBranch = pr.BaseBranch
			rctx.HeadBranch = pr.HeadBranch
		}
	}

	prompt, err := b.composer.Compose(rctx)
	if err != nil {
		return fmt.Errorf("failed to compose reply prompt: %w", err)
	}

	reply, err := b.complete.Generate(ctx, prompt)
	if err != nil {
		// Exhausted retries mean no reply, not a failed delivery. GitHub
		// would otherwise redeliver and we would burn the quota again.
		b.logger.Warn("no reply generated", "kind", kind, "number", number, "error", err)
		b.notify(ctx, func(ctx context.Context) error {
			return b.notifier.ErrorOccurred(ctx, notify.ErrorEvent{
				Repo:    repo.FullName(),
				Subject: fmt.Sprintf("reply generation failed on %s #%d", kind, number),
				Err:     err,
			})
		})
		return nil
	}

	if err := repo.PostComment(ctx, number, reply); err != nil {
		return fmt.Errorf("failed to post reply on %s #%d: %w", kind, number, err)
	}

	if isQuestion(body) {
		b.notify(ctx, func(ctx context.Context) error {
			return b.notifier.QuestionAsked(ctx, notify.QuestionEvent{
				Repo:      repo.FullName(),
				Kind:      kind,
				Number:    number,
				Title:     event.GetIssue().GetTitle(),
				Commenter: commenter,
				Question:  body,
			})
		})
	}
	return nil
}

func (b *Bot) resolveEventRepo(ctx context.Context, eventRepo *github.Repository) (Repository, error) {
	owner := eventRepo.GetOwner().GetLogin()
	name := eventRepo.GetName()
	repo, err := b.accessor.Resolve(ctx, owner, name)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve repository %s/%s: %w", owner, name, err)
	}
	return repo, nil
}

func labelNames(labels []*github.Label) []string {
	names := make([]string, 0, len(labels))
	for _, label := range labels {
		if label != nil {
			names = append(names, label.GetName())
		}
	}
	return names
}

func (b *Bot) shouldIgnoreCommenter(user *github.User) bool {
	login := user.GetLogin()
	return login == b.login || user.GetType() == "Bot" || strings.HasSuffix(login, "[bot]")
}

// notify runs an email send and logs failures instead of propagating them.
func (b *Bot) notify(ctx context.Context, send func(ctx context.Context) error) {
	if err := send(ctx); err != nil {
		b.logger.Error("notification failed", "error", err)
	}
}

var questionWords = []string{
	"who", "what", "when", "where", "why", "how",
	"can", "could", "would", "should", "is", "are", "do", "does",
}

// isQuestion applies a cheap heuristic: a question mark anywhere, or a
// leading question word.
func isQuestion(body string) bool {
	if strings.Contains(body, "?") {
		return true
	}
	fields := strings.Fields(strings.ToLower(body))
	if len(fields) == 0 {
		return false
	}
	for _, word := range questionWords {
		if fields[0] == word {
			return true
		}
	}
	return false
}
