package gh

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/go-github/v72/github"
)

// Accessor resolves owner/name pairs from webhook payloads into repository
// handles. Resolution always goes through the session; there is no
// process-wide default repository.
type Accessor struct {
	session *Session
	guard   *RateGuard
	logger  *slog.Logger
}

func NewAccessor(session *Session, guard *RateGuard, logger *slog.Logger) *Accessor {
	return &Accessor{
		session: session,
		guard:   guard,
		logger:  logger.With("component", "gh"),
	}
}

// Resolve returns a handle for the given repository, verifying that it is
// reachable with the session's credentials.
func (a *Accessor) Resolve(ctx context.Context, owner, name string) (*Repo, error) {
	if owner == "" || name == "" {
		return nil, fmt.Errorf("repository owner and name must be non-empty")
	}

	if err := a.guard.Wait(ctx); err != nil {
		return nil, err
	}
	if _, _, err := a.session.Client().Repositories.Get(ctx, owner, name); err != nil {
		return nil, fmt.Errorf("failed to resolve repository %s/%s: %w", owner, name, err)
	}

	return &Repo{
		owner:   owner,
		name:    name,
		session: a.session,
		guard:   a.guard,
		logger:  a.logger.With("repo", owner+"/"+name),
	}, nil
}

// Repo is a queryable handle on one repository, scoped to the session's
// identity.
type Repo struct {
	owner   string
	name    string
	session *Session
	guard   *RateGuard
	logger  *slog.Logger
}

func (r *Repo) FullName() string {
	return r.owner + "/" + r.name
}

func (r *Repo) Issue(ctx context.Context, number int) (*Issue, error) {
	if err := r.guard.Wait(ctx); err != nil {
		return nil, err
	}
	issue, _, err := r.session.Client().Issues.Get(ctx, r.owner, r.name, number)
	if err != nil {
		return nil, fmt.Errorf("failed to get issue #%d: %w", number, err)
	}
	return convertIssue(issue), nil
}

func (r *Repo) PullRequest(ctx context.Context, number int) (*PullRequest, error) {
	if err := r.guard.Wait(ctx); err != nil {
		return nil, err
	}
	pr, _, err := r.session.Client().PullRequests.Get(ctx, r.owner, r.name, number)
	if err != nil {
		return nil, fmt.Errorf("failed to get pull request #%d: %w", number, err)
	}
	return convertPullRequest(pr), nil
}

// ListIssueComments returns all comments on an issue or pull request thread
// in creation order.
func (r *Repo) ListIssueComments(ctx context.Context, number int) ([]Comment, error) {
	opts := &github.IssueListCommentsOptions{
		Sort:      github.Ptr("created"),
		Direction: github.Ptr("asc"),
		ListOptions: github.ListOptions{
			PerPage: 100,
		},
	}

	var all []Comment
	for {
		if err := r.guard.Wait(ctx); err != nil {
			return nil, err
		}
		comments, resp, err := r.session.Client().Issues.ListComments(ctx, r.owner, r.name, number, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to list comments on #%d: %w", number, err)
		}
		for _, comment := range comments {
			if comment == nil {
				continue
			}
			all = append(all, convertComment(comment))
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return all, nil
}

func (r *Repo) PostComment(ctx context.Context, number int, body string) error {
	if err := r.guard.Wait(ctx); err != nil {
		return err
	}
	comment := &github.IssueComment{Body: github.Ptr(body)}
	if _, _, err := r.session.Client().Issues.CreateComment(ctx, r.owner, r.name, number, comment); err != nil {
		return fmt.Errorf("failed to post comment on #%d: %w", number, err)
	}
	r.logger.Info("posted comment", "number", number)
	return nil
}

func (r *Repo) AssignIssue(ctx context.Context, number int, login string) error {
	if err := r.guard.Wait(ctx); err != nil {
		return err
	}
	if _, _, err := r.session.Client().Issues.AddAssignees(ctx, r.owner, r.name, number, []string{login}); err != nil {
		return fmt.Errorf("failed to assign issue #%d to %s: %w", number, login, err)
	}
	r.logger.Info("assigned issue", "number", number, "assignee", login)
	return nil
}

// UserRecentComments returns the bodies of the user's most recent issue
// comments in this repository, newest first, up to limit.
func (r *Repo) UserRecentComments(ctx context.Context, login string, limit int) ([]string, error) {
	if limit <= 0 {
		return nil, nil
	}

	opts := &github.IssueListCommentsOptions{
		Sort:      github.Ptr("created"),
		Direction: github.Ptr("desc"),
		ListOptions: github.ListOptions{
			PerPage: 100,
		},
	}

	var bodies []string
	for {
		if err := r.guard.Wait(ctx); err != nil {
			return nil, err
		}
		// Issue number 0 lists comments across the whole repository.
		comments, resp, err := r.session.Client().Issues.ListComments(ctx, r.owner, r.name, 0, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to list repository comments: %w", err)
		}

		for _, comment := range comments {
			if comment == nil || comment.GetUser().GetLogin() != login {
				continue
			}
			bodies = append(bodies, comment.GetBody())
			if len(bodies) >= limit {
				return bodies, nil
			}
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return bodies, nil
}
