// Package gh wraps the GitHub API behind session-scoped repository handles.
// All reads and writes pass through a rate-limit guard, and results are
// converted into plain structures so that callers never touch pointer-heavy
// API types.
package gh

import (
	"time"

	"github.com/google/go-github/v72/github"
)

type Issue struct {
	Number int

	Title string
	Body  string
	State string
	URL   string

	Author    string
	Labels    []string
	Assignees []string
}

type PullRequest struct {
	Number int

	Title string
	Body  string
	State string
	URL   string

	Author string
	Labels []string

	BaseBranch string
	HeadBranch string

	Merged   bool
	MergedBy string

	ChangedFiles int
	Additions    int
	Deletions    int
}

type Comment struct {
	ID        int64
	Author    string
	Body      string
	CreatedAt time.Time
}

func convertIssue(issue *github.Issue) *Issue {
	labels := make([]string, 0, len(issue.Labels))
	for _, label := range issue.Labels {
		if label != nil {
			labels = append(labels, label.GetName())
		}
	}

	assignees := make([]string, 0, len(issue.Assignees))
	for _, user := range issue.Assignees {
		if user != nil {
			assignees = append(assignees, user.GetLogin())
		}
	}

	return &Issue{
		Number:    issue.GetNumber(),
		Title:     issue.GetTitle(),
		Body:      issue.GetBody(),
		State:     issue.GetState(),
		URL:       issue.GetHTMLURL(),
		Author:    issue.GetUser().GetLogin(),
		Labels:    labels,
		Assignees: assignees,
	}
}

func convertPullRequest(pr *github.PullRequest) *PullRequest {
	labels := make([]string, 0, len(pr.Labels))
	for _, label := range pr.Labels {
		if label != nil {
			labels = append(labels, label.GetName())
		}
	}

	return &PullRequest{
		Number:       pr.GetNumber(),
		Title:        pr.GetTitle(),
		Body:         pr.GetBody(),
		State:        pr.GetState(),
		URL:          pr.GetHTMLURL(),
		Author:       pr.GetUser().GetLogin(),
		Labels:       labels,
		BaseBranch:   pr.GetBase().GetRef(),
		HeadBranch:   pr.GetHead().GetRef(),
		Merged:       pr.GetMerged(),
		MergedBy:     pr.GetMergedBy().GetLogin(),
		ChangedFiles: pr.GetChangedFiles(),
		Additions:    pr.GetAdditions(),
		Deletions:    pr.GetDeletions(),
	}
}

func convertComment(comment *github.IssueComment) Comment {
	return Comment{
		ID:        comment.GetID(),
		Author:    comment.GetUser().GetLogin(),
		Body:      comment.GetBody(),
		CreatedAt: comment.GetCreatedAt().Time,
	}
}
