package notify

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/resend/resend-go/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturingSender struct {
	sent []*resend.SendEmailRequest
	err  error
}

func (s *capturingSender) SendWithContext(ctx context.Context, params *resend.SendEmailRequest) (*resend.SendEmailResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.sent = append(s.sent, params)
	return &resend.SendEmailResponse{Id: "email_123"}, nil
}

func newTestNotifier(sender *capturingSender) *EmailNotifier {
	return &EmailNotifier{
		sender: sender,
		to:     "owner@example.com",
		from:   defaultFromAddress,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestAssignmentMade(t *testing.T) {
	sender := &capturingSender{}
	notifier := newTestNotifier(sender)

	err := notifier.AssignmentMade(context.Background(), AssignmentEvent{
		Repo:        "octocat/hello-world",
		IssueNumber: 7,
		IssueTitle:  "Fix flaky test",
		Assignee:    "alice",
		Candidates:  3,
	})
	require.NoError(t, err)

	require.Len(t, sender.sent, 1)
	email := sender.sent[0]
	assert.Equal(t, []string{"owner@example.com"}, email.To)
	assert.Contains(t, email.Subject, "Issue #7 assigned to alice")
	assert.Contains(t, email.Html, "<strong>alice</strong>")
	assert.Contains(t, email.Text, "3 candidate(s)")
}

func TestPullRequestActivity(t *testing.T) {
	tests := []struct {
		name        string
		event       PREvent
		wantSubject string
		wantText    string
	}{
		{
			name: "opened",
			event: PREvent{
				Activity: PROpened, Repo: "octocat/hello-world",
				Number: 12, Title: "Add retries", Author: "bob",
			},
			wantSubject: "New pull request #12 from bob",
			wantText:    "@bob opened pull request #12",
		},
		{
			name: "review requested",
			event: PREvent{
				Activity: PRReviewRequested, Repo: "octocat/hello-world",
				Number: 12, Title: "Add retries", Author: "bob", Reviewer: "carol",
			},
			wantSubject: "Review requested on pull request #12",
			wantText:    "review from @carol",
		},
		{
			name: "merged",
			event: PREvent{
				Activity: PRMerged, Repo: "octocat/hello-world",
				Number: 12, Title: "Add retries", Author: "bob", MergedBy: "carol",
			},
			wantSubject: "Pull request #12 merged",
			wantText:    "merged by @carol",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sender := &capturingSender{}
			notifier := newTestNotifier(sender)

			require.NoError(t, notifier.PullRequestActivity(context.Background(), tt.event))
			require.Len(t, sender.sent, 1)
			assert.Contains(t, sender.sent[0].Subject, tt.wantSubject)
			assert.Contains(t, sender.sent[0].Text, tt.wantText)
			assert.NotEmpty(t, sender.sent[0].Html)
		})
	}
}

func TestPullRequestActivity_UnknownActivity(t *testing.T) {
	notifier := newTestNotifier(&capturingSender{})
	err := notifier.PullRequestActivity(context.Background(), PREvent{Activity: "labeled"})
	assert.Error(t, err)
}

func TestQuestionAsked(t *testing.T) {
	sender := &capturingSender{}
	notifier := newTestNotifier(sender)

	err := notifier.QuestionAsked(context.Background(), QuestionEvent{
		Repo:      "octocat/hello-world",
		Kind:      "issue",
		Number:    3,
		Title:     "Docs unclear",
		Commenter: "dave",
		Question:  "Which Go version is required?",
	})
	require.NoError(t, err)

	require.Len(t, sender.sent, 1)
	assert.Contains(t, sender.sent[0].Subject, "Question on issue #3")
	assert.Contains(t, sender.sent[0].Text, "Which Go version is required?")
}

func TestErrorOccurred(t *testing.T) {
	sender := &capturingSender{}
	notifier := newTestNotifier(sender)

	err := notifier.ErrorOccurred(context.Background(), ErrorEvent{
		Repo:    "octocat/hello-world",
		Subject: "reply generation failed on issue #7",
		Err:     errors.New("quota exceeded"),
	})
	require.NoError(t, err)

	require.Len(t, sender.sent, 1)
	assert.Contains(t, sender.sent[0].Subject, "Steward error")
	assert.Contains(t, sender.sent[0].Text, "quota exceeded")
}

func TestSend_Error(t *testing.T) {
	sender := &capturingSender{err: errors.New("api key revoked")}
	notifier := newTestNotifier(sender)

	err := notifier.AssignmentMade(context.Background(), AssignmentEvent{Repo: "r", Assignee: "a"})
	assert.ErrorContains(t, err, "api key revoked")
}

func TestNop(t *testing.T) {
	var notifier Notifier = Nop{}
	assert.NoError(t, notifier.AssignmentMade(context.Background(), AssignmentEvent{}))
	assert.NoError(t, notifier.PullRequestActivity(context.Background(), PREvent{}))
	assert.NoError(t, notifier.QuestionAsked(context.Background(), QuestionEvent{}))
	assert.NoError(t, notifier.ErrorOccurred(context.Background(), ErrorEvent{}))
}
