package notify

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/resend/resend-go/v2"
)

const defaultFromAddress = "Steward <onboarding@resend.dev>"

// emailSender is the slice of the Resend client we use; it exists so tests
// can capture outgoing mail.
type emailSender interface {
	SendWithContext(ctx context.Context, params *resend.SendEmailRequest) (*resend.SendEmailResponse, error)
}

// EmailNotifier delivers notifications to the repository owner via Resend.
type EmailNotifier struct {
	sender emailSender
	to     string
	from   string
	logger *slog.Logger
}

func NewEmailNotifier(apiKey, ownerEmail string, logger *slog.Logger) *EmailNotifier {
	client := resend.NewClient(apiKey)
	return &EmailNotifier{
		sender: client.Emails,
		to:     ownerEmail,
		from:   defaultFromAddress,
		logger: logger,
	}
}

func (n *EmailNotifier) AssignmentMade(ctx context.Context, event AssignmentEvent) error {
	subject := fmt.Sprintf("[%s] Issue #%d assigned to %s", event.Repo, event.IssueNumber, event.Assignee)
	html := fmt.Sprintf(
		"<h2>Issue assigned</h2>"+
			"<p><strong>%s</strong> was assigned to issue #%d: %s.</p>"+
			"<p>%d candidate(s) asked to work on it.</p>",
		event.Assignee, event.IssueNumber, event.IssueTitle, event.Candidates)
	text := fmt.Sprintf(
		"%s was assigned to issue #%d: %s.\n%d candidate(s) asked to work on it.\n",
		event.Assignee, event.IssueNumber, event.IssueTitle, event.Candidates)
	return n.send(ctx, subject, html, text)
}

func (n *EmailNotifier) PullRequestActivity(ctx context.Context, event PREvent) error {
	var subject, html, text string

	switch event.Activity {
	case PROpened:
		subject = fmt.Sprintf("[%s] New pull request #%d from %s", event.Repo, event.Number, event.Author)
		html = fmt.Sprintf(
			"<h2>New pull request</h2>"+
				"<p><strong>@%s</strong> opened pull request #%d: %s.</p>",
			event.Author, event.Number, event.Title)
		text = fmt.Sprintf("@%s opened pull request #%d: %s.\n", event.Author, event.Number, event.Title)
	case PRReviewRequested:
		subject = fmt.Sprintf("[%s] Review requested on pull request #%d", event.Repo, event.Number)
		html = fmt.Sprintf(
			"<h2>Review requested</h2>"+
				"<p>A review from <strong>@%s</strong> was requested on pull request #%d: %s.</p>",
			event.Reviewer, event.Number, event.Title)
		text = fmt.Sprintf("A review from @%s was requested on pull request #%d: %s.\n",
			event.Reviewer, event.Number, event.Title)
	case PRMerged:
		subject = fmt.Sprintf("[%s] Pull request #%d merged", event.Repo, event.Number)
		html = fmt.Sprintf(
			"<h2>Pull request merged</h2>"+
				"<p>Pull request #%d (%s) by <strong>@%s</strong> was merged by @%s. 🎉</p>",
			event.Number, event.Title, event.Author, event.MergedBy)
		text = fmt.Sprintf("Pull request #%d (%s) by @%s was merged by @%s.\n",
			event.Number, event.Title, event.Author, event.MergedBy)
	default:
		return fmt.Errorf("unknown pull request activity %q", event.Activity)
	}

	return n.send(ctx, subject, html, text)
}

func (n *EmailNotifier) QuestionAsked(ctx context.Context, event QuestionEvent) error {
	subject := fmt.Sprintf("[%s] Question on %s #%d", event.Repo, event.Kind, event.Number)
	html := fmt.Sprintf(
		"<h2>Question from @%s</h2>"+
			"<p>On %s #%d: %s</p>"+
			"<blockquote>%s</blockquote>",
		event.Commenter, event.Kind, event.Number, event.Title, event.Question)
	text := fmt.Sprintf("@%s asked on %s #%d (%s):\n\n%s\n",
		event.Commenter, event.Kind, event.Number, event.Title, event.Question)
	return n.send(ctx, subject, html, text)
}

func (n *EmailNotifier) ErrorOccurred(ctx context.Context, event ErrorEvent) error {
	subject := fmt.Sprintf("[%s] Steward error: %s", event.Repo, event.Subject)
	html := fmt.Sprintf(
		"<h2>Processing error</h2>"+
			"<p>%s</p>"+
			"<pre>%v</pre>",
		event.Subject, event.Err)
	text := fmt.Sprintf("%s\n\n%v\n", event.Subject, event.Err)
	return n.send(ctx, subject, html, text)
}

func (n *EmailNotifier) send(ctx context.Context, subject, html, text string) error {
	sent, err := n.sender.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    n.from,
		To:      []string{n.to},
		Subject: subject,
		Html:    html,
		Text:    text,
	})
	if err != nil {
		return fmt.Errorf("failed to send email %q: %w", subject, err)
	}

	n.logger.Debug("email sent", "subject", subject, "id", sent.Id)
	return nil
}
