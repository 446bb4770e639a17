package gh

import (
	"context"
	"fmt"

	"github.com/google/go-github/v72/github"
	"golang.org/x/oauth2"
)

// Session is the single authenticated identity the service acts as. It is
// constructed once at startup and threaded through every collaborator that
// talks to GitHub.
type Session struct {
	client *github.Client
	login  string
}

// NewSession authenticates with the given token and resolves the account it
// belongs to.
func NewSession(ctx context.Context, token string) (*Session, error) {
	tokenSource := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	httpClient := oauth2.NewClient(ctx, tokenSource)
	client := github.NewClient(httpClient)

	user, _, err := client.Users.Get(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("failed to get authenticated user: %w", err)
	}
	if user.Login == nil {
		return nil, fmt.Errorf("authenticated user has no login")
	}

	return &Session{
		client: client,
		login:  *user.Login,
	}, nil
}

// Login returns the login of the authenticated account.
func (s *Session) Login() string {
	return s.login
}

// Client exposes the underlying API client for collaborators in this package.
func (s *Session) Client() *github.Client {
	return s.client
}
