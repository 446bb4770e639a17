// Package ai drafts reply comments with a pluggable LLM backend.
package ai

import (
	"fmt"

	"github.com/stewardbot/steward/internal/style"
)

// ReplyContext carries everything the composer needs to draft one reply.
type ReplyContext struct {
	RepoFullName    string
	RepoDescription string

	// Kind is "issue" or "pull request".
	Kind   string
	Number int
	Title  string
	Body   string
	State  string
	Labels []string

	// Branches are set for pull request threads only.
	BaseBranch string
	HeadBranch string

	// Commenter is the user the reply addresses, and CommentBody the
	// comment that triggered it.
	Commenter   string
	CommentBody string

	Style style.Profile
}

// Prompt is a composed system/user prompt pair ready for a provider.
type Prompt struct {
	System string
	User   string
}

// GenerationError reports that a provider could not produce a reply after
// all retry attempts were spent.
type GenerationError struct {
	Provider string
	Attempts int
	Err      error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("%s failed to generate a reply after %d attempts: %v", e.Provider, e.Attempts, e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}
