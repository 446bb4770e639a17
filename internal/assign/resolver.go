// Package assign implements engagement-based assignment resolution for
// issues where several users volunteer at once.
package assign

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/stewardbot/steward/internal/gh"
)

// requestPhrases are the phrasings interpreted as a request to be assigned.
// Matching is case-insensitive substring matching.
var requestPhrases = []string{
	"assign me",
	"i want to work on this",
	"can i work on this",
	"i would like to work on this",
	"i'd like to take this",
	"please assign me",
	"i can work on this",
	"let me work on this",
}

// IsRequest reports whether a comment volunteers its author for assignment.
func IsRequest(body string) bool {
	lowered := strings.ToLower(body)
	for _, phrase := range requestPhrases {
		if strings.Contains(lowered, phrase) {
			return true
		}
	}
	return false
}

// Request is one user's candidacy for an issue, built fresh from the live
// comment thread on every resolution.
type Request struct {
	Login string

	// RequestedAt is the creation time of the user's first qualifying
	// comment. Ties on engagement are broken by this comment-thread order.
	RequestedAt time.Time

	// CommentCount is the total number of comments the user authored
	// anywhere on the issue thread, not just qualifying ones.
	CommentCount int
}

// CollectRequests scans an issue's comment thread and returns one Request
// per user who asked for assignment. Comments must be in creation order.
func CollectRequests(comments []gh.Comment) []Request {
	counts := make(map[string]int)
	firstRequest := make(map[string]time.Time)
	var order []string

	for _, comment := range comments {
		if comment.Author == "" {
			continue
		}
		counts[comment.Author]++

		if !IsRequest(comment.Body) {
			continue
		}
		if _, seen := firstRequest[comment.Author]; !seen {
			firstRequest[comment.Author] = comment.CreatedAt
			order = append(order, comment.Author)
		}
	}

	requests := make([]Request, 0, len(order))
	for _, login := range order {
		requests = append(requests, Request{
			Login:        login,
			RequestedAt:  firstRequest[login],
			CommentCount: counts[login],
		})
	}
	return requests
}

// Resolve picks the winning candidate: highest engagement first, then the
// earliest request. Logins break exact timestamp ties so repeated calls on
// the same input always agree. Returns false when there are no candidates.
func Resolve(requests []Request) (string, bool) {
	if len(requests) == 0 {
		return "", false
	}

	sorted := make([]Request, len(requests))
	copy(sorted, requests)

	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.CommentCount != b.CommentCount {
			return a.CommentCount > b.CommentCount
		}
		if !a.RequestedAt.Equal(b.RequestedAt) {
			return a.RequestedAt.Before(b.RequestedAt)
		}
		return a.Login < b.Login
	})

	return sorted[0].Login, true
}

// ConfirmationMessage is the reply posted for the selected candidate.
func ConfirmationMessage(login string) string {
	return fmt.Sprintf(
		"@%s Thank you for your interest! I've assigned this issue to you. "+
			"Feel free to ask any questions if you need clarification. "+
			"Looking forward to your contribution! 🚀",
		login,
	)
}

// DeclineMessage is the reply posted for candidates who were not selected.
func DeclineMessage(login, assignee string) string {
	return fmt.Sprintf(
		"@%s Thank you so much for your interest in working on this issue! "+
			"I really appreciate your willingness to contribute. "+
			"However, this issue has been assigned to @%s based on their engagement. "+
			"Please feel free to check out other open issues where you can contribute. "+
			"Your participation in this project is valued! 🙏",
		login, assignee,
	)
}
