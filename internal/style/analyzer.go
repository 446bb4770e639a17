// Package style derives a rough writing profile from a user's recent
// comments so generated replies can match their register.
package style

import (
	"strings"
	"unicode"
)

// Profile summarizes how a user tends to write.
type Profile struct {
	// AvgLength is the mean comment length in characters.
	AvgLength int
	// Tone is one of "casual", "technical", or "formal".
	Tone string
	// Formality ranges 0..1; lower is more informal.
	Formality float64
	// UsesEmojis reports whether any sampled comment contained an emoji.
	UsesEmojis bool
	// AvgSentences is the mean sentence count per comment, minimum 1.
	AvgSentences int
}

// DefaultProfile is used when there is no comment history to sample.
func DefaultProfile() Profile {
	return Profile{
		AvgLength:    0,
		Tone:         "formal",
		Formality:    0.5,
		UsesEmojis:   false,
		AvgSentences: 1,
	}
}

var (
	casualWords    = []string{"hey", "yeah", "cool", "awesome", "thanks!", "lol", "btw", "gonna"}
	formalWords    = []string{"regarding", "therefore", "furthermore", "nevertheless", "accordingly", "pursuant"}
	technicalWords = []string{"function", "class", "variable", "api", "stack trace", "refactor", "null", "deploy"}

	contractions = []string{"don't", "can't", "won't", "i'm", "it's", "that's", "isn't", "doesn't", "you're", "we're"}
	greetings    = []string{"hey", "hi ", "hello", "thanks", "cheers"}
)

// Analyze samples a user's comments and produces their Profile. With no
// comments it returns DefaultProfile.
func Analyze(comments []string) Profile {
	if len(comments) == 0 {
		return DefaultProfile()
	}

	var totalLength, totalSentences int
	var casualHits, formalHits, technicalHits int
	var informalSignals int
	usesEmojis := false

	for _, comment := range comments {
		totalLength += len(comment)
		totalSentences += countSentences(comment)

		lowered := strings.ToLower(comment)
		casualHits += countHits(lowered, casualWords)
		formalHits += countHits(lowered, formalWords)
		technicalHits += countHits(lowered, technicalWords)
		informalSignals += countHits(lowered, contractions)
		informalSignals += countHits(lowered, greetings)

		if !usesEmojis && containsEmoji(comment) {
			usesEmojis = true
		}
	}

	// Casual signals dominate: a dev who writes "hey, the API is broken"
	// reads casual, not technical.
	tone := "formal"
	switch {
	case casualHits > 0 && casualHits >= technicalHits:
		tone = "casual"
	case technicalHits > 0:
		tone = "technical"
	}

	// Start neutral and subtract for each informal signal.
	formality := 0.5 - 0.05*float64(informalSignals)
	if formality < 0 {
		formality = 0
	}
	if tone == "formal" && formalHits > 0 {
		formality += 0.05 * float64(formalHits)
		if formality > 1 {
			formality = 1
		}
	}

	avgSentences := totalSentences / len(comments)
	if avgSentences < 1 {
		avgSentences = 1
	}

	return Profile{
		AvgLength:    totalLength / len(comments),
		Tone:         tone,
		Formality:    formality,
		UsesEmojis:   usesEmojis,
		AvgSentences: avgSentences,
	}
}

func countHits(lowered string, words []string) int {
	hits := 0
	for _, word := range words {
		hits += strings.Count(lowered, word)
	}
	return hits
}

func countSentences(comment string) int {
	count := 0
	for _, r := range comment {
		if r == '.' || r == '!' || r == '?' {
			count++
		}
	}
	if count == 0 {
		count = 1
	}
	return count
}

func containsEmoji(comment string) bool {
	for _, r := range comment {
		if unicode.Is(unicode.So, r) || (r >= 0x1F000 && r <= 0x1FAFF) {
			return true
		}
	}
	return false
}
