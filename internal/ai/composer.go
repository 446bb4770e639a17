package ai

import (
	"bytes"
	_ "embed"
	"fmt"
	"strings"
	"text/template"
)

//go:embed reply_template.tmpl
var replyTemplate string

//go:embed system_prompt.md
var defaultSystemPrompt string

// maxBodyChars caps how much of an issue or PR description goes into the
// prompt.
const maxBodyChars = 500

// identityDirective is appended to every system prompt, including operator
// overrides. The reply must read as coming from a person.
const identityDirective = "Never describe yourself as automated, as a bot, or as an AI assistant. " +
	"Write as the project maintainer would."

// Composer turns a ReplyContext into a provider-ready prompt.
type Composer struct {
	tmpl         *template.Template
	systemPrompt string
}

// NewComposer builds a Composer. An empty systemPrompt selects the built-in
// maintainer persona; a non-empty one replaces it but still gets the
// identity directive appended.
func NewComposer(systemPromptOverride string) (*Composer, error) {
	tmpl, err := template.New("reply").
		Funcs(template.FuncMap{"join": strings.Join}).
		Parse(replyTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse reply template: %w", err)
	}

	system := defaultSystemPrompt
	if systemPromptOverride != "" {
		system = systemPromptOverride
	}
	system = strings.TrimRight(system, "\n") + "\n\n" + identityDirective

	return &Composer{tmpl: tmpl, systemPrompt: system}, nil
}

// Compose renders the prompt pair for one reply.
func (c *Composer) Compose(rctx ReplyContext) (Prompt, error) {
	data := replyData{
		ReplyContext: rctx,
		KindTitle:    titleCase(rctx.Kind),
		Informal:     rctx.Style.Formality < 0.5,
	}
	data.Body = truncate(rctx.Body, maxBodyChars)

	var buf bytes.Buffer
	if err := c.tmpl.Execute(&buf, data); err != nil {
		return Prompt{}, fmt.Errorf("failed to execute reply template: %w", err)
	}

	return Prompt{System: c.systemPrompt, User: buf.String()}, nil
}

type replyData struct {
	ReplyContext
	KindTitle string
	Informal  bool
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit] + "..."
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}
