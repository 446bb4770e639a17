package ai

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptedProvider struct {
	replies []string
	errs    []error
	calls   int
}

func (p *scriptedProvider) Generate(ctx context.Context, prompt Prompt) (string, error) {
	i := p.calls
	p.calls++
	if i < len(p.errs) && p.errs[i] != nil {
		return "", p.errs[i]
	}
	if i < len(p.replies) {
		return p.replies[i], nil
	}
	return "", errors.New("script exhausted")
}

func (p *scriptedProvider) Name() string { return "scripted" }

func newTestClient(provider Provider, waits *[]time.Duration) *Client {
	client := NewClient(provider, slog.New(slog.NewTextHandler(io.Discard, nil)))
	client.sleep = func(ctx context.Context, d time.Duration) error {
		if waits != nil {
			*waits = append(*waits, d)
		}
		return nil
	}
	return client
}

func TestGenerate_FirstAttemptSucceeds(t *testing.T) {
	provider := &scriptedProvider{replies: []string{"  the reply  "}}
	var waits []time.Duration

	text, err := newTestClient(provider, &waits).Generate(context.Background(), Prompt{})
	require.NoError(t, err)
	assert.Equal(t, "the reply", text)
	assert.Equal(t, 1, provider.calls)
	assert.Empty(t, waits)
}

func TestGenerate_RetriesThenSucceeds(t *testing.T) {
	provider := &scriptedProvider{
		errs:    []error{errors.New("overloaded"), errors.New("overloaded")},
		replies: []string{"", "", "recovered"},
	}
	var waits []time.Duration

	text, err := newTestClient(provider, &waits).Generate(context.Background(), Prompt{})
	require.NoError(t, err)
	assert.Equal(t, "recovered", text)
	assert.Equal(t, 3, provider.calls)

	require.Len(t, waits, 2)
	assert.Equal(t, 2*time.Second, waits[0])
	assert.Equal(t, 4*time.Second, waits[1])
}

func TestGenerate_ExhaustsAttempts(t *testing.T) {
	cause := errors.New("quota exceeded")
	provider := &scriptedProvider{
		errs: []error{cause, cause, cause},
	}

	_, err := newTestClient(provider, nil).Generate(context.Background(), Prompt{})
	require.Error(t, err)

	var genErr *GenerationError
	require.ErrorAs(t, err, &genErr)
	assert.Equal(t, "scripted", genErr.Provider)
	assert.Equal(t, 3, genErr.Attempts)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, 3, provider.calls)
}

func TestGenerate_EmptyReplyCountsAsFailure(t *testing.T) {
	provider := &scriptedProvider{replies: []string{"   ", "ok"}}

	text, err := newTestClient(provider, nil).Generate(context.Background(), Prompt{})
	require.NoError(t, err)
	assert.Equal(t, "ok", text)
	assert.Equal(t, 2, provider.calls)
}

func TestGenerate_CanceledDuringBackoff(t *testing.T) {
	provider := &scriptedProvider{errs: []error{errors.New("overloaded")}}
	client := NewClient(provider, slog.New(slog.NewTextHandler(io.Discard, nil)))
	client.sleep = func(ctx context.Context, d time.Duration) error {
		return context.Canceled
	}

	_, err := client.Generate(context.Background(), Prompt{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, provider.calls)
}
