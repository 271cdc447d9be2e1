package resilience

import (
	"context"
	"errors"
	"testing"
	"time"

	"clinical-assistant-be/pkg/llm"

	"github.com/stretchr/testify/assert"
)

type flakyProvider struct {
	failFirst int // fail this many calls before succeeding
	calls     int
}

func (f *flakyProvider) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	f.calls++
	if f.calls <= f.failFirst {
		return "", errors.New("transient backend error")
	}
	return "resposta", nil
}

func (f *flakyProvider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return f.Chat(ctx, nil, opts...)
}

func TestResilientProviderRetriesThroughTransientFailure(t *testing.T) {
	inner := &flakyProvider{failFirst: 2}
	breaker := NewCircuitBreaker(5, time.Minute)
	p := NewResilientProvider(inner, fastRetryConfig(3), breaker, time.Second)

	out, err := p.Generate(context.Background(), "pergunta")

	assert.NoError(t, err)
	assert.Equal(t, "resposta", out)
	assert.Equal(t, 3, inner.calls)
	assert.False(t, breaker.IsOpen())
}

func TestResilientProviderTripsBreakerOnExhaustedRetries(t *testing.T) {
	inner := &flakyProvider{failFirst: 100}
	breaker := NewCircuitBreaker(1, time.Minute)
	p := NewResilientProvider(inner, fastRetryConfig(2), breaker, time.Second)

	_, err := p.Generate(context.Background(), "pergunta")
	assert.Error(t, err)
	assert.True(t, breaker.IsOpen())

	// Next call is short-circuited without touching the backend.
	callsBefore := inner.calls
	_, err = p.Chat(context.Background(), []llm.Message{{Role: "user", Content: "oi"}})
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.Equal(t, callsBefore, inner.calls)
}
