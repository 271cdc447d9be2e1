package resilience

import (
	"context"
	"time"

	"clinical-assistant-be/pkg/llm"
)

// ResilientProvider decorates an LLMProvider with a per-call timeout, bounded
// exponential retry and a circuit breaker. Components receive this wrapper,
// never a raw backend client.
type ResilientProvider struct {
	inner       llm.LLMProvider
	retry       RetryConfig
	breaker     *CircuitBreaker
	callTimeout time.Duration
}

// Ensure ResilientProvider implements LLMProvider
var _ llm.LLMProvider = &ResilientProvider{}

func NewResilientProvider(inner llm.LLMProvider, retry RetryConfig, breaker *CircuitBreaker, callTimeout time.Duration) *ResilientProvider {
	if callTimeout <= 0 {
		callTimeout = 30 * time.Second
	}
	return &ResilientProvider{
		inner:       inner,
		retry:       retry,
		breaker:     breaker,
		callTimeout: callTimeout,
	}
}

func (p *ResilientProvider) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	if !p.breaker.Allow() {
		return "", ErrCircuitOpen
	}

	var out string
	err := Retry(ctx, p.retry, func(ctx context.Context) error {
		callCtx, cancel := context.WithTimeout(ctx, p.callTimeout)
		defer cancel()

		res, err := p.inner.Chat(callCtx, history, opts...)
		if err != nil {
			return err
		}
		out = res
		return nil
	})

	if err != nil {
		p.breaker.RecordFailure()
		return "", err
	}

	p.breaker.RecordSuccess()
	return out, nil
}

func (p *ResilientProvider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return p.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, opts...)
}
