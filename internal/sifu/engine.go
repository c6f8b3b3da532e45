package sifu

import (
	"context"
	"time"

	"github.com/failsafe-go/failsafe-go"
	"github.com/failsafe-go/failsafe-go/retrypolicy"
)

// Answer is the structured payload produced by the answer engine.
type Answer struct {
	ResponseText        string   `json:"response_text"`
	TermsUsed           []string `json:"terms_used"`
	SectionsReferenced  []string `json:"sections_referenced"`
	ClassicalReferences []string `json:"classical_references"`
}

// AnswerEngine generates an answer for a free-text question. The engine is
// the dominant latency source; implementations must honor ctx cancellation.
type AnswerEngine interface {
	Generate(ctx context.Context, questionText string) (*Answer, error)
}

// Retry budget defaults for the engine boundary.
const (
	// DefaultEngineTimeout bounds one generation attempt.
	DefaultEngineTimeout = 30 * time.Second
	// DefaultEngineMaxRetries caps retries after the first attempt.
	DefaultEngineMaxRetries = 2

	engineRetryBaseDelay = 500 * time.Millisecond
	engineRetryMaxDelay  = 5 * time.Second
)

// RetryingEngine wraps an AnswerEngine with a per-attempt timeout and a
// bounded retry policy. Exhaustion surfaces as a GenerationError; the caller
// never charges usage for it.
type RetryingEngine struct {
	engine   AnswerEngine
	timeout  time.Duration
	executor failsafe.Executor[*Answer]
}

// NewRetryingEngine builds the retry wrapper. Non-positive arguments select
// the defaults.
func NewRetryingEngine(engine AnswerEngine, timeout time.Duration, maxRetries int) *RetryingEngine {
	if timeout <= 0 {
		timeout = DefaultEngineTimeout
	}
	if maxRetries < 0 {
		maxRetries = DefaultEngineMaxRetries
	}
	policy := retrypolicy.NewBuilder[*Answer]().
		WithMaxRetries(maxRetries).
		WithBackoff(engineRetryBaseDelay, engineRetryMaxDelay).
		Build()
	return &RetryingEngine{
		engine:   engine,
		timeout:  timeout,
		executor: failsafe.With(policy),
	}
}

// Generate runs the wrapped engine under the retry budget.
func (e *RetryingEngine) Generate(ctx context.Context, questionText string) (*Answer, error) {
	answer, err := e.executor.WithContext(ctx).Get(func() (*Answer, error) {
		attemptCtx, cancel := context.WithTimeout(ctx, e.timeout)
		defer cancel()
		return e.engine.Generate(attemptCtx, questionText)
	})
	if err != nil {
		return nil, &GenerationError{Err: err}
	}
	return answer, nil
}
