package ideas

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker/v2"

	"idea-analyzer/internal/llm"
	"idea-analyzer/internal/shared/metrics"
	"idea-analyzer/internal/shared/telemetry"
)

const (
	msgAnalyzerNotConfigured = "⚠️ Gemini API გასაღები არ არის კონფიგურირებული, ანალიზი ვერ შესრულდა."
	msgAnalyzerFailed        = "❌ შეცდომა Gemini API-სთან დაკავშირებისას: %v"
)

// BreakerSettings tunes the circuit breaker around the model call.
type BreakerSettings struct {
	ConsecutiveFailures uint32
	OpenTimeout         time.Duration
}

func (s BreakerSettings) normalize() BreakerSettings {
	if s.ConsecutiveFailures == 0 {
		s.ConsecutiveFailures = 5
	}
	if s.OpenTimeout <= 0 {
		s.OpenTimeout = 30 * time.Second
	}
	return s
}

// Analyzer turns idea text into a displayable analysis. It never returns an error:
// every failure becomes a message the page can show.
type Analyzer struct {
	client  llm.Client
	breaker *gobreaker.CircuitBreaker[string]
}

// NewAnalyzer wraps client. A nil client means no API key is configured.
func NewAnalyzer(client llm.Client, settings BreakerSettings) *Analyzer {
	settings = settings.normalize()
	breaker := gobreaker.NewCircuitBreaker[string](gobreaker.Settings{
		Name:    "gemini",
		Timeout: settings.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= settings.ConsecutiveFailures
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			telemetry.Warn("analyzer.breaker_state", map[string]any{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			})
		},
	})
	return &Analyzer{client: client, breaker: breaker}
}

// Configured reports whether a model client is available.
func (a *Analyzer) Configured() bool {
	return a != nil && a.client != nil
}

// Analyze builds the evaluation prompt for text and asks the model once.
func (a *Analyzer) Analyze(ctx context.Context, text string) string {
	if !a.Configured() {
		metrics.ObserveAnalysis(metrics.OutcomeNotConfig, 0)
		telemetry.Warn("analyzer.not_configured", nil)
		return msgAnalyzerNotConfigured
	}

	prompt := llm.BuildIdeaPrompt(text)
	start := time.Now()
	out, err := a.breaker.Execute(func() (string, error) {
		return a.client.Generate(ctx, prompt)
	})
	took := time.Since(start)

	if err != nil {
		outcome := metrics.OutcomeFailed
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			outcome = metrics.OutcomeUnavailable
		}
		metrics.ObserveAnalysis(outcome, took)
		telemetry.Error("analyzer.failed", map[string]any{
			"outcome":     outcome,
			"err":         err.Error(),
			"duration_ms": took.Milliseconds(),
		})
		return fmt.Sprintf(msgAnalyzerFailed, err)
	}

	metrics.ObserveAnalysis(metrics.OutcomeOK, took)
	return out
}
