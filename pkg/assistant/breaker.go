package assistant

import (
	"context"
	"errors"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"amazonia/pkg/logging"
	"amazonia/pkg/metrics"
)

// Guarded runs the primary assistant behind a circuit breaker and a
// timeout, falling back to the offline responder on any failure.
type Guarded struct {
	primary  Assistant
	fallback Assistant
	cb       *gobreaker.CircuitBreaker[string]
	timeout  time.Duration
}

func NewGuarded(primary Assistant, timeout time.Duration) *Guarded {
	name := "assistant-" + primary.Name()
	cb := gobreaker.NewCircuitBreaker[string](gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state change")
		},
	})
	return &Guarded{
		primary:  primary,
		fallback: OfflineAssistant{},
		cb:       cb,
		timeout:  timeout,
	}
}

// Reply returns the answer and the provider that produced it. The error is
// only informative: a fallback answer is always returned with it.
func (g *Guarded) Reply(ctx context.Context, req Request) (string, string, error) {
	if g.primary.Name() == ProviderOffline {
		text, err := g.primary.Reply(ctx, req)
		metrics.RecordAssistantCall(ProviderOffline, "success")
		return text, ProviderOffline, err
	}

	text, err := g.cb.Execute(func() (string, error) {
		callCtx, cancel := context.WithTimeout(ctx, g.timeout)
		defer cancel()
		return g.primary.Reply(callCtx, req)
	})
	if err == nil {
		metrics.RecordAssistantCall(g.primary.Name(), "success")
		return text, g.primary.Name(), nil
	}

	outcome := "error"
	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		outcome = "rejected"
	case errors.Is(err, context.DeadlineExceeded):
		outcome = "timeout"
	}
	metrics.RecordAssistantCall(g.primary.Name(), outcome)
	logging.Ctx(ctx).Warn().Err(err).Str("provider", g.primary.Name()).Msg("assistant failed, using fallback")

	fallback, _ := g.fallback.Reply(ctx, req)
	return fallback, ProviderFallback, err
}

// State reports the circuit breaker state of the primary provider.
func (g *Guarded) State() gobreaker.State {
	return g.cb.State()
}
