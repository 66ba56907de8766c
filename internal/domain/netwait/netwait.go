// Package netwait blocks retryable installs until the network is
// reachable again, with an interactive fallback once the automatic
// polling budget runs out.
package netwait

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/felixgeelhaar/statekit"

	"github.com/felixgeelhaar/macsetup/internal/ports"
)

// ErrAbandoned means the operator chose to stop waiting for the network.
var ErrAbandoned = errors.New("network wait abandoned")

// State names for the wait machine.
const (
	StatePolling      = "polling"
	StateAwaitingUser = "awaiting-user"
	StateReady        = "ready"
	StateAbandoned    = "abandoned"
)

// Events for the wait machine.
const (
	EventReachable   = "REACHABLE"
	EventExhausted   = "EXHAUSTED"
	EventKeepWaiting = "KEEP_WAITING"
	EventGiveUp      = "GIVE_UP"
)

// Context is the wait machine's (empty) extended state; the poll
// counter lives in the Wait loop.
type Context struct{}

// buildWaitMachine constructs the wait state machine: poll until
// reachable, escalate to the operator when the automatic budget is
// exhausted, and either resume polling or abandon.
func buildWaitMachine() (*statekit.Interpreter[Context], error) {
	machine, err := statekit.NewMachine[Context]("netwait").
		WithInitial(StatePolling).
		WithContext(Context{}).
		State(StatePolling).
		On(EventReachable).Target(StateReady).
		On(EventExhausted).Target(StateAwaitingUser).Done().
		State(StateAwaitingUser).
		On(EventKeepWaiting).Target(StatePolling).
		On(EventGiveUp).Target(StateAbandoned).Done().
		State(StateReady).Done().
		State(StateAbandoned).Done().
		Build()
	if err != nil {
		return nil, err
	}

	return statekit.NewInterpreter(machine), nil
}

// Waiter is a readiness gate over a network prober. Between unit
// retry attempts it polls a known-reachable endpoint; after autoBudget
// failed polls it asks the operator whether to keep waiting.
type Waiter struct {
	prober     ports.NetworkProber
	prompter   ports.Prompter
	logger     ports.Logger
	interval   time.Duration
	autoBudget int
}

// Option configures a Waiter.
type Option func(*Waiter)

// WithInterval sets the delay between polls (default: 5s).
func WithInterval(d time.Duration) Option {
	return func(w *Waiter) {
		w.interval = d
	}
}

// WithAutoBudget sets how many polls happen before the interactive
// fallback (default: 12).
func WithAutoBudget(n int) Option {
	return func(w *Waiter) {
		w.autoBudget = n
	}
}

// NewWaiter creates a Waiter.
func NewWaiter(prober ports.NetworkProber, prompter ports.Prompter, logger ports.Logger, opts ...Option) *Waiter {
	w := &Waiter{
		prober:     prober,
		prompter:   prompter,
		logger:     logger,
		interval:   5 * time.Second,
		autoBudget: 12,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Wait blocks until the network is reachable, the operator gives up,
// or the context is cancelled.
func (w *Waiter) Wait(ctx context.Context) error {
	interp, err := buildWaitMachine()
	if err != nil {
		return fmt.Errorf("build wait machine: %w", err)
	}
	interp.Start()
	defer interp.Stop()

	polls := 0
	for {
		switch interp.State().Value {
		case StateReady:
			return nil

		case StateAbandoned:
			return ErrAbandoned

		case StatePolling:
			if w.prober.Reachable(ctx) {
				interp.Send(statekit.Event{Type: EventReachable})
				continue
			}

			polls++
			w.logger.Warn(ctx, "network unreachable",
				ports.F("poll", polls), ports.F("budget", w.autoBudget))

			if polls >= w.autoBudget {
				interp.Send(statekit.Event{Type: EventExhausted})
				continue
			}

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(w.interval):
			}

		case StateAwaitingUser:
			keepWaiting, err := w.prompter.Confirm(ctx, "Network still unreachable. Keep waiting?")
			if err != nil {
				return err
			}
			if keepWaiting {
				polls = 0
				interp.Send(statekit.Event{Type: EventKeepWaiting})
			} else {
				interp.Send(statekit.Event{Type: EventGiveUp})
			}
		}
	}
}
