// Package privilege keeps an administrator credential cached for the
// duration of a provisioning run. macOS installers invoked mid-run
// (softwareupdate, installer, some casks) prompt for sudo; priming the
// timestamp once up front and refreshing it in the background keeps a
// long run from stalling on a password prompt halfway through.
package privilege

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/felixgeelhaar/macsetup/internal/ports"
)

// DefaultRefreshInterval is comfortably inside sudo's default 5 minute
// timestamp_timeout.
const DefaultRefreshInterval = 60 * time.Second

// KeepAlive primes the sudo timestamp and refreshes it until released.
type KeepAlive struct {
	runner   ports.CommandRunner
	logger   ports.Logger
	interval time.Duration

	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

// Option configures a KeepAlive.
type Option func(*KeepAlive)

// WithRefreshInterval overrides the refresh cadence.
func WithRefreshInterval(d time.Duration) Option {
	return func(k *KeepAlive) {
		if d > 0 {
			k.interval = d
		}
	}
}

// NewKeepAlive creates a keep-alive backed by the given runner.
func NewKeepAlive(runner ports.CommandRunner, logger ports.Logger, opts ...Option) *KeepAlive {
	k := &KeepAlive{
		runner:   runner,
		logger:   logger,
		interval: DefaultRefreshInterval,
	}
	for _, opt := range opts {
		opt(k)
	}
	return k
}

// Start validates the credential (prompting the user if needed) and
// spawns the refresh loop. The loop stops when ctx is cancelled or
// Release is called, whichever comes first.
func (k *KeepAlive) Start(ctx context.Context) error {
	result, err := k.runner.Run(ctx, "sudo", "-v")
	if err != nil {
		return fmt.Errorf("validating sudo credential: %w", err)
	}
	if !result.Success() {
		return fmt.Errorf("sudo credential was not granted (exit %d)", result.ExitCode)
	}

	loopCtx, cancel := context.WithCancel(ctx)
	k.cancel = cancel
	k.done = make(chan struct{})

	go k.refreshLoop(loopCtx)

	k.logger.Debug(ctx, "sudo keep-alive started", ports.F("interval", k.interval.String()))
	return nil
}

func (k *KeepAlive) refreshLoop(ctx context.Context) {
	defer close(k.done)

	ticker := time.NewTicker(k.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			// -n: never prompt from the background loop. A failed
			// refresh is not fatal; the next installer just prompts.
			if result, err := k.runner.Run(ctx, "sudo", "-n", "-v"); err != nil || !result.Success() {
				k.logger.Debug(ctx, "sudo refresh failed; credential may expire")
			}
		}
	}
}

// Release stops the refresh loop and waits for it to exit. Safe to
// call more than once and on a KeepAlive that never started.
func (k *KeepAlive) Release() {
	k.once.Do(func() {
		if k.cancel == nil {
			return
		}
		k.cancel()
		<-k.done
		k.logger.Debug(context.Background(), "sudo keep-alive released")
	})
}
