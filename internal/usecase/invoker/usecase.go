// Package invoker turns a button label into a successful click, re-running
// the multi-surface search on every attempt and escalating to a forced click
// after a failure.
package invoker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"vethub-sync/internal/application/port/output"
	"vethub-sync/internal/domain/entity"
	"vethub-sync/internal/usecase/search"
	"vethub-sync/internal/usecase/wait"
)

var (
	ErrNotFound    = errors.New("button not found")
	ErrClickFailed = errors.New("click failed")
)

const (
	defaultTimeout      = 10 * time.Second
	defaultRetryCount   = 3
	defaultNotFoundWait = 2 * time.Second
	defaultFailureWait  = 1 * time.Second
	scrollTimeout       = 5 * time.Second
)

// Click attempt outcomes reported to metrics.
const (
	OutcomeClicked  = "clicked"
	OutcomeNotFound = "not_found"
	OutcomeFailed   = "click_error"
)

type Options struct {
	Timeout    time.Duration
	Force      bool
	RetryCount int
}

func DefaultOptions() Options {
	return Options{
		Timeout:    defaultTimeout,
		RetryCount: defaultRetryCount,
	}
}

func (o Options) normalized() Options {
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	if o.RetryCount <= 0 {
		o.RetryCount = defaultRetryCount
	}
	return o
}

// Finder is the search the invoker repeats on every attempt.
type Finder interface {
	Find(ctx context.Context, page output.PagePort, target entity.SearchTarget) (search.Match, error)
}

type UseCase struct {
	finder       Finder
	logger       output.LoggerPort
	metrics      output.MetricsPort
	sleep        wait.SleepFunc
	notFoundWait time.Duration
	failureWait  time.Duration
}

type Option func(*UseCase)

func WithMetrics(m output.MetricsPort) Option {
	return func(uc *UseCase) {
		if m != nil {
			uc.metrics = m
		}
	}
}

func WithSleep(fn wait.SleepFunc) Option {
	return func(uc *UseCase) {
		if fn != nil {
			uc.sleep = fn
		}
	}
}

// WithDelays sets the pause after a miss and after a failed click.
func WithDelays(notFound, afterFailure time.Duration) Option {
	return func(uc *UseCase) {
		uc.notFoundWait = notFound
		uc.failureWait = afterFailure
	}
}

func New(finder Finder, logger output.LoggerPort, opts ...Option) *UseCase {
	uc := &UseCase{
		finder:       finder,
		logger:       logger,
		metrics:      output.NopMetrics{},
		sleep:        wait.Sleep,
		notFoundWait: defaultNotFoundWait,
		failureWait:  defaultFailureWait,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Click finds the first button-like element whose text contains text
// (case-insensitive) and clicks it.
func (uc *UseCase) Click(ctx context.Context, page output.PagePort, text string, opts Options) (bool, error) {
	return uc.ClickTarget(ctx, page, entity.SearchTarget{Text: text}, opts)
}

// ClickTarget is Click with full control over matching. It performs at most
// opts.RetryCount activations.
func (uc *UseCase) ClickTarget(ctx context.Context, page output.PagePort, target entity.SearchTarget, opts Options) (bool, error) {
	opts = opts.normalized()
	log := uc.logger.WithField("button", target.Text)

	// retry state is local to this call
	force := opts.Force
	var lastErr error

	for attempt := 1; attempt <= opts.RetryCount; attempt++ {
		last := attempt == opts.RetryCount

		m, err := uc.finder.Find(ctx, page, target)
		if err != nil {
			return false, err
		}

		if m == nil {
			uc.metrics.ObserveClickAttempt(target.Text, OutcomeNotFound)
			log.Debug("Button not found", "attempt", attempt, "of", opts.RetryCount)
			if last {
				return false, fmt.Errorf("%w: %q after %d attempts", ErrNotFound, target.Text, opts.RetryCount)
			}
			if err := uc.sleep(ctx, uc.notFoundWait); err != nil {
				return false, err
			}
			continue
		}

		clicked, err := uc.activate(ctx, page, m, target, force, opts.Timeout)
		switch {
		case err == nil && clicked:
			uc.metrics.ObserveClickAttempt(target.Text, OutcomeClicked)
			log.Info("Clicked", "surface", m.SurfaceID(), "attempt", attempt, "force", force)
			return true, nil
		case err == nil:
			// the shadow element vanished between find and click
			uc.metrics.ObserveClickAttempt(target.Text, OutcomeNotFound)
			if last {
				return false, fmt.Errorf("%w: %q after %d attempts", ErrNotFound, target.Text, opts.RetryCount)
			}
			if err := uc.sleep(ctx, uc.notFoundWait); err != nil {
				return false, err
			}
		default:
			if ctx.Err() != nil {
				return false, ctx.Err()
			}
			uc.metrics.ObserveClickAttempt(target.Text, OutcomeFailed)
			log.Warn("Click failed", "attempt", attempt, "force", force, "error", err)
			lastErr = err
			if last {
				return false, fmt.Errorf("%w: %q: %w", ErrClickFailed, target.Text, lastErr)
			}
			force = true
			if err := uc.sleep(ctx, uc.failureWait); err != nil {
				return false, err
			}
		}
	}

	// unreachable with RetryCount >= 1
	return false, fmt.Errorf("%w: %q", ErrNotFound, target.Text)
}

func (uc *UseCase) activate(
	ctx context.Context,
	page output.PagePort,
	m search.Match,
	target entity.SearchTarget,
	force bool,
	timeout time.Duration,
) (bool, error) {
	clickCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	switch found := m.(type) {
	case search.FoundInShadow:
		return page.ShadowClick(clickCtx, target)
	case search.Found:
		scrollCtx, cancelScroll := context.WithTimeout(ctx, scrollTimeout)
		_ = found.Element.ScrollIntoView(scrollCtx)
		cancelScroll()

		if err := found.Element.Click(clickCtx, force); err != nil {
			return false, err
		}
		return true, nil
	default:
		return false, fmt.Errorf("unexpected match %T", m)
	}
}
