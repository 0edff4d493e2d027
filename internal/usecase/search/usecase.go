package search

import (
	"context"
	"time"

	"vethub-sync/internal/application/port/output"
	"vethub-sync/internal/domain/entity"
	"vethub-sync/internal/usecase/locator"
)

const defaultVisibleTimeout = 1 * time.Second

type UseCase struct {
	logger         output.LoggerPort
	visibleTimeout time.Duration
}

type Option func(*UseCase)

// WithVisibleTimeout bounds each visibility/enablement probe.
func WithVisibleTimeout(d time.Duration) Option {
	return func(uc *UseCase) {
		if d > 0 {
			uc.visibleTimeout = d
		}
	}
}

func New(logger output.LoggerPort, opts ...Option) *UseCase {
	uc := &UseCase{
		logger:         logger,
		visibleTimeout: defaultVisibleTimeout,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Find looks for target on the main document, then on each frame in
// document order, then by walking shadow roots in page. It returns nil when
// nothing matches; the only error is a cancelled ctx.
func (uc *UseCase) Find(ctx context.Context, page output.PagePort, target entity.SearchTarget) (Match, error) {
	log := uc.logger.WithField("target", target.Text)
	locators := locator.Build(target)

	surfaces, err := page.Surfaces(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		log.Warn("Listing surfaces failed", "error", err)
	}
	log.Debug("Searching surfaces", "surfaces", len(surfaces), "locators", len(locators))

	for _, surface := range surfaces {
		m, err := uc.searchSurface(ctx, surface, locators, target)
		if err != nil {
			return nil, err
		}
		if m != nil {
			log.Debug("Button found", "surface", m.Surface, "locator", m.Locator.String())
			return *m, nil
		}
	}

	found, err := page.ShadowFind(ctx, target)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		log.Warn("Shadow walk failed", "error", err)
		return nil, nil
	}
	if found {
		log.Debug("Button found in shadow DOM")
		return FoundInShadow{}, nil
	}

	log.Debug("Button not found on any surface")
	return nil, nil
}

func (uc *UseCase) searchSurface(
	ctx context.Context,
	surface output.SurfacePort,
	locators []entity.Locator,
	target entity.SearchTarget,
) (*Found, error) {
	for _, loc := range locators {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		el, err := surface.First(ctx, loc)
		if err != nil || el == nil {
			continue
		}
		if uc.acceptable(ctx, el, target.IncludeDisabled) {
			return &Found{Surface: surface.ID(), Locator: loc, Element: el}, nil
		}
	}
	return nil, ctx.Err()
}

// acceptable treats a probe that errors or times out as not matched.
func (uc *UseCase) acceptable(ctx context.Context, el output.ElementPort, includeDisabled bool) bool {
	probeCtx, cancel := context.WithTimeout(ctx, uc.visibleTimeout)
	defer cancel()

	visible, err := el.Visible(probeCtx)
	if err != nil || !visible {
		return false
	}
	if includeDisabled {
		return true
	}
	disabled, err := el.Disabled(probeCtx)
	if err != nil {
		return true
	}
	return !disabled
}
