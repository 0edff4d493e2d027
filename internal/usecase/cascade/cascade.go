// Package cascade runs alternatives in order until one succeeds.
package cascade

import (
	"context"
	"errors"
	"fmt"
)

var ErrExhausted = errors.New("all alternatives failed")

type Step struct {
	Name string
	Run  func(ctx context.Context) error
}

// Run returns the name of the first step that succeeds. When none does, the
// error wraps ErrExhausted and every step error. A cancelled ctx stops the
// cascade immediately.
func Run(ctx context.Context, steps ...Step) (string, error) {
	errs := []error{ErrExhausted}
	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		err := step.Run(ctx)
		if err == nil {
			return step.Name, nil
		}
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		errs = append(errs, fmt.Errorf("%s: %w", step.Name, err))
	}
	return "", errors.Join(errs...)
}
