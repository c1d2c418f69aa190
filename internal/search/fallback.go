package search

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
)

// Fallback tries each provider in order and returns the first non-empty
// result set. Errors from earlier providers are logged and joined into the
// final error only when every provider failed.
type Fallback struct {
	Providers []Provider
}

func (f *Fallback) Name() string { return "fallback" }

func (f *Fallback) Search(ctx context.Context, query string, limit int) ([]Result, error) {
	if len(f.Providers) == 0 {
		return nil, errors.New("no search providers configured")
	}
	var errs []error
	for _, p := range f.Providers {
		results, err := p.Search(ctx, query, limit)
		if err == nil && len(results) > 0 {
			return results, nil
		}
		if err == nil {
			err = ErrNoResults
		}
		log.Warn().Err(err).Str("provider", p.Name()).Str("stage", "search").Msg("provider failed; trying next")
		errs = append(errs, fmt.Errorf("%s: %w", p.Name(), err))
		if ctx.Err() != nil {
			break
		}
	}
	return nil, errors.Join(errs...)
}
