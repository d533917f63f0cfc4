package server

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

const tokenSweepInterval = time.Hour

// TokenPurger removes refresh tokens that can no longer be redeemed
type TokenPurger interface {
	PurgeExpiredTokens(ctx context.Context) (int64, error)
}

// sweepTokens purges once at start and then on every tick until ctx is done.
func sweepTokens(ctx context.Context, purger TokenPurger, interval time.Duration, lgr zerolog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		deleted, err := purger.PurgeExpiredTokens(ctx)
		switch {
		case err != nil && ctx.Err() == nil:
			lgr.Error().Err(err).Msg("Refresh token sweep failed")
		case deleted > 0:
			lgr.Info().Int64("deleted", deleted).Msg("Refresh token sweep completed")
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
