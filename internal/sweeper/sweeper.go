// Package sweeper removes signups whose verification window has lapsed. An
// unverified account is only provisional; once its verification token
// expires the account and the token are deleted together.
package sweeper

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"macrolog/internal/models"
)

// Store is the persistence surface the sweeper needs.
type Store interface {
	ExpiredVerificationTokens(ctx context.Context, now time.Time) ([]models.VerificationToken, error)
	RemoveExpiredSignup(ctx context.Context, token models.VerificationToken) error
}

// Sweeper periodically deletes expired unverified signups.
type Sweeper struct {
	store    Store
	interval time.Duration
	now      func() time.Time
	logger   zerolog.Logger
}

// New builds a sweeper running at the given interval. A non-positive
// interval defaults to daily.
func New(store Store, interval time.Duration, logger zerolog.Logger) *Sweeper {
	if interval <= 0 {
		interval = 24 * time.Hour
	}
	return &Sweeper{
		store:    store,
		interval: interval,
		now:      time.Now,
		logger:   logger,
	}
}

// Run sweeps once immediately, then on every tick until the context is
// cancelled. Sweep failures are logged and the loop keeps going.
func (s *Sweeper) Run(ctx context.Context) error {
	if err := s.RunOnce(ctx); err != nil {
		s.logger.Error().Err(err).Msg("signup sweep failed")
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := s.RunOnce(ctx); err != nil {
				s.logger.Error().Err(err).Msg("signup sweep failed")
			}
		}
	}
}

// RunOnce deletes every signup whose verification token has expired. Each
// signup is removed independently so one failure does not abort the rest.
func (s *Sweeper) RunOnce(ctx context.Context) error {
	expired, err := s.store.ExpiredVerificationTokens(ctx, s.now())
	if err != nil {
		return err
	}
	if len(expired) == 0 {
		return nil
	}

	removed := 0
	for _, token := range expired {
		if err := s.store.RemoveExpiredSignup(ctx, token); err != nil {
			s.logger.Error().Err(err).
				Str("user_id", token.UserID.String()).
				Msg("failed to remove expired signup")
			continue
		}
		removed++
	}

	s.logger.Info().
		Int("expired", len(expired)).
		Int("removed", removed).
		Msg("swept expired signups")
	return nil
}
