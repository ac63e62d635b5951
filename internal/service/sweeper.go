package service

import (
	"context"
	"log/slog"
	"time"
)

// Sweeper periodically purges expired verification tokens. A failed sweep is
// logged and retried on the next tick; it never stops the loop.
type Sweeper struct {
	registrationService *RegistrationService
	interval            time.Duration
}

func NewSweeper(registrationService *RegistrationService, interval time.Duration) *Sweeper {
	return &Sweeper{
		registrationService: registrationService,
		interval:            interval,
	}
}

// Run blocks until ctx is cancelled, sweeping once per interval.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	slog.Info("token sweeper started", "interval", s.interval)

	for {
		select {
		case <-ctx.Done():
			slog.Info("token sweeper stopped")
			return
		case <-ticker.C:
			_, err := s.registrationService.CleanupExpiredTokens(ctx)
			if err != nil {
				slog.Error("token sweep failed, will retry next tick", "error", err)
			}
		}
	}
}
