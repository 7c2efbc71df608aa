package service

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// RunNotifier runs the reminder and overdue scans on a fixed interval until
// ctx is cancelled. Each scan stamps the borrowings it covered, so a scan
// that fires twice emits nothing the second time.
func (s *Service) RunNotifier(ctx context.Context, interval time.Duration) {
	log := s.log.Named("notifier")
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.runScans(ctx, log); err != nil {
				log.Error("notification scan", zap.Error(err))
			}
		}
	}
}

func (s *Service) runScans(ctx context.Context, log *zap.Logger) error {
	now := s.now()
	gg, ctx := errgroup.WithContext(ctx)
	gg.Go(func() error {
		sent, err := s.repo.SendDueReminders(ctx, now)
		if err != nil {
			return err
		}
		if sent > 0 {
			log.Info("return reminders sent", zap.Int("count", sent))
		}
		return nil
	})
	gg.Go(func() error {
		sent, err := s.repo.SendOverdueAlerts(ctx, now)
		if err != nil {
			return err
		}
		if sent > 0 {
			log.Info("overdue alerts sent", zap.Int("count", sent))
		}
		return nil
	})
	return gg.Wait()
}
