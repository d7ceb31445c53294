package service

import (
	"context"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sangkips/receipts-api/internal/domain/repository"
	"go.uber.org/zap"
)

// IdempotencyService purges stored create responses once their key expires.
type IdempotencyService struct {
	repo repository.IdempotencyRepository
	log  *zap.Logger
	now  func() time.Time
}

// NewIdempotencyService creates a new idempotency service
func NewIdempotencyService(repo repository.IdempotencyRepository, log *zap.Logger) *IdempotencyService {
	if log == nil {
		log = zap.NewNop()
	}
	return &IdempotencyService{repo: repo, log: log, now: time.Now}
}

// PurgeExpired deletes every expired key and returns how many were removed.
func (s *IdempotencyService) PurgeExpired(ctx context.Context) (int64, error) {
	deleted, err := s.repo.DeleteExpired(ctx, s.now())
	if err != nil {
		s.log.Error("failed to purge idempotency keys", zap.Error(err))
		return 0, err
	}
	if deleted > 0 {
		s.log.Info("purged idempotency keys", zap.Int64("deleted", deleted))
	}
	return deleted, nil
}

// StartCleanup schedules PurgeExpired every interval and starts the scheduler
// in the background. Call Stop on the returned scheduler at shutdown.
func (s *IdempotencyService) StartCleanup(interval time.Duration, loc *time.Location) (*gocron.Scheduler, error) {
	scheduler := gocron.NewScheduler(loc)
	_, err := scheduler.Every(interval).Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		_, _ = s.PurgeExpired(ctx)
	})
	if err != nil {
		return nil, err
	}
	scheduler.StartAsync()
	return scheduler, nil
}
