package workers

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/comitanigiacomo/qada-ledger/internal/core/domain"
	"github.com/comitanigiacomo/qada-ledger/internal/metrics"
)

type SnapshotReader interface {
	Snapshot(ctx context.Context, userID string) (*domain.LedgerSnapshot, error)
}

type StreakWriter interface {
	UpdateStreaks(ctx context.Context, id string, current, longest int) error
}

type StreakJob struct {
	UserID string
}

// StreakWorker refreshes the streak counters cached on a profile after its
// logs change. The cached values are advisory; statistics always recompute.
type StreakWorker struct {
	ledger   SnapshotReader
	profiles StreakWriter
	logger   *zap.Logger
	jobs     chan StreakJob
	now      func() time.Time
}

func NewStreakWorker(ledger SnapshotReader, profiles StreakWriter, logger *zap.Logger) *StreakWorker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StreakWorker{
		ledger:   ledger,
		profiles: profiles,
		logger:   logger,
		jobs:     make(chan StreakJob, 100),
		now:      time.Now,
	}
}

func (w *StreakWorker) Start(ctx context.Context) {
	go func() {
		w.logger.Info("Streak worker started in background")
		for {
			select {
			case job := <-w.jobs:
				w.processJob(ctx, job)
			case <-ctx.Done():
				w.logger.Info("Streak worker shutting down")
				return
			}
		}
	}()
}

func (w *StreakWorker) Enqueue(userID string) {
	if w == nil {
		return
	}
	select {
	case w.jobs <- StreakJob{UserID: userID}:
		metrics.StreakJobsEnqueued.Inc()
	default:
		metrics.StreakJobsDropped.Inc()
		w.logger.Warn("Streak worker queue full, dropping job", zap.String("user_id", userID))
	}
}

func (w *StreakWorker) processJob(ctx context.Context, job StreakJob) {
	if w.ledger == nil || w.profiles == nil {
		return
	}

	snap, err := w.ledger.Snapshot(ctx, job.UserID)
	if err != nil {
		w.logger.Error("Streak worker failed to read snapshot",
			zap.String("user_id", job.UserID),
			zap.Error(err),
		)
		return
	}

	current, longest := calculateStreaks(snap, w.now())

	if snap.Profile.Streak == current && snap.Profile.LongestStreak == longest {
		return
	}

	if err := w.profiles.UpdateStreaks(ctx, job.UserID, current, longest); err != nil {
		w.logger.Error("Streak worker failed to update streaks",
			zap.String("user_id", job.UserID),
			zap.Error(err),
		)
		return
	}

	w.logger.Debug("Streaks updated",
		zap.String("user_id", job.UserID),
		zap.Int("current", current),
		zap.Int("longest", longest),
	)
}

func calculateStreaks(snap *domain.LedgerSnapshot, now time.Time) (int, int) {
	goal := snap.Profile.DailyGoal
	today := snap.Profile.Today(now)

	current := domain.CurrentStreak(snap.Logs, today, goal)
	longest := domain.LongestStreak(snap.Logs, goal)
	if current > longest {
		longest = current
	}
	return current, longest
}
