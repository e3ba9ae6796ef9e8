package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/comitanigiacomo/qada-ledger/internal/core/domain"
)

var _ domain.DailyLogRepository = (*PostgresDailyLogRepository)(nil)

type PostgresDailyLogRepository struct {
	db *sqlx.DB
}

func NewPostgresDailyLogRepository(db *sqlx.DB) *PostgresDailyLogRepository {
	return &PostgresDailyLogRepository{db: db}
}

func (r *PostgresDailyLogRepository) GetOrCreate(ctx context.Context, userID string, day time.Time) (*domain.DailyLog, bool, error) {
	return getOrCreateLog(ctx, r.db, userID, day, false)
}

func (r *PostgresDailyLogRepository) GetByDate(ctx context.Context, userID string, day time.Time) (*domain.DailyLog, error) {
	var row dailyLogRow
	query := `SELECT * FROM daily_logs WHERE user_id = $1 AND log_date = $2`

	err := r.db.GetContext(ctx, &row, query, userID, domain.CalendarDay(day, day.Location()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrDayNotFound
		}
		return nil, fmt.Errorf("repository: get log failed: %w", err)
	}
	return row.toDomain(), nil
}

func (r *PostgresDailyLogRepository) Increment(ctx context.Context, userID string, day time.Time, p domain.PrayerType) (*domain.DailyLog, error) {
	column, ok := prayerColumns[p]
	if !ok {
		return nil, domain.ErrInvalidPrayerType
	}

	fresh := domain.NewDailyLog(userID, day)
	query := fmt.Sprintf(`
		INSERT INTO daily_logs (id, user_id, log_date, %[1]s, notes, created_at, updated_at)
		VALUES ($1, $2, $3, 1, '', $4, $4)
		ON CONFLICT (user_id, log_date)
		DO UPDATE SET %[1]s = daily_logs.%[1]s + 1, updated_at = EXCLUDED.updated_at
		RETURNING *`, column)

	var row dailyLogRow
	err := r.db.GetContext(ctx, &row, query, uuid.NewString(), userID, fresh.Date, fresh.CreatedAt)
	if err != nil {
		if pgErrorCode(err) == pgForeignKeyViolation {
			return nil, domain.ErrProfileNotFound
		}
		return nil, fmt.Errorf("repository: increment log failed: %w", err)
	}
	return row.toDomain(), nil
}

func (r *PostgresDailyLogRepository) Set(ctx context.Context, log *domain.DailyLog) error {
	if log.ID == "" {
		return domain.ErrDayNotFound
	}
	return writeLog(ctx, r.db, log)
}

func (r *PostgresDailyLogRepository) ListByUserIDAndDateRange(ctx context.Context, userID string, from, to time.Time) ([]*domain.DailyLog, error) {
	rows := []dailyLogRow{}

	query := `
		SELECT * FROM daily_logs
		WHERE user_id = $1
		  AND log_date >= $2
		  AND log_date <= $3
		ORDER BY log_date ASC`

	if err := r.db.SelectContext(ctx, &rows, query, userID, from, to); err != nil {
		return nil, fmt.Errorf("repository: list logs failed: %w", err)
	}

	logs := make([]*domain.DailyLog, 0, len(rows))
	for _, row := range rows {
		logs = append(logs, row.toDomain())
	}
	return logs, nil
}
