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
	"github.com/comitanigiacomo/qada-ledger/internal/metrics"
)

var _ domain.LedgerRepository = (*PostgresLedgerRepository)(nil)

type PostgresLedgerRepository struct {
	db *sqlx.DB
}

func NewPostgresLedgerRepository(db *sqlx.DB) *PostgresLedgerRepository {
	return &PostgresLedgerRepository{db: db}
}

func (r *PostgresLedgerRepository) GetByUserID(ctx context.Context, userID string) (*domain.PrayerDebt, error) {
	return getDebt(ctx, r.db, userID, false)
}

func (r *PostgresLedgerRepository) Update(ctx context.Context, debt *domain.PrayerDebt) error {
	query := `
		UPDATE prayer_debts
		SET owed_fajr = :owed_fajr,
		    owed_dhuhr = :owed_dhuhr,
		    owed_asr = :owed_asr,
		    owed_maghrib = :owed_maghrib,
		    owed_isha = :owed_isha,
		    version = :version,
		    updated_at = :updated_at
		WHERE user_id = :user_id
		  AND version = :version - 1 -- Optimistic Lock check`

	res, err := r.db.NamedExecContext(ctx, query, newDebtRow(debt))
	if err != nil {
		return fmt.Errorf("repository: update debt failed: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		var count int
		if err := r.db.GetContext(ctx, &count, `SELECT count(*) FROM prayer_debts WHERE user_id = $1`, debt.UserID); err != nil {
			return fmt.Errorf("existence check failed: %w", err)
		}
		if count == 0 {
			return domain.ErrDebtNotFound
		}
		return domain.ErrDebtConflict
	}
	return nil
}

// ApplyCompletion holds row locks on the debt and the day log for the whole
// read-modify-write, so concurrent completions serialize per user.
func (r *PostgresLedgerRepository) ApplyCompletion(ctx context.Context, userID string, day time.Time, fn domain.CompletionFunc) (*domain.PrayerDebt, *domain.DailyLog, error) {
	defer metrics.RecordDBQueryDuration("apply_completion", "prayer_debts", time.Now())

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("repository: begin completion: %w", err)
	}
	defer tx.Rollback()

	debt, err := getDebt(ctx, tx, userID, true)
	if err != nil {
		return nil, nil, err
	}

	log, _, err := getOrCreateLog(ctx, tx, userID, day, true)
	if err != nil {
		return nil, nil, err
	}

	if err := fn(debt, log); err != nil {
		return nil, nil, err
	}

	debtQuery := `
		UPDATE prayer_debts
		SET owed_fajr = :owed_fajr,
		    owed_dhuhr = :owed_dhuhr,
		    owed_asr = :owed_asr,
		    owed_maghrib = :owed_maghrib,
		    owed_isha = :owed_isha,
		    version = :version,
		    updated_at = :updated_at
		WHERE user_id = :user_id`

	if _, err := tx.NamedExecContext(ctx, debtQuery, newDebtRow(debt)); err != nil {
		return nil, nil, fmt.Errorf("repository: write debt failed: %w", err)
	}

	if err := writeLog(ctx, tx, log); err != nil {
		return nil, nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, fmt.Errorf("repository: commit completion: %w", err)
	}
	return debt, log, nil
}

func (r *PostgresLedgerRepository) Snapshot(ctx context.Context, userID string) (*domain.LedgerSnapshot, error) {
	defer metrics.RecordDBQueryDuration("snapshot", "daily_logs", time.Now())

	tx, err := r.db.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true})
	if err != nil {
		return nil, fmt.Errorf("repository: begin snapshot: %w", err)
	}
	defer tx.Rollback()

	var profile profileRow
	if err := tx.GetContext(ctx, &profile, `SELECT * FROM user_profiles WHERE id = $1`, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, fmt.Errorf("repository: snapshot profile: %w", err)
	}

	debt, err := getDebt(ctx, tx, userID, false)
	if err != nil {
		return nil, err
	}

	rows := []dailyLogRow{}
	if err := tx.SelectContext(ctx, &rows, `SELECT * FROM daily_logs WHERE user_id = $1 ORDER BY log_date ASC`, userID); err != nil {
		return nil, fmt.Errorf("repository: snapshot logs: %w", err)
	}

	logs := make([]*domain.DailyLog, 0, len(rows))
	for _, row := range rows {
		logs = append(logs, row.toDomain())
	}

	return &domain.LedgerSnapshot{
		Profile: profile.toDomain(),
		Debt:    debt,
		Logs:    logs,
	}, nil
}

func getDebt(ctx context.Context, q sqlx.QueryerContext, userID string, forUpdate bool) (*domain.PrayerDebt, error) {
	query := `SELECT * FROM prayer_debts WHERE user_id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	var row debtRow
	if err := sqlx.GetContext(ctx, q, &row, query, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrDebtNotFound
		}
		return nil, fmt.Errorf("repository: get debt failed: %w", err)
	}
	return row.toDomain(), nil
}

// getOrCreateLog inserts a zero-valued log if none exists and returns the row.
func getOrCreateLog(ctx context.Context, q sqlx.QueryerContext, userID string, day time.Time, forUpdate bool) (*domain.DailyLog, bool, error) {
	fresh := domain.NewDailyLog(userID, day)
	fresh.ID = uuid.NewString()

	insert := `
		INSERT INTO daily_logs (id, user_id, log_date, notes, created_at, updated_at)
		VALUES ($1, $2, $3, '', $4, $5)
		ON CONFLICT (user_id, log_date) DO NOTHING
		RETURNING *`

	var row dailyLogRow
	err := sqlx.GetContext(ctx, q, &row, insert, fresh.ID, userID, fresh.Date, fresh.CreatedAt, fresh.UpdatedAt)
	if err == nil {
		return row.toDomain(), true, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		if pgErrorCode(err) == pgForeignKeyViolation {
			return nil, false, domain.ErrProfileNotFound
		}
		return nil, false, fmt.Errorf("repository: insert log failed: %w", err)
	}

	query := `SELECT * FROM daily_logs WHERE user_id = $1 AND log_date = $2`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	if err := sqlx.GetContext(ctx, q, &row, query, userID, fresh.Date); err != nil {
		return nil, false, fmt.Errorf("repository: get log failed: %w", err)
	}
	return row.toDomain(), false, nil
}

func writeLog(ctx context.Context, e sqlx.ExtContext, log *domain.DailyLog) error {
	query := `
		UPDATE daily_logs
		SET fajr = :fajr,
		    dhuhr = :dhuhr,
		    asr = :asr,
		    maghrib = :maghrib,
		    isha = :isha,
		    notes = :notes,
		    updated_at = :updated_at
		WHERE id = :id`

	res, err := sqlx.NamedExecContext(ctx, e, query, newDailyLogRow(log))
	if err != nil {
		return fmt.Errorf("repository: write log failed: %w", err)
	}
	return expectOneRow(res, domain.ErrDayNotFound)
}
