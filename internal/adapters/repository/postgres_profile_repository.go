package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/comitanigiacomo/qada-ledger/internal/core/domain"
	"github.com/comitanigiacomo/qada-ledger/internal/metrics"

	_ "github.com/jackc/pgx/v5/stdlib"
)

var _ domain.ProfileRepository = (*PostgresProfileRepository)(nil)

type PostgresProfileRepository struct {
	db *sqlx.DB
}

func NewPostgresProfileRepository(db *sqlx.DB) *PostgresProfileRepository {
	return &PostgresProfileRepository{db: db}
}

func (r *PostgresProfileRepository) Create(ctx context.Context, profile *domain.UserProfile, debt *domain.PrayerDebt) error {
	defer metrics.RecordDBQueryDuration("create", "user_profiles", time.Now())

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("repository: begin create profile: %w", err)
	}
	defer tx.Rollback()

	profileQuery := `
		INSERT INTO user_profiles (
			id, gender, daily_goal, streak, longest_streak, timezone, created_at, updated_at
		) VALUES (
			:id, :gender, :daily_goal, :streak, :longest_streak, :timezone, :created_at, :updated_at
		)`

	if _, err := tx.NamedExecContext(ctx, profileQuery, newProfileRow(profile)); err != nil {
		return fmt.Errorf("repository: insert profile failed: %w", err)
	}

	debtQuery := `
		INSERT INTO prayer_debts (
			user_id,
			owed_fajr, owed_dhuhr, owed_asr, owed_maghrib, owed_isha,
			initial_fajr, initial_dhuhr, initial_asr, initial_maghrib, initial_isha,
			version, created_at, updated_at
		) VALUES (
			:user_id,
			:owed_fajr, :owed_dhuhr, :owed_asr, :owed_maghrib, :owed_isha,
			:initial_fajr, :initial_dhuhr, :initial_asr, :initial_maghrib, :initial_isha,
			:version, :created_at, :updated_at
		)`

	if _, err := tx.NamedExecContext(ctx, debtQuery, newDebtRow(debt)); err != nil {
		if pgErrorCode(err) == pgUniqueViolation {
			return domain.ErrDebtAlreadyInitialized
		}
		return fmt.Errorf("repository: insert debt failed: %w", err)
	}

	return tx.Commit()
}

func (r *PostgresProfileRepository) GetByID(ctx context.Context, id string) (*domain.UserProfile, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var row profileRow
	err := r.db.GetContext(ctx, &row, `SELECT * FROM user_profiles WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, fmt.Errorf("repository: get profile failed: %w", err)
	}
	return row.toDomain(), nil
}

func (r *PostgresProfileRepository) Update(ctx context.Context, profile *domain.UserProfile) error {
	query := `
		UPDATE user_profiles
		SET daily_goal = :daily_goal,
		    timezone = :timezone,
		    updated_at = :updated_at
		WHERE id = :id`

	res, err := r.db.NamedExecContext(ctx, query, newProfileRow(profile))
	if err != nil {
		return fmt.Errorf("repository: update profile failed: %w", err)
	}
	return expectOneRow(res, domain.ErrProfileNotFound)
}

func (r *PostgresProfileRepository) UpdateStreaks(ctx context.Context, id string, current, longest int) error {
	query := `
		UPDATE user_profiles
		SET streak = $1, longest_streak = $2, updated_at = NOW()
		WHERE id = $3`

	res, err := r.db.ExecContext(ctx, query, current, longest, id)
	if err != nil {
		return fmt.Errorf("repository: update streaks failed: %w", err)
	}
	return expectOneRow(res, domain.ErrProfileNotFound)
}

// Delete relies on ON DELETE CASCADE to remove the debt and the logs.
func (r *PostgresProfileRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM user_profiles WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("repository: delete profile failed: %w", err)
	}
	return expectOneRow(res, domain.ErrProfileNotFound)
}

func expectOneRow(res sql.Result, notFound error) error {
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return notFound
	}
	return nil
}
