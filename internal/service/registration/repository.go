package registration

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"gokon/internal/service/matching"
	"gokon/pkg/db"
)

type Repository interface {
	HasProfile(ctx context.Context, userID string) (bool, error)
	ListByUser(ctx context.Context, userID string) ([]matching.Registration, error)

	CancelPending(ctx context.Context, tx *sql.Tx, userID string) (int64, error)
	Insert(ctx context.Context, tx *sql.Tx, reg *matching.Registration) error
	GetForUpdate(ctx context.Context, tx *sql.Tx, userID, registrationID string) (*matching.Registration, error)
	UpdateStatus(ctx context.Context, tx *sql.Tx, registrationID, status string) error

	WithTransaction(ctx context.Context, isolation sql.IsolationLevel, fn db.TxFunc) error
}

type repository struct {
	db db.SQLExecutor
}

func NewRepository(database db.SQLExecutor) Repository {
	return &repository{
		db: database,
	}
}

func (r *repository) HasProfile(ctx context.Context, userID string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM profiles WHERE user_id = $1)`, userID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check profile: %w", err)
	}
	return exists, nil
}

// ListByUser returns every registration of a user, newest event first
func (r *repository) ListByUser(ctx context.Context, userID string) ([]matching.Registration, error) {
	query := `
		SELECT id, user_id, event_date, event_time, area_id, participation_type, status, created_at
		FROM registrations
		WHERE user_id = $1
		ORDER BY event_date DESC, event_time ASC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("query registrations: %w", err)
	}
	defer rows.Close()

	regs := make([]matching.Registration, 0)
	for rows.Next() {
		reg, err := scanRegistration(rows)
		if err != nil {
			return nil, err
		}
		regs = append(regs, *reg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate registrations: %w", err)
	}

	return regs, nil
}

// CancelPending cancels every pending registration of a user
func (r *repository) CancelPending(ctx context.Context, tx *sql.Tx, userID string) (int64, error) {
	result, err := tx.ExecContext(ctx, `
		UPDATE registrations
		SET status = 'cancelled', updated_at = NOW()
		WHERE user_id = $1 AND status = 'pending'
	`, userID)
	if err != nil {
		return 0, fmt.Errorf("cancel pending: %w", err)
	}
	return result.RowsAffected()
}

func (r *repository) Insert(ctx context.Context, tx *sql.Tx, reg *matching.Registration) error {
	query := `
		INSERT INTO registrations (id, user_id, event_date, event_time, area_id, participation_type, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at
	`

	err := tx.QueryRowContext(ctx, query,
		reg.ID,
		reg.UserID,
		reg.EventDate,
		reg.EventTime,
		reg.AreaID,
		reg.ParticipationType,
		reg.Status,
	).Scan(&reg.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert registration: %w", err)
	}

	return nil
}

// GetForUpdate locks one of the user's registrations
func (r *repository) GetForUpdate(ctx context.Context, tx *sql.Tx, userID, registrationID string) (*matching.Registration, error) {
	query := `
		SELECT id, user_id, event_date, event_time, area_id, participation_type, status, created_at
		FROM registrations
		WHERE id = $1 AND user_id = $2
		FOR UPDATE
	`

	reg, err := scanRegistration(tx.QueryRowContext(ctx, query, registrationID, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRegistrationNotFound
	}
	return reg, err
}

func (r *repository) UpdateStatus(ctx context.Context, tx *sql.Tx, registrationID, status string) error {
	result, err := tx.ExecContext(ctx,
		`UPDATE registrations SET status = $2, updated_at = NOW() WHERE id = $1`,
		registrationID, status,
	)
	if err != nil {
		return fmt.Errorf("update registration: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrRegistrationNotFound
	}

	return nil
}

// WithTransaction executes a function within a database transaction
func (r *repository) WithTransaction(ctx context.Context, isolation sql.IsolationLevel, fn db.TxFunc) error {
	return r.db.WithTransaction(ctx, isolation, fn)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRegistration(s scanner) (*matching.Registration, error) {
	var (
		reg       matching.Registration
		eventDate time.Time
	)
	err := s.Scan(
		&reg.ID,
		&reg.UserID,
		&eventDate,
		&reg.EventTime,
		&reg.AreaID,
		&reg.ParticipationType,
		&reg.Status,
		&reg.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("scan registration: %w", err)
	}
	reg.EventDate = eventDate.Format(matching.DateLayout)
	return &reg, nil
}
