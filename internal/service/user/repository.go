package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"gokon/pkg/db"

	"github.com/google/uuid"
)

type Repository interface {
	UpsertUserByLineID(ctx context.Context, lineUserID, displayName string) (*User, error)
	GetUserByID(ctx context.Context, userID string) (*User, error)
	GetProfile(ctx context.Context, userID string) (*Profile, error)
	UpsertProfile(ctx context.Context, profile *Profile) error
}

type repository struct {
	db db.SQLExecutor
}

func NewRepository(database db.SQLExecutor) Repository {
	return &repository{
		db: database,
	}
}

// UpsertUserByLineID creates the user on first login and refreshes the
// display name afterwards
func (r *repository) UpsertUserByLineID(ctx context.Context, lineUserID, displayName string) (*User, error) {
	query := `
		INSERT INTO users (id, line_user_id, display_name)
		VALUES ($1, $2, $3)
		ON CONFLICT (line_user_id) DO UPDATE
		SET display_name = EXCLUDED.display_name, updated_at = NOW()
		RETURNING id, line_user_id, display_name, created_at, updated_at
	`

	var u User
	err := r.db.QueryRowContext(ctx, query, uuid.NewString(), lineUserID, displayName).Scan(
		&u.ID,
		&u.LineUserID,
		&u.DisplayName,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("upsert user: %w", err)
	}

	return &u, nil
}

// GetUserByID retrieves a user by ID
func (r *repository) GetUserByID(ctx context.Context, userID string) (*User, error) {
	query := `
		SELECT id, COALESCE(line_user_id, ''), display_name, created_at, updated_at
		FROM users
		WHERE id = $1
	`

	var u User
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&u.ID,
		&u.LineUserID,
		&u.DisplayName,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query user: %w", err)
	}

	return &u, nil
}

// GetProfile retrieves the profile owned by a user
func (r *repository) GetProfile(ctx context.Context, userID string) (*Profile, error) {
	query := `
		SELECT id, user_id, nickname, birth_date, gender, bio, created_at, updated_at
		FROM profiles
		WHERE user_id = $1
	`

	var p Profile
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&p.ID,
		&p.UserID,
		&p.Nickname,
		&p.BirthDate,
		&p.Gender,
		&p.Bio,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query profile: %w", err)
	}

	return &p, nil
}

// UpsertProfile creates or replaces a user's profile
func (r *repository) UpsertProfile(ctx context.Context, p *Profile) error {
	query := `
		INSERT INTO profiles (id, user_id, nickname, birth_date, gender, bio)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id) DO UPDATE
		SET nickname = EXCLUDED.nickname,
		    birth_date = EXCLUDED.birth_date,
		    gender = EXCLUDED.gender,
		    bio = EXCLUDED.bio,
		    updated_at = NOW()
		RETURNING id, created_at, updated_at
	`

	if p.ID == "" {
		p.ID = uuid.NewString()
	}

	err := r.db.QueryRowContext(ctx, query,
		p.ID,
		p.UserID,
		p.Nickname,
		p.BirthDate,
		p.Gender,
		p.Bio,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert profile: %w", err)
	}

	return nil
}
