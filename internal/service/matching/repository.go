package matching

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"gokon/internal/service/user"
	"gokon/pkg/db"

	"github.com/lib/pq"
)

type Repository interface {
	ListCandidates(ctx context.Context, today time.Time) ([]Candidate, error)
	CreateMatchedGroup(ctx context.Context, group *Group) error
	UserRegistrations(ctx context.Context, userID string, today time.Time) ([]Registration, error)
	UserGroups(ctx context.Context, userID string) ([]Group, error)
}

type repository struct {
	db db.SQLExecutor
}

func NewRepository(database db.SQLExecutor) Repository {
	return &repository{
		db: database,
	}
}

// ListCandidates returns every pending registration from today on, joined
// with its owner's profile. Rows are ordered by registration time so the
// slot partitioner sees a deterministic order.
func (r *repository) ListCandidates(ctx context.Context, today time.Time) ([]Candidate, error) {
	query := `
		SELECT r.id, r.user_id, r.event_date, r.event_time, r.area_id,
		       r.participation_type, r.status, r.created_at,
		       p.id, p.nickname, p.birth_date, p.gender, p.bio
		FROM registrations r
		INNER JOIN profiles p ON p.user_id = r.user_id
		WHERE r.status = 'pending'
		  AND r.event_date >= $1
		ORDER BY r.created_at ASC, r.id ASC
	`

	rows, err := r.db.QueryContext(ctx, query, today.Format(DateLayout))
	if err != nil {
		return nil, fmt.Errorf("query candidates: %w", err)
	}
	defer rows.Close()

	candidates := make([]Candidate, 0)
	for rows.Next() {
		var (
			c         Candidate
			eventDate time.Time
			birthDate time.Time
		)
		err := rows.Scan(
			&c.Registration.ID,
			&c.Registration.UserID,
			&eventDate,
			&c.Registration.EventTime,
			&c.Registration.AreaID,
			&c.Registration.ParticipationType,
			&c.Registration.Status,
			&c.Registration.CreatedAt,
			&c.Profile.ID,
			&c.Profile.Nickname,
			&birthDate,
			&c.Profile.Gender,
			&c.Profile.Bio,
		)
		if err != nil {
			return nil, fmt.Errorf("scan candidate: %w", err)
		}

		c.Registration.EventDate = eventDate.Format(DateLayout)
		c.Profile.UserID = c.Registration.UserID
		c.Profile.Age = user.AgeAt(birthDate, today)
		candidates = append(candidates, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate candidates: %w", err)
	}

	return candidates, nil
}

// CreateMatchedGroup writes the group, its members and the members'
// pending->matched flip in one transaction. If any registration was claimed
// or cancelled in the meantime the whole group is rolled back.
func (r *repository) CreateMatchedGroup(ctx context.Context, group *Group) error {
	return r.db.WithTransaction(ctx, sql.LevelReadCommitted, func(ctx context.Context, tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx, `
			INSERT INTO matched_groups (id, event_date, event_time, area_id, status)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING created_at
		`,
			group.ID,
			group.EventDate,
			group.EventTime,
			group.AreaID,
			group.Status,
		).Scan(&group.CreatedAt)
		if err != nil {
			return fmt.Errorf("insert group: %w", err)
		}

		for _, m := range group.Members {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO group_members (group_id, user_id, registration_id) VALUES ($1, $2, $3)`,
				group.ID, m.Profile.UserID, m.Registration.ID,
			)
			if err != nil {
				return fmt.Errorf("insert member %s: %w", m.Profile.UserID, err)
			}
		}

		result, err := tx.ExecContext(ctx, `
			UPDATE registrations
			SET status = 'matched', updated_at = NOW()
			WHERE id = ANY($1::uuid[]) AND status = 'pending'
		`, pq.Array(group.RegistrationIDs()))
		if err != nil {
			return fmt.Errorf("mark registrations matched: %w", err)
		}

		rows, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("get rows affected: %w", err)
		}
		if int(rows) != len(group.Members) {
			return fmt.Errorf("%w: %d of %d updated", ErrRegistrationClaimed, rows, len(group.Members))
		}

		return nil
	})
}

// UserRegistrations lists a user's live registrations from today on
func (r *repository) UserRegistrations(ctx context.Context, userID string, today time.Time) ([]Registration, error) {
	query := `
		SELECT id, user_id, event_date, event_time, area_id, participation_type, status, created_at
		FROM registrations
		WHERE user_id = $1
		  AND event_date >= $2
		  AND status IN ('pending', 'matched')
		ORDER BY event_date ASC, event_time ASC
	`

	rows, err := r.db.QueryContext(ctx, query, userID, today.Format(DateLayout))
	if err != nil {
		return nil, fmt.Errorf("query registrations: %w", err)
	}
	defer rows.Close()

	registrations := make([]Registration, 0)
	for rows.Next() {
		var (
			reg       Registration
			eventDate time.Time
		)
		err := rows.Scan(
			&reg.ID,
			&reg.UserID,
			&eventDate,
			&reg.EventTime,
			&reg.AreaID,
			&reg.ParticipationType,
			&reg.Status,
			&reg.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan registration: %w", err)
		}
		reg.EventDate = eventDate.Format(DateLayout)
		registrations = append(registrations, reg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate registrations: %w", err)
	}

	return registrations, nil
}

// UserGroups lists the formed or active groups a user belongs to
func (r *repository) UserGroups(ctx context.Context, userID string) ([]Group, error) {
	query := `
		SELECT g.id, g.event_date, g.event_time, g.area_id, g.status, g.created_at
		FROM matched_groups g
		INNER JOIN group_members gm ON gm.group_id = g.id
		WHERE gm.user_id = $1
		  AND g.status IN ('formed', 'active')
		ORDER BY g.event_date ASC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("query groups: %w", err)
	}
	defer rows.Close()

	groups := make([]Group, 0)
	for rows.Next() {
		var (
			g         Group
			eventDate time.Time
		)
		if err := rows.Scan(&g.ID, &eventDate, &g.EventTime, &g.AreaID, &g.Status, &g.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan group: %w", err)
		}
		g.EventDate = eventDate.Format(DateLayout)
		groups = append(groups, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate groups: %w", err)
	}

	return groups, nil
}
