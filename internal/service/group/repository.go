package group

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"gokon/pkg/db"
)

type Repository interface {
	// Group operations
	GetGroupByID(ctx context.Context, groupID string) (*Group, error)
	GetGroupWithLock(ctx context.Context, tx *sql.Tx, groupID string) (*Group, error)
	UpdateStatus(ctx context.Context, tx *sql.Tx, groupID, status string) error
	CompleteRegistrations(ctx context.Context, tx *sql.Tx, groupID string) error
	GetUserGroups(ctx context.Context, userID string) ([]*Group, error)

	// Member operations
	IsMember(ctx context.Context, groupID, userID string) (bool, error)
	GetGroupMembers(ctx context.Context, groupID string) ([]*GroupMember, error)

	// Transaction helper
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

const groupColumns = `
	g.id, g.event_date, g.event_time, g.area_id, g.status,
	(SELECT COUNT(*) FROM group_members m WHERE m.group_id = g.id),
	g.created_at, g.updated_at
`

func scanGroup(s interface{ Scan(...any) error }) (*Group, error) {
	var (
		group     Group
		eventDate time.Time
	)
	err := s.Scan(
		&group.ID,
		&eventDate,
		&group.EventTime,
		&group.AreaID,
		&group.Status,
		&group.MemberCount,
		&group.CreatedAt,
		&group.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrGroupNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan group: %w", err)
	}
	group.EventDate = eventDate.Format("2006-01-02")
	return &group, nil
}

// GetGroupByID retrieves a group by ID
func (r *repository) GetGroupByID(ctx context.Context, groupID string) (*Group, error) {
	query := `SELECT ` + groupColumns + ` FROM matched_groups g WHERE g.id = $1`
	return scanGroup(r.db.QueryRowContext(ctx, query, groupID))
}

// GetGroupWithLock retrieves a group with row-level lock for updates
func (r *repository) GetGroupWithLock(ctx context.Context, tx *sql.Tx, groupID string) (*Group, error) {
	query := `SELECT ` + groupColumns + ` FROM matched_groups g WHERE g.id = $1 FOR UPDATE`
	return scanGroup(tx.QueryRowContext(ctx, query, groupID))
}

// UpdateStatus moves a group to a new status
func (r *repository) UpdateStatus(ctx context.Context, tx *sql.Tx, groupID, status string) error {
	result, err := tx.ExecContext(ctx,
		`UPDATE matched_groups SET status = $2, updated_at = NOW() WHERE id = $1`,
		groupID, status,
	)
	if err != nil {
		return fmt.Errorf("update group: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}

	if rows == 0 {
		return ErrGroupNotFound
	}

	return nil
}

// CompleteRegistrations closes out the registrations that formed a group
func (r *repository) CompleteRegistrations(ctx context.Context, tx *sql.Tx, groupID string) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE registrations
		SET status = 'completed', updated_at = NOW()
		WHERE status = 'matched'
		  AND id IN (SELECT registration_id FROM group_members WHERE group_id = $1)
	`, groupID)
	if err != nil {
		return fmt.Errorf("complete registrations: %w", err)
	}
	return nil
}

// GetUserGroups retrieves all groups a user is a member of
func (r *repository) GetUserGroups(ctx context.Context, userID string) ([]*Group, error) {
	query := `
		SELECT ` + groupColumns + `
		FROM matched_groups g
		INNER JOIN group_members gm ON g.id = gm.group_id
		WHERE gm.user_id = $1
		ORDER BY g.event_date DESC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("query user groups: %w", err)
	}
	defer rows.Close()

	groups := make([]*Group, 0)
	for rows.Next() {
		group, err := scanGroup(rows)
		if err != nil {
			return nil, err
		}
		groups = append(groups, group)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate groups: %w", err)
	}

	return groups, nil
}

// IsMember checks if a user is a member of a group
func (r *repository) IsMember(ctx context.Context, groupID, userID string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM group_members WHERE group_id = $1 AND user_id = $2)`

	var exists bool
	err := r.db.QueryRowContext(ctx, query, groupID, userID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check membership: %w", err)
	}

	return exists, nil
}

// GetGroupMembers retrieves all members of a group with their profiles
func (r *repository) GetGroupMembers(ctx context.Context, groupID string) ([]*GroupMember, error) {
	query := `
		SELECT gm.group_id, gm.user_id, p.nickname, p.birth_date, p.gender, gm.joined_at
		FROM group_members gm
		INNER JOIN profiles p ON p.user_id = gm.user_id
		WHERE gm.group_id = $1
		ORDER BY p.gender ASC, p.birth_date DESC
	`

	rows, err := r.db.QueryContext(ctx, query, groupID)
	if err != nil {
		return nil, fmt.Errorf("query members: %w", err)
	}
	defer rows.Close()

	members := make([]*GroupMember, 0)
	for rows.Next() {
		var member GroupMember
		err := rows.Scan(&member.GroupID, &member.UserID, &member.Nickname, &member.BirthDate, &member.Gender, &member.JoinedAt)
		if err != nil {
			return nil, fmt.Errorf("scan member: %w", err)
		}
		members = append(members, &member)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate members: %w", err)
	}

	return members, nil
}

// WithTransaction executes a function within a database transaction
func (r *repository) WithTransaction(ctx context.Context, isolation sql.IsolationLevel, fn db.TxFunc) error {
	return r.db.WithTransaction(ctx, isolation, fn)
}
