package notification

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"gokon/pkg/db"

	"github.com/lib/pq"
)

type Repository interface {
	GetSettings(ctx context.Context, userID string) (*Settings, error)
	UpsertSettings(ctx context.Context, settings *Settings) error
	ListRecipients(ctx context.Context, userIDs []string) ([]Recipient, error)
	GetLineUserID(ctx context.Context, userID string) (string, error)
	SetLineConnected(ctx context.Context, lineUserID string, connected bool) (bool, error)

	RecentGroups(ctx context.Context, since time.Time) ([]MatchNotice, error)
	GroupsOnDate(ctx context.Context, date string) ([]MatchNotice, error)
	Undelivered(ctx context.Context, groupID, templateType string, userIDs []string) ([]string, error)
	MarkDelivered(ctx context.Context, groupID, templateType string, userIDs []string) error
}

type repository struct {
	db db.SQLExecutor
}

func NewRepository(database db.SQLExecutor) Repository {
	return &repository{
		db: database,
	}
}

// GetSettings retrieves a user's notification settings
func (r *repository) GetSettings(ctx context.Context, userID string) (*Settings, error) {
	query := `
		SELECT user_id, match_notifications, chat_notifications, reminder_notifications, line_connected, updated_at
		FROM notification_settings
		WHERE user_id = $1
	`

	var s Settings
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&s.UserID,
		&s.MatchNotifications,
		&s.ChatNotifications,
		&s.ReminderNotifications,
		&s.LineConnected,
		&s.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSettingsNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query settings: %w", err)
	}

	return &s, nil
}

// UpsertSettings inserts or replaces a user's settings
func (r *repository) UpsertSettings(ctx context.Context, s *Settings) error {
	query := `
		INSERT INTO notification_settings (user_id, match_notifications, chat_notifications, reminder_notifications, line_connected)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id) DO UPDATE
		SET match_notifications = EXCLUDED.match_notifications,
		    chat_notifications = EXCLUDED.chat_notifications,
		    reminder_notifications = EXCLUDED.reminder_notifications,
		    line_connected = EXCLUDED.line_connected,
		    updated_at = NOW()
		RETURNING updated_at
	`

	err := r.db.QueryRowContext(ctx, query,
		s.UserID,
		s.MatchNotifications,
		s.ChatNotifications,
		s.ReminderNotifications,
		s.LineConnected,
	).Scan(&s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert settings: %w", err)
	}

	return nil
}

// ListRecipients loads LINE ids and settings for the given users. Users
// without a settings row get the defaults.
func (r *repository) ListRecipients(ctx context.Context, userIDs []string) ([]Recipient, error) {
	query := `
		SELECT u.id, COALESCE(u.line_user_id, ''),
		       ns.match_notifications, ns.chat_notifications, ns.reminder_notifications, ns.line_connected
		FROM users u
		LEFT JOIN notification_settings ns ON ns.user_id = u.id
		WHERE u.id = ANY($1::uuid[])
	`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(userIDs))
	if err != nil {
		return nil, fmt.Errorf("query recipients: %w", err)
	}
	defer rows.Close()

	recipients := make([]Recipient, 0, len(userIDs))
	for rows.Next() {
		var rc Recipient
		var match, chat, reminder, connected sql.NullBool

		if err := rows.Scan(&rc.UserID, &rc.LineUserID, &match, &chat, &reminder, &connected); err != nil {
			return nil, fmt.Errorf("scan recipient: %w", err)
		}

		rc.Settings = DefaultSettings(rc.UserID)
		if match.Valid {
			rc.Settings.MatchNotifications = match.Bool
			rc.Settings.ChatNotifications = chat.Bool
			rc.Settings.ReminderNotifications = reminder.Bool
			rc.Settings.LineConnected = connected.Bool
		}
		recipients = append(recipients, rc)
	}

	return recipients, rows.Err()
}

// GetLineUserID returns the LINE id linked to a user, or "" if none.
func (r *repository) GetLineUserID(ctx context.Context, userID string) (string, error) {
	var lineUserID sql.NullString
	err := r.db.QueryRowContext(ctx, `SELECT line_user_id FROM users WHERE id = $1`, userID).Scan(&lineUserID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("query line user id: %w", err)
	}
	return lineUserID.String, nil
}

// SetLineConnected flips line_connected for the user behind a LINE id. It
// reports false when no user is linked to that id.
func (r *repository) SetLineConnected(ctx context.Context, lineUserID string, connected bool) (bool, error) {
	query := `
		INSERT INTO notification_settings (user_id, line_connected)
		SELECT id, $2::boolean FROM users WHERE line_user_id = $1
		ON CONFLICT (user_id) DO UPDATE
		SET line_connected = EXCLUDED.line_connected, updated_at = NOW()
	`

	result, err := r.db.ExecContext(ctx, query, lineUserID, connected)
	if err != nil {
		return false, fmt.Errorf("set line connected: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("get rows affected: %w", err)
	}
	return rows > 0, nil
}

const groupNoticeColumns = `
	SELECT g.id, g.event_date, g.event_time, g.area_id,
	       array_agg(gm.user_id::text ORDER BY gm.joined_at, gm.user_id)
	FROM matched_groups g
	INNER JOIN group_members gm ON gm.group_id = g.id
`

// RecentGroups lists groups still in formed state created since the cutoff.
func (r *repository) RecentGroups(ctx context.Context, since time.Time) ([]MatchNotice, error) {
	query := groupNoticeColumns + `
		WHERE g.status = 'formed' AND g.created_at >= $1
		GROUP BY g.id
		ORDER BY g.created_at ASC
	`
	return r.queryNotices(ctx, query, since)
}

// GroupsOnDate lists the formed or active groups meeting on date.
func (r *repository) GroupsOnDate(ctx context.Context, date string) ([]MatchNotice, error) {
	query := groupNoticeColumns + `
		WHERE g.status IN ('formed', 'active') AND g.event_date = $1
		GROUP BY g.id
		ORDER BY g.event_time ASC, g.created_at ASC
	`
	return r.queryNotices(ctx, query, date)
}

func (r *repository) queryNotices(ctx context.Context, query string, args ...any) ([]MatchNotice, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query groups: %w", err)
	}
	defer rows.Close()

	notices := make([]MatchNotice, 0)
	for rows.Next() {
		var (
			n         MatchNotice
			eventDate time.Time
		)
		if err := rows.Scan(&n.GroupID, &eventDate, &n.EventTime, &n.AreaID, pq.Array(&n.MemberUserIDs)); err != nil {
			return nil, fmt.Errorf("scan group: %w", err)
		}
		n.EventDate = eventDate.Format("2006-01-02")
		notices = append(notices, n)
	}

	return notices, rows.Err()
}

// Undelivered returns the subset of userIDs that have not yet received
// templateType for the group.
func (r *repository) Undelivered(ctx context.Context, groupID, templateType string, userIDs []string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT user_id::text FROM notification_deliveries WHERE group_id = $1 AND template = $2`,
		groupID, templateType,
	)
	if err != nil {
		return nil, fmt.Errorf("query deliveries: %w", err)
	}
	defer rows.Close()

	delivered := make(map[string]bool)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan delivery: %w", err)
		}
		delivered[id] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate deliveries: %w", err)
	}

	pending := make([]string, 0, len(userIDs))
	for _, id := range userIDs {
		if !delivered[id] {
			pending = append(pending, id)
		}
	}
	return pending, nil
}

// MarkDelivered records that userIDs received templateType for the group.
func (r *repository) MarkDelivered(ctx context.Context, groupID, templateType string, userIDs []string) error {
	query := `
		INSERT INTO notification_deliveries (group_id, user_id, template)
		SELECT $1::uuid, u, $3::text FROM unnest($2::uuid[]) AS u
		ON CONFLICT (group_id, user_id, template) DO NOTHING
	`

	if _, err := r.db.ExecContext(ctx, query, groupID, pq.Array(userIDs), templateType); err != nil {
		return fmt.Errorf("mark delivered: %w", err)
	}
	return nil
}
