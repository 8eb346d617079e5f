package notification

import (
	"context"
	"regexp"
	"testing"
	"time"

	"gokon/pkg/db"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockRepo(t *testing.T) (Repository, sqlmock.Sqlmock) {
	t.Helper()
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return NewRepository(db.NewSQLClientFromDB(conn)), mock
}

func TestSetLineConnected(t *testing.T) {
	repo, mock := newMockRepo(t)
	query := regexp.QuoteMeta("SELECT id, $2::boolean FROM users WHERE line_user_id = $1")

	mock.ExpectExec(query).WithArgs("L1", true).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(query).WithArgs("L-unknown", false).WillReturnResult(sqlmock.NewResult(0, 0))

	known, err := repo.SetLineConnected(context.Background(), "L1", true)
	require.NoError(t, err)
	assert.True(t, known)

	known, err = repo.SetLineConnected(context.Background(), "L-unknown", false)
	require.NoError(t, err)
	assert.False(t, known)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUndeliveredFiltersLedger(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM notification_deliveries WHERE group_id = $1 AND template = $2")).
		WithArgs("g-1", TemplateReminder).
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow("u2"))

	pending, err := repo.Undelivered(context.Background(), "g-1", TemplateReminder, []string{"u1", "u2", "u3"})
	require.NoError(t, err)
	assert.Equal(t, []string{"u1", "u3"}, pending)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkDeliveredIsIdempotent(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(regexp.QuoteMeta("ON CONFLICT (group_id, user_id, template) DO NOTHING")).
		WithArgs("g-1", sqlmock.AnyArg(), TemplateMatchSuccess).
		WillReturnResult(sqlmock.NewResult(0, 2))

	require.NoError(t, repo.MarkDelivered(context.Background(), "g-1", TemplateMatchSuccess, []string{"u1", "u2"}))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGroupsOnDateScansMembers(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE g.status IN ('formed', 'active') AND g.event_date = $1")).
		WithArgs("2026-10-20").
		WillReturnRows(sqlmock.NewRows([]string{"id", "event_date", "event_time", "area_id", "members"}).
			AddRow("g-5", time.Date(2026, 10, 20, 0, 0, 0, 0, time.UTC), "20:00:00", "area-1", "{u1,u2}"))

	notices, err := repo.GroupsOnDate(context.Background(), "2026-10-20")
	require.NoError(t, err)
	require.Len(t, notices, 1)
	assert.Equal(t, MatchNotice{
		GroupID:       "g-5",
		EventDate:     "2026-10-20",
		EventTime:     "20:00:00",
		AreaID:        "area-1",
		MemberUserIDs: []string{"u1", "u2"},
	}, notices[0])
	assert.NoError(t, mock.ExpectationsWereMet())
}
