package group

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"gokon/internal/service/notification"
	"gokon/pkg/cache"
	"gokon/pkg/db"
	"gokon/pkg/logger"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	groups      map[string]*Group
	members     map[string][]*GroupMember
	completed   []string
	memberReads int
}

func newFakeRepo() *fakeRepo {
	birth := time.Date(1996, 5, 1, 0, 0, 0, 0, time.UTC)
	return &fakeRepo{
		groups: map[string]*Group{
			"g1": {ID: "g1", EventDate: "2026-11-06", EventTime: "18:00:00", Status: StatusFormed, MemberCount: 2},
		},
		members: map[string][]*GroupMember{
			"g1": {
				{GroupID: "g1", UserID: "u1", Nickname: "taro", Gender: "male", BirthDate: birth},
				{GroupID: "g1", UserID: "u2", Nickname: "hanako", Gender: "female", BirthDate: birth},
			},
		},
	}
}

func (f *fakeRepo) GetGroupByID(_ context.Context, id string) (*Group, error) {
	g, ok := f.groups[id]
	if !ok {
		return nil, ErrGroupNotFound
	}
	cp := *g
	return &cp, nil
}

func (f *fakeRepo) GetGroupWithLock(ctx context.Context, _ *sql.Tx, id string) (*Group, error) {
	return f.GetGroupByID(ctx, id)
}

func (f *fakeRepo) UpdateStatus(_ context.Context, _ *sql.Tx, id, status string) error {
	f.groups[id].Status = status
	return nil
}

func (f *fakeRepo) CompleteRegistrations(_ context.Context, _ *sql.Tx, id string) error {
	f.completed = append(f.completed, id)
	return nil
}

func (f *fakeRepo) GetUserGroups(_ context.Context, userID string) ([]*Group, error) {
	out := make([]*Group, 0)
	for id, ms := range f.members {
		for _, m := range ms {
			if m.UserID == userID {
				cp := *f.groups[id]
				out = append(out, &cp)
			}
		}
	}
	return out, nil
}

func (f *fakeRepo) IsMember(_ context.Context, groupID, userID string) (bool, error) {
	for _, m := range f.members[groupID] {
		if m.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRepo) GetGroupMembers(_ context.Context, groupID string) ([]*GroupMember, error) {
	f.memberReads++
	out := make([]*GroupMember, 0, len(f.members[groupID]))
	for _, m := range f.members[groupID] {
		cp := *m
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakeRepo) WithTransaction(ctx context.Context, _ sql.IsolationLevel, fn db.TxFunc) error {
	return fn(ctx, nil)
}

type fakeNotifier struct {
	calls [][]string
}

func (f *fakeNotifier) NotifyChatOpened(_ context.Context, _ string, ids []string) (notification.BulkResult, error) {
	f.calls = append(f.calls, ids)
	return notification.BulkResult{Sent: len(ids)}, nil
}

func newTestService(t *testing.T) (*Service, *fakeRepo, *fakeNotifier, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	repo := newFakeRepo()
	notifier := &fakeNotifier{}
	svc := NewService(repo, cache.NewRedisCache(client), notifier, logger.Nop(), time.UTC)
	svc.now = func() time.Time { return time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC) }
	return svc, repo, notifier, mr
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to string
		want     bool
	}{
		{StatusFormed, StatusActive, true},
		{StatusFormed, StatusCancelled, true},
		{StatusActive, StatusCompleted, true},
		{StatusActive, StatusCancelled, false},
		{StatusFormed, StatusCompleted, false},
		{StatusCompleted, StatusActive, false},
		{StatusCancelled, StatusFormed, false},
	}
	for _, tt := range tests {
		t.Run(tt.from+"->"+tt.to, func(t *testing.T) {
			assert.Equal(t, tt.want, CanTransition(tt.from, tt.to))
		})
	}
}

func TestGetGroupMembersOnlyAndCached(t *testing.T) {
	svc, repo, _, mr := newTestService(t)
	ctx := context.Background()

	_, err := svc.GetGroup(ctx, "g1", "stranger")
	assert.ErrorIs(t, err, ErrNotMember)

	_, err = svc.GetGroup(ctx, "missing", "u1")
	assert.ErrorIs(t, err, ErrGroupNotFound)

	resp, err := svc.GetGroup(ctx, "g1", "u1")
	require.NoError(t, err)
	require.Len(t, resp.Members, 2)
	assert.Equal(t, 30, resp.Members[0].Age)
	assert.True(t, mr.Exists(cache.GroupKey("g1")))

	again, err := svc.GetGroup(ctx, "g1", "u2")
	require.NoError(t, err)
	assert.Equal(t, 1, repo.memberReads)
	assert.Equal(t, 30, again.Members[1].Age)
}

func TestUpdateStatusActivatesAndNotifies(t *testing.T) {
	svc, repo, notifier, mr := newTestService(t)
	ctx := context.Background()

	_, err := svc.GetGroup(ctx, "g1", "u1")
	require.NoError(t, err)
	_, err = svc.GetUserGroups(ctx, "u2")
	require.NoError(t, err)
	require.True(t, mr.Exists(cache.UserGroupsKey("u2")))

	g, err := svc.UpdateStatus(ctx, "g1", StatusActive)
	require.NoError(t, err)
	assert.Equal(t, StatusActive, g.Status)
	assert.Equal(t, StatusActive, repo.groups["g1"].Status)
	require.Len(t, notifier.calls, 1)
	assert.ElementsMatch(t, []string{"u1", "u2"}, notifier.calls[0])

	assert.False(t, mr.Exists(cache.GroupKey("g1")))
	assert.False(t, mr.Exists(cache.UserGroupsKey("u2")))

	_, err = svc.UpdateStatus(ctx, "g1", StatusCancelled)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = svc.UpdateStatus(ctx, "g1", StatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, []string{"g1"}, repo.completed)
	assert.Len(t, notifier.calls, 1)
}

func TestGroupHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc, _, _, _ := newTestService(t)
	h := NewHandler(svc)

	r := gin.New()
	r.Use(func(c *gin.Context) { c.Set("user_id", "u1"); c.Next() })
	r.GET("/groups", h.GetMyGroups)
	r.GET("/groups/:id", h.GetGroup)
	r.PATCH("/admin/groups/:id/status", h.UpdateStatus)

	do := func(method, path, body string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(method, path, strings.NewReader(body)))
		return w
	}

	w := do(http.MethodGet, "/groups", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total":1`)

	assert.Equal(t, http.StatusOK, do(http.MethodGet, "/groups/g1", "").Code)
	assert.Equal(t, http.StatusNotFound, do(http.MethodGet, "/groups/nope", "").Code)

	assert.Equal(t, http.StatusBadRequest, do(http.MethodPatch, "/admin/groups/g1/status", `{"status":"formed"}`).Code)
	assert.Equal(t, http.StatusConflict, do(http.MethodPatch, "/admin/groups/g1/status", `{"status":"completed"}`).Code)
	assert.Equal(t, http.StatusOK, do(http.MethodPatch, "/admin/groups/g1/status", `{"status":"cancelled"}`).Code)
}
