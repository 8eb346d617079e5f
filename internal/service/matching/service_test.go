package matching

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"slices"
	"testing"
	"time"

	"gokon/internal/service/notification"
	"gokon/pkg/cache"
	"gokon/pkg/idgen"
	"gokon/pkg/logger"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	candidates []Candidate
	listErr    error
	claimed    map[string]bool
	created    []Group
	userRegs   []Registration
	userGroups []Group
}

func (f *fakeRepo) ListCandidates(context.Context, time.Time) ([]Candidate, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.candidates, nil
}

func (f *fakeRepo) CreateMatchedGroup(_ context.Context, g *Group) error {
	for _, id := range g.RegistrationIDs() {
		if f.claimed[id] {
			return ErrRegistrationClaimed
		}
	}
	g.CreatedAt = time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	f.created = append(f.created, *g)
	return nil
}

func (f *fakeRepo) UserRegistrations(context.Context, string, time.Time) ([]Registration, error) {
	return f.userRegs, nil
}

func (f *fakeRepo) UserGroups(context.Context, string) ([]Group, error) {
	return f.userGroups, nil
}

type fakeNotifier struct {
	notices []notification.MatchNotice
	result  notification.BulkResult
	err     error
}

func (f *fakeNotifier) NotifyMatch(_ context.Context, n notification.MatchNotice) (notification.BulkResult, error) {
	f.notices = append(f.notices, n)
	if f.err != nil {
		return f.result, f.err
	}
	return notification.BulkResult{Sent: len(n.MemberUserIDs)}, nil
}

type fixture struct {
	repo     *fakeRepo
	notifier *fakeNotifier
	cache    *cache.RedisCache
	redis    *miniredis.Miniredis
	svc      *Service
}

func newFixture(t *testing.T, candidates []Candidate) *fixture {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	rc := cache.NewRedisCache(client)

	ids, err := idgen.New(1)
	require.NoError(t, err)

	repo := &fakeRepo{candidates: candidates, claimed: map[string]bool{}}
	notifier := &fakeNotifier{}
	tokyo := time.FixedZone("JST", 9*60*60)

	svc := NewService(repo, NewGreedyMatcher(), rc, rc, notifier, ids, logger.Nop(), Options{
		Config:   DefaultConfig,
		LockTTL:  time.Minute,
		Location: tokyo,
		Metrics:  NewMetrics(prometheus.NewRegistry()),
	})
	svc.now = func() time.Time { return time.Date(2026, 10, 18, 12, 0, 0, 0, tokyo) }

	return &fixture{repo: repo, notifier: notifier, cache: rc, redis: mr, svc: svc}
}

func fullSlot(b *candidateBuilder, slot SlotKey) []Candidate {
	return concat(
		b.solos(slot, GenderMale, 25, 26, 27, 28),
		b.solos(slot, GenderFemale, 24, 25, 26, 27),
	)
}

func TestExecuteCreatesAndNotifies(t *testing.T) {
	var b candidateBuilder
	f := newFixture(t, fullSlot(&b, slotA))
	ctx := context.Background()

	require.NoError(t, f.cache.Set(ctx, cache.UserGroupsKey("user-01"), []byte("[]"), time.Minute))

	result, err := f.svc.Execute(ctx)
	require.NoError(t, err)

	assert.NotEmpty(t, result.RunID)
	assert.Equal(t, "matching completed: 1 groups created", result.Message)
	require.Len(t, result.Groups, 1)
	assert.Len(t, result.Groups[0].Members, 8)
	assert.NotEmpty(t, result.Groups[0].ID)
	assert.Equal(t, GroupStatusFormed, result.Groups[0].Status)

	assert.Equal(t, 8, result.Stats.TotalCandidates)
	assert.Equal(t, 1, result.Stats.TotalGroups)
	assert.Equal(t, 1, result.Stats.ActualGroupsCreated)
	assert.Equal(t, 0, result.Stats.FailedGroups)
	assert.Equal(t, 8, result.Stats.NotificationsSent)

	require.Len(t, f.notifier.notices, 1)
	notice := f.notifier.notices[0]
	assert.Equal(t, result.Groups[0].ID, notice.GroupID)
	assert.Equal(t, slotA.Date, notice.EventDate)
	assert.Len(t, notice.MemberUserIDs, 8)

	assert.False(t, f.redis.Exists(cache.UserGroupsKey("user-01")))
	assert.False(t, f.redis.Exists(cache.MatchingRunLockKey))
}

func TestExecuteGroupFailureIsLocal(t *testing.T) {
	var b candidateBuilder
	first := fullSlot(&b, slotA)
	second := fullSlot(&b, slotB)
	f := newFixture(t, concat(first, second))
	f.repo.claimed[first[0].Registration.ID] = true

	result, err := f.svc.Execute(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, result.Stats.TotalGroups)
	assert.Equal(t, 1, result.Stats.ActualGroupsCreated)
	assert.Equal(t, 1, result.Stats.FailedGroups)
	require.Len(t, result.Groups, 1)
	assert.Equal(t, slotB.Date, result.Groups[0].EventDate)

	require.Len(t, f.notifier.notices, 1)
	assert.Equal(t, slotB.Date, f.notifier.notices[0].EventDate)
}

func TestExecuteNotificationFailureKeepsGroup(t *testing.T) {
	var b candidateBuilder
	f := newFixture(t, fullSlot(&b, slotA))
	f.notifier.err = errors.New("line down")
	f.notifier.result = notification.BulkResult{Failed: 6, Skipped: 2}

	result, err := f.svc.Execute(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, result.Stats.ActualGroupsCreated)
	assert.Len(t, f.repo.created, 1)
	assert.Equal(t, 0, result.Stats.NotificationsSent)
	assert.Equal(t, 6, result.Stats.NotificationsFailed)
	assert.Equal(t, 2, result.Stats.NotificationsSkipped)
}

func TestExecuteWithoutNotifierCountsSkipped(t *testing.T) {
	var b candidateBuilder
	f := newFixture(t, fullSlot(&b, slotA))
	f.svc.notifier = nil

	result, err := f.svc.Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 8, result.Stats.NotificationsSkipped)
}

func TestExecuteRejectsConcurrentRun(t *testing.T) {
	var b candidateBuilder
	f := newFixture(t, fullSlot(&b, slotA))
	ctx := context.Background()

	release, err := f.cache.Acquire(ctx, cache.MatchingRunLockKey, time.Minute)
	require.NoError(t, err)

	_, err = f.svc.Execute(ctx)
	assert.ErrorIs(t, err, ErrRunInProgress)
	assert.Empty(t, f.repo.created)

	require.NoError(t, release(ctx))
	_, err = f.svc.Execute(ctx)
	assert.NoError(t, err)
	assert.Len(t, f.repo.created, 1)
}

func TestExecuteCandidateReadFailureAborts(t *testing.T) {
	f := newFixture(t, nil)
	f.repo.listErr = errors.New("connection refused")

	_, err := f.svc.Execute(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, f.repo.listErr)
	assert.False(t, f.redis.Exists(cache.MatchingRunLockKey))
	assert.Empty(t, f.notifier.notices)
}

func TestExecuteSkipsStaleRegistrations(t *testing.T) {
	var b candidateBuilder
	pool := fullSlot(&b, slotA)

	cancelled := b.make(slotA, GenderMale, 20, ParticipationSolo)
	cancelled.Registration.Status = RegistrationCancelled
	past := b.make(SlotKey{Date: "2026-10-17", Time: slotA.Time, AreaID: slotA.AreaID}, GenderFemale, 25, ParticipationSolo)

	f := newFixture(t, concat(pool, []Candidate{cancelled, past}))

	result, err := f.svc.Execute(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 8, result.Stats.TotalCandidates)
	require.Len(t, f.repo.created, 1)
	ids := f.repo.created[0].RegistrationIDs()
	assert.False(t, slices.Contains(ids, cancelled.Registration.ID))
	assert.False(t, slices.Contains(ids, past.Registration.ID))
}

func TestExecuteInfeasibleConfigCreatesNothing(t *testing.T) {
	var b candidateBuilder
	f := newFixture(t, fullSlot(&b, slotA))
	f.svc.config.PreferredMaleCount = 6

	f.svc.CheckConfig(context.Background())
	result, err := f.svc.Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, result.Stats.TotalGroups)
	assert.Empty(t, result.Groups)
	assert.Equal(t, 8, result.Stats.UnmatchedCandidates)
}

func TestUserStatus(t *testing.T) {
	f := newFixture(t, nil)
	f.repo.userRegs = []Registration{
		{ID: "r1", Status: RegistrationPending},
		{ID: "r2", Status: RegistrationPending},
		{ID: "r3", Status: RegistrationMatched},
	}
	f.repo.userGroups = []Group{{ID: "g1", Status: GroupStatusFormed}}

	status, err := f.svc.UserStatus(context.Background(), "user-01")
	require.NoError(t, err)
	assert.Equal(t, 2, status.PendingCount)
	assert.Equal(t, 1, status.MatchedCount)
	assert.Equal(t, 1, status.GroupCount)
}

func TestExecuteHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var b candidateBuilder
	f := newFixture(t, fullSlot(&b, slotA))
	h := NewHandler(f.svc, "s3cret")

	r := gin.New()
	r.POST("/admin/matching/execute", h.RequireAdmin(), h.Execute)

	tests := []struct {
		name   string
		secret string
		lock   bool
		want   int
	}{
		{name: "missing secret", want: http.StatusUnauthorized},
		{name: "wrong secret", secret: "nope", want: http.StatusUnauthorized},
		{name: "run in progress", secret: "s3cret", lock: true, want: http.StatusConflict},
		{name: "ok", secret: "s3cret", want: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.lock {
				release, err := f.cache.Acquire(context.Background(), cache.MatchingRunLockKey, time.Minute)
				require.NoError(t, err)
				defer release(context.Background())
			}

			req := httptest.NewRequest(http.MethodPost, "/admin/matching/execute", nil)
			if tt.secret != "" {
				req.Header.Set(AdminSecretHeader, tt.secret)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestExecuteWarnsWhenRunOutlivesLock(t *testing.T) {
	var b candidateBuilder
	f := newFixture(t, fullSlot(&b, slotA))

	var buf bytes.Buffer
	f.svc.logger = logger.NewWriterLogger(&buf)

	start := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	calls := 0
	f.svc.now = func() time.Time {
		calls++
		if calls == 1 {
			return start
		}
		return start.Add(2 * time.Minute)
	}

	_, err := f.svc.Execute(context.Background())
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "matching run outlived its lock")

	buf.Reset()
	f.svc.now = func() time.Time { return start }
	_, err = f.svc.Execute(context.Background())
	require.NoError(t, err)
	assert.NotContains(t, buf.String(), "outlived")
}
