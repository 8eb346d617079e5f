package registration

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"maps"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"gokon/internal/service/matching"
	"gokon/pkg/db"
	"gokon/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const area = "00000000-0000-0000-0000-000000000001"

// fakeRepo keeps registrations in memory and restores them when a
// transaction function fails.
type fakeRepo struct {
	regs      map[string]matching.Registration
	profiles  map[string]bool
	insertErr error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		regs:     map[string]matching.Registration{},
		profiles: map[string]bool{"u1": true},
	}
}

func (f *fakeRepo) HasProfile(_ context.Context, userID string) (bool, error) {
	return f.profiles[userID], nil
}

func (f *fakeRepo) ListByUser(_ context.Context, userID string) ([]matching.Registration, error) {
	out := make([]matching.Registration, 0)
	for _, r := range f.regs {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRepo) CancelPending(_ context.Context, _ *sql.Tx, userID string) (int64, error) {
	var n int64
	for id, r := range f.regs {
		if r.UserID == userID && r.Status == matching.RegistrationPending {
			r.Status = matching.RegistrationCancelled
			f.regs[id] = r
			n++
		}
	}
	return n, nil
}

func (f *fakeRepo) Insert(_ context.Context, _ *sql.Tx, reg *matching.Registration) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.regs[reg.ID] = *reg
	return nil
}

func (f *fakeRepo) GetForUpdate(_ context.Context, _ *sql.Tx, userID, id string) (*matching.Registration, error) {
	r, ok := f.regs[id]
	if !ok || r.UserID != userID {
		return nil, ErrRegistrationNotFound
	}
	return &r, nil
}

func (f *fakeRepo) UpdateStatus(_ context.Context, _ *sql.Tx, id, status string) error {
	r := f.regs[id]
	r.Status = status
	f.regs[id] = r
	return nil
}

func (f *fakeRepo) WithTransaction(ctx context.Context, _ sql.IsolationLevel, fn db.TxFunc) error {
	snapshot := maps.Clone(f.regs)
	if err := fn(ctx, nil); err != nil {
		f.regs = snapshot
		return err
	}
	return nil
}

func (f *fakeRepo) countByStatus(status string) int {
	n := 0
	for _, r := range f.regs {
		if r.Status == status {
			n++
		}
	}
	return n
}

func newTestService(repo Repository) *Service {
	tokyo := time.FixedZone("JST", 9*60*60)
	svc := NewService(repo, logger.Nop(), tokyo)
	svc.now = func() time.Time { return time.Date(2026, 10, 18, 23, 30, 0, 0, tokyo) }
	return svc
}

func slot(date, tm string) SlotRequest {
	return SlotRequest{EventDate: date, EventTime: tm, AreaID: area, ParticipationType: matching.ParticipationSolo}
}

func TestReplaceCancelsPreviousPending(t *testing.T) {
	repo := newFakeRepo()
	repo.regs["matched"] = matching.Registration{ID: "matched", UserID: "u1", Status: matching.RegistrationMatched}
	repo.regs["other"] = matching.Registration{ID: "other", UserID: "u2", Status: matching.RegistrationPending}
	svc := newTestService(repo)
	ctx := context.Background()

	first, err := svc.Replace(ctx, "u1", CreateRequest{Registrations: []SlotRequest{
		slot("2026-11-06", TimeEvening),
		slot("2026-11-06", TimeNight),
	}})
	require.NoError(t, err)
	require.Len(t, first, 2)
	assert.Equal(t, matching.RegistrationPending, first[0].Status)
	assert.Equal(t, "u1", first[0].UserID)

	_, err = svc.Replace(ctx, "u1", CreateRequest{Registrations: []SlotRequest{
		slot("2026-11-07", TimeEvening),
	}})
	require.NoError(t, err)

	assert.Equal(t, 2, repo.countByStatus(matching.RegistrationCancelled))
	assert.Equal(t, 2, repo.countByStatus(matching.RegistrationPending))
	assert.Equal(t, matching.RegistrationMatched, repo.regs["matched"].Status)
	assert.Equal(t, matching.RegistrationPending, repo.regs["other"].Status)
}

func TestReplaceValidation(t *testing.T) {
	tests := []struct {
		name    string
		userID  string
		slots   []SlotRequest
		wantErr error
	}{
		{name: "yesterday", userID: "u1", slots: []SlotRequest{slot("2026-10-17", TimeEvening)}, wantErr: ErrPastDate},
		{name: "duplicate slot", userID: "u1", slots: []SlotRequest{slot("2026-11-06", TimeNight), slot("2026-11-06", TimeNight)}, wantErr: ErrDuplicateSlot},
		{name: "no profile", userID: "u9", slots: []SlotRequest{slot("2026-11-06", TimeNight)}, wantErr: ErrProfileRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeRepo()
			_, err := newTestService(repo).Replace(context.Background(), tt.userID, CreateRequest{Registrations: tt.slots})
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, repo.regs)
		})
	}
}

func TestReplaceAcceptsTodayInServiceTimezone(t *testing.T) {
	// 23:30 JST on the 18th is still the 18th even though UTC says 14:30.
	repo := newFakeRepo()
	regs, err := newTestService(repo).Replace(context.Background(), "u1", CreateRequest{Registrations: []SlotRequest{
		slot("2026-10-18", TimeNight),
	}})
	require.NoError(t, err)
	assert.Len(t, regs, 1)
}

func TestReplaceRollsBackOnInsertFailure(t *testing.T) {
	repo := newFakeRepo()
	repo.regs["old"] = matching.Registration{ID: "old", UserID: "u1", Status: matching.RegistrationPending}
	repo.insertErr = errors.New("disk full")

	_, err := newTestService(repo).Replace(context.Background(), "u1", CreateRequest{Registrations: []SlotRequest{
		slot("2026-11-06", TimeEvening),
	}})
	require.Error(t, err)
	assert.Equal(t, matching.RegistrationPending, repo.regs["old"].Status)
}

func TestCancel(t *testing.T) {
	repo := newFakeRepo()
	repo.regs["p"] = matching.Registration{ID: "p", UserID: "u1", Status: matching.RegistrationPending}
	repo.regs["m"] = matching.Registration{ID: "m", UserID: "u1", Status: matching.RegistrationMatched}
	repo.regs["x"] = matching.Registration{ID: "x", UserID: "u2", Status: matching.RegistrationPending}
	svc := newTestService(repo)
	ctx := context.Background()

	require.NoError(t, svc.Cancel(ctx, "u1", "p"))
	assert.Equal(t, matching.RegistrationCancelled, repo.regs["p"].Status)

	assert.ErrorIs(t, svc.Cancel(ctx, "u1", "p"), ErrNotPending)
	assert.ErrorIs(t, svc.Cancel(ctx, "u1", "m"), ErrNotPending)
	assert.ErrorIs(t, svc.Cancel(ctx, "u1", "x"), ErrRegistrationNotFound)
	assert.ErrorIs(t, svc.Cancel(ctx, "u1", "missing"), ErrRegistrationNotFound)
}

func TestHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := newFakeRepo()
	repo.regs["m"] = matching.Registration{ID: "m", UserID: "u1", Status: matching.RegistrationMatched}
	h := NewHandler(newTestService(repo))

	r := gin.New()
	r.Use(func(c *gin.Context) { c.Set("user_id", "u1"); c.Next() })
	r.POST("/registrations", h.Create)
	r.GET("/registrations", h.List)
	r.DELETE("/registrations/:id", h.Cancel)

	do := func(method, path, body string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(method, path, strings.NewReader(body)))
		return w
	}

	tests := []struct {
		name string
		body string
		want int
	}{
		{name: "empty list", body: `{"registrations":[]}`, want: http.StatusBadRequest},
		{name: "bad time slot", body: `{"registrations":[{"event_date":"2026-11-06","event_time":"19:00:00","area_id":"` + area + `","participation_type":"solo"}]}`, want: http.StatusBadRequest},
		{name: "bad participation", body: `{"registrations":[{"event_date":"2026-11-06","event_time":"18:00:00","area_id":"` + area + `","participation_type":"pair"}]}`, want: http.StatusBadRequest},
		{name: "past date", body: `{"registrations":[{"event_date":"2026-01-02","event_time":"18:00:00","area_id":"` + area + `","participation_type":"solo"}]}`, want: http.StatusBadRequest},
		{name: "ok", body: `{"registrations":[{"event_date":"2026-11-06","event_time":"18:00:00","area_id":"` + area + `","participation_type":"solo"}]}`, want: http.StatusCreated},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, do(http.MethodPost, "/registrations", tt.body).Code)
		})
	}

	w := do(http.MethodGet, "/registrations", "")
	require.Equal(t, http.StatusOK, w.Code)
	var list ListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Equal(t, 2, list.Total)

	assert.Equal(t, http.StatusConflict, do(http.MethodDelete, "/registrations/m", "").Code)
	assert.Equal(t, http.StatusNotFound, do(http.MethodDelete, "/registrations/nope", "").Code)
}
