package notification

import (
	"context"
	"errors"
	"sync"
	"time"
)

type fakeRepo struct {
	mu         sync.Mutex
	settings   map[string]Settings
	recipients map[string]Recipient
	lineIDs    map[string]string
	listErr    error
	upsertErr  error

	// users by LINE id, for follow events
	lineUsers   map[string]string
	recent      []MatchNotice
	recentSince time.Time
	byDate      map[string][]MatchNotice
	delivered   map[string]bool
	markErr     error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		settings:   make(map[string]Settings),
		recipients: make(map[string]Recipient),
		lineIDs:    make(map[string]string),
		lineUsers:  make(map[string]string),
		byDate:     make(map[string][]MatchNotice),
		delivered:  make(map[string]bool),
	}
}

func deliveryKey(groupID, templateType, userID string) string {
	return groupID + "|" + templateType + "|" + userID
}

func (f *fakeRepo) SetLineConnected(_ context.Context, lineUserID string, connected bool) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	userID, ok := f.lineUsers[lineUserID]
	if !ok {
		return false, nil
	}
	s, ok := f.settings[userID]
	if !ok {
		s = DefaultSettings(userID)
	}
	s.LineConnected = connected
	f.settings[userID] = s
	return true, nil
}

func (f *fakeRepo) RecentGroups(_ context.Context, since time.Time) ([]MatchNotice, error) {
	f.recentSince = since
	return f.recent, nil
}

func (f *fakeRepo) GroupsOnDate(_ context.Context, date string) ([]MatchNotice, error) {
	return f.byDate[date], nil
}

func (f *fakeRepo) Undelivered(_ context.Context, groupID, templateType string, userIDs []string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, id := range userIDs {
		if !f.delivered[deliveryKey(groupID, templateType, id)] {
			out = append(out, id)
		}
	}
	return out, nil
}

func (f *fakeRepo) MarkDelivered(_ context.Context, groupID, templateType string, userIDs []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.markErr != nil {
		return f.markErr
	}
	for _, id := range userIDs {
		f.delivered[deliveryKey(groupID, templateType, id)] = true
	}
	return nil
}

func (f *fakeRepo) GetSettings(_ context.Context, userID string) (*Settings, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.settings[userID]
	if !ok {
		return nil, ErrSettingsNotFound
	}
	return &s, nil
}

func (f *fakeRepo) UpsertSettings(_ context.Context, s *Settings) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.settings[s.UserID] = *s
	return nil
}

func (f *fakeRepo) ListRecipients(_ context.Context, userIDs []string) ([]Recipient, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []Recipient
	for _, id := range userIDs {
		if rc, ok := f.recipients[id]; ok {
			out = append(out, rc)
		}
	}
	return out, nil
}

func (f *fakeRepo) GetLineUserID(_ context.Context, userID string) (string, error) {
	return f.lineIDs[userID], nil
}

type pushCall struct {
	to       string
	messages []Message
}

type fakePusher struct {
	mu      sync.Mutex
	calls   []pushCall
	failFor map[string]bool
}

func (p *fakePusher) Push(_ context.Context, to string, messages []Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, pushCall{to: to, messages: messages})
	if p.failFor[to] {
		return errors.New("line api: status 500")
	}
	return nil
}

func (p *fakePusher) recipients() map[string]bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make(map[string]bool)
	for _, c := range p.calls {
		out[c.to] = true
	}
	return out
}

type fakeFriends struct {
	enabled bool
	friends map[string]bool
	err     error
}

func (f *fakeFriends) Enabled() bool { return f.enabled }

func (f *fakeFriends) IsFriend(_ context.Context, lineUserID string) (bool, error) {
	return f.friends[lineUserID], f.err
}

func connected(userID, lineID string) Recipient {
	s := DefaultSettings(userID)
	s.LineConnected = true
	return Recipient{UserID: userID, LineUserID: lineID, Settings: s}
}
