package app

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Freeeeeet/rental_desk/internal/api"
	"github.com/Freeeeeet/rental_desk/internal/api/apitest"
	"github.com/Freeeeeet/rental_desk/internal/daterange"
	"github.com/Freeeeeet/rental_desk/internal/model"
	"github.com/Freeeeeet/rental_desk/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type staticSessions []*session.Session

func (s staticSessions) ActiveSessions(ctx context.Context) ([]*session.Session, error) {
	return s, nil
}

type fakeDigests struct {
	pickups []model.Reservation
	calls   int
}

func (f *fakeDigests) Digest(ctx context.Context, sess *session.Session, day daterange.Date) ([]model.Reservation, []model.Reservation, error) {
	f.calls++
	return f.pickups, nil, nil
}

type memDigestLog struct {
	mu   sync.Mutex
	sent map[int64]daterange.Date
}

func (m *memDigestLog) MarkSent(ctx context.Context, telegramID int64, day daterange.Date, pickups, returns int) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if last, ok := m.sent[telegramID]; ok && last.Equal(day) {
		return false, nil
	}
	m.sent[telegramID] = day
	return true, nil
}

func (m *memDigestLog) Unmark(ctx context.Context, telegramID int64, day daterange.Date) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sent, telegramID)
	return nil
}

type recordingSender struct {
	chats []int64
	fail  error
}

func (r *recordingSender) SendDigest(ctx context.Context, chatID int64, day daterange.Date, pickups, returns []model.Reservation) error {
	if r.fail != nil {
		return r.fail
	}
	r.chats = append(r.chats, chatID)
	return nil
}

func loggedIn(t *testing.T, backend *apitest.Backend, telegramID int64, username string, role model.Role) *session.Session {
	t.Helper()
	backend.AddUser(username, "password1", role)

	client, err := api.NewClient(backend.URL(), 5*time.Second, zap.NewNop())
	require.NoError(t, err)

	sess := session.New(telegramID, telegramID*10, client, zap.NewNop())
	_, err = sess.Login(context.Background(), model.Credentials{Username: username, Password: "password1"})
	require.NoError(t, err)
	return sess
}

func newTestScheduler(sessions staticSessions, digests *fakeDigests, sender *recordingSender, log *memDigestLog, at time.Time) *Scheduler {
	s := NewScheduler(SchedulerConfig{Hour: 8, Location: time.UTC}, sessions, digests, log, sender, zap.NewNop())
	s.now = func() time.Time { return at }
	return s
}

func TestSchedulerSendsOncePerDay(t *testing.T) {
	backend := apitest.NewBackend()
	defer backend.Close()

	manager := loggedIn(t, backend, 1, "anna", model.RoleManager)
	digests := &fakeDigests{pickups: []model.Reservation{{ID: "r1"}}}
	sender := &recordingSender{}
	log := &memDigestLog{sent: make(map[int64]daterange.Date)}

	s := newTestScheduler(staticSessions{manager}, digests, sender, log, time.Date(2030, 4, 20, 9, 0, 0, 0, time.UTC))

	s.RunOnce(context.Background())
	s.RunOnce(context.Background())

	assert.Equal(t, []int64{10}, sender.chats)
	assert.Equal(t, 1, digests.calls, "second run is skipped from memory")
}

func TestSchedulerWaitsForDigestHour(t *testing.T) {
	backend := apitest.NewBackend()
	defer backend.Close()

	manager := loggedIn(t, backend, 1, "anna", model.RoleManager)
	digests := &fakeDigests{pickups: []model.Reservation{{ID: "r1"}}}
	sender := &recordingSender{}
	log := &memDigestLog{sent: make(map[int64]daterange.Date)}

	s := newTestScheduler(staticSessions{manager}, digests, sender, log, time.Date(2030, 4, 20, 7, 59, 0, 0, time.UTC))
	s.RunOnce(context.Background())

	assert.Empty(t, sender.chats)
	assert.Zero(t, digests.calls)
}

func TestSchedulerRespectsPersistedMark(t *testing.T) {
	backend := apitest.NewBackend()
	defer backend.Close()

	manager := loggedIn(t, backend, 1, "anna", model.RoleManager)
	digests := &fakeDigests{pickups: []model.Reservation{{ID: "r1"}}}
	sender := &recordingSender{}
	// Отправлено до перезапуска
	log := &memDigestLog{sent: map[int64]daterange.Date{1: daterange.MustParse("2030-04-20")}}

	s := newTestScheduler(staticSessions{manager}, digests, sender, log, time.Date(2030, 4, 20, 12, 0, 0, 0, time.UTC))
	s.RunOnce(context.Background())

	assert.Empty(t, sender.chats)
}

func TestSchedulerUnmarksOnSendFailure(t *testing.T) {
	backend := apitest.NewBackend()
	defer backend.Close()

	manager := loggedIn(t, backend, 1, "anna", model.RoleManager)
	digests := &fakeDigests{pickups: []model.Reservation{{ID: "r1"}}}
	sender := &recordingSender{fail: errors.New("telegram is down")}
	log := &memDigestLog{sent: make(map[int64]daterange.Date)}

	s := newTestScheduler(staticSessions{manager}, digests, sender, log, time.Date(2030, 4, 20, 9, 0, 0, 0, time.UTC))
	s.RunOnce(context.Background())
	assert.Empty(t, log.sent)

	sender.fail = nil
	s.RunOnce(context.Background())
	assert.Equal(t, []int64{10}, sender.chats)
}

func TestSchedulerSkipsLoggedOutAndEmptyDigests(t *testing.T) {
	backend := apitest.NewBackend()
	defer backend.Close()

	manager := loggedIn(t, backend, 1, "anna", model.RoleManager)
	client, err := api.NewClient(backend.URL(), time.Second, zap.NewNop())
	require.NoError(t, err)
	anonymous := session.New(2, 20, client, zap.NewNop())

	digests := &fakeDigests{}
	sender := &recordingSender{}
	log := &memDigestLog{sent: make(map[int64]daterange.Date)}

	s := newTestScheduler(staticSessions{manager, anonymous}, digests, sender, log, time.Date(2030, 4, 20, 9, 0, 0, 0, time.UTC))
	s.RunOnce(context.Background())

	assert.Equal(t, 1, digests.calls)
	assert.Empty(t, sender.chats, "nothing to report")
	assert.Contains(t, log.sent, int64(1))
}

func TestSchedulerDisabled(t *testing.T) {
	s := NewScheduler(SchedulerConfig{Hour: -1}, staticSessions{}, &fakeDigests{}, &memDigestLog{}, &recordingSender{}, zap.NewNop())
	s.Start(context.Background())
	s.Stop()
	s.Stop()
}
