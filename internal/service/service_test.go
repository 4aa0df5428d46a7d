package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/Freeeeeet/rental_desk/internal/api"
	"github.com/Freeeeeet/rental_desk/internal/api/apitest"
	"github.com/Freeeeeet/rental_desk/internal/model"
	"github.com/Freeeeeet/rental_desk/internal/session"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type memStore struct {
	mu       sync.Mutex
	sessions map[int64]model.OperatorSession
}

func newMemStore() *memStore {
	return &memStore{sessions: make(map[int64]model.OperatorSession)}
}

func (m *memStore) Get(ctx context.Context, telegramID int64) (*model.OperatorSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[telegramID]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (m *memStore) Save(ctx context.Context, s *model.OperatorSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.TelegramID] = *s
	return nil
}

func (m *memStore) Delete(ctx context.Context, telegramID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, telegramID)
	return nil
}

func (m *memStore) ListActive(ctx context.Context) ([]model.OperatorSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]model.OperatorSession, 0, len(m.sessions))
	for _, s := range m.sessions {
		out = append(out, s)
	}
	return out, nil
}

func newTestRegistry(backend *apitest.Backend) *session.Registry {
	factory := func() (*api.Client, error) {
		return api.NewClient(backend.URL(), 5*time.Second, zap.NewNop())
	}
	return session.NewRegistry(newMemStore(), factory, zap.NewNop())
}

// loginAs заводит пользователя на бэкенде и возвращает его сессию
func loginAs(t *testing.T, backend *apitest.Backend, username string, role model.Role) *session.Session {
	t.Helper()
	backend.AddUser(username, "password1", role)

	sess, _, err := newTestRegistry(backend).Login(context.Background(), 1, 1, model.Credentials{
		Username: username,
		Password: "password1",
	})
	require.NoError(t, err)
	return sess
}

// fixedClock "сейчас" для тестов: 2030-04-20 12:00 UTC
func fixedClock() time.Time {
	return time.Date(2030, time.April, 20, 12, 0, 0, 0, time.UTC)
}
