package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/Freeeeeet/rental_desk/internal/api"
	"github.com/Freeeeeet/rental_desk/internal/api/apitest"
	"github.com/Freeeeeet/rental_desk/internal/model"
	"github.com/stretchr/testify/assert"
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
		if s.User != nil {
			out = append(out, s)
		}
	}
	return out, nil
}

func newRegistry(t *testing.T, backend *apitest.Backend, store Store) *Registry {
	t.Helper()
	factory := func() (*api.Client, error) {
		return api.NewClient(backend.URL(), 5*time.Second, zap.NewNop())
	}
	return NewRegistry(store, factory, zap.NewNop())
}

func TestAllowed(t *testing.T) {
	assert.True(t, Allowed(model.RoleManager, model.RoleManager))
	assert.True(t, Allowed(model.RoleAdmin, model.RoleManager))
	assert.True(t, Allowed(model.RoleAdmin, model.RoleAdmin))
	assert.False(t, Allowed(model.RoleManager, model.RoleAdmin))
}

func TestRegistryLoginRequireLogout(t *testing.T) {
	backend := apitest.NewBackend()
	defer backend.Close()
	backend.AddUser("anna", "secret123", model.RoleManager)

	store := newMemStore()
	reg := newRegistry(t, backend, store)
	ctx := context.Background()

	s, err := reg.Get(ctx, 42, 4200)
	require.NoError(t, err)
	_, err = s.Require(model.RoleManager)
	assert.ErrorIs(t, err, ErrNotLoggedIn)

	s, user, err := reg.Login(ctx, 42, 4200, model.Credentials{Username: "anna", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, "anna", user.Username)

	_, err = s.Require(model.RoleManager)
	assert.NoError(t, err)
	_, err = s.Require(model.RoleAdmin)
	assert.ErrorIs(t, err, ErrForbidden)

	stored, err := store.Get(ctx, 42)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, int64(4200), stored.ChatID)
	assert.NotEmpty(t, stored.Cookies)

	require.NoError(t, reg.Logout(ctx, 42))
	_, ok := s.User()
	assert.False(t, ok)

	stored, err = store.Get(ctx, 42)
	require.NoError(t, err)
	assert.Nil(t, stored)
}

func TestFailedLoginLeavesNoUser(t *testing.T) {
	backend := apitest.NewBackend()
	defer backend.Close()
	backend.AddUser("anna", "secret123", model.RoleManager)

	store := newMemStore()
	reg := newRegistry(t, backend, store)

	s, _, err := reg.Login(context.Background(), 7, 7, model.Credentials{Username: "anna", Password: "nope"})
	require.Error(t, err)
	assert.ErrorIs(t, err, api.ErrRemoteRejection)

	_, ok := s.User()
	assert.False(t, ok)
	assert.Empty(t, store.sessions)
}

func TestSessionRestoredAfterRestart(t *testing.T) {
	backend := apitest.NewBackend()
	defer backend.Close()
	backend.AddUser("root", "rootpass", model.RoleAdmin)

	store := newMemStore()
	ctx := context.Background()

	_, _, err := newRegistry(t, backend, store).Login(ctx, 1, 100, model.Credentials{Username: "root", Password: "rootpass"})
	require.NoError(t, err)

	// Новый реестр как после перезапуска бота
	restarted := newRegistry(t, backend, store)
	s, err := restarted.Get(ctx, 1, 0)
	require.NoError(t, err)

	user, err := s.Require(model.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, "root", user.Username)
	assert.Equal(t, int64(100), s.ChatID())

	active, err := restarted.Active(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, int64(1), active[0].TelegramID())
}

func TestExpiredCookiesAreForgotten(t *testing.T) {
	backend := apitest.NewBackend()
	defer backend.Close()

	store := newMemStore()
	require.NoError(t, store.Save(context.Background(), &model.OperatorSession{
		TelegramID: 5,
		ChatID:     5,
		User:       &model.User{Username: "ghost", Role: model.RoleManager},
		Cookies:    []model.StoredCookie{{Name: "session", Value: "stale"}},
	}))

	reg := newRegistry(t, backend, store)
	s, err := reg.Get(context.Background(), 5, 5)
	require.NoError(t, err)

	_, ok := s.User()
	assert.False(t, ok)
	assert.Empty(t, store.sessions)
}

func TestLoginResetsReservationView(t *testing.T) {
	backend := apitest.NewBackend()
	defer backend.Close()
	backend.AddUser("anna", "secret123", model.RoleManager)

	reg := newRegistry(t, backend, newMemStore())
	ctx := context.Background()

	s, err := reg.Get(ctx, 9, 9)
	require.NoError(t, err)

	view := s.Reservations()
	gen := view.Generation()
	view.Replace(gen, []model.Reservation{{ID: "old"}})

	_, _, err = reg.Login(ctx, 9, 9, model.Credentials{Username: "anna", Password: "secret123"})
	require.NoError(t, err)

	assert.Empty(t, view.Items())
	assert.False(t, view.Replace(gen, []model.Reservation{{ID: "late"}}), "response from the previous session is dropped")
}

func TestHandleAPIErrorExpiresOnUnauthorized(t *testing.T) {
	backend := apitest.NewBackend()
	defer backend.Close()
	backend.AddUser("anna", "secret123", model.RoleManager)

	store := newMemStore()
	reg := newRegistry(t, backend, store)
	ctx := context.Background()

	s, _, err := reg.Login(ctx, 3, 3, model.Credentials{Username: "anna", Password: "secret123"})
	require.NoError(t, err)

	reg.HandleAPIError(ctx, s, &api.RemoteError{StatusCode: 500, Message: "boom"})
	_, ok := s.User()
	assert.True(t, ok, "other errors keep the session")

	reg.HandleAPIError(ctx, s, &api.RemoteError{StatusCode: 401, Message: "Authentication required"})
	_, ok = s.User()
	assert.False(t, ok)
	assert.Empty(t, store.sessions)
}
