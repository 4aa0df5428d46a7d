package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/Freeeeeet/rental_desk/internal/api"
	"github.com/Freeeeeet/rental_desk/internal/model"
	"go.uber.org/zap"
)

// Store хранилище сессий между перезапусками бота
type Store interface {
	Get(ctx context.Context, telegramID int64) (*model.OperatorSession, error)
	Save(ctx context.Context, s *model.OperatorSession) error
	Delete(ctx context.Context, telegramID int64) error
	ListActive(ctx context.Context) ([]model.OperatorSession, error)
}

// ClientFactory создаёт API-клиент с пустой cookie-сессией
type ClientFactory func() (*api.Client, error)

// Registry сессии операторов по Telegram ID
type Registry struct {
	mu        sync.Mutex
	sessions  map[int64]*Session
	store     Store
	newClient ClientFactory
	logger    *zap.Logger
}

func NewRegistry(store Store, newClient ClientFactory, logger *zap.Logger) *Registry {
	return &Registry{
		sessions:  make(map[int64]*Session),
		store:     store,
		newClient: newClient,
		logger:    logger,
	}
}

// Get сессия оператора; при первом обращении восстанавливается из хранилища
// и проверяется через /auth/status
func (r *Registry) Get(ctx context.Context, telegramID, chatID int64) (*Session, error) {
	s, err := r.load(ctx, telegramID, chatID)
	if err != nil {
		return nil, err
	}

	if err := s.Init(ctx); err != nil {
		return nil, err
	}

	// Cookie протухли: запись в хранилище больше не нужна
	if _, ok := s.User(); !ok {
		if err := r.store.Delete(ctx, telegramID); err != nil {
			r.logger.Warn("Failed to delete expired session", zap.Int64("telegram_id", telegramID), zap.Error(err))
		}
	}

	return s, nil
}

func (r *Registry) load(ctx context.Context, telegramID, chatID int64) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.sessions[telegramID]; ok {
		s.setChatID(chatID)
		return s, nil
	}

	client, err := r.newClient()
	if err != nil {
		return nil, fmt.Errorf("create api client: %w", err)
	}

	stored, err := r.store.Get(ctx, telegramID)
	if err != nil {
		return nil, fmt.Errorf("load stored session: %w", err)
	}

	if stored != nil {
		client.RestoreCookies(stored.Cookies)
		if chatID == 0 {
			chatID = stored.ChatID
		}
	}

	s := New(telegramID, chatID, client, r.logger)
	if stored != nil {
		s.createdAt = stored.CreatedAt
	}
	r.sessions[telegramID] = s
	return s, nil
}

// Login входит и сохраняет cookie
func (r *Registry) Login(ctx context.Context, telegramID, chatID int64, creds model.Credentials) (*Session, *model.User, error) {
	s, err := r.load(ctx, telegramID, chatID)
	if err != nil {
		return nil, nil, err
	}

	user, err := s.Login(ctx, creds)
	if err != nil {
		return s, nil, err
	}

	if err := r.store.Save(ctx, s.Snapshot()); err != nil {
		// Вход на бэкенде уже состоялся, сессия просто не переживёт перезапуск
		r.logger.Error("Failed to persist operator session", zap.Int64("telegram_id", telegramID), zap.Error(err))
	}

	return s, user, nil
}

// Logout выходит на бэкенде и удаляет сохранённую сессию
func (r *Registry) Logout(ctx context.Context, telegramID int64) error {
	r.mu.Lock()
	s, ok := r.sessions[telegramID]
	r.mu.Unlock()

	var logoutErr error
	if ok {
		logoutErr = s.Clear(ctx)
	}

	if err := r.store.Delete(ctx, telegramID); err != nil {
		return errors.Join(logoutErr, fmt.Errorf("delete stored session: %w", err))
	}
	return logoutErr
}

// Active сессии с вошедшим пользователем (для рассылки дайджеста)
func (r *Registry) Active(ctx context.Context) ([]*Session, error) {
	stored, err := r.store.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list stored sessions: %w", err)
	}

	active := make([]*Session, 0, len(stored))
	for _, st := range stored {
		s, err := r.Get(ctx, st.TelegramID, st.ChatID)
		if err != nil {
			r.logger.Warn("Skip session", zap.Int64("telegram_id", st.TelegramID), zap.Error(err))
			continue
		}
		if _, ok := s.User(); ok {
			active = append(active, s)
		}
	}
	return active, nil
}

// HandleAPIError сбрасывает сессию, если бэкенд ответил 401
func (r *Registry) HandleAPIError(ctx context.Context, s *Session, err error) {
	if !errors.Is(err, api.ErrUnauthorized) {
		return
	}

	s.Expire()
	if delErr := r.store.Delete(ctx, s.TelegramID()); delErr != nil {
		r.logger.Warn("Failed to delete expired session", zap.Int64("telegram_id", s.TelegramID()), zap.Error(delErr))
	}
}
