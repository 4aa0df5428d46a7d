package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Freeeeeet/rental_desk/internal/api"
	"github.com/Freeeeeet/rental_desk/internal/localstate"
	"github.com/Freeeeeet/rental_desk/internal/model"
	"go.uber.org/zap"
)

var (
	ErrNotLoggedIn = errors.New("operator is not logged in")
	ErrForbidden   = errors.New("operator role does not allow this action")
)

// Session сессия одного оператора: его cookie на бэкенде, пользователь
// и локальная копия бронирований. Между операторами ничего не разделяется.
type Session struct {
	telegramID int64
	client     *api.Client
	logger     *zap.Logger

	mu          sync.RWMutex
	chatID      int64
	user        *model.User
	initialized bool
	createdAt   time.Time

	reservations *localstate.List[model.Reservation]
}

// New создаёт сессию без пользователя; Init или Login её заполняют
func New(telegramID, chatID int64, client *api.Client, logger *zap.Logger) *Session {
	return &Session{
		telegramID:   telegramID,
		chatID:       chatID,
		client:       client,
		logger:       logger.With(zap.Int64("telegram_id", telegramID)),
		createdAt:    time.Now().UTC(),
		reservations: localstate.New[model.Reservation](),
	}
}

// TelegramID владелец сессии
func (s *Session) TelegramID() int64 {
	return s.telegramID
}

// ChatID чат для уведомлений (дайджест)
func (s *Session) ChatID() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.chatID
}

func (s *Session) setChatID(chatID int64) {
	if chatID == 0 {
		return
	}
	s.mu.Lock()
	s.chatID = chatID
	s.mu.Unlock()
}

// API клиент бэкенда с cookie этой сессии
func (s *Session) API() *api.Client {
	return s.client
}

// Reservations локальная копия бронирований этого оператора
func (s *Session) Reservations() *localstate.List[model.Reservation] {
	return s.reservations
}

// Init один раз спрашивает бэкенд о текущем пользователе (/auth/status).
// Сетевая ошибка не считается инициализацией: следующий вызов попробует снова.
func (s *Session) Init(ctx context.Context) error {
	s.mu.RLock()
	done := s.initialized
	s.mu.RUnlock()
	if done {
		return nil
	}

	user, err := s.client.Status(ctx)
	if err != nil {
		return fmt.Errorf("init session: %w", err)
	}

	s.mu.Lock()
	s.user = user
	s.initialized = true
	s.mu.Unlock()

	if user != nil {
		s.logger.Info("Operator session restored",
			zap.String("username", user.Username),
			zap.String("role", string(user.Role)))
	}
	return nil
}

// Login открывает новую сессию; старые данные оператора сбрасываются
func (s *Session) Login(ctx context.Context, creds model.Credentials) (*model.User, error) {
	s.reservations.Reset()
	s.client.ResetCookies()

	user, err := s.client.Login(ctx, creds)
	if err != nil {
		s.mu.Lock()
		s.user = nil
		s.initialized = true
		s.mu.Unlock()
		return nil, err
	}

	s.mu.Lock()
	s.user = user
	s.initialized = true
	s.mu.Unlock()

	s.logger.Info("Operator logged in",
		zap.String("username", user.Username),
		zap.String("role", string(user.Role)))
	return user, nil
}

// Clear выход: локальное состояние очищается всегда,
// ошибка бэкенда возвращается, чтобы её показать оператору
func (s *Session) Clear(ctx context.Context) error {
	err := s.client.Logout(ctx)
	if err != nil {
		s.logger.Warn("Backend logout failed, clearing local session anyway", zap.Error(err))
	}

	s.Expire()
	return err
}

// Expire забывает пользователя без запроса к бэкенду (401 в ответе)
func (s *Session) Expire() {
	s.reservations.Reset()
	s.client.ResetCookies()

	s.mu.Lock()
	s.user = nil
	s.initialized = true
	s.mu.Unlock()
}

// User текущий пользователь, если оператор вошёл
func (s *Session) User() (*model.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.user == nil {
		return nil, false
	}
	u := *s.user
	return &u, true
}

// Require проверяет роль. Маршруты менеджера доступны и администратору.
func (s *Session) Require(role model.Role) (*model.User, error) {
	user, ok := s.User()
	if !ok {
		return nil, ErrNotLoggedIn
	}
	if !Allowed(user.Role, role) {
		return nil, fmt.Errorf("%w: %s required, have %s", ErrForbidden, role, user.Role)
	}
	return user, nil
}

// Allowed может ли роль have выполнять действие роли need
func Allowed(have, need model.Role) bool {
	return have == need || (need == model.RoleManager && have == model.RoleAdmin)
}

// Snapshot данные для сохранения в БД
func (s *Session) Snapshot() *model.OperatorSession {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var user *model.User
	if s.user != nil {
		u := *s.user
		user = &u
	}

	return &model.OperatorSession{
		TelegramID: s.telegramID,
		ChatID:     s.chatID,
		User:       user,
		Cookies:    s.client.Cookies(),
		CreatedAt:  s.createdAt,
		UpdatedAt:  time.Now().UTC(),
	}
}
