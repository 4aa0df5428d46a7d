package service

import (
	"context"
	"strings"

	"github.com/Freeeeeet/rental_desk/internal/model"
	"github.com/Freeeeeet/rental_desk/internal/session"
	"go.uber.org/zap"
)

// AuthService вход и выход операторов
type AuthService struct {
	registry *session.Registry
	logger   *zap.Logger
}

func NewAuthService(registry *session.Registry, logger *zap.Logger) *AuthService {
	return &AuthService{registry: registry, logger: logger}
}

// Session сессия оператора (восстанавливается при первом обращении)
func (s *AuthService) Session(ctx context.Context, telegramID, chatID int64) (*session.Session, error) {
	return s.registry.Get(ctx, telegramID, chatID)
}

func (s *AuthService) Login(ctx context.Context, telegramID, chatID int64, username, password string) (*model.User, error) {
	_, user, err := s.registry.Login(ctx, telegramID, chatID, model.Credentials{
		Username: strings.TrimSpace(username),
		Password: password,
	})
	if err != nil {
		s.logger.Info("Login failed",
			zap.Int64("telegram_id", telegramID),
			zap.String("username", username),
			zap.Error(err))
		return nil, err
	}
	return user, nil
}

func (s *AuthService) Logout(ctx context.Context, telegramID int64) error {
	err := s.registry.Logout(ctx, telegramID)
	s.logger.Info("Operator logged out", zap.Int64("telegram_id", telegramID), zap.NamedError("backend_error", err))
	return err
}

// Expire вызывается, когда бэкенд ответил 401
func (s *AuthService) Expire(ctx context.Context, sess *session.Session, err error) {
	s.registry.HandleAPIError(ctx, sess, err)
}

// ActiveSessions вошедшие операторы
func (s *AuthService) ActiveSessions(ctx context.Context) ([]*session.Session, error) {
	return s.registry.Active(ctx)
}
