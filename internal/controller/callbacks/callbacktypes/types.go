package callbacktypes

import (
	"context"

	"github.com/Freeeeeet/rental_desk/internal/service"
	"github.com/Freeeeeet/rental_desk/internal/session"
	"github.com/go-telegram/bot"
	"go.uber.org/zap"
)

// UserState представляет текущее состояние пользователя в диалоге
type UserState string

// StateManager интерфейс для управления состоянием пользователей
type StateManager interface {
	ClearState(telegramID int64)
	GetState(telegramID int64) UserState
	SetState(telegramID int64, state UserState)
	Start(telegramID int64, state UserState, data map[string]interface{})
	SetData(telegramID int64, key string, value interface{})
	GetData(telegramID int64, key string) (interface{}, bool)
	GetAllData(telegramID int64) map[string]interface{}
}

// Handler содержит общие зависимости для всех callback handlers
type Handler struct {
	AuthService        *service.AuthService
	ReservationService *service.ReservationService
	FleetService       *service.FleetService
	AdminService       *service.AdminService
	DashboardService   *service.DashboardService
	StateManager       StateManager
	Logger             *zap.Logger

	// Функции-хэндлеры из основного контроллера
	ShowDashboard func(ctx context.Context, b *bot.Bot, chatID int64, sess *session.Session)
}
