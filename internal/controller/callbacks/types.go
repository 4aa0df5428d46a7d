package callbacks

import (
	"context"

	"github.com/Freeeeeet/rental_desk/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/rental_desk/internal/service"
	"github.com/Freeeeeet/rental_desk/internal/session"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// Handler обертка для callbacktypes.Handler с методами
type Handler struct {
	*callbacktypes.Handler
}

// StateManager интерфейс для управления состоянием пользователей
type StateManager = callbacktypes.StateManager

// NewHandler создаёт новый обработчик callbacks с зависимостями
func NewHandler(
	authService *service.AuthService,
	reservationService *service.ReservationService,
	fleetService *service.FleetService,
	adminService *service.AdminService,
	dashboardService *service.DashboardService,
	stateManager callbacktypes.StateManager,
	logger *zap.Logger,
	showDashboard func(ctx context.Context, b *bot.Bot, chatID int64, sess *session.Session),
) *Handler {
	inner := &callbacktypes.Handler{
		AuthService:        authService,
		ReservationService: reservationService,
		FleetService:       fleetService,
		AdminService:       adminService,
		DashboardService:   dashboardService,
		StateManager:       stateManager,
		Logger:             logger,
		ShowDashboard:      showDashboard,
	}
	return &Handler{Handler: inner}
}

// HandleCallbackQuery - главный обработчик callback queries
func (h *Handler) HandleCallbackQuery(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.CallbackQuery == nil {
		return
	}

	callback := update.CallbackQuery

	h.Logger.Debug("Callback received",
		zap.String("data", callback.Data),
		zap.Int64("user_id", callback.From.ID),
	)

	Route(ctx, b, callback, h.Handler)
}
