package handlers

import (
	"github.com/Freeeeeet/rental_desk/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/rental_desk/internal/controller/state"
	"github.com/Freeeeeet/rental_desk/internal/service"
	"go.uber.org/zap"
)

// Handlers содержит все зависимости для обработки команд
type Handlers struct {
	authService        *service.AuthService
	reservationService *service.ReservationService
	fleetService       *service.FleetService
	adminService       *service.AdminService
	dashboardService   *service.DashboardService
	stateManager       *state.Manager
	logger             *zap.Logger
}

// NewHandlers создаёт новый обработчик команд
func NewHandlers(
	authService *service.AuthService,
	reservationService *service.ReservationService,
	fleetService *service.FleetService,
	adminService *service.AdminService,
	dashboardService *service.DashboardService,
	stateManager *state.Manager,
	logger *zap.Logger,
) *Handlers {
	return &Handlers{
		authService:        authService,
		reservationService: reservationService,
		fleetService:       fleetService,
		adminService:       adminService,
		dashboardService:   dashboardService,
		stateManager:       stateManager,
		logger:             logger,
	}
}

// screenDeps зависимости в виде, который ждут общие загрузчики экранов
func (h *Handlers) screenDeps() *callbacktypes.Handler {
	return &callbacktypes.Handler{
		AuthService:        h.authService,
		ReservationService: h.reservationService,
		FleetService:       h.fleetService,
		AdminService:       h.adminService,
		DashboardService:   h.dashboardService,
		StateManager:       state.NewAdapter(h.stateManager),
		Logger:             h.logger,
	}
}
