package callbacks

import (
	"context"
	"strings"

	"github.com/Freeeeeet/rental_desk/internal/controller/callbacks/admin"
	"github.com/Freeeeeet/rental_desk/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/rental_desk/internal/controller/callbacks/common"
	"github.com/Freeeeeet/rental_desk/internal/controller/callbacks/fleet"
	"github.com/Freeeeeet/rental_desk/internal/controller/callbacks/reservations"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// Route распределяет callback query по соответствующим обработчикам.
// Порядок важен: *_delete_ok: проверяется раньше соответствующего *_delete:
func Route(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	data := callback.Data

	h.Logger.Info("Routing callback",
		zap.String("data", data),
		zap.Int64("user_id", callback.From.ID),
		zap.String("user_name", callback.From.FirstName))

	switch {
	// ===== Навигация =====
	case data == common.BackToMain:
		common.HandleBackToMain(ctx, b, callback, h)
	case data == common.DashboardShow:
		common.HandleDashboard(ctx, b, callback, h)
	case data == common.Noop:
		common.HandleNoop(ctx, b, callback)

	// ===== Бронирования =====
	case strings.HasPrefix(data, common.ReservationsPage):
		reservations.HandleReservationsPage(ctx, b, callback, h)
	case strings.HasPrefix(data, common.ReservationView):
		reservations.HandleViewReservation(ctx, b, callback, h)
	case strings.HasPrefix(data, common.ReservationStatus):
		reservations.HandleStatusMenu(ctx, b, callback, h)
	case strings.HasPrefix(data, common.ReservationSetSt):
		reservations.HandleSetStatus(ctx, b, callback, h)
	case strings.HasPrefix(data, common.ReservationDates):
		reservations.HandleEditDates(ctx, b, callback, h)
	case strings.HasPrefix(data, common.ReservationNotes):
		reservations.HandleEditNotes(ctx, b, callback, h)
	case strings.HasPrefix(data, common.ReservationCal):
		reservations.HandleReservationCalendar(ctx, b, callback, h)
	case strings.HasPrefix(data, common.ReservationDelOK):
		reservations.HandleDeleteConfirm(ctx, b, callback, h)
	case strings.HasPrefix(data, common.ReservationDelete):
		reservations.HandleDelete(ctx, b, callback, h)

	// ===== Новое бронирование =====
	case data == common.BookStart:
		reservations.HandleBookStart(ctx, b, callback, h)
	case strings.HasPrefix(data, common.BookCar):
		reservations.HandleBookCar(ctx, b, callback, h)
	case strings.HasPrefix(data, common.BookClient):
		reservations.HandleBookClient(ctx, b, callback, h)
	case data == common.BookConfirm:
		reservations.HandleBookConfirm(ctx, b, callback, h)
	case data == common.BookCancel:
		reservations.HandleBookCancel(ctx, b, callback, h)

	// ===== Парк и клиенты =====
	case strings.HasPrefix(data, common.CarsPage):
		fleet.HandleCarsPage(ctx, b, callback, h)
	case strings.HasPrefix(data, common.CarView):
		fleet.HandleCarView(ctx, b, callback, h)
	case strings.HasPrefix(data, common.CarCalendar):
		fleet.HandleCarCalendar(ctx, b, callback, h)
	case data == common.CarAdd:
		fleet.HandleCarAdd(ctx, b, callback, h)
	case strings.HasPrefix(data, common.CarEdit):
		fleet.HandleCarEdit(ctx, b, callback, h)
	case strings.HasPrefix(data, common.CarStatusMenu):
		fleet.HandleCarStatusMenu(ctx, b, callback, h)
	case strings.HasPrefix(data, common.CarSetStatus):
		fleet.HandleCarSetStatus(ctx, b, callback, h)
	case strings.HasPrefix(data, common.CarDeleteOK):
		fleet.HandleCarDeleteConfirm(ctx, b, callback, h)
	case strings.HasPrefix(data, common.CarDelete):
		fleet.HandleCarDelete(ctx, b, callback, h)

	case strings.HasPrefix(data, common.ClientsPage):
		fleet.HandleClientsPage(ctx, b, callback, h)
	case data == common.ClientSearch:
		fleet.HandleClientSearch(ctx, b, callback, h)
	case strings.HasPrefix(data, common.ClientView):
		fleet.HandleClientView(ctx, b, callback, h)
	case data == common.ClientAdd:
		fleet.HandleClientAdd(ctx, b, callback, h)
	case strings.HasPrefix(data, common.ClientEdit):
		fleet.HandleClientEdit(ctx, b, callback, h)
	case strings.HasPrefix(data, common.ClientDeleteOK):
		fleet.HandleClientDeleteConfirm(ctx, b, callback, h)
	case strings.HasPrefix(data, common.ClientDelete):
		fleet.HandleClientDelete(ctx, b, callback, h)

	// ===== Администрирование =====
	case strings.HasPrefix(data, common.AuditPage):
		admin.HandleAuditPage(ctx, b, callback, h)
	case data == common.ManagersList:
		admin.HandleManagersList(ctx, b, callback, h)
	case data == common.ManagerAdd:
		admin.HandleManagerAdd(ctx, b, callback, h)
	case strings.HasPrefix(data, common.ManagerDeleteOK):
		admin.HandleManagerDeleteConfirm(ctx, b, callback, h)
	case strings.HasPrefix(data, common.ManagerDelete):
		admin.HandleManagerDelete(ctx, b, callback, h)
	case strings.HasPrefix(data, common.ManagerResetPass):
		admin.HandleManagerPassword(ctx, b, callback, h)

	default:
		h.Logger.Warn("Unknown callback",
			zap.String("data", data),
			zap.Int64("user_id", callback.From.ID))
		common.AnswerCallback(ctx, b, callback.ID, "❌ Неизвестная команда")
	}
}
