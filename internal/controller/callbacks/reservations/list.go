package reservations

import (
	"context"

	"github.com/Freeeeeet/rental_desk/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/rental_desk/internal/controller/callbacks/common"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// HandleReservationsPage список бронирований (свежий с бэкенда на первой странице)
func HandleReservationsPage(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithManager(ctx, b, callback, h, func(hc *common.HandlerContext) {
		page, err := common.ParseInt(callback.Data, common.ReservationsPage)
		if err != nil {
			hc.Fail(err, "parse_reservations_page")
			return
		}

		if page == 0 {
			if _, err := h.ReservationService.Refresh(ctx, hc.Session); err != nil {
				hc.Fail(err, "refresh_reservations")
				return
			}
		}

		list, err := h.ReservationService.Upcoming(ctx, hc.Session)
		if err != nil {
			hc.Fail(err, "list_reservations")
			return
		}

		if err := hc.Show(common.BuildReservationsScreen(list, page)); err != nil {
			hc.Fail(err, "show_reservations")
			return
		}
		hc.Answer("")
	})
}

// HandleViewReservation карточка бронирования
func HandleViewReservation(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithManager(ctx, b, callback, h, func(hc *common.HandlerContext) {
		id, err := common.ParseID(callback.Data, common.ReservationView)
		if err != nil {
			hc.Fail(err, "parse_reservation_id")
			return
		}

		// Из любого шага диалога кнопка "Назад" ведёт сюда
		hc.ClearState()

		screen, err := common.LoadReservationScreen(ctx, h, hc.Session, id)
		if err != nil {
			hc.Fail(err, "load_reservation")
			return
		}

		if err := hc.Show(screen); err != nil {
			hc.Fail(err, "show_reservation")
			return
		}

		h.Logger.Debug("Reservation shown", zap.String("reservation_id", id), zap.Int64("telegram_id", hc.TelegramID))
		hc.Answer("")
	})
}

// HandleReservationCalendar занятость машины бронирования (само бронирование не считается)
func HandleReservationCalendar(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithManager(ctx, b, callback, h, func(hc *common.HandlerContext) {
		args, err := common.ParseArgs(callback.Data, common.ReservationCal, 2)
		if err != nil {
			hc.Fail(err, "parse_reservation_calendar")
			return
		}
		id := args[0]

		year, month, err := keyboardMonth(args[1])
		if err != nil {
			hc.Fail(err, "parse_reservation_calendar")
			return
		}

		r, err := h.ReservationService.Get(ctx, hc.Session, id)
		if err != nil {
			hc.Fail(err, "load_reservation")
			return
		}
		car, err := h.FleetService.GetCar(ctx, hc.Session, r.CarID)
		if err != nil {
			hc.Fail(err, "load_car")
			return
		}

		prefix := common.ReservationCal + id + ":"
		if err := common.SendCarCalendar(hc, *car, id, year, month, prefix, common.ReservationView+id); err != nil {
			hc.Fail(err, "send_calendar")
			return
		}
		hc.Answer("")
	})
}
