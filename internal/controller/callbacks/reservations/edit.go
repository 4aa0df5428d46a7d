package reservations

import (
	"context"
	"fmt"
	"html"

	"github.com/Freeeeeet/rental_desk/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/rental_desk/internal/controller/callbacks/common"
	"github.com/Freeeeeet/rental_desk/internal/controller/callbacks/common/formatting"
	"github.com/Freeeeeet/rental_desk/internal/controller/callbacks/common/keyboard"
	"github.com/Freeeeeet/rental_desk/internal/controller/state"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

const busyPeriodsLimit = 5

// HandleEditDates просит новые даты; занятость показывается без самого бронирования
func HandleEditDates(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithManager(ctx, b, callback, h, func(hc *common.HandlerContext) {
		id, err := common.ParseID(callback.Data, common.ReservationDates)
		if err != nil {
			hc.Fail(err, "parse_reservation_id")
			return
		}

		r, err := h.ReservationService.Get(ctx, hc.Session, id)
		if err != nil {
			hc.Fail(err, "load_reservation")
			return
		}

		blocked, err := h.ReservationService.BlockedPeriods(ctx, hc.Session, r.CarID, r.ID)
		if err != nil {
			hc.Fail(err, "load_blocked_periods")
			return
		}

		hc.StartDialog(dialog(state.StateEditDates), map[string]interface{}{
			state.KeyReservationID: r.ID,
		})

		text := fmt.Sprintf("📅 <b>Даты %s</b>\n\nСейчас: %s\n\n%s\n\n"+
			"Отправьте новые даты: «2030-05-01 2030-05-05» или «01.05.2030 - 05.05.2030»\n\n"+
			"Для отмены используйте /cancel",
			html.EscapeString(r.ReservationNumber),
			formatting.FormatPeriod(r.Period()),
			formatting.BusyPeriods(blocked, h.ReservationService.Today(), busyPeriodsLimit))

		kb := keyboard.NewBuilder().Row(keyboard.CancelButton(common.ReservationView + r.ID)).Build()
		if err := hc.EditMessage(text, kb); err != nil {
			hc.Fail(err, "start_edit_dates")
			return
		}
		hc.Answer("")
	})
}

// HandleEditNotes просит новый текст заметок
func HandleEditNotes(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithManager(ctx, b, callback, h, func(hc *common.HandlerContext) {
		id, err := common.ParseID(callback.Data, common.ReservationNotes)
		if err != nil {
			hc.Fail(err, "parse_reservation_id")
			return
		}

		r, err := h.ReservationService.Get(ctx, hc.Session, id)
		if err != nil {
			hc.Fail(err, "load_reservation")
			return
		}

		hc.StartDialog(dialog(state.StateEditNotes), map[string]interface{}{
			state.KeyReservationID: r.ID,
		})

		current := r.Notes
		if current == "" {
			current = "нет"
		}
		text := fmt.Sprintf("📝 <b>Заметки %s</b>\n\nСейчас: %s\n\nОтправьте новый текст или «-», чтобы очистить.\n\nДля отмены используйте /cancel",
			html.EscapeString(r.ReservationNumber), html.EscapeString(current))

		kb := keyboard.NewBuilder().Row(keyboard.CancelButton(common.ReservationView + r.ID)).Build()
		if err := hc.EditMessage(text, kb); err != nil {
			hc.Fail(err, "start_edit_notes")
			return
		}
		hc.Answer("")
	})
}

// HandleDelete спрашивает подтверждение удаления
func HandleDelete(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithManager(ctx, b, callback, h, func(hc *common.HandlerContext) {
		id, err := common.ParseID(callback.Data, common.ReservationDelete)
		if err != nil {
			hc.Fail(err, "parse_reservation_id")
			return
		}

		r, err := h.ReservationService.Get(ctx, hc.Session, id)
		if err != nil {
			hc.Fail(err, "load_reservation")
			return
		}

		if err := hc.Show(common.BuildDeleteReservationScreen(*r)); err != nil {
			hc.Fail(err, "show_delete_confirm")
			return
		}
		hc.Answer("")
	})
}

// HandleDeleteConfirm удаляет бронирование и возвращает к списку
func HandleDeleteConfirm(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithManager(ctx, b, callback, h, func(hc *common.HandlerContext) {
		id, err := common.ParseID(callback.Data, common.ReservationDelOK)
		if err != nil {
			hc.Fail(err, "parse_reservation_id")
			return
		}

		if err := h.ReservationService.Delete(ctx, hc.Session, id); err != nil {
			hc.Fail(err, "delete_reservation")
			return
		}

		list, err := h.ReservationService.Upcoming(ctx, hc.Session)
		if err != nil {
			hc.Fail(err, "list_reservations")
			return
		}
		if err := hc.Show(common.BuildReservationsScreen(list, 0)); err != nil {
			hc.Fail(err, "show_reservations")
			return
		}
		hc.Answer("🗑 Бронирование удалено")
	})
}
