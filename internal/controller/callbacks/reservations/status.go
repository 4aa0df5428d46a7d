package reservations

import (
	"context"
	"fmt"
	"html"
	"strconv"

	"github.com/Freeeeeet/rental_desk/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/rental_desk/internal/controller/callbacks/common"
	"github.com/Freeeeeet/rental_desk/internal/controller/callbacks/common/formatting"
	"github.com/Freeeeeet/rental_desk/internal/controller/callbacks/common/keyboard"
	"github.com/Freeeeeet/rental_desk/internal/controller/state"
	"github.com/Freeeeeet/rental_desk/internal/model"
	"github.com/Freeeeeet/rental_desk/internal/reservation"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// HandleStatusMenu показывает статусы, в которые можно перевести бронирование
func HandleStatusMenu(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithManager(ctx, b, callback, h, func(hc *common.HandlerContext) {
		id, err := common.ParseID(callback.Data, common.ReservationStatus)
		if err != nil {
			hc.Fail(err, "parse_reservation_id")
			return
		}

		r, err := h.ReservationService.Get(ctx, hc.Session, id)
		if err != nil {
			hc.Fail(err, "load_reservation")
			return
		}

		targets := reservation.Targets(r.Status, h.ReservationService.Policy())
		if len(targets) == 0 {
			hc.AnswerAlert(fmt.Sprintf("🔒 Статус «%s» окончательный", r.Status.Label()))
			return
		}

		if err := hc.Show(common.BuildStatusScreen(*r, targets)); err != nil {
			hc.Fail(err, "show_statuses")
			return
		}
		hc.Answer("")
	})
}

// HandleSetStatus меняет статус. Для завершения аренды сначала спрашивает
// время возврата, доплаты и оплату.
func HandleSetStatus(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithManager(ctx, b, callback, h, func(hc *common.HandlerContext) {
		args, err := common.ParseArgs(callback.Data, common.ReservationSetSt, 2)
		if err != nil {
			hc.Fail(err, "parse_set_status")
			return
		}
		id := args[0]
		index, err := strconv.Atoi(args[1])
		if err != nil {
			hc.Fail(fmt.Errorf("%w: %q", common.ErrInvalidFormat, callback.Data), "parse_set_status")
			return
		}

		r, err := h.ReservationService.Get(ctx, hc.Session, id)
		if err != nil {
			hc.Fail(err, "load_reservation")
			return
		}

		targets := reservation.Targets(r.Status, h.ReservationService.Policy())
		if index < 0 || index >= len(targets) {
			hc.AnswerAlert("🔄 Список статусов устарел, откройте бронирование заново")
			return
		}
		target := targets[index]

		if target == model.ReservationStatusCompleted {
			startCompletion(hc, *r)
			return
		}

		if _, err := h.ReservationService.ChangeStatus(ctx, hc.Session, id, reservation.StatusChange{Status: target}); err != nil {
			hc.Fail(err, "change_status")
			return
		}

		screen, err := common.LoadReservationScreen(ctx, h, hc.Session, id)
		if err != nil {
			hc.Fail(err, "load_reservation")
			return
		}
		if err := hc.Show(screen); err != nil {
			h.Logger.Warn("Failed to show reservation", zap.Error(err))
		}
		hc.Answer("✅ " + formatting.GetReservationStatusDisplay(target).String())
	})
}

// startCompletion первый шаг завершения аренды: время возврата
func startCompletion(hc *common.HandlerContext, r model.Reservation) {
	hc.StartDialog(dialog(state.StateCompleteReturnTime), map[string]interface{}{
		state.KeyReservationID: r.ID,
	})

	text := fmt.Sprintf("🏁 <b>Завершение %s</b>\n\n"+
		"Расчётная стоимость: %s\nОплачено: %s\n\n"+
		"Шаг 1 из 4: когда машину вернули?\n"+
		"Отправьте «сейчас», время «18:30» или дату и время «05.05.2030 18:30»\n\n"+
		"Для отмены используйте /cancel",
		html.EscapeString(r.ReservationNumber),
		formatting.FormatMoney(r.EstimatedTotalCost),
		formatting.FormatMoney(r.PaymentDetails.AmountPaid))

	kb := keyboard.NewBuilder().Row(keyboard.CancelButton(common.ReservationView + r.ID)).Build()
	if err := hc.EditMessage(text, kb); err != nil {
		hc.Fail(err, "start_completion")
		return
	}
	hc.Answer("")
}
