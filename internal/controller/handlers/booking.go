package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/Freeeeeet/rental_desk/internal/controller/callbacks/common"
	"github.com/Freeeeeet/rental_desk/internal/controller/callbacks/common/formatting"
	"github.com/Freeeeeet/rental_desk/internal/controller/state"
	"github.com/Freeeeeet/rental_desk/internal/daterange"
	"github.com/Freeeeeet/rental_desk/internal/model"
	"github.com/Freeeeeet/rental_desk/internal/reservation"
	"github.com/Freeeeeet/rental_desk/internal/service"
	"github.com/Freeeeeet/rental_desk/internal/session"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// handleBookClientSearch поиск клиента для нового бронирования
func (h *Handlers) handleBookClientSearch(ctx context.Context, b *bot.Bot, update *models.Update) {
	sess, _, ok := h.requireSession(ctx, b, update, model.RoleManager)
	if !ok {
		return
	}
	chatID := update.Message.Chat.ID
	query := strings.TrimSpace(update.Message.Text)

	if tooShort(query, SearchMinLength) {
		h.sendError(ctx, b, chatID, fmt.Sprintf("❌ Запрос слишком короткий. Минимум %d символа.\n\nПопробуйте ещё раз:", SearchMinLength))
		return
	}

	clients, err := h.fleetService.SearchClients(ctx, sess, query)
	if err != nil {
		h.fail(ctx, b, chatID, sess, err, "search_clients")
		return
	}

	h.logger.Debug("Client search for booking",
		zap.Int64("telegram_id", update.Message.From.ID),
		zap.Int("found", len(clients)))

	h.sendScreen(ctx, b, chatID, common.BuildBookClientScreen(clients, query))
}

// handleBookDates проверяет даты по локальной копии и показывает предварительную стоимость
func (h *Handlers) handleBookDates(ctx context.Context, b *bot.Bot, update *models.Update) {
	sess, _, ok := h.requireSession(ctx, b, update, model.RoleManager)
	if !ok {
		return
	}
	telegramID := update.Message.From.ID
	chatID := update.Message.Chat.ID

	carID, okCar := h.dialogString(telegramID, state.KeyCarID)
	clientID, okClient := h.dialogString(telegramID, state.KeyClientID)
	if !okCar || !okClient {
		h.expired(ctx, b, update)
		return
	}

	from, to, err := formatting.ParsePeriod(update.Message.Text)
	if err != nil {
		h.reject(ctx, b, chatID, sess, err, "parse_period")
		return
	}

	period, err := h.reservationService.Check(ctx, sess, service.Draft{
		CarID:    carID,
		ClientID: clientID,
		From:     from,
		To:       to,
	}, nil)
	if err != nil {
		h.reject(ctx, b, chatID, sess, err, "check_dates")
		return
	}

	car, err := h.fleetService.GetCar(ctx, sess, carID)
	if err != nil {
		h.fail(ctx, b, chatID, sess, err, "load_car")
		return
	}

	quote, err := h.reservationService.Quote(*car, period)
	if err != nil {
		h.reject(ctx, b, chatID, sess, err, "quote")
		return
	}

	h.stateManager.SetData(telegramID, state.KeyFrom, period.From.String())
	h.stateManager.SetData(telegramID, state.KeyTo, period.To.String())
	h.stateManager.SetState(telegramID, state.StateBookPayment)

	h.sendMessage(ctx, b, chatID, formatting.QuotePreview(*car, period, quote)+"\n\n"+
		"Шаг 4: сколько клиент оплатил сейчас?\n"+
		"Отправьте сумму или «-», если оплаты пока нет.\n\n"+
		"Для отмены используйте /cancel")
}

// handleBookPayment предоплата не может быть больше предварительной стоимости
func (h *Handlers) handleBookPayment(ctx context.Context, b *bot.Bot, update *models.Update) {
	sess, _, ok := h.requireSession(ctx, b, update, model.RoleManager)
	if !ok {
		return
	}
	telegramID := update.Message.From.ID
	chatID := update.Message.Chat.ID
	text := strings.TrimSpace(update.Message.Text)

	raw := ""
	if !isSkip(text) {
		paid, err := parseAmount(text)
		if err != nil {
			h.reject(ctx, b, chatID, sess, err, "parse_payment")
			return
		}

		estimated, err := h.estimate(ctx, sess, telegramID)
		if err != nil {
			h.fail(ctx, b, chatID, sess, err, "estimate_cost")
			return
		}
		if _, err := reservation.Balance(estimated, paid); err != nil {
			h.reject(ctx, b, chatID, sess, err, "check_payment")
			return
		}
		raw = paid.String()
	}

	h.stateManager.SetData(telegramID, state.KeyAmountPaid, raw)
	h.stateManager.SetState(telegramID, state.StateBookNotes)

	h.sendMessage(ctx, b, chatID, "Шаг 5: заметки к бронированию (рейс, детское кресло) или «-»\n\n"+
		"Для отмены используйте /cancel")
}

// estimate предварительная стоимость по машине и датам из диалога
func (h *Handlers) estimate(ctx context.Context, sess *session.Session, telegramID int64) (model.Money, error) {
	carID, okCar := h.dialogString(telegramID, state.KeyCarID)
	from, okFrom := h.dialogString(telegramID, state.KeyFrom)
	to, okTo := h.dialogString(telegramID, state.KeyTo)
	if !okCar || !okFrom || !okTo {
		return 0, common.ErrDialogExpired
	}

	car, err := h.fleetService.GetCar(ctx, sess, carID)
	if err != nil {
		return 0, err
	}

	start, err := daterange.Parse(from)
	if err != nil {
		return 0, err
	}
	end, err := daterange.Parse(to)
	if err != nil {
		return 0, err
	}
	return reservation.EstimateCost(car.DailyRate, start, end)
}

// handleBookNotes последний шаг: сводка с кнопками подтверждения
func (h *Handlers) handleBookNotes(ctx context.Context, b *bot.Bot, update *models.Update) {
	sess, _, ok := h.requireSession(ctx, b, update, model.RoleManager)
	if !ok {
		return
	}
	telegramID := update.Message.From.ID
	chatID := update.Message.Chat.ID

	notes := optionalText(update.Message.Text)
	if tooLong(notes, NotesMaxLength) {
		h.sendError(ctx, b, chatID, fmt.Sprintf("❌ Слишком длинно. Максимум %d символов.\n\nПопробуйте ещё раз:", NotesMaxLength))
		return
	}
	h.stateManager.SetData(telegramID, state.KeyNotes, notes)

	draft, err := common.BookingDraft(func(key string) (string, bool) {
		return h.dialogString(telegramID, key)
	})
	if err != nil {
		h.expired(ctx, b, update)
		return
	}

	// За время диалога даты могли занять
	period, err := h.reservationService.Check(ctx, sess, draft, nil)
	if err != nil {
		if common.IsInputError(err) {
			h.stateManager.SetState(telegramID, state.StateBookDates)
			h.sendError(ctx, b, chatID, common.ErrorMessage(err)+"\n\nОтправьте другие даты:")
			return
		}
		h.fail(ctx, b, chatID, sess, err, "check_dates")
		return
	}

	car, err := h.fleetService.GetCar(ctx, sess, draft.CarID)
	if err != nil {
		h.fail(ctx, b, chatID, sess, err, "load_car")
		return
	}
	client, err := h.fleetService.GetClient(ctx, sess, draft.ClientID)
	if err != nil {
		h.fail(ctx, b, chatID, sess, err, "load_client")
		return
	}
	quote, err := h.reservationService.Quote(*car, period)
	if err != nil {
		h.fail(ctx, b, chatID, sess, err, "quote")
		return
	}

	var paid model.Money
	if draft.AmountPaid != nil {
		paid = *draft.AmountPaid
	}

	h.stateManager.SetState(telegramID, state.StateBookConfirm)
	h.sendScreen(ctx, b, chatID, common.BuildBookConfirmScreen(formatting.QuotePreview(*car, period, quote), *client, paid, notes))
}
