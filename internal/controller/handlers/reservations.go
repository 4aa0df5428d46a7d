package handlers

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/Freeeeeet/rental_desk/internal/controller/callbacks/common/formatting"
	"github.com/Freeeeeet/rental_desk/internal/controller/state"
	"github.com/Freeeeeet/rental_desk/internal/model"
	"github.com/Freeeeeet/rental_desk/internal/reservation"
	"github.com/Freeeeeet/rental_desk/internal/service"
	"github.com/Freeeeeet/rental_desk/internal/session"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// handleEditDates новые даты существующего бронирования.
// Само бронирование не считается конфликтом, прошедшее начало можно оставить как есть.
func (h *Handlers) handleEditDates(ctx context.Context, b *bot.Bot, update *models.Update) {
	sess, _, ok := h.requireSession(ctx, b, update, model.RoleManager)
	if !ok {
		return
	}
	telegramID := update.Message.From.ID
	chatID := update.Message.Chat.ID

	id, ok := h.dialogString(telegramID, state.KeyReservationID)
	if !ok {
		h.expired(ctx, b, update)
		return
	}

	from, to, err := formatting.ParsePeriod(update.Message.Text)
	if err != nil {
		h.reject(ctx, b, chatID, sess, err, "parse_period")
		return
	}

	r, err := h.reservationService.Get(ctx, sess, id)
	if err != nil {
		h.stateManager.ClearState(telegramID)
		h.fail(ctx, b, chatID, sess, err, "load_reservation")
		return
	}

	updated, err := h.reservationService.Update(ctx, sess, id, service.Draft{
		From:  from,
		To:    to,
		Notes: r.Notes,
	})
	if err != nil {
		h.reject(ctx, b, chatID, sess, err, "update_dates")
		return
	}
	h.stateManager.ClearState(telegramID)

	h.logger.Info("Reservation dates changed from bot",
		zap.String("reservation_id", id),
		zap.String("period", updated.Period().String()),
		zap.Int64("telegram_id", telegramID))

	h.showReservation(ctx, b, chatID, sess, id, "✅ Даты изменены")
}

// handleEditNotes новый текст заметок, «-» очищает
func (h *Handlers) handleEditNotes(ctx context.Context, b *bot.Bot, update *models.Update) {
	sess, _, ok := h.requireSession(ctx, b, update, model.RoleManager)
	if !ok {
		return
	}
	telegramID := update.Message.From.ID
	chatID := update.Message.Chat.ID

	id, ok := h.dialogString(telegramID, state.KeyReservationID)
	if !ok {
		h.expired(ctx, b, update)
		return
	}

	notes := optionalText(update.Message.Text)
	if tooLong(notes, NotesMaxLength) {
		h.sendError(ctx, b, chatID, fmt.Sprintf("❌ Слишком длинно. Максимум %d символов.\n\nПопробуйте ещё раз:", NotesMaxLength))
		return
	}

	r, err := h.reservationService.Get(ctx, sess, id)
	if err != nil {
		h.stateManager.ClearState(telegramID)
		h.fail(ctx, b, chatID, sess, err, "load_reservation")
		return
	}

	if _, err := h.reservationService.Update(ctx, sess, id, service.Draft{
		From:  r.StartDate.String(),
		To:    r.EndDate.String(),
		Notes: notes,
	}); err != nil {
		h.stateManager.ClearState(telegramID)
		h.fail(ctx, b, chatID, sess, err, "update_notes")
		return
	}
	h.stateManager.ClearState(telegramID)

	h.showReservation(ctx, b, chatID, sess, id, "✅ Заметки сохранены")
}

// handleCompleteReturnTime шаг 1 завершения: время возврата
func (h *Handlers) handleCompleteReturnTime(ctx context.Context, b *bot.Bot, update *models.Update) {
	sess, _, ok := h.requireSession(ctx, b, update, model.RoleManager)
	if !ok {
		return
	}
	telegramID := update.Message.From.ID
	chatID := update.Message.Chat.ID

	returned, err := formatting.ParseReturnTime(update.Message.Text, h.reservationService.Now(), h.reservationService.Location())
	if err != nil {
		h.reject(ctx, b, chatID, sess, err, "parse_return_time")
		return
	}

	h.stateManager.SetData(telegramID, state.KeyReturnTime, returned.Format(time.RFC3339))
	h.stateManager.SetState(telegramID, state.StateCompleteCharges)

	h.sendMessage(ctx, b, chatID, fmt.Sprintf("✅ Возврат: %s\n\n"+
		"Шаг 2 из 4: дополнительные расходы (топливо, штрафы, повреждения).\n"+
		"Отправьте сумму или «0»\n\n"+
		"Для отмены используйте /cancel",
		formatting.FormatDateTime(returned, h.reservationService.Location())))
}

// handleCompleteCharges шаг 2: доплата не может быть отрицательной
func (h *Handlers) handleCompleteCharges(ctx context.Context, b *bot.Bot, update *models.Update) {
	sess, _, ok := h.requireSession(ctx, b, update, model.RoleManager)
	if !ok {
		return
	}
	telegramID := update.Message.From.ID
	chatID := update.Message.Chat.ID

	r, ok := h.completingReservation(ctx, b, update, sess)
	if !ok {
		return
	}

	var charges model.Money
	if text := strings.TrimSpace(update.Message.Text); !isSkip(text) {
		var err error
		charges, err = parseAmount(text)
		if err != nil {
			h.reject(ctx, b, chatID, sess, err, "parse_charges")
			return
		}
		if charges < 0 {
			h.reject(ctx, b, chatID, sess, reservation.ErrNegativeCharges, "check_charges")
			return
		}
	}

	h.stateManager.SetData(telegramID, state.KeyCharges, charges.String())
	h.stateManager.SetState(telegramID, state.StateCompletePaid)

	h.sendMessage(ctx, b, chatID, fmt.Sprintf("💰 Итого к оплате: <b>%s</b>\nОплачено сейчас: %s\n\n"+
		"Шаг 3 из 4: сколько всего оплачено?\n"+
		"Отправьте сумму или «-», чтобы оставить как есть\n\n"+
		"Для отмены используйте /cancel",
		formatting.FormatMoney(r.EstimatedTotalCost+charges),
		formatting.FormatMoney(r.PaymentDetails.AmountPaid)))
}

// handleCompletePaid шаг 3: оплата не больше итоговой суммы
func (h *Handlers) handleCompletePaid(ctx context.Context, b *bot.Bot, update *models.Update) {
	sess, _, ok := h.requireSession(ctx, b, update, model.RoleManager)
	if !ok {
		return
	}
	telegramID := update.Message.From.ID
	chatID := update.Message.Chat.ID

	r, ok := h.completingReservation(ctx, b, update, sess)
	if !ok {
		return
	}
	charges, ok := h.dialogAmount(telegramID, state.KeyCharges)
	if !ok {
		h.expired(ctx, b, update)
		return
	}

	text := strings.TrimSpace(update.Message.Text)
	paid := r.PaymentDetails.AmountPaid
	raw := ""
	if text != skipInput {
		var err error
		paid, err = parseAmount(text)
		if err != nil {
			h.reject(ctx, b, chatID, sess, err, "parse_paid")
			return
		}
		raw = paid.String()
	}

	settlement, err := reservation.Settle(reservation.SettlementInput{
		Estimated:         r.EstimatedTotalCost,
		AdditionalCharges: charges,
		AmountPaid:        paid,
	})
	if err != nil {
		h.reject(ctx, b, chatID, sess, err, "settle")
		return
	}

	h.stateManager.SetData(telegramID, state.KeyAmountPaid, raw)
	h.stateManager.SetState(telegramID, state.StateCompleteNotes)

	h.sendMessage(ctx, b, chatID, fmt.Sprintf("💰 Итого: %s, остаток: %s\n\n"+
		"Шаг 4 из 4: заметки о возврате (состояние машины, пробег) или «-»\n\n"+
		"Для отмены используйте /cancel",
		formatting.FormatMoney(settlement.FinalTotal),
		formatting.FormatMoney(settlement.RemainingBalance)))
}

// handleCompleteNotes последний шаг: отправляет смену статуса на completed
func (h *Handlers) handleCompleteNotes(ctx context.Context, b *bot.Bot, update *models.Update) {
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

	change, id, err := h.completionChange(telegramID, notes)
	if err != nil {
		h.expired(ctx, b, update)
		return
	}

	updated, err := h.reservationService.ChangeStatus(ctx, sess, id, change)
	h.stateManager.ClearState(telegramID)
	if err != nil {
		h.fail(ctx, b, chatID, sess, err, "complete_reservation")
		return
	}

	h.logger.Info("Reservation completed from bot",
		zap.String("reservation_id", id),
		zap.String("reservation_number", updated.ReservationNumber),
		zap.Int64("telegram_id", telegramID))

	h.showReservation(ctx, b, chatID, sess, id,
		fmt.Sprintf("🏁 Аренда %s завершена", html.EscapeString(updated.ReservationNumber)))
}

// completionChange собирает смену статуса из данных диалога
func (h *Handlers) completionChange(telegramID int64, notes string) (reservation.StatusChange, string, error) {
	id, okID := h.dialogString(telegramID, state.KeyReservationID)
	rawTime, okTime := h.dialogString(telegramID, state.KeyReturnTime)
	charges, okCharges := h.dialogAmount(telegramID, state.KeyCharges)
	if !okID || !okTime || !okCharges {
		return reservation.StatusChange{}, "", fmt.Errorf("completion dialog is incomplete")
	}

	returned, err := time.Parse(time.RFC3339, rawTime)
	if err != nil {
		return reservation.StatusChange{}, "", fmt.Errorf("parse return time: %w", err)
	}

	change := reservation.StatusChange{
		Status:            model.ReservationStatusCompleted,
		ActualReturnTime:  &returned,
		AdditionalCharges: charges,
		CompletionNotes:   notes,
	}
	if raw, ok := h.dialogString(telegramID, state.KeyAmountPaid); ok && raw != "" {
		paid, err := model.ParseMoney(raw)
		if err != nil {
			return reservation.StatusChange{}, "", err
		}
		change.AmountPaid = &paid
	}

	return change, id, nil
}

// completingReservation бронирование, которое сейчас завершают
func (h *Handlers) completingReservation(ctx context.Context, b *bot.Bot, update *models.Update, sess *session.Session) (*model.Reservation, bool) {
	id, ok := h.dialogString(update.Message.From.ID, state.KeyReservationID)
	if !ok {
		h.expired(ctx, b, update)
		return nil, false
	}

	r, err := h.reservationService.Get(ctx, sess, id)
	if err != nil {
		h.stateManager.ClearState(update.Message.From.ID)
		h.fail(ctx, b, update.Message.Chat.ID, sess, err, "load_reservation")
		return nil, false
	}
	return r, true
}

// dialogAmount сумма, сохранённая на предыдущем шаге
func (h *Handlers) dialogAmount(telegramID int64, key string) (model.Money, bool) {
	raw, ok := h.dialogString(telegramID, key)
	if !ok {
		return 0, false
	}
	m, err := model.ParseMoney(raw)
	if err != nil {
		return 0, false
	}
	return m, true
}
