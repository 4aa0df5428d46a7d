package handlers

import (
	"context"
	"errors"
	"fmt"
	"html"

	"github.com/Freeeeeet/rental_desk/internal/api"
	"github.com/Freeeeeet/rental_desk/internal/controller/callbacks/common"
	"github.com/Freeeeeet/rental_desk/internal/controller/callbacks/common/keyboard"
	"github.com/Freeeeeet/rental_desk/internal/controller/state"
	"github.com/Freeeeeet/rental_desk/internal/model"
	"github.com/Freeeeeet/rental_desk/internal/session"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// handleCarForm карточка машины одним сообщением: создание или правка
func (h *Handlers) handleCarForm(ctx context.Context, b *bot.Bot, update *models.Update) {
	sess, _, ok := h.requireSession(ctx, b, update, model.RoleAdmin)
	if !ok {
		return
	}
	telegramID := update.Message.From.ID
	chatID := update.Message.Chat.ID

	status, ok := h.dialogString(telegramID, state.KeyStatus)
	if !ok {
		h.expired(ctx, b, update)
		return
	}

	input, err := common.ParseCarForm(update.Message.Text, model.CarStatus(status))
	if err != nil {
		h.reject(ctx, b, chatID, sess, err, "parse_car_form")
		return
	}

	var car *model.Car
	notice := "✅ Машина добавлена"
	if id, editing := h.dialogString(telegramID, state.KeyCarID); editing {
		car, err = h.fleetService.UpdateCar(ctx, sess, id, input)
		notice = "✅ Карточка сохранена"
	} else {
		car, err = h.fleetService.CreateCar(ctx, sess, input)
	}
	if err != nil {
		h.rejectForm(ctx, b, chatID, sess, err, "save_car")
		return
	}
	h.stateManager.ClearState(telegramID)

	h.logger.Info("Car saved from bot",
		zap.String("car_id", car.ID),
		zap.Int64("telegram_id", telegramID))

	today := h.reservationService.Today()
	screen := common.BuildCarScreen(*car, keyboard.MonthKey(today.Year(), today.Month()), true, h.reservationService.Location())
	screen.Text = notice + "\n\n" + screen.Text
	h.sendScreen(ctx, b, chatID, screen)
}

// handleClientForm карточка клиента одним сообщением: создание или правка
func (h *Handlers) handleClientForm(ctx context.Context, b *bot.Bot, update *models.Update) {
	sess, user, ok := h.requireSession(ctx, b, update, model.RoleManager)
	if !ok {
		return
	}
	telegramID := update.Message.From.ID
	chatID := update.Message.Chat.ID

	input, err := common.ParseClientForm(update.Message.Text)
	if err != nil {
		h.reject(ctx, b, chatID, sess, err, "parse_client_form")
		return
	}

	var client *model.Client
	notice := fmt.Sprintf("✅ Клиент <b>%s</b> добавлен", html.EscapeString(input.FirstName+" "+input.LastName))
	if id, editing := h.dialogString(telegramID, state.KeyClientID); editing {
		client, err = h.fleetService.UpdateClient(ctx, sess, id, input)
		notice = "✅ Карточка сохранена"
	} else {
		client, err = h.fleetService.CreateClient(ctx, sess, input)
	}
	if err != nil {
		h.rejectForm(ctx, b, chatID, sess, err, "save_client")
		return
	}
	h.stateManager.ClearState(telegramID)

	h.logger.Info("Client saved from bot",
		zap.String("client_id", client.ID),
		zap.Int64("telegram_id", telegramID))

	screen := common.BuildClientScreen(*client, user.Role == model.RoleAdmin, h.reservationService.Location())
	screen.Text = notice + "\n\n" + screen.Text
	h.sendScreen(ctx, b, chatID, screen)
}

// rejectForm отказ бэкенда на 409 (например, занятый email) оставляет форму открытой
func (h *Handlers) rejectForm(ctx context.Context, b *bot.Bot, chatID int64, sess *session.Session, err error, operation string) {
	if errors.Is(err, api.ErrConflict) {
		h.logger.Info("Form rejected by backend", zap.String("operation", operation), zap.Error(err))
		h.sendError(ctx, b, chatID, common.ErrorMessage(err)+"\n\nИсправьте карточку и отправьте снова или /cancel")
		return
	}
	if common.IsInputError(err) {
		h.reject(ctx, b, chatID, sess, err, operation)
		return
	}

	h.stateManager.ClearState(sess.TelegramID())
	h.fail(ctx, b, chatID, sess, err, operation)
}
