package handlers

import (
	"context"
	"errors"

	"github.com/Freeeeeet/rental_desk/internal/api"
	"github.com/Freeeeeet/rental_desk/internal/controller/callbacks/common"
	"github.com/Freeeeeet/rental_desk/internal/model"
	"github.com/Freeeeeet/rental_desk/internal/session"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// requireSession проверяет что оператор вошёл и его роль позволяет команду.
// Возвращает сессию, пользователя и true если OK.
func (h *Handlers) requireSession(ctx context.Context, b *bot.Bot, update *models.Update, role model.Role) (*session.Session, *model.User, bool) {
	if update.Message == nil || update.Message.From == nil {
		return nil, nil, false
	}

	telegramID := update.Message.From.ID
	chatID := update.Message.Chat.ID

	sess, err := h.authService.Session(ctx, telegramID, chatID)
	if err != nil {
		h.fail(ctx, b, chatID, nil, err, "load_session")
		return nil, nil, false
	}

	user, err := sess.Require(role)
	if err != nil {
		h.fail(ctx, b, chatID, sess, err, "require_role")
		return nil, nil, false
	}

	return sess, user, true
}

// fail логирует ошибку и сообщает её оператору.
// На 401 сессия сбрасывается вместе с незаконченным диалогом.
func (h *Handlers) fail(ctx context.Context, b *bot.Bot, chatID int64, sess *session.Session, err error, operation string) {
	if errors.Is(err, session.ErrNotLoggedIn) || errors.Is(err, session.ErrForbidden) {
		h.logger.Info("Command rejected", zap.String("operation", operation), zap.Error(err))
	} else {
		h.logger.Error("Operation failed",
			zap.String("operation", operation),
			zap.Int64("chat_id", chatID),
			zap.Error(err))
	}

	if sess != nil && errors.Is(err, api.ErrUnauthorized) {
		h.authService.Expire(ctx, sess, err)
		h.stateManager.ClearState(sess.TelegramID())
	}

	h.sendError(ctx, b, chatID, common.ErrorMessage(err))
}

// sendError отправляет сообщение об ошибке и логирует если не удалось
func (h *Handlers) sendError(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	_, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	})
	if err != nil {
		h.logger.Error("Failed to send error message",
			zap.Int64("chat_id", chatID),
			zap.String("text", text),
			zap.Error(err),
		)
	}
}

// sendMessage отправляет HTML сообщение и логирует если не удалось
func (h *Handlers) sendMessage(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	h.sendScreen(ctx, b, chatID, common.Screen{Text: text})
}

// sendScreen отправляет экран с кнопками
func (h *Handlers) sendScreen(ctx context.Context, b *bot.Bot, chatID int64, screen common.Screen) {
	params := &bot.SendMessageParams{
		ChatID:    chatID,
		Text:      screen.Text,
		ParseMode: models.ParseModeHTML,
	}
	if screen.Keyboard != nil {
		params.ReplyMarkup = screen.Keyboard
	}

	if _, err := b.SendMessage(ctx, params); err != nil {
		h.logger.Error("Failed to send message",
			zap.Int64("chat_id", chatID),
			zap.Error(err),
		)
	}
}

// deleteMessage убирает сообщение с паролем из чата
func (h *Handlers) deleteMessage(ctx context.Context, b *bot.Bot, msg *models.Message) {
	_, err := b.DeleteMessage(ctx, &bot.DeleteMessageParams{
		ChatID:    msg.Chat.ID,
		MessageID: msg.ID,
	})
	if err != nil {
		h.logger.Warn("Failed to delete message", zap.Int64("chat_id", msg.Chat.ID), zap.Error(err))
	}
}

// dialogString значение из данных диалога
func (h *Handlers) dialogString(telegramID int64, key string) (string, bool) {
	return h.stateManager.GetString(telegramID, key)
}

// reject отвечает на ошибку ввода: оператор остаётся на том же шаге диалога.
// Остальные ошибки уходят в fail.
func (h *Handlers) reject(ctx context.Context, b *bot.Bot, chatID int64, sess *session.Session, err error, operation string) {
	if !common.IsInputError(err) {
		h.fail(ctx, b, chatID, sess, err, operation)
		return
	}

	h.logger.Info("Input rejected", zap.String("operation", operation), zap.Error(err))
	h.sendError(ctx, b, chatID, common.ErrorMessage(err)+"\n\nПопробуйте ещё раз или /cancel")
}

// expired данные диалога потерялись (перезапуск бота): диалог сбрасывается
func (h *Handlers) expired(ctx context.Context, b *bot.Bot, update *models.Update) {
	h.stateManager.ClearState(update.Message.From.ID)
	h.sendError(ctx, b, update.Message.Chat.ID, common.ErrorMessage(common.ErrDialogExpired))
}

// showReservation присылает карточку бронирования после изменения
func (h *Handlers) showReservation(ctx context.Context, b *bot.Bot, chatID int64, sess *session.Session, id, notice string) {
	screen, err := common.LoadReservationScreen(ctx, h.screenDeps(), sess, id)
	if err != nil {
		h.fail(ctx, b, chatID, sess, err, "load_reservation")
		return
	}
	screen.Text = notice + "\n\n" + screen.Text
	h.sendScreen(ctx, b, chatID, screen)
}
