package handlers

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"

	"github.com/Freeeeeet/rental_desk/internal/api"
	"github.com/Freeeeeet/rental_desk/internal/controller/callbacks/common"
	"github.com/Freeeeeet/rental_desk/internal/controller/state"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// HandleLogin начинает вход: логин, затем пароль
func (h *Handlers) HandleLogin(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}

	telegramID := update.Message.From.ID
	chatID := update.Message.Chat.ID

	sess, err := h.authService.Session(ctx, telegramID, chatID)
	if err != nil {
		h.fail(ctx, b, chatID, nil, err, "load_session")
		return
	}
	if user, ok := sess.User(); ok {
		h.sendMessage(ctx, b, chatID, fmt.Sprintf("✅ Вы уже вошли как <b>%s</b>.\n\nДругая учётная запись: сначала /logout",
			html.EscapeString(user.Username)))
		return
	}

	h.stateManager.Start(telegramID, state.StateLoginUsername, nil)

	h.sendMessage(ctx, b, chatID, "🔐 <b>Вход</b>\n\n"+
		"Шаг 1 из 2: логин сотрудника\n\n"+
		"Для отмены используйте /cancel")
}

// handleLoginUsername сохраняет логин и просит пароль
func (h *Handlers) handleLoginUsername(ctx context.Context, b *bot.Bot, update *models.Update) {
	telegramID := update.Message.From.ID
	username := strings.TrimSpace(update.Message.Text)

	if username == "" {
		h.sendError(ctx, b, update.Message.Chat.ID, "❌ Логин не может быть пустым.\n\nПопробуйте ещё раз:")
		return
	}

	h.stateManager.SetData(telegramID, state.KeyUsername, username)
	h.stateManager.SetState(telegramID, state.StateLoginPassword)

	h.sendMessage(ctx, b, update.Message.Chat.ID, fmt.Sprintf("✅ Логин: %s\n\n"+
		"Шаг 2 из 2: пароль\n"+
		"Сообщение с паролем будет сразу удалено.\n\n"+
		"Для отмены используйте /cancel", html.EscapeString(username)))
}

// handleLoginPassword входит на бэкенде; сообщение с паролем удаляется в любом случае
func (h *Handlers) handleLoginPassword(ctx context.Context, b *bot.Bot, update *models.Update) {
	telegramID := update.Message.From.ID
	chatID := update.Message.Chat.ID
	password := update.Message.Text

	h.deleteMessage(ctx, b, update.Message)

	username, ok := h.dialogString(telegramID, state.KeyUsername)
	h.stateManager.ClearState(telegramID)
	if !ok {
		h.sendError(ctx, b, chatID, common.ErrorMessage(common.ErrDialogExpired))
		return
	}

	user, err := h.authService.Login(ctx, telegramID, chatID, username, password)
	if err != nil {
		if errors.Is(err, api.ErrUnauthorized) {
			h.sendError(ctx, b, chatID, "❌ Неверный логин или пароль.\n\nПопробуйте снова: /login")
			return
		}
		h.fail(ctx, b, chatID, nil, err, "login")
		return
	}

	h.logger.Info("Operator logged in",
		zap.Int64("telegram_id", telegramID),
		zap.String("username", user.Username),
		zap.String("role", string(user.Role)))

	h.sendScreen(ctx, b, chatID, common.BuildMainMenuScreen(user))
}

// HandleLogout выходит на бэкенде и забывает сохранённую сессию
func (h *Handlers) HandleLogout(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}

	telegramID := update.Message.From.ID
	chatID := update.Message.Chat.ID
	h.stateManager.ClearState(telegramID)

	if err := h.authService.Logout(ctx, telegramID); err != nil {
		// Локально сессия уже сброшена, бэкенд мог быть недоступен
		h.logger.Warn("Logout finished with error", zap.Int64("telegram_id", telegramID), zap.Error(err))
	}

	h.sendMessage(ctx, b, chatID, "👋 Вы вышли из системы.\n\nВойти снова: /login")
}
