package handlers

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/Freeeeeet/rental_desk/internal/controller/callbacks/common"
	"github.com/Freeeeeet/rental_desk/internal/controller/state"
	"github.com/Freeeeeet/rental_desk/internal/model"
	"github.com/Freeeeeet/rental_desk/internal/session"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// handleClientSearch поиск по имени, телефону, email и номеру прав
func (h *Handlers) handleClientSearch(ctx context.Context, b *bot.Bot, update *models.Update) {
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
	h.stateManager.ClearState(update.Message.From.ID)

	h.sendScreen(ctx, b, chatID, common.BuildClientsScreen(clients, 0, query))
}

// handleManagerUsername шаг 1 создания менеджера
func (h *Handlers) handleManagerUsername(ctx context.Context, b *bot.Bot, update *models.Update) {
	if _, _, ok := h.requireSession(ctx, b, update, model.RoleAdmin); !ok {
		return
	}
	telegramID := update.Message.From.ID
	chatID := update.Message.Chat.ID
	username := strings.TrimSpace(update.Message.Text)

	if tooShort(username, UsernameMinLength) || tooLong(username, UsernameMaxLength) || strings.ContainsAny(username, " \t") {
		h.sendError(ctx, b, chatID, fmt.Sprintf("❌ Логин от %d до %d символов, без пробелов.\n\nПопробуйте ещё раз:",
			UsernameMinLength, UsernameMaxLength))
		return
	}

	h.stateManager.SetData(telegramID, state.KeyUsername, username)
	h.stateManager.SetState(telegramID, state.StateManagerFullName)

	h.sendMessage(ctx, b, chatID, fmt.Sprintf("✅ Логин: %s\n\n"+
		"Шаг 2 из 3: полное имя\n\n"+
		"Для отмены используйте /cancel", html.EscapeString(username)))
}

// handleManagerFullName шаг 2 создания менеджера
func (h *Handlers) handleManagerFullName(ctx context.Context, b *bot.Bot, update *models.Update) {
	if _, _, ok := h.requireSession(ctx, b, update, model.RoleAdmin); !ok {
		return
	}
	telegramID := update.Message.From.ID
	chatID := update.Message.Chat.ID
	fullName := strings.TrimSpace(update.Message.Text)

	if fullName == "" || tooLong(fullName, FullNameMaxLength) {
		h.sendError(ctx, b, chatID, fmt.Sprintf("❌ Имя не может быть пустым или длиннее %d символов.\n\nПопробуйте ещё раз:", FullNameMaxLength))
		return
	}

	h.stateManager.SetData(telegramID, state.KeyFullName, fullName)
	h.stateManager.SetState(telegramID, state.StateManagerPassword)

	h.sendMessage(ctx, b, chatID, fmt.Sprintf("✅ Имя: %s\n\n"+
		"Шаг 3 из 3: пароль (не короче %d символов)\n"+
		"Сообщение с паролем будет сразу удалено.\n\n"+
		"Для отмены используйте /cancel", html.EscapeString(fullName), PasswordMinLength))
}

// handleManagerPassword шаг 3: создаёт менеджера на бэкенде
func (h *Handlers) handleManagerPassword(ctx context.Context, b *bot.Bot, update *models.Update) {
	sess, _, ok := h.requireSession(ctx, b, update, model.RoleAdmin)
	if !ok {
		return
	}
	telegramID := update.Message.From.ID
	chatID := update.Message.Chat.ID
	password := update.Message.Text

	h.deleteMessage(ctx, b, update.Message)

	if tooShort(password, PasswordMinLength) {
		h.sendError(ctx, b, chatID, fmt.Sprintf("❌ Пароль короче %d символов.\n\nПопробуйте ещё раз:", PasswordMinLength))
		return
	}

	username, okUser := h.dialogString(telegramID, state.KeyUsername)
	fullName, okName := h.dialogString(telegramID, state.KeyFullName)
	if !okUser || !okName {
		h.expired(ctx, b, update)
		return
	}

	m, err := h.adminService.CreateManager(ctx, sess, model.ManagerInput{
		Username: username,
		FullName: fullName,
		Password: password,
	})
	h.stateManager.ClearState(telegramID)
	if err != nil {
		h.fail(ctx, b, chatID, sess, err, "create_manager")
		return
	}

	h.logger.Info("Manager created from bot",
		zap.String("manager_id", m.ID),
		zap.Int64("telegram_id", telegramID))

	h.sendManagers(ctx, b, chatID, sess, fmt.Sprintf("✅ Менеджер <b>%s</b> создан", html.EscapeString(m.Username)))
}

// handleManagerNewPassword смена пароля менеджера администратором
func (h *Handlers) handleManagerNewPassword(ctx context.Context, b *bot.Bot, update *models.Update) {
	sess, _, ok := h.requireSession(ctx, b, update, model.RoleAdmin)
	if !ok {
		return
	}
	telegramID := update.Message.From.ID
	chatID := update.Message.Chat.ID
	password := update.Message.Text

	h.deleteMessage(ctx, b, update.Message)

	if tooShort(password, PasswordMinLength) {
		h.sendError(ctx, b, chatID, fmt.Sprintf("❌ Пароль короче %d символов.\n\nПопробуйте ещё раз:", PasswordMinLength))
		return
	}

	id, ok := h.dialogString(telegramID, state.KeyManagerID)
	if !ok {
		h.expired(ctx, b, update)
		return
	}

	m, err := h.adminService.UpdateManager(ctx, sess, id, model.ManagerPatch{Password: &password})
	h.stateManager.ClearState(telegramID)
	if err != nil {
		h.fail(ctx, b, chatID, sess, err, "update_manager_password")
		return
	}

	h.logger.Info("Manager password changed from bot",
		zap.String("manager_id", id),
		zap.Int64("telegram_id", telegramID))

	h.sendManagers(ctx, b, chatID, sess, fmt.Sprintf("🔑 Пароль <b>%s</b> изменён", html.EscapeString(m.Username)))
}

// sendManagers список менеджеров после изменения
func (h *Handlers) sendManagers(ctx context.Context, b *bot.Bot, chatID int64, sess *session.Session, notice string) {
	managers, err := h.adminService.ListManagers(ctx, sess)
	if err != nil {
		h.fail(ctx, b, chatID, sess, err, "list_managers")
		return
	}

	screen := common.BuildManagersScreen(managers)
	screen.Text = notice + "\n\n" + screen.Text
	h.sendScreen(ctx, b, chatID, screen)
}
