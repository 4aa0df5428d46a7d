package handlers

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/Freeeeeet/rental_desk/internal/api"
	"github.com/Freeeeeet/rental_desk/internal/controller/callbacks/common"
	"github.com/Freeeeeet/rental_desk/internal/controller/state"
	"github.com/Freeeeeet/rental_desk/internal/model"
	"github.com/Freeeeeet/rental_desk/internal/session"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// HandleStart обрабатывает команду /start
func (h *Handlers) HandleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}

	chatID := update.Message.Chat.ID
	sess, err := h.authService.Session(ctx, update.Message.From.ID, chatID)
	if err != nil {
		h.fail(ctx, b, chatID, nil, err, "load_session")
		return
	}

	if user, ok := sess.User(); ok {
		h.sendScreen(ctx, b, chatID, common.BuildMainMenuScreen(user))
		return
	}

	welcomeText := fmt.Sprintf(
		"👋 Привет, %s!\n\n"+
			"Это пульт оператора проката: бронирования, занятость машин и клиенты.\n\n"+
			"Чтобы начать, войдите под учётной записью сотрудника: /login\n"+
			"Справка: /help",
		html.EscapeString(update.Message.From.FirstName),
	)
	h.sendMessage(ctx, b, chatID, welcomeText)
}

// HandleHelp обрабатывает команду /help
func (h *Handlers) HandleHelp(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	helpText := "📚 <b>Справка по командам</b>\n\n" +
		"/login - Войти\n" +
		"/logout - Выйти\n" +
		"/menu - Главное меню\n" +
		"/dashboard - Панель со статистикой\n" +
		"/reservations - Ближайшие бронирования\n" +
		"/book - Новое бронирование\n" +
		"/cars - Парк: карточки машин и календарь занятости\n" +
		"/clients - Клиенты: поиск и карточки\n" +
		"/export - Выгрузка бронирований в Excel\n" +
		"/cancel - Отменить текущий диалог\n\n" +
		"Для администраторов:\n" +
		"/managers - Менеджеры\n" +
		"/audit - Журнал действий\n\n" +
		"Даты вводятся как «2030-05-01 2030-05-05» или «01.05.2030 - 05.05.2030». " +
		"Аренда включает оба дня, поэтому аренда до 5-го и аренда с 5-го пересекаются."

	h.sendMessage(ctx, b, update.Message.Chat.ID, helpText)
}

// HandleCancel обрабатывает команду /cancel - отмена текущего диалога
func (h *Handlers) HandleCancel(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}

	telegramID := update.Message.From.ID
	currentState := h.stateManager.GetState(telegramID)

	if currentState == state.StateNone {
		h.sendMessage(ctx, b, update.Message.Chat.ID, "❌ Нет активных операций для отмены.")
		return
	}

	h.stateManager.ClearState(telegramID)
	h.logger.Info("Dialog cancelled",
		zap.Int64("telegram_id", telegramID),
		zap.String("state", string(currentState)))

	h.sendMessage(ctx, b, update.Message.Chat.ID, "✅ Операция отменена.\n\nГлавное меню: /menu")
}

// HandleMenu главное меню
func (h *Handlers) HandleMenu(ctx context.Context, b *bot.Bot, update *models.Update) {
	_, user, ok := h.requireSession(ctx, b, update, model.RoleManager)
	if !ok {
		return
	}
	h.stateManager.ClearState(update.Message.From.ID)
	h.sendScreen(ctx, b, update.Message.Chat.ID, common.BuildMainMenuScreen(user))
}

// HandleDashboard команда /dashboard
func (h *Handlers) HandleDashboard(ctx context.Context, b *bot.Bot, update *models.Update) {
	sess, _, ok := h.requireSession(ctx, b, update, model.RoleManager)
	if !ok {
		return
	}
	h.ShowDashboard(ctx, b, update.Message.Chat.ID, sess)
}

// ShowDashboard отправляет панель по роли оператора.
// Вызывается и из команды, и из кнопки в меню.
func (h *Handlers) ShowDashboard(ctx context.Context, b *bot.Bot, chatID int64, sess *session.Session) {
	user, ok := sess.User()
	if !ok {
		h.fail(ctx, b, chatID, sess, session.ErrNotLoggedIn, "show_dashboard")
		return
	}

	if user.Role == model.RoleAdmin {
		d, err := h.dashboardService.Admin(ctx, sess)
		if err != nil {
			h.fail(ctx, b, chatID, sess, err, "admin_dashboard")
			return
		}
		h.sendScreen(ctx, b, chatID, common.BuildAdminDashboardScreen(user, d, h.reservationService.Location()))
		return
	}

	d, err := h.dashboardService.Manager(ctx, sess)
	if err != nil {
		h.fail(ctx, b, chatID, sess, err, "manager_dashboard")
		return
	}
	h.sendScreen(ctx, b, chatID, common.BuildManagerDashboardScreen(user, d))
}

// HandleReservations ближайшие бронирования, список перечитывается с бэкенда
func (h *Handlers) HandleReservations(ctx context.Context, b *bot.Bot, update *models.Update) {
	sess, _, ok := h.requireSession(ctx, b, update, model.RoleManager)
	if !ok {
		return
	}
	chatID := update.Message.Chat.ID

	if _, err := h.reservationService.Refresh(ctx, sess); err != nil {
		h.fail(ctx, b, chatID, sess, err, "refresh_reservations")
		return
	}

	list, err := h.reservationService.Upcoming(ctx, sess)
	if err != nil {
		h.fail(ctx, b, chatID, sess, err, "list_reservations")
		return
	}

	h.sendScreen(ctx, b, chatID, common.BuildReservationsScreen(list, 0))
}

// HandleBook начинает бронирование с выбора свободной машины
func (h *Handlers) HandleBook(ctx context.Context, b *bot.Bot, update *models.Update) {
	sess, _, ok := h.requireSession(ctx, b, update, model.RoleManager)
	if !ok {
		return
	}
	chatID := update.Message.Chat.ID
	h.stateManager.ClearState(update.Message.From.ID)

	cars, err := h.reservationService.AvailableCars(ctx, sess, "")
	if err != nil {
		h.fail(ctx, b, chatID, sess, err, "available_cars")
		return
	}

	h.sendScreen(ctx, b, chatID, common.BuildBookCarScreen(cars))
}

// HandleCars список машин с кнопками карточек
func (h *Handlers) HandleCars(ctx context.Context, b *bot.Bot, update *models.Update) {
	sess, user, ok := h.requireSession(ctx, b, update, model.RoleManager)
	if !ok {
		return
	}
	chatID := update.Message.Chat.ID

	cars, err := h.fleetService.ListCars(ctx, sess)
	if err != nil {
		h.fail(ctx, b, chatID, sess, err, "list_cars")
		return
	}

	h.sendScreen(ctx, b, chatID, common.BuildCarsScreen(cars, 0, user.Role == model.RoleAdmin))
}

// HandleClients список клиентов
func (h *Handlers) HandleClients(ctx context.Context, b *bot.Bot, update *models.Update) {
	sess, _, ok := h.requireSession(ctx, b, update, model.RoleManager)
	if !ok {
		return
	}
	chatID := update.Message.Chat.ID

	clients, err := h.fleetService.ListClients(ctx, sess)
	if err != nil {
		h.fail(ctx, b, chatID, sess, err, "list_clients")
		return
	}

	h.sendScreen(ctx, b, chatID, common.BuildClientsScreen(clients, 0, ""))
}

// HandleManagers список менеджеров (только администратор)
func (h *Handlers) HandleManagers(ctx context.Context, b *bot.Bot, update *models.Update) {
	sess, _, ok := h.requireSession(ctx, b, update, model.RoleAdmin)
	if !ok {
		return
	}
	chatID := update.Message.Chat.ID

	managers, err := h.adminService.ListManagers(ctx, sess)
	if err != nil {
		h.fail(ctx, b, chatID, sess, err, "list_managers")
		return
	}

	h.sendScreen(ctx, b, chatID, common.BuildManagersScreen(managers))
}

// HandleAudit первая страница журнала действий (только администратор)
func (h *Handlers) HandleAudit(ctx context.Context, b *bot.Bot, update *models.Update) {
	sess, _, ok := h.requireSession(ctx, b, update, model.RoleAdmin)
	if !ok {
		return
	}
	chatID := update.Message.Chat.ID

	page, err := h.adminService.AuditLogs(ctx, sess, 1, api.AuditFilter{})
	if err != nil {
		h.fail(ctx, b, chatID, sess, err, "audit_logs")
		return
	}

	h.sendScreen(ctx, b, chatID, common.BuildAuditScreen(page, 0, h.reservationService.Location()))
}

// HandleTextMessage обрабатывает текстовые сообщения в зависимости от состояния пользователя
func (h *Handlers) HandleTextMessage(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil || update.Message.Text == "" {
		return
	}

	// Игнорируем команды (они обрабатываются другими handlers)
	if strings.HasPrefix(update.Message.Text, "/") {
		return
	}

	telegramID := update.Message.From.ID
	currentState := h.stateManager.GetState(telegramID)

	// Текст пароля в лог не попадает
	h.logger.Debug("HandleTextMessage called",
		zap.Int64("telegram_id", telegramID),
		zap.String("state", string(currentState)))

	if currentState == state.StateNone {
		h.logger.Debug("No active state, ignoring message",
			zap.Int64("telegram_id", telegramID))
		return
	}

	switch currentState {
	case state.StateLoginUsername:
		h.handleLoginUsername(ctx, b, update)
	case state.StateLoginPassword:
		h.handleLoginPassword(ctx, b, update)

	case state.StateBookClientSearch:
		h.handleBookClientSearch(ctx, b, update)
	case state.StateBookDates:
		h.handleBookDates(ctx, b, update)
	case state.StateBookPayment:
		h.handleBookPayment(ctx, b, update)
	case state.StateBookNotes:
		h.handleBookNotes(ctx, b, update)
	case state.StateBookConfirm:
		h.sendMessage(ctx, b, update.Message.Chat.ID, "👆 Подтвердите или отмените бронирование кнопкой выше.")

	case state.StateEditDates:
		h.handleEditDates(ctx, b, update)
	case state.StateEditNotes:
		h.handleEditNotes(ctx, b, update)

	case state.StateCompleteReturnTime:
		h.handleCompleteReturnTime(ctx, b, update)
	case state.StateCompleteCharges:
		h.handleCompleteCharges(ctx, b, update)
	case state.StateCompletePaid:
		h.handleCompletePaid(ctx, b, update)
	case state.StateCompleteNotes:
		h.handleCompleteNotes(ctx, b, update)

	case state.StateClientSearch:
		h.handleClientSearch(ctx, b, update)
	case state.StateClientForm:
		h.handleClientForm(ctx, b, update)
	case state.StateCarForm:
		h.handleCarForm(ctx, b, update)

	case state.StateManagerUsername:
		h.handleManagerUsername(ctx, b, update)
	case state.StateManagerFullName:
		h.handleManagerFullName(ctx, b, update)
	case state.StateManagerPassword:
		h.handleManagerPassword(ctx, b, update)
	case state.StateManagerNewPass:
		h.handleManagerNewPassword(ctx, b, update)

	default:
		h.logger.Warn("Unknown state", zap.String("state", string(currentState)))
		h.stateManager.ClearState(telegramID)
	}
}
