package controller

import (
	"context"

	"github.com/Freeeeeet/rental_desk/internal/controller/callbacks"
	"github.com/Freeeeeet/rental_desk/internal/controller/callbacks/common/formatting"
	"github.com/Freeeeeet/rental_desk/internal/controller/handlers"
	"github.com/Freeeeeet/rental_desk/internal/controller/state"
	"github.com/Freeeeeet/rental_desk/internal/daterange"
	"github.com/Freeeeeet/rental_desk/internal/model"
	"github.com/Freeeeeet/rental_desk/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// Services сервисы, которыми пользуется бот
type Services struct {
	Auth         *service.AuthService
	Reservations *service.ReservationService
	Fleet        *service.FleetService
	Admin        *service.AdminService
	Dashboard    *service.DashboardService
}

type BotController struct {
	bot             *bot.Bot
	handlers        *handlers.Handlers
	callbackHandler *callbacks.Handler
	logger          *zap.Logger
}

func NewBotController(
	botInstance *bot.Bot,
	services Services,
	logger *zap.Logger,
) *BotController {
	// Создаём менеджер состояний
	stateManager := state.NewManager()

	// Создаём обработчики команд
	cmdHandlers := handlers.NewHandlers(
		services.Auth,
		services.Reservations,
		services.Fleet,
		services.Admin,
		services.Dashboard,
		stateManager,
		logger,
	)

	// Создаём адаптер для callback handlers
	stateAdapter := state.NewAdapter(stateManager)

	// Создаём callback handler с зависимостями
	callbackHandler := callbacks.NewHandler(
		services.Auth,
		services.Reservations,
		services.Fleet,
		services.Admin,
		services.Dashboard,
		stateAdapter,
		logger,
		cmdHandlers.ShowDashboard,
	)

	return &BotController{
		bot:             botInstance,
		handlers:        cmdHandlers,
		callbackHandler: callbackHandler,
		logger:          logger,
	}
}

// RegisterHandlers регистрирует все обработчики команд
func (c *BotController) RegisterHandlers(ctx context.Context) error {
	// Вход и общие команды
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/start", bot.MatchTypeExact, c.handlers.HandleStart)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/help", bot.MatchTypeExact, c.handlers.HandleHelp)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/cancel", bot.MatchTypeExact, c.handlers.HandleCancel)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/login", bot.MatchTypeExact, c.handlers.HandleLogin)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/logout", bot.MatchTypeExact, c.handlers.HandleLogout)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/menu", bot.MatchTypeExact, c.handlers.HandleMenu)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/dashboard", bot.MatchTypeExact, c.handlers.HandleDashboard)

	// Работа менеджера
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/reservations", bot.MatchTypeExact, c.handlers.HandleReservations)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/book", bot.MatchTypeExact, c.handlers.HandleBook)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/cars", bot.MatchTypeExact, c.handlers.HandleCars)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/clients", bot.MatchTypeExact, c.handlers.HandleClients)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/export", bot.MatchTypeExact, c.handlers.HandleExport)

	// Администратор
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/managers", bot.MatchTypeExact, c.handlers.HandleManagers)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/audit", bot.MatchTypeExact, c.handlers.HandleAudit)

	// Обработчик текстовых сообщений (для диалогов с состояниями)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "", bot.MatchTypePrefix, c.handlers.HandleTextMessage)

	// Обработчик нажатий на inline кнопки
	c.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "", bot.MatchTypePrefix, c.callbackHandler.HandleCallbackQuery)

	// Устанавливаем меню команд
	return c.setCommands(ctx)
}

// setCommands устанавливает список команд в меню бота
func (c *BotController) setCommands(ctx context.Context) error {
	commands := []models.BotCommand{
		{Command: "menu", Description: "🏠 Главное меню"},
		{Command: "reservations", Description: "📋 Ближайшие бронирования"},
		{Command: "book", Description: "➕ Новое бронирование"},
		{Command: "cars", Description: "🚗 Парк и занятость"},
		{Command: "clients", Description: "👥 Клиенты"},
		{Command: "dashboard", Description: "📊 Панель"},
		{Command: "export", Description: "📦 Выгрузка в Excel"},
		{Command: "managers", Description: "👔 Менеджеры (администратор)"},
		{Command: "audit", Description: "📜 Журнал действий (администратор)"},
		{Command: "login", Description: "🔐 Войти"},
		{Command: "logout", Description: "👋 Выйти"},
		{Command: "help", Description: "❓ Справка по командам"},
	}

	_, err := c.bot.SetMyCommands(ctx, &bot.SetMyCommandsParams{
		Commands: commands,
	})

	if err != nil {
		c.logger.Error("Failed to set bot commands", zap.Error(err))
		return err
	}

	c.logger.Info("✅ Bot commands menu set")
	return nil
}

// SendDigest утренняя сводка оператору
func (c *BotController) SendDigest(ctx context.Context, chatID int64, day daterange.Date, pickups, returns []model.Reservation) error {
	_, err := c.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    chatID,
		Text:      formatting.Digest(day, pickups, returns),
		ParseMode: models.ParseModeHTML,
	})
	return err
}

// Start запускает бота
func (c *BotController) Start(ctx context.Context) error {
	c.logger.Info("Starting bot...")
	c.bot.Start(ctx)
	return nil
}

// AllowlistMiddleware пропускает только операторов из списка (пустой список - всех)
func AllowlistMiddleware(isAllowed func(telegramID int64) bool, logger *zap.Logger) bot.Middleware {
	return func(next bot.HandlerFunc) bot.HandlerFunc {
		return func(ctx context.Context, b *bot.Bot, update *models.Update) {
			var from *models.User
			switch {
			case update.Message != nil:
				from = update.Message.From
			case update.CallbackQuery != nil:
				from = &update.CallbackQuery.From
			}

			if from != nil && !isAllowed(from.ID) {
				logger.Warn("Update from unknown user dropped", zap.Int64("telegram_id", from.ID))
				return
			}
			next(ctx, b, update)
		}
	}
}
