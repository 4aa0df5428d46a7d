package common

import (
	"context"

	"github.com/Freeeeeet/rental_desk/internal/controller/callbacks/callbacktypes"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// HandleBackToMain сбрасывает диалог и показывает главное меню
func HandleBackToMain(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	WithManager(ctx, b, callback, h, func(hc *HandlerContext) {
		hc.ClearState()

		if err := hc.Show(BuildMainMenuScreen(hc.User)); err != nil {
			hc.Fail(err, "back_to_main")
			return
		}
		hc.Answer("")
	})
}

// HandleDashboard панель по роли: у администратора своя
func HandleDashboard(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	WithManager(ctx, b, callback, h, func(hc *HandlerContext) {
		hc.ClearState()
		hc.Answer("")

		if h.ShowDashboard == nil {
			h.Logger.Warn("Dashboard handler is not configured")
			return
		}
		h.ShowDashboard(ctx, b, hc.ChatID, hc.Session)

		if err := hc.DeleteMessage(); err != nil {
			h.Logger.Debug("Failed to delete previous message", zap.Error(err))
		}
	})
}

// HandleNoop кнопки-индикаторы (номер страницы, месяц)
func HandleNoop(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery) {
	AnswerCallback(ctx, b, callback.ID, "")
}
