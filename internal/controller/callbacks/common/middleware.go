package common

import (
	"context"

	"github.com/Freeeeeet/rental_desk/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/rental_desk/internal/model"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// WithRole создаёт HandlerContext и проверяет вход и роль оператора.
// При ошибке сам отвечает оператору, handler не вызывается.
func WithRole(
	ctx context.Context,
	b *bot.Bot,
	callback *models.CallbackQuery,
	h *callbacktypes.Handler,
	role model.Role,
	handler func(*HandlerContext),
) {
	hc := NewHandlerContext(ctx, b, callback, h)

	if err := hc.Require(role); err != nil {
		h.Logger.Info("Role check failed",
			zap.Int64("telegram_id", hc.TelegramID),
			zap.String("role", string(role)),
			zap.Error(err))
		hc.AnswerAlert(ErrorMessage(err))
		return
	}

	handler(hc)
}

// WithManager действия с бронированиями, парком и клиентами (администратор тоже проходит)
func WithManager(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler, handler func(*HandlerContext)) {
	WithRole(ctx, b, callback, h, model.RoleManager, handler)
}

// WithAdmin действия администратора
func WithAdmin(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler, handler func(*HandlerContext)) {
	WithRole(ctx, b, callback, h, model.RoleAdmin, handler)
}
