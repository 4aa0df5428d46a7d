package admin

import (
	"context"

	"github.com/Freeeeeet/rental_desk/internal/api"
	"github.com/Freeeeeet/rental_desk/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/rental_desk/internal/controller/callbacks/common"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// HandleAuditPage страница журнала действий (в callback номер с нуля, у бэкенда с единицы)
func HandleAuditPage(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithAdmin(ctx, b, callback, h, func(hc *common.HandlerContext) {
		page, err := common.ParseInt(callback.Data, common.AuditPage)
		if err != nil {
			hc.Fail(err, "parse_audit_page")
			return
		}
		if page < 0 {
			page = 0
		}

		result, err := h.AdminService.AuditLogs(ctx, hc.Session, page+1, api.AuditFilter{})
		if err != nil {
			hc.Fail(err, "audit_logs")
			return
		}

		if err := hc.Show(common.BuildAuditScreen(result, page, h.ReservationService.Location())); err != nil {
			hc.Fail(err, "show_audit")
			return
		}
		hc.Answer("")
	})
}
