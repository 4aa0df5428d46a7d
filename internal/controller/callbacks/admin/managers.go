package admin

import (
	"context"
	"fmt"
	"html"

	"github.com/Freeeeeet/rental_desk/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/rental_desk/internal/controller/callbacks/common"
	"github.com/Freeeeeet/rental_desk/internal/controller/callbacks/common/keyboard"
	"github.com/Freeeeeet/rental_desk/internal/controller/state"
	"github.com/Freeeeeet/rental_desk/internal/model"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// HandleManagersList список менеджеров
func HandleManagersList(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithAdmin(ctx, b, callback, h, func(hc *common.HandlerContext) {
		hc.ClearState()

		managers, err := h.AdminService.ListManagers(ctx, hc.Session)
		if err != nil {
			hc.Fail(err, "list_managers")
			return
		}

		if err := hc.Show(common.BuildManagersScreen(managers)); err != nil {
			hc.Fail(err, "show_managers")
			return
		}
		hc.Answer("")
	})
}

// HandleManagerAdd начинает диалог создания менеджера
func HandleManagerAdd(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithAdmin(ctx, b, callback, h, func(hc *common.HandlerContext) {
		hc.StartDialog(callbacktypes.UserState(state.StateManagerUsername), nil)

		kb := keyboard.NewBuilder().Row(keyboard.CancelButton(common.ManagersList)).Build()
		text := "👔 <b>Новый менеджер</b>\n\nШаг 1 из 3: логин (от 3 до 50 символов)\n\nДля отмены используйте /cancel"
		if err := hc.EditMessage(text, kb); err != nil {
			hc.Fail(err, "start_manager_add")
			return
		}
		hc.Answer("")
	})
}

// HandleManagerPassword начинает смену пароля менеджера
func HandleManagerPassword(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithAdmin(ctx, b, callback, h, func(hc *common.HandlerContext) {
		manager, ok := findManager(hc, common.ManagerResetPass)
		if !ok {
			return
		}

		hc.StartDialog(callbacktypes.UserState(state.StateManagerNewPass), map[string]interface{}{
			state.KeyManagerID: manager.ID,
		})

		kb := keyboard.NewBuilder().Row(keyboard.CancelButton(common.ManagersList)).Build()
		text := fmt.Sprintf("🔑 Новый пароль для <b>%s</b> (не короче 8 символов).\nСообщение с паролем будет удалено.\n\nДля отмены используйте /cancel",
			html.EscapeString(manager.Username))
		if err := hc.EditMessage(text, kb); err != nil {
			hc.Fail(err, "start_manager_password")
			return
		}
		hc.Answer("")
	})
}

// HandleManagerDelete спрашивает подтверждение удаления
func HandleManagerDelete(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithAdmin(ctx, b, callback, h, func(hc *common.HandlerContext) {
		manager, ok := findManager(hc, common.ManagerDelete)
		if !ok {
			return
		}

		if err := hc.Show(common.BuildDeleteManagerScreen(*manager)); err != nil {
			hc.Fail(err, "show_manager_delete")
			return
		}
		hc.Answer("")
	})
}

// HandleManagerDeleteConfirm удаляет менеджера
func HandleManagerDeleteConfirm(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithAdmin(ctx, b, callback, h, func(hc *common.HandlerContext) {
		id, err := common.ParseID(callback.Data, common.ManagerDeleteOK)
		if err != nil {
			hc.Fail(err, "parse_manager_id")
			return
		}

		if err := h.AdminService.DeleteManager(ctx, hc.Session, id); err != nil {
			hc.Fail(err, "delete_manager")
			return
		}

		managers, err := h.AdminService.ListManagers(ctx, hc.Session)
		if err != nil {
			hc.Fail(err, "list_managers")
			return
		}
		if err := hc.Show(common.BuildManagersScreen(managers)); err != nil {
			hc.Fail(err, "show_managers")
			return
		}
		hc.Answer("🗑 Менеджер удалён")
	})
}

// findManager ищет менеджера из callback data в списке бэкенда
func findManager(hc *common.HandlerContext, prefix string) (*model.Manager, bool) {
	id, err := common.ParseID(hc.Callback.Data, prefix)
	if err != nil {
		hc.Fail(err, "parse_manager_id")
		return nil, false
	}

	managers, err := hc.Handler.AdminService.ListManagers(hc.Ctx, hc.Session)
	if err != nil {
		hc.Fail(err, "list_managers")
		return nil, false
	}

	for i := range managers {
		if managers[i].ID == id {
			return &managers[i], true
		}
	}

	hc.AnswerAlert("❌ Менеджер не найден")
	return nil, false
}
