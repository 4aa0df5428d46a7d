package fleet

import (
	"context"

	"github.com/Freeeeeet/rental_desk/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/rental_desk/internal/controller/callbacks/common"
	"github.com/Freeeeeet/rental_desk/internal/controller/callbacks/common/keyboard"
	"github.com/Freeeeeet/rental_desk/internal/controller/state"
	"github.com/Freeeeeet/rental_desk/internal/model"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// HandleClientsPage клиенты постранично
func HandleClientsPage(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithManager(ctx, b, callback, h, func(hc *common.HandlerContext) {
		page, err := common.ParseInt(callback.Data, common.ClientsPage)
		if err != nil {
			hc.Fail(err, "parse_clients_page")
			return
		}

		hc.ClearState()

		clients, err := h.FleetService.ListClients(ctx, hc.Session)
		if err != nil {
			hc.Fail(err, "list_clients")
			return
		}

		if err := hc.Show(common.BuildClientsScreen(clients, page, "")); err != nil {
			hc.Fail(err, "show_clients")
			return
		}
		hc.Answer("")
	})
}

// HandleClientSearch ждёт поисковый запрос текстом
func HandleClientSearch(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithManager(ctx, b, callback, h, func(hc *common.HandlerContext) {
		hc.StartDialog(callbacktypes.UserState(state.StateClientSearch), nil)

		kb := keyboard.NewBuilder().Row(keyboard.CancelButton(common.ClientsPage + "0")).Build()
		if err := hc.EditMessage("🔎 Отправьте имя, телефон, email или номер прав клиента", kb); err != nil {
			hc.Fail(err, "start_client_search")
			return
		}
		hc.Answer("")
	})
}

// HandleClientView карточка клиента
func HandleClientView(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithManager(ctx, b, callback, h, func(hc *common.HandlerContext) {
		client, ok := loadClient(hc, common.ClientView)
		if !ok {
			return
		}

		hc.ClearState()

		screen := common.BuildClientScreen(*client, isAdmin(hc), h.ReservationService.Location())
		if err := hc.Show(screen); err != nil {
			hc.Fail(err, "show_client")
			return
		}
		hc.Answer("")
	})
}

// HandleClientAdd начинает ввод карточки нового клиента
func HandleClientAdd(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithManager(ctx, b, callback, h, func(hc *common.HandlerContext) {
		hc.StartDialog(callbacktypes.UserState(state.StateClientForm), nil)

		kb := keyboard.NewBuilder().Row(keyboard.CancelButton(common.ClientsPage + "0")).Build()
		if err := hc.EditMessage(common.ClientFormPrompt(nil), kb); err != nil {
			hc.Fail(err, "start_client_add")
			return
		}
		hc.Answer("")
	})
}

// HandleClientEdit начинает правку карточки клиента
func HandleClientEdit(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithManager(ctx, b, callback, h, func(hc *common.HandlerContext) {
		client, ok := loadClient(hc, common.ClientEdit)
		if !ok {
			return
		}

		hc.StartDialog(callbacktypes.UserState(state.StateClientForm), map[string]interface{}{
			state.KeyClientID: client.ID,
		})

		kb := keyboard.NewBuilder().Row(keyboard.CancelButton(common.ClientView + client.ID)).Build()
		if err := hc.EditMessage(common.ClientFormPrompt(client), kb); err != nil {
			hc.Fail(err, "start_client_edit")
			return
		}
		hc.Answer("")
	})
}

// HandleClientDelete спрашивает подтверждение удаления
func HandleClientDelete(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithAdmin(ctx, b, callback, h, func(hc *common.HandlerContext) {
		client, ok := loadClient(hc, common.ClientDelete)
		if !ok {
			return
		}

		if err := hc.Show(common.BuildDeleteClientScreen(*client)); err != nil {
			hc.Fail(err, "show_client_delete")
			return
		}
		hc.Answer("")
	})
}

// HandleClientDeleteConfirm удаляет клиента и возвращает к списку
func HandleClientDeleteConfirm(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithAdmin(ctx, b, callback, h, func(hc *common.HandlerContext) {
		id, err := common.ParseID(callback.Data, common.ClientDeleteOK)
		if err != nil {
			hc.Fail(err, "parse_client_id")
			return
		}

		if err := h.FleetService.DeleteClient(ctx, hc.Session, id); err != nil {
			hc.Fail(err, "delete_client")
			return
		}

		clients, err := h.FleetService.ListClients(ctx, hc.Session)
		if err != nil {
			hc.Fail(err, "list_clients")
			return
		}
		if err := hc.Show(common.BuildClientsScreen(clients, 0, "")); err != nil {
			hc.Fail(err, "show_clients")
			return
		}
		hc.Answer("🗑 Клиент удалён")
	})
}

func loadClient(hc *common.HandlerContext, prefix string) (*model.Client, bool) {
	id, err := common.ParseID(hc.Callback.Data, prefix)
	if err != nil {
		hc.Fail(err, "parse_client_id")
		return nil, false
	}

	client, err := hc.Handler.FleetService.GetClient(hc.Ctx, hc.Session, id)
	if err != nil {
		hc.Fail(err, "load_client")
		return nil, false
	}
	return client, true
}
