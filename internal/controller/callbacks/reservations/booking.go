package reservations

import (
	"context"
	"fmt"
	"html"

	"github.com/Freeeeeet/rental_desk/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/rental_desk/internal/controller/callbacks/common"
	"github.com/Freeeeeet/rental_desk/internal/controller/callbacks/common/formatting"
	"github.com/Freeeeeet/rental_desk/internal/controller/callbacks/common/keyboard"
	"github.com/Freeeeeet/rental_desk/internal/controller/state"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// HandleBookStart первый шаг нового бронирования: выбор свободной машины
func HandleBookStart(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithManager(ctx, b, callback, h, func(hc *common.HandlerContext) {
		hc.ClearState()

		cars, err := h.ReservationService.AvailableCars(ctx, hc.Session, "")
		if err != nil {
			hc.Fail(err, "available_cars")
			return
		}

		if err := hc.Show(common.BuildBookCarScreen(cars)); err != nil {
			hc.Fail(err, "show_book_cars")
			return
		}
		hc.Answer("")
	})
}

// HandleBookCar машина выбрана, дальше поиск клиента текстом
func HandleBookCar(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithManager(ctx, b, callback, h, func(hc *common.HandlerContext) {
		carID, err := common.ParseID(callback.Data, common.BookCar)
		if err != nil {
			hc.Fail(err, "parse_car_id")
			return
		}

		car, err := h.FleetService.GetCar(ctx, hc.Session, carID)
		if err != nil {
			hc.Fail(err, "load_car")
			return
		}

		hc.StartDialog(dialog(state.StateBookClientSearch), map[string]interface{}{
			state.KeyCarID: car.ID,
		})

		text := fmt.Sprintf("➕ <b>Новое бронирование</b>\n\n🚗 %s · %s\n\n"+
			"Шаг 2: отправьте имя, телефон или email клиента для поиска\n\n"+
			"Для отмены используйте /cancel",
			html.EscapeString(car.Title()), formatting.FormatRate(car.DailyRate))

		kb := keyboard.NewBuilder().Row(keyboard.CancelButton(common.BookCancel)).Build()
		if err := hc.EditMessage(text, kb); err != nil {
			hc.Fail(err, "book_car")
			return
		}
		hc.Answer("")
	})
}

// HandleBookClient клиент выбран, дальше даты
func HandleBookClient(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithManager(ctx, b, callback, h, func(hc *common.HandlerContext) {
		clientID, err := common.ParseID(callback.Data, common.BookClient)
		if err != nil {
			hc.Fail(err, "parse_client_id")
			return
		}

		carID, ok := hc.GetString(state.KeyCarID)
		if !ok || h.StateManager.GetState(hc.TelegramID) != dialog(state.StateBookClientSearch) {
			hc.Fail(common.ErrDialogExpired, "book_client")
			return
		}

		client, err := h.FleetService.GetClient(ctx, hc.Session, clientID)
		if err != nil {
			hc.Fail(err, "load_client")
			return
		}

		blocked, err := h.ReservationService.BlockedPeriods(ctx, hc.Session, carID, "")
		if err != nil {
			hc.Fail(err, "load_blocked_periods")
			return
		}

		hc.SetData(state.KeyClientID, client.ID)
		hc.SetState(dialog(state.StateBookDates))

		text := fmt.Sprintf("➕ <b>Новое бронирование</b>\n\n👤 %s\n\n%s\n\n"+
			"Шаг 3: отправьте даты аренды «2030-05-01 2030-05-05» или «01.05.2030 - 05.05.2030».\n"+
			"Одна дата означает аренду на один день.\n\n"+
			"Для отмены используйте /cancel",
			html.EscapeString(client.FullName()),
			formatting.BusyPeriods(blocked, h.ReservationService.Today(), busyPeriodsLimit))

		kb := keyboard.NewBuilder().Row(keyboard.CancelButton(common.BookCancel)).Build()
		if err := hc.EditMessage(text, kb); err != nil {
			hc.Fail(err, "book_client")
			return
		}
		hc.Answer("")
	})
}

// HandleBookConfirm отправляет бронирование на бэкенд.
// Даты проверяются заново по свежему списку: за время диалога их могли занять.
func HandleBookConfirm(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithManager(ctx, b, callback, h, func(hc *common.HandlerContext) {
		if h.StateManager.GetState(hc.TelegramID) != dialog(state.StateBookConfirm) {
			hc.Fail(common.ErrDialogExpired, "book_confirm")
			return
		}

		draft, err := common.BookingDraft(hc.GetString)
		if err != nil {
			hc.Fail(err, "book_confirm")
			return
		}

		created, err := h.ReservationService.Create(ctx, hc.Session, draft)
		if err != nil {
			hc.Fail(err, "create_reservation")
			return
		}
		hc.ClearState()

		h.Logger.Info("Reservation booked from bot",
			zap.String("reservation_id", created.ID),
			zap.Int64("telegram_id", hc.TelegramID))

		screen, err := common.LoadReservationScreen(ctx, h, hc.Session, created.ID)
		if err != nil {
			hc.Fail(err, "load_reservation")
			return
		}
		if err := hc.Show(screen); err != nil {
			h.Logger.Warn("Failed to show created reservation", zap.Error(err))
		}
		hc.Answer("✅ Бронирование " + created.ReservationNumber + " создано")
	})
}

// HandleBookCancel прерывает бронирование
func HandleBookCancel(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithManager(ctx, b, callback, h, func(hc *common.HandlerContext) {
		hc.ClearState()

		if err := hc.Show(common.BuildMainMenuScreen(hc.User)); err != nil {
			hc.Fail(err, "book_cancel")
			return
		}
		hc.Answer("Бронирование отменено")
	})
}
