package fleet

import (
	"context"
	"fmt"
	"strconv"

	"github.com/Freeeeeet/rental_desk/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/rental_desk/internal/controller/callbacks/common"
	"github.com/Freeeeeet/rental_desk/internal/controller/callbacks/common/keyboard"
	"github.com/Freeeeeet/rental_desk/internal/controller/state"
	"github.com/Freeeeeet/rental_desk/internal/model"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// HandleCarsPage парк машин постранично
func HandleCarsPage(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithManager(ctx, b, callback, h, func(hc *common.HandlerContext) {
		page, err := common.ParseInt(callback.Data, common.CarsPage)
		if err != nil {
			hc.Fail(err, "parse_cars_page")
			return
		}

		hc.ClearState()

		cars, err := h.FleetService.ListCars(ctx, hc.Session)
		if err != nil {
			hc.Fail(err, "list_cars")
			return
		}

		if err := hc.Show(common.BuildCarsScreen(cars, page, isAdmin(hc))); err != nil {
			hc.Fail(err, "show_cars")
			return
		}
		hc.Answer("")
	})
}

// HandleCarView карточка машины
func HandleCarView(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithManager(ctx, b, callback, h, func(hc *common.HandlerContext) {
		id, err := common.ParseID(callback.Data, common.CarView)
		if err != nil {
			hc.Fail(err, "parse_car_id")
			return
		}

		hc.ClearState()

		car, err := h.FleetService.GetCar(ctx, hc.Session, id)
		if err != nil {
			hc.Fail(err, "load_car")
			return
		}

		if err := hc.Show(carScreen(h, *car, isAdmin(hc))); err != nil {
			hc.Fail(err, "show_car")
			return
		}
		hc.Answer("")
	})
}

// HandleCarCalendar картинка занятости машины за месяц
func HandleCarCalendar(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithManager(ctx, b, callback, h, func(hc *common.HandlerContext) {
		args, err := common.ParseArgs(callback.Data, common.CarCalendar, 2)
		if err != nil {
			hc.Fail(err, "parse_car_calendar")
			return
		}

		year, month, err := keyboard.ParseMonthKey(args[1])
		if err != nil {
			hc.Fail(fmt.Errorf("%w: %v", common.ErrInvalidFormat, err), "parse_car_calendar")
			return
		}

		car, err := h.FleetService.GetCar(ctx, hc.Session, args[0])
		if err != nil {
			hc.Fail(err, "load_car")
			return
		}

		prefix := common.CarCalendar + car.ID + ":"
		if err := common.SendCarCalendar(hc, *car, "", year, month, prefix, common.CarView+car.ID); err != nil {
			hc.Fail(err, "send_calendar")
			return
		}
		hc.Answer("")
	})
}

// HandleCarAdd начинает ввод карточки новой машины
func HandleCarAdd(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithAdmin(ctx, b, callback, h, func(hc *common.HandlerContext) {
		hc.StartDialog(callbacktypes.UserState(state.StateCarForm), map[string]interface{}{
			state.KeyStatus: string(model.CarStatusAvailable),
		})

		kb := keyboard.NewBuilder().Row(keyboard.CancelButton(common.CarsPage + "0")).Build()
		if err := hc.EditMessage(common.CarFormPrompt(nil), kb); err != nil {
			hc.Fail(err, "start_car_add")
			return
		}
		hc.Answer("")
	})
}

// HandleCarEdit начинает правку карточки; статус меняется отдельной кнопкой
func HandleCarEdit(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithAdmin(ctx, b, callback, h, func(hc *common.HandlerContext) {
		car, ok := loadCar(hc, common.CarEdit)
		if !ok {
			return
		}

		hc.StartDialog(callbacktypes.UserState(state.StateCarForm), map[string]interface{}{
			state.KeyCarID:  car.ID,
			state.KeyStatus: string(car.Status),
		})

		kb := keyboard.NewBuilder().Row(keyboard.CancelButton(common.CarView + car.ID)).Build()
		if err := hc.EditMessage(common.CarFormPrompt(car), kb); err != nil {
			hc.Fail(err, "start_car_edit")
			return
		}
		hc.Answer("")
	})
}

// HandleCarStatusMenu выбор статуса машины
func HandleCarStatusMenu(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithAdmin(ctx, b, callback, h, func(hc *common.HandlerContext) {
		car, ok := loadCar(hc, common.CarStatusMenu)
		if !ok {
			return
		}

		if err := hc.Show(common.BuildCarStatusScreen(*car)); err != nil {
			hc.Fail(err, "show_car_statuses")
			return
		}
		hc.Answer("")
	})
}

// HandleCarSetStatus применяет выбранный статус: car_st:<id>:<index>
func HandleCarSetStatus(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithAdmin(ctx, b, callback, h, func(hc *common.HandlerContext) {
		args, err := common.ParseArgs(callback.Data, common.CarSetStatus, 2)
		if err != nil {
			hc.Fail(err, "parse_car_status")
			return
		}

		idx, err := strconv.Atoi(args[1])
		if err != nil || idx < 0 || idx >= len(model.CarStatuses) {
			hc.Fail(fmt.Errorf("%w: %q", common.ErrInvalidFormat, callback.Data), "parse_car_status")
			return
		}

		car, err := h.FleetService.SetCarStatus(ctx, hc.Session, args[0], model.CarStatuses[idx])
		if err != nil {
			hc.Fail(err, "set_car_status")
			return
		}

		if err := hc.Show(carScreen(h, *car, true)); err != nil {
			hc.Fail(err, "show_car")
			return
		}
		hc.Answer("✅ Статус обновлён")
	})
}

// HandleCarDelete спрашивает подтверждение удаления
func HandleCarDelete(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithAdmin(ctx, b, callback, h, func(hc *common.HandlerContext) {
		car, ok := loadCar(hc, common.CarDelete)
		if !ok {
			return
		}

		if err := hc.Show(common.BuildDeleteCarScreen(*car)); err != nil {
			hc.Fail(err, "show_car_delete")
			return
		}
		hc.Answer("")
	})
}

// HandleCarDeleteConfirm удаляет машину и возвращает к парку
func HandleCarDeleteConfirm(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithAdmin(ctx, b, callback, h, func(hc *common.HandlerContext) {
		id, err := common.ParseID(callback.Data, common.CarDeleteOK)
		if err != nil {
			hc.Fail(err, "parse_car_id")
			return
		}

		if err := h.FleetService.DeleteCar(ctx, hc.Session, id); err != nil {
			hc.Fail(err, "delete_car")
			return
		}

		cars, err := h.FleetService.ListCars(ctx, hc.Session)
		if err != nil {
			hc.Fail(err, "list_cars")
			return
		}
		if err := hc.Show(common.BuildCarsScreen(cars, 0, true)); err != nil {
			hc.Fail(err, "show_cars")
			return
		}
		hc.Answer("🗑 Машина удалена")
	})
}

// carScreen карточка машины с календарём на текущий месяц
func carScreen(h *callbacktypes.Handler, car model.Car, canManage bool) common.Screen {
	today := h.ReservationService.Today()
	month := keyboard.MonthKey(today.Year(), today.Month())
	return common.BuildCarScreen(car, month, canManage, h.ReservationService.Location())
}

func loadCar(hc *common.HandlerContext, prefix string) (*model.Car, bool) {
	id, err := common.ParseID(hc.Callback.Data, prefix)
	if err != nil {
		hc.Fail(err, "parse_car_id")
		return nil, false
	}

	car, err := hc.Handler.FleetService.GetCar(hc.Ctx, hc.Session, id)
	if err != nil {
		hc.Fail(err, "load_car")
		return nil, false
	}
	return car, true
}

func isAdmin(hc *common.HandlerContext) bool {
	return hc.User != nil && hc.User.Role == model.RoleAdmin
}
