package common

import (
	"context"
	"fmt"
	"html"
	"time"

	"github.com/Freeeeeet/rental_desk/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/rental_desk/internal/controller/callbacks/common/formatting"
	"github.com/Freeeeeet/rental_desk/internal/model"
	"github.com/Freeeeeet/rental_desk/internal/reservation"
	"github.com/Freeeeeet/rental_desk/internal/session"
	"go.uber.org/zap"
)

// LoadReservationScreen карточка бронирования с машиной и клиентом из справочников.
// Если справочник недоступен, карточка строится по данным самого бронирования.
func LoadReservationScreen(ctx context.Context, h *callbacktypes.Handler, sess *session.Session, id string) (Screen, error) {
	r, err := h.ReservationService.Get(ctx, sess, id)
	if err != nil {
		return Screen{}, err
	}

	car, err := h.FleetService.GetCar(ctx, sess, r.CarID)
	if err != nil {
		h.Logger.Debug("Car lookup failed", zap.String("car_id", r.CarID), zap.Error(err))
		car = nil
	}
	client, err := h.FleetService.GetClient(ctx, sess, r.ClientID)
	if err != nil {
		h.Logger.Debug("Client lookup failed", zap.String("client_id", r.ClientID), zap.Error(err))
		client = nil
	}

	canChange := len(reservation.Targets(r.Status, h.ReservationService.Policy())) > 0
	return BuildReservationScreen(*r, car, client, h.ReservationService.Location(), canChange), nil
}

// SendCarCalendar присылает картинку занятости машины за месяц вместо текущего сообщения.
// excludeID не считается занятым (бронирование, которое сейчас редактируют).
func SendCarCalendar(hc *HandlerContext, car model.Car, excludeID string, year int, month time.Month, prefix, back string) error {
	svc := hc.Handler.ReservationService

	blocked, err := svc.BlockedDays(hc.Ctx, hc.Session, car.ID, excludeID, year, month)
	if err != nil {
		return err
	}

	png, err := GenerateCalendarImage(CalendarMonth{
		Title:   car.Title(),
		Year:    year,
		Month:   month,
		Blocked: blocked,
		Today:   svc.Today(),
	})
	if err != nil {
		return err
	}

	caption := fmt.Sprintf("🗓 <b>%s</b>\n%s %d: занято %s",
		html.EscapeString(car.Title()), formatting.MonthName(month), year, formatting.Days(len(blocked)))

	if err := hc.SendPhoto(png, "calendar.png", caption, CalendarKeyboard(prefix, year, month, back)); err != nil {
		return err
	}
	if err := hc.DeleteMessage(); err != nil {
		hc.Handler.Logger.Debug("Failed to delete previous message", zap.Error(err))
	}
	return nil
}
