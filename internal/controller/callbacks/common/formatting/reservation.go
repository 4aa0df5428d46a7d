package formatting

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/Freeeeeet/rental_desk/internal/daterange"
	"github.com/Freeeeeet/rental_desk/internal/model"
	"github.com/Freeeeeet/rental_desk/internal/reservation"
)

// CarName название машины: из справочника, иначе из данных бронирования
func CarName(r model.Reservation, car *model.Car) string {
	switch {
	case car != nil:
		return car.Title()
	case r.CarDetails != nil:
		return fmt.Sprintf("%s %s (%s)", r.CarDetails.Make, r.CarDetails.Model, r.CarDetails.LicensePlate)
	default:
		return "машина " + r.CarID
	}
}

// ClientName имя клиента: из справочника, иначе из данных бронирования
func ClientName(r model.Reservation, client *model.Client) string {
	switch {
	case client != nil:
		return client.FullName()
	case r.ClientDetails != nil:
		return strings.TrimSpace(r.ClientDetails.FirstName + " " + r.ClientDetails.LastName)
	default:
		return "клиент " + r.ClientID
	}
}

// ReservationLine одна строка в списке бронирований
func ReservationLine(r model.Reservation) string {
	status := GetReservationStatusDisplay(r.Status)
	return fmt.Sprintf("%s %s · %s", status.Emoji, r.ReservationNumber, FormatPeriod(r.Period()))
}

// ReservationButton короткий текст кнопки (лимит Telegram на длину)
func ReservationButton(r model.Reservation) string {
	status := GetReservationStatusDisplay(r.Status)
	return fmt.Sprintf("%s %s %s", status.Emoji, FormatDate(r.StartDate), ClientName(r, nil))
}

// ReservationCard карточка бронирования (HTML)
func ReservationCard(r model.Reservation, car *model.Car, client *model.Client, loc *time.Location) string {
	status := GetReservationStatusDisplay(r.Status)

	var b strings.Builder
	fmt.Fprintf(&b, "📋 <b>Бронирование %s</b>\n\n", html.EscapeString(r.ReservationNumber))
	fmt.Fprintf(&b, "🚗 %s\n", html.EscapeString(CarName(r, car)))
	fmt.Fprintf(&b, "👤 %s\n", html.EscapeString(ClientName(r, client)))
	if client != nil && client.Phone != "" {
		fmt.Fprintf(&b, "📞 %s\n", html.EscapeString(client.Phone))
	}
	fmt.Fprintf(&b, "📅 %s (%s)\n", FormatPeriod(r.Period()), Days(r.Period().Days()))
	fmt.Fprintf(&b, "📊 Статус: %s\n\n", status)

	fmt.Fprintf(&b, "💰 Расчётная стоимость: %s\n", FormatMoney(r.EstimatedTotalCost))
	if r.FinalTotalCost != nil {
		fmt.Fprintf(&b, "🧾 Итоговая стоимость: %s\n", FormatMoney(*r.FinalTotalCost))
	}
	fmt.Fprintf(&b, "💵 Оплачено: %s\n", FormatMoney(r.PaymentDetails.AmountPaid))
	fmt.Fprintf(&b, "⚖️ Остаток: %s\n", FormatMoney(r.PaymentDetails.RemainingBalance))

	if r.ActualPickupDate != nil {
		fmt.Fprintf(&b, "\n🔑 Выдана: %s", FormatDateTime(*r.ActualPickupDate, loc))
	}
	if r.ActualReturnDate != nil {
		fmt.Fprintf(&b, "\n↩️ Возвращена: %s", FormatDateTime(*r.ActualReturnDate, loc))
	}
	if r.Notes != "" {
		fmt.Fprintf(&b, "\n\n📝 %s", html.EscapeString(r.Notes))
	}

	return b.String()
}

// QuotePreview предпросмотр стоимости в форме бронирования
func QuotePreview(car model.Car, period daterange.Range, q reservation.Quote) string {
	return fmt.Sprintf(
		"🚗 %s\n📅 %s (%s)\n💰 %s × %d = <b>%s</b>\n\n<i>Предварительно: итоговую сумму рассчитает система.</i>",
		html.EscapeString(car.Title()),
		FormatPeriod(period),
		Days(q.Days),
		FormatRate(q.DailyRate),
		q.Days,
		FormatMoney(q.Total),
	)
}

// Digest утренняя сводка: кому выдать машину и кто её возвращает
func Digest(day daterange.Date, pickups, returns []model.Reservation) string {
	var b strings.Builder
	fmt.Fprintf(&b, "☀️ <b>Сводка на %s</b>\n", FormatDate(day))

	section := func(title string, items []model.Reservation) {
		fmt.Fprintf(&b, "\n<b>%s</b> (%d)\n", title, len(items))
		if len(items) == 0 {
			b.WriteString("нет\n")
			return
		}
		for _, r := range items {
			fmt.Fprintf(&b, "• %s: %s, %s\n",
				html.EscapeString(r.ReservationNumber),
				html.EscapeString(ClientName(r, nil)),
				html.EscapeString(CarName(r, nil)))
		}
	}

	section("🔑 Выдача", pickups)
	section("↩️ Возврат", returns)

	return b.String()
}

// BusyPeriods ближайшие занятые периоды машины для подсказки при вводе дат
func BusyPeriods(periods []daterange.Range, today daterange.Date, limit int) string {
	var lines []string
	for _, p := range periods {
		if p.To.Before(today) {
			continue
		}
		lines = append(lines, "• "+FormatPeriod(p))
		if len(lines) == limit {
			break
		}
	}

	if len(lines) == 0 {
		return "Машина свободна на все будущие даты."
	}
	return "Машина занята:\n" + strings.Join(lines, "\n")
}
