package reservation

import (
	"time"

	"github.com/Freeeeeet/rental_desk/internal/daterange"
	"github.com/Freeeeeet/rental_desk/internal/model"
)

// Blocking статусы, при которых машина занята
func Blocking(status model.ReservationStatus) bool {
	return status == model.ReservationStatusConfirmed || status == model.ReservationStatusActive
}

// BlockedPeriods возвращает занятые периоды машины.
// excludeID - бронирование, которое сейчас редактируется (пустая строка при создании):
// его собственный период не должен конфликтовать сам с собой.
// Порядок сохраняется как во входном списке, пересекающиеся периоды не сливаются.
func BlockedPeriods(carID, excludeID string, reservations []model.Reservation) []daterange.Range {
	periods := make([]daterange.Range, 0)
	for _, r := range reservations {
		if r.CarID != carID {
			continue
		}
		if excludeID != "" && r.ID == excludeID {
			continue
		}
		if !Blocking(r.Status) {
			continue
		}
		periods = append(periods, r.Period())
	}
	return periods
}

// BlockedDays раскладывает периоды на занятые дни внутри окна [from, to]
func BlockedDays(periods []daterange.Range, window daterange.Range) map[daterange.Date]bool {
	days := make(map[daterange.Date]bool)
	for _, p := range periods {
		if !daterange.Overlaps(p, window) {
			continue
		}

		start := p.From
		if start.Before(window.From) {
			start = window.From
		}
		end := p.To
		if end.After(window.To) {
			end = window.To
		}

		for d := start; !d.After(end); d = d.AddDays(1) {
			days[d] = true
		}
	}
	return days
}

// MonthWindow период с первого по последний день месяца
func MonthWindow(year int, month time.Month) daterange.Range {
	first := daterange.NewDate(year, month, 1)
	last := daterange.NewDate(year, month+1, 1).AddDays(-1)
	return daterange.Range{From: first, To: last}
}
