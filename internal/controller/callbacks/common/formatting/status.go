package formatting

import "github.com/Freeeeeet/rental_desk/internal/model"

// StatusDisplay emoji и текст статуса
type StatusDisplay struct {
	Emoji string
	Text  string
}

func (d StatusDisplay) String() string {
	return d.Emoji + " " + d.Text
}

var reservationEmoji = map[model.ReservationStatus]string{
	model.ReservationStatusPendingConfirmation: "⏳",
	model.ReservationStatusConfirmed:           "✅",
	model.ReservationStatusActive:              "🚗",
	model.ReservationStatusCompleted:           "🏁",
	model.ReservationStatusCancelledByClient:   "❌",
	model.ReservationStatusCancelledByAgency:   "🚫",
	model.ReservationStatusNoShow:              "👻",
}

// GetReservationStatusDisplay возвращает emoji и текст для статуса бронирования
func GetReservationStatusDisplay(status model.ReservationStatus) StatusDisplay {
	emoji, ok := reservationEmoji[status]
	if !ok {
		return StatusDisplay{"❓", string(status)}
	}
	return StatusDisplay{emoji, status.Label()}
}

// GetCarStatusDisplay возвращает emoji и текст для статуса машины
func GetCarStatusDisplay(status model.CarStatus) StatusDisplay {
	displays := map[model.CarStatus]StatusDisplay{
		model.CarStatusAvailable:    {"🟢", "Свободна"},
		model.CarStatusRented:       {"🔵", "В аренде"},
		model.CarStatusMaintenance:  {"🛠", "На обслуживании"},
		model.CarStatusOutOfService: {"⚫️", "Списана"},
	}

	if display, ok := displays[status]; ok {
		return display
	}
	return StatusDisplay{"❓", "Неизвестно"}
}
