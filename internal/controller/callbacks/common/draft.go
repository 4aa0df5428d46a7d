package common

import (
	"fmt"

	"github.com/Freeeeeet/rental_desk/internal/controller/state"
	"github.com/Freeeeeet/rental_desk/internal/model"
	"github.com/Freeeeeet/rental_desk/internal/service"
)

// BookingDraft собирает черновик бронирования из данных диалога.
// Статус не задаётся: новое бронирование бэкенд создаёт в pending_confirmation.
func BookingDraft(get func(key string) (string, bool)) (service.Draft, error) {
	carID, okCar := get(state.KeyCarID)
	clientID, okClient := get(state.KeyClientID)
	from, okFrom := get(state.KeyFrom)
	to, okTo := get(state.KeyTo)
	if !okCar || !okClient || !okFrom || !okTo {
		return service.Draft{}, ErrDialogExpired
	}

	draft := service.Draft{
		CarID:    carID,
		ClientID: clientID,
		From:     from,
		To:       to,
	}
	draft.Notes, _ = get(state.KeyNotes)

	if raw, ok := get(state.KeyAmountPaid); ok && raw != "" {
		paid, err := model.ParseMoney(raw)
		if err != nil {
			return service.Draft{}, fmt.Errorf("%w: %v", ErrBadAmount, err)
		}
		draft.AmountPaid = &paid
	}

	return draft, nil
}
