package reservations

import (
	"fmt"
	"time"

	"github.com/Freeeeeet/rental_desk/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/rental_desk/internal/controller/callbacks/common"
	"github.com/Freeeeeet/rental_desk/internal/controller/callbacks/common/keyboard"
	"github.com/Freeeeeet/rental_desk/internal/controller/state"
)

func keyboardMonth(key string) (int, time.Month, error) {
	year, month, err := keyboard.ParseMonthKey(key)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %v", common.ErrInvalidFormat, err)
	}
	return year, month, nil
}

// dialog переводит состояние диалога в тип интерфейса callbacks
func dialog(s state.UserState) callbacktypes.UserState {
	return callbacktypes.UserState(s)
}
