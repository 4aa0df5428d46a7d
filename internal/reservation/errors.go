package reservation

import (
	"errors"
	"fmt"

	"github.com/Freeeeeet/rental_desk/internal/daterange"
)

var (
	ErrInvalidDate          = daterange.ErrInvalidDate
	ErrInvalidRange         = daterange.ErrInvalidRange
	ErrPastDate             = errors.New("start date is in the past")
	ErrDateConflict         = errors.New("dates overlap an existing reservation")
	ErrNegativeCharges      = errors.New("additional charges must not be negative")
	ErrOverpayment          = errors.New("amount paid exceeds total cost")
	ErrMissingReturnTime    = errors.New("actual return time is required to complete a reservation")
	ErrTransitionNotAllowed = errors.New("status transition is not allowed")
	ErrUnknownStatus        = errors.New("unknown reservation status")
)

// ValidationError отказ валидатора дат: какое правило нарушено и с чем конфликт
type ValidationError struct {
	Kind     error
	Conflict *daterange.Range
	Detail   string
}

func (e *ValidationError) Error() string {
	switch {
	case e.Conflict != nil:
		return fmt.Sprintf("%s: %s", e.Kind, e.Conflict)
	case e.Detail != "":
		return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
	default:
		return e.Kind.Error()
	}
}

func (e *ValidationError) Unwrap() error {
	return e.Kind
}

// ConflictOf достаёт конфликтующий период из ошибки, если он есть
func ConflictOf(err error) (daterange.Range, bool) {
	var verr *ValidationError
	if errors.As(err, &verr) && verr.Conflict != nil {
		return *verr.Conflict, true
	}
	return daterange.Range{}, false
}
