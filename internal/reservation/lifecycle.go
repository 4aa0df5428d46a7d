package reservation

import (
	"fmt"
	"strings"
	"time"

	"github.com/Freeeeeet/rental_desk/internal/model"
)

// Policy правила переходов между статусами
type Policy string

const (
	// PolicyPermissive любой статус в любой: порядок проверяет бэкенд
	PolicyPermissive Policy = "permissive"
	// PolicyStrict из финальных статусов выйти нельзя
	PolicyStrict Policy = "strict"
)

// ParsePolicy разбирает значение из конфига, пустое -> permissive
func ParsePolicy(s string) (Policy, error) {
	switch Policy(strings.ToLower(strings.TrimSpace(s))) {
	case "", PolicyPermissive:
		return PolicyPermissive, nil
	case PolicyStrict:
		return PolicyStrict, nil
	default:
		return "", fmt.Errorf("unknown transition policy %q", s)
	}
}

// IsTerminal финальные статусы
func IsTerminal(s model.ReservationStatus) bool {
	switch s {
	case model.ReservationStatusCompleted,
		model.ReservationStatusCancelledByClient,
		model.ReservationStatusCancelledByAgency,
		model.ReservationStatusNoShow:
		return true
	}
	return false
}

// CanTransition проверяет переход from -> to по политике
func CanTransition(from, to model.ReservationStatus, policy Policy) error {
	if !to.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownStatus, to)
	}

	if policy != PolicyStrict {
		return nil
	}

	if from == to {
		return fmt.Errorf("%w: already %s", ErrTransitionNotAllowed, to)
	}
	if IsTerminal(from) {
		return fmt.Errorf("%w: %s is final", ErrTransitionNotAllowed, from)
	}
	return nil
}

// Targets статусы, доступные из текущего
func Targets(from model.ReservationStatus, policy Policy) []model.ReservationStatus {
	var out []model.ReservationStatus
	for _, s := range model.ReservationStatuses {
		if policy == PolicyStrict && CanTransition(from, s, policy) != nil {
			continue
		}
		out = append(out, s)
	}
	return out
}

// StatusChange что ввёл оператор при смене статуса
type StatusChange struct {
	Status model.ReservationStatus

	// Только для completed
	ActualReturnTime  *time.Time
	AdditionalCharges model.Money
	AmountPaid        *model.Money // nil - оставить текущую оплату
	CompletionNotes   string
}

// PlanStatusChange проверяет переход и собирает тело запроса.
// Для completed обязательны время возврата и неотрицательные доп. расходы,
// итоговая стоимость и остаток пересчитываются.
func PlanStatusChange(r model.Reservation, change StatusChange, policy Policy) (model.StatusUpdate, error) {
	if err := CanTransition(r.Status, change.Status, policy); err != nil {
		return model.StatusUpdate{}, err
	}

	update := model.StatusUpdate{Status: change.Status}
	if change.Status != model.ReservationStatusCompleted {
		return update, nil
	}

	if change.ActualReturnTime == nil || change.ActualReturnTime.IsZero() {
		return model.StatusUpdate{}, ErrMissingReturnTime
	}

	paid := r.PaymentDetails.AmountPaid
	if change.AmountPaid != nil {
		paid = *change.AmountPaid
	}

	settlement, err := Settle(SettlementInput{
		Estimated:         r.EstimatedTotalCost,
		AdditionalCharges: change.AdditionalCharges,
		AmountPaid:        paid,
	})
	if err != nil {
		return model.StatusUpdate{}, fmt.Errorf("settle reservation %s: %w", r.ReservationNumber, err)
	}

	returned := change.ActualReturnTime.UTC()
	final := settlement.FinalTotal
	update.FinalTotalCost = &final
	update.ActualReturnDate = &returned
	update.PaymentDetails = &model.PaymentDetails{
		AmountPaid:       paid,
		RemainingBalance: settlement.RemainingBalance,
		TransactionDate:  r.PaymentDetails.TransactionDate,
	}
	update.CompletionNotes = strings.TrimSpace(change.CompletionNotes)

	return update, nil
}

// Apply локально применяет смену статуса к копии бронирования (для оптимистичного обновления)
func Apply(r model.Reservation, update model.StatusUpdate) model.Reservation {
	r.Status = update.Status
	if update.FinalTotalCost != nil {
		final := *update.FinalTotalCost
		r.FinalTotalCost = &final
	}
	if update.ActualReturnDate != nil {
		returned := *update.ActualReturnDate
		r.ActualReturnDate = &returned
	}
	if update.PaymentDetails != nil {
		r.PaymentDetails = *update.PaymentDetails
	}
	return r
}
