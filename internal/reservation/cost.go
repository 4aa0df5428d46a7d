package reservation

import (
	"fmt"

	"github.com/Freeeeeet/rental_desk/internal/daterange"
	"github.com/Freeeeeet/rental_desk/internal/model"
)

// EstimateCost предварительная стоимость: ставка * количество дней включительно.
// Это только предпросмотр, итоговую сумму считает бэкенд.
func EstimateCost(dailyRate model.Money, from, to daterange.Date) (model.Money, error) {
	days, err := daterange.DaysInclusive(from, to)
	if err != nil {
		return 0, fmt.Errorf("estimate cost: %w", err)
	}
	return dailyRate.Mul(days), nil
}

// Quote предпросмотр для формы бронирования
type Quote struct {
	Days      int
	DailyRate model.Money
	Total     model.Money
}

// NewQuote пересчитывается при каждом изменении машины или дат
func NewQuote(car model.Car, period daterange.Range) (Quote, error) {
	total, err := EstimateCost(car.DailyRate, period.From, period.To)
	if err != nil {
		return Quote{}, err
	}
	return Quote{
		Days:      period.Days(),
		DailyRate: car.DailyRate,
		Total:     total,
	}, nil
}

// Balance остаток к оплате; переплата не сохраняется молча
func Balance(total, paid model.Money) (model.Money, error) {
	if paid < 0 {
		return 0, fmt.Errorf("%w: paid %s", ErrOverpayment, paid)
	}
	remaining := total - paid
	if remaining < 0 {
		return remaining, fmt.Errorf("%w: total %s, paid %s", ErrOverpayment, total, paid)
	}
	return remaining, nil
}

// SettlementInput данные для расчёта при завершении аренды
type SettlementInput struct {
	Estimated         model.Money
	AdditionalCharges model.Money
	AmountPaid        model.Money
}

// Settlement итог завершения аренды
type Settlement struct {
	FinalTotal       model.Money
	RemainingBalance model.Money
}

// Settle final = estimated + additional, remaining = final - paid
func Settle(in SettlementInput) (Settlement, error) {
	if in.AdditionalCharges < 0 {
		return Settlement{}, fmt.Errorf("%w: %s", ErrNegativeCharges, in.AdditionalCharges)
	}

	final := in.Estimated + in.AdditionalCharges
	remaining, err := Balance(final, in.AmountPaid)
	if err != nil {
		return Settlement{FinalTotal: final, RemainingBalance: remaining}, err
	}

	return Settlement{FinalTotal: final, RemainingBalance: remaining}, nil
}
