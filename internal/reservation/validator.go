package reservation

import (
	"github.com/Freeeeeet/rental_desk/internal/daterange"
)

// Check входные данные проверки выбранных дат
type Check struct {
	From    string
	To      string
	Blocked []daterange.Range
	Today   daterange.Date

	// OriginalFrom начало редактируемого бронирования (nil при создании)
	OriginalFrom *daterange.Date
}

// Validate проверяет период перед отправкой на бэкенд.
// Правила применяются по порядку: формат дат, порядок дат, прошлое, пересечения.
// Проверка предварительная: бэкенд может отказать даже если здесь всё хорошо.
func Validate(c Check) (daterange.Range, error) {
	from, err := daterange.Parse(c.From)
	if err != nil {
		return daterange.Range{}, &ValidationError{Kind: ErrInvalidDate, Detail: "start " + c.From}
	}
	to, err := daterange.Parse(c.To)
	if err != nil {
		return daterange.Range{}, &ValidationError{Kind: ErrInvalidDate, Detail: "end " + c.To}
	}

	candidate, err := daterange.NewRange(from, to)
	if err != nil {
		return daterange.Range{}, &ValidationError{Kind: ErrInvalidRange, Detail: from.String() + " > " + to.String()}
	}

	if from.Before(c.Today) && !keepsHistoricalStart(from, c.OriginalFrom, c.Today) {
		return daterange.Range{}, &ValidationError{Kind: ErrPastDate, Detail: from.String()}
	}

	if conflict, ok := FirstConflict(candidate, c.Blocked); ok {
		return daterange.Range{}, &ValidationError{Kind: ErrDateConflict, Conflict: &conflict}
	}

	return candidate, nil
}

// keepsHistoricalStart редактирование старого бронирования может сохранить исходное начало
func keepsHistoricalStart(from daterange.Date, original *daterange.Date, today daterange.Date) bool {
	if original == nil {
		return false
	}
	return original.Before(today) && from.Equal(*original)
}

// FirstConflict первый занятый период, пересекающийся с кандидатом
func FirstConflict(candidate daterange.Range, blocked []daterange.Range) (daterange.Range, bool) {
	for _, b := range blocked {
		if daterange.Overlaps(candidate, b) {
			return b, true
		}
	}
	return daterange.Range{}, false
}

// DayAvailable можно ли выбрать этот день как начало/конец
func DayAvailable(day daterange.Date, blocked []daterange.Range) bool {
	_, conflict := FirstConflict(daterange.Range{From: day, To: day}, blocked)
	return !conflict
}
