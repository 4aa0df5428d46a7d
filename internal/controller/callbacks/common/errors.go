package common

import (
	"errors"

	"github.com/Freeeeeet/rental_desk/internal/api"
	"github.com/Freeeeeet/rental_desk/internal/controller/callbacks/common/formatting"
	"github.com/Freeeeeet/rental_desk/internal/reservation"
	"github.com/Freeeeeet/rental_desk/internal/service"
	"github.com/Freeeeeet/rental_desk/internal/session"
)

// Общие ошибки для обработчиков
var (
	ErrNoMessage     = errors.New("no message in callback")
	ErrInvalidFormat = errors.New("invalid callback format")
	ErrDialogExpired = errors.New("dialog data is missing")
	ErrBadAmount     = errors.New("invalid amount")
)

// ErrorMessage возвращает сообщение для оператора по ошибке.
// Отказ бэкенда показывается его собственным текстом.
func ErrorMessage(err error) string {
	var remote *api.RemoteError
	var form *FormError

	switch {
	case errors.Is(err, session.ErrNotLoggedIn):
		return "🔒 Вы не вошли в систему. Используйте /login"
	case errors.Is(err, api.ErrUnauthorized):
		return "🔒 Сессия истекла. Войдите снова: /login"
	case errors.Is(err, session.ErrForbidden), errors.Is(err, api.ErrForbidden):
		return "⛔ Недостаточно прав для этого действия"

	case errors.Is(err, reservation.ErrDateConflict):
		if conflict, ok := reservation.ConflictOf(err); ok {
			return "📅 Машина уже занята: " + formatting.FormatPeriod(conflict)
		}
		return "📅 Машина уже занята на эти даты"
	case errors.Is(err, reservation.ErrPastDate):
		return "📅 Дата начала уже прошла"
	case errors.Is(err, reservation.ErrInvalidRange):
		return "📅 Дата окончания раньше даты начала"
	case errors.Is(err, reservation.ErrInvalidDate), errors.Is(err, formatting.ErrBadPeriod):
		return "📅 Неверные даты. Формат: 2030-05-01 2030-05-05 или 01.05.2030 - 05.05.2030"
	case errors.Is(err, formatting.ErrBadReturnTime):
		return "⏱ Не понял время. Примеры: сейчас, 18:30, 05.05.2030 18:30"
	case errors.Is(err, ErrBadAmount):
		return "💰 Неверная сумма. Пример: 1250 или 1250.50"
	case errors.As(err, &form):
		return "📝 " + form.Field + ": " + form.Hint
	case errors.Is(err, reservation.ErrOverpayment):
		return "💰 Оплата больше стоимости аренды"
	case errors.Is(err, reservation.ErrNegativeCharges):
		return "💰 Доплата не может быть отрицательной"
	case errors.Is(err, reservation.ErrMissingReturnTime):
		return "⏱ Для завершения нужно время возврата машины"
	case errors.Is(err, reservation.ErrTransitionNotAllowed):
		return "🚫 Такой переход статуса запрещён"
	case errors.Is(err, reservation.ErrUnknownStatus):
		return "❓ Неизвестный статус"

	case errors.Is(err, service.ErrReservationNotFound):
		return "❌ Бронирование не найдено"
	case errors.Is(err, service.ErrHasOpenReservations):
		return "🚫 Есть незавершённые бронирования. Сначала завершите или отмените их"
	case errors.Is(err, service.ErrSessionReset):
		return "🔄 Сессия сменилась, повторите действие"
	case errors.Is(err, api.ErrNotFound):
		return "❌ Запись не найдена"
	case errors.Is(err, api.ErrNetworkFailure):
		return "🌐 Сервер недоступен. Попробуйте ещё раз"
	case errors.Is(err, api.ErrInvalidPayload):
		return "❌ Проверьте введённые данные"
	case errors.As(err, &remote):
		return "❌ " + remote.Message

	case errors.Is(err, ErrNoMessage):
		return "❌ Ошибка обработки сообщения"
	case errors.Is(err, ErrInvalidFormat):
		return "❌ Неверный формат данных"
	case errors.Is(err, ErrDialogExpired):
		return "⌛ Данные диалога устарели. Начните заново"
	default:
		return "❌ Произошла ошибка"
	}
}

// IsInputError ошибка в том, что ввёл оператор: диалог остаётся на том же шаге
func IsInputError(err error) bool {
	var verr *reservation.ValidationError
	var form *FormError
	switch {
	case errors.As(err, &verr), errors.As(err, &form):
		return true
	case errors.Is(err, formatting.ErrBadPeriod),
		errors.Is(err, formatting.ErrBadReturnTime),
		errors.Is(err, ErrBadAmount),
		errors.Is(err, reservation.ErrInvalidDate),
		errors.Is(err, reservation.ErrInvalidRange),
		errors.Is(err, reservation.ErrOverpayment),
		errors.Is(err, reservation.ErrNegativeCharges),
		errors.Is(err, api.ErrInvalidPayload):
		return true
	}
	return false
}
