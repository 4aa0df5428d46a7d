package common

import (
	"errors"
	"fmt"
	"testing"

	"github.com/Freeeeeet/rental_desk/internal/api"
	"github.com/Freeeeeet/rental_desk/internal/controller/callbacks/common/formatting"
	"github.com/Freeeeeet/rental_desk/internal/daterange"
	"github.com/Freeeeeet/rental_desk/internal/reservation"
	"github.com/Freeeeeet/rental_desk/internal/service"
	"github.com/Freeeeeet/rental_desk/internal/session"
	"github.com/stretchr/testify/assert"
)

func TestErrorMessage(t *testing.T) {
	conflict := daterange.Range{From: daterange.MustParse("2030-05-01"), To: daterange.MustParse("2030-05-05")}

	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "conflict shows the blocking period",
			err:  fmt.Errorf("create reservation: %w", &reservation.ValidationError{Kind: reservation.ErrDateConflict, Conflict: &conflict}),
			want: "📅 Машина уже занята: 01.05.2030 - 05.05.2030",
		},
		{
			name: "past date",
			err:  &reservation.ValidationError{Kind: reservation.ErrPastDate, Detail: "2030-04-19"},
			want: "📅 Дата начала уже прошла",
		},
		{
			name: "remote rejection is shown verbatim",
			err:  fmt.Errorf("update status: %w", &api.RemoteError{StatusCode: 400, Message: "Car is under maintenance"}),
			want: "❌ Car is under maintenance",
		},
		{
			name: "401 asks to log in again",
			err:  &api.RemoteError{StatusCode: 401, Message: "Not authenticated"},
			want: "🔒 Сессия истекла. Войдите снова: /login",
		},
		{
			name: "403 from backend",
			err:  &api.RemoteError{StatusCode: 403, Message: "Forbidden"},
			want: "⛔ Недостаточно прав для этого действия",
		},
		{
			name: "local role guard",
			err:  fmt.Errorf("%w: admin required", session.ErrForbidden),
			want: "⛔ Недостаточно прав для этого действия",
		},
		{
			name: "network",
			err:  &api.NetworkError{Method: "GET", Path: "/api/reservations", Err: errors.New("connection refused")},
			want: "🌐 Сервер недоступен. Попробуйте ещё раз",
		},
		{name: "not logged in", err: session.ErrNotLoggedIn, want: "🔒 Вы не вошли в систему. Используйте /login"},
		{name: "overpayment", err: reservation.ErrOverpayment, want: "💰 Оплата больше стоимости аренды"},
		{name: "missing reservation", err: service.ErrReservationNotFound, want: "❌ Бронирование не найдено"},
		{name: "bad callback", err: fmt.Errorf("%w: %q", ErrInvalidFormat, "x"), want: "❌ Неверный формат данных"},
		{name: "unknown", err: errors.New("boom"), want: "❌ Произошла ошибка"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ErrorMessage(tt.err))
		})
	}
}

func TestIsInputError(t *testing.T) {
	assert.True(t, IsInputError(&reservation.ValidationError{Kind: reservation.ErrPastDate}))
	assert.True(t, IsInputError(fmt.Errorf("dates: %w", formatting.ErrBadPeriod)))
	assert.True(t, IsInputError(fmt.Errorf("%w: x", ErrBadAmount)))
	assert.True(t, IsInputError(fmt.Errorf("settle: %w", reservation.ErrOverpayment)))

	assert.False(t, IsInputError(&api.NetworkError{Method: "GET", Path: "/reservations", Err: errors.New("refused")}))
	assert.False(t, IsInputError(&api.RemoteError{StatusCode: 401, Message: "Not authenticated"}))
	assert.False(t, IsInputError(session.ErrNotLoggedIn))
}
