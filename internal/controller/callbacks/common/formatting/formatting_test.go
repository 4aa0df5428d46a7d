package formatting

import (
	"errors"
	"testing"
	"time"

	"github.com/Freeeeeet/rental_desk/internal/daterange"
	"github.com/Freeeeeet/rental_desk/internal/model"
	"github.com/Freeeeeet/rental_desk/internal/reservation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "0.00 MAD", FormatMoney(0))
	assert.Equal(t, "250.00 MAD", FormatMoney(model.MoneyFromFloat(250)))
	assert.Equal(t, "1 250.50 MAD", FormatMoney(model.MoneyFromFloat(1250.5)))
	assert.Equal(t, "1 250 000.00 MAD", FormatMoney(model.MoneyFromFloat(1250000)))
	assert.Equal(t, "-450.00 MAD", FormatMoney(model.MoneyFromFloat(-450)))
	assert.Equal(t, "250.00 MAD/день", FormatRate(model.MoneyFromFloat(250)))
}

func TestPluralize(t *testing.T) {
	tests := []struct {
		count int
		want  string
	}{
		{1, "1 день"},
		{2, "2 дня"},
		{5, "5 дней"},
		{11, "11 дней"},
		{21, "21 день"},
		{22, "22 дня"},
		{112, "112 дней"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Days(tt.count))
	}
	assert.Equal(t, "3 бронирования", Reservations(3))
}

func TestParsePeriod(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		from, to string
		wantErr  bool
	}{
		{name: "iso pair", input: "2030-05-01 2030-05-05", from: "2030-05-01", to: "2030-05-05"},
		{name: "dotted with dash", input: "1.5.2030 - 05.05.2030", from: "2030-05-01", to: "2030-05-05"},
		{name: "word separator", input: "2030-05-01 по 2030-05-03", from: "2030-05-01", to: "2030-05-03"},
		{name: "single day", input: "2030-05-01", from: "2030-05-01", to: "2030-05-01"},
		{name: "comma", input: "2030-05-01,2030-05-02", from: "2030-05-01", to: "2030-05-02"},
		{name: "empty", input: "  ", wantErr: true},
		{name: "three dates", input: "2030-05-01 2030-05-02 2030-05-03", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			from, to, err := ParsePeriod(tt.input)
			if tt.wantErr {
				assert.True(t, errors.Is(err, ErrBadPeriod))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.from, from)
			assert.Equal(t, tt.to, to)
		})
	}
}

func TestParseReturnTime(t *testing.T) {
	loc := time.FixedZone("agency", 3600)
	now := time.Date(2030, 5, 5, 17, 42, 30, 0, time.UTC)

	got, err := ParseReturnTime("сейчас", now, loc)
	require.NoError(t, err)
	assert.True(t, time.Date(2030, 5, 5, 18, 42, 0, 0, loc).Equal(got), "got %s", got)

	got, err = ParseReturnTime("09:15", now, loc)
	require.NoError(t, err)
	assert.True(t, time.Date(2030, 5, 5, 9, 15, 0, 0, loc).Equal(got), "got %s", got)

	got, err = ParseReturnTime("04.05.2030 20:00", now, loc)
	require.NoError(t, err)
	assert.True(t, time.Date(2030, 5, 4, 20, 0, 0, 0, loc).Equal(got), "got %s", got)

	_, err = ParseReturnTime("вечером", now, loc)
	assert.Error(t, err)
}

func TestReservationCard(t *testing.T) {
	final := model.MoneyFromFloat(1450)
	r := model.Reservation{
		ReservationNumber:  "RES-20300501-0001",
		StartDate:          daterange.MustParse("2030-05-01"),
		EndDate:            daterange.MustParse("2030-05-05"),
		Status:             model.ReservationStatusCompleted,
		EstimatedTotalCost: model.MoneyFromFloat(1250),
		FinalTotalCost:     &final,
		PaymentDetails:     model.PaymentDetails{AmountPaid: model.MoneyFromFloat(1000), RemainingBalance: model.MoneyFromFloat(450)},
		Notes:              "царапина <слева>",
	}
	car := &model.Car{Make: "Toyota", Model: "Yaris", LicensePlate: "WW-123-AB"}

	card := ReservationCard(r, car, nil, time.UTC)
	assert.Contains(t, card, "RES-20300501-0001")
	assert.Contains(t, card, "Toyota Yaris (WW-123-AB)")
	assert.Contains(t, card, "01.05.2030 - 05.05.2030 (5 дней)")
	assert.Contains(t, card, "🏁 Завершена")
	assert.Contains(t, card, "Итоговая стоимость: 1 450.00 MAD")
	assert.Contains(t, card, "Остаток: 450.00 MAD")
	assert.Contains(t, card, "царапина &lt;слева&gt;")
	assert.Contains(t, card, "клиент ", "falls back to the client id")
}

func TestQuotePreview(t *testing.T) {
	car := model.Car{Make: "Toyota", Model: "Yaris", LicensePlate: "WW-123-AB", DailyRate: model.MoneyFromFloat(250)}
	period := daterange.Range{From: daterange.MustParse("2030-05-01"), To: daterange.MustParse("2030-05-05")}

	q, err := reservation.NewQuote(car, period)
	require.NoError(t, err)

	text := QuotePreview(car, period, q)
	assert.Contains(t, text, "250.00 MAD/день × 5 = <b>1 250.00 MAD</b>")
}

func TestDigest(t *testing.T) {
	pickups := []model.Reservation{{
		ReservationNumber: "RES-1",
		CarDetails:        &model.CarSummary{Make: "Dacia", Model: "Logan", LicensePlate: "WW-789-EF"},
		ClientDetails:     &model.ClientSummary{FirstName: "Omar", LastName: "Benjelloun"},
	}}

	text := Digest(daterange.MustParse("2030-04-20"), pickups, nil)
	assert.Contains(t, text, "Сводка на 20.04.2030")
	assert.Contains(t, text, "RES-1: Omar Benjelloun, Dacia Logan (WW-789-EF)")
	assert.Contains(t, text, "Возврат</b> (0)\nнет")
}

func TestStatusDisplay(t *testing.T) {
	assert.Equal(t, "⏳ Ожидает подтверждения", GetReservationStatusDisplay(model.ReservationStatusPendingConfirmation).String())
	assert.Equal(t, "❓", GetReservationStatusDisplay("lost").Emoji)
	assert.Equal(t, "🛠", GetCarStatusDisplay(model.CarStatusMaintenance).Emoji)
}

func TestFleetCards(t *testing.T) {
	updated := time.Date(2030, time.May, 1, 9, 30, 0, 0, time.UTC)
	car := model.Car{
		Make: "Toyota", Model: "Yaris", Year: 2022, LicensePlate: "WW-123-AB", VIN: "JTDKB20U993000000",
		Status: model.CarStatusAvailable, DailyRate: 35000, Description: "<новая>", UpdatedAt: &updated,
	}

	card := CarCard(car, time.UTC)
	assert.Contains(t, card, "🚗 <b>Toyota Yaris</b>, 2022")
	assert.Contains(t, card, "🟢 Свободна")
	assert.Contains(t, card, "350.00 MAD/день")
	assert.Contains(t, card, "&lt;новая&gt;")
	assert.Contains(t, card, "Изменена 01.05.2030 09:30")
	assert.NotContains(t, card, "🎨", "no color line when color is empty")

	client := ClientCard(model.Client{FirstName: "Nadia", LastName: "Tazi", Email: "nadia@example.com", Phone: "+212600000000"}, nil)
	assert.Contains(t, client, "👤 <b>Nadia Tazi</b>")
	assert.Contains(t, client, "📞 +212600000000")
	assert.NotContains(t, client, "Клиент с")
}
