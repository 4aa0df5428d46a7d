package common

import (
	"testing"

	"github.com/Freeeeeet/rental_desk/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCarForm(t *testing.T) {
	text := "Toyota\nYaris\n 2022 \nww-123-ab\njtdkb20u993000000\n350,50\n\n-\nПосле ТО\nновая резина"

	input, err := ParseCarForm(text, model.CarStatusMaintenance)
	require.NoError(t, err)
	assert.Equal(t, model.CarInput{
		Make:         "Toyota",
		Model:        "Yaris",
		Year:         2022,
		LicensePlate: "WW-123-AB",
		VIN:          "JTDKB20U993000000",
		Status:       model.CarStatusMaintenance,
		DailyRate:    35050,
		Description:  "После ТО\nновая резина",
	}, input)

	input, err = ParseCarForm("Dacia\nLogan\n2020\nBB-2\nUU1ABCDEFGH123456\n250", model.CarStatusAvailable)
	require.NoError(t, err, "color and description are optional")
	assert.Empty(t, input.Color)
}

func TestParseCarFormErrors(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		field string
	}{
		{name: "missing rate", text: "Toyota\nYaris\n2022\nWW-1\nJTDKB20U993000000", field: "Ставка в день"},
		{name: "empty", text: " \n ", field: "Марка"},
		{name: "year is not a number", text: "Toyota\nYaris\nдавно\nWW-1\nJTDKB20U993000000\n350", field: "Год"},
		{name: "year out of range", text: "Toyota\nYaris\n1900\nWW-1\nJTDKB20U993000000\n350", field: "Год"},
		{name: "short vin", text: "Toyota\nYaris\n2022\nWW-1\nJTDKB20\n350", field: "VIN"},
		{name: "zero rate", text: "Toyota\nYaris\n2022\nWW-1\nJTDKB20U993000000\n0", field: "Ставка в день"},
		{name: "rate is not a number", text: "Toyota\nYaris\n2022\nWW-1\nJTDKB20U993000000\nдорого", field: "Ставка в день"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCarForm(tt.text, model.CarStatusAvailable)
			var form *FormError
			require.ErrorAs(t, err, &form)
			assert.Equal(t, tt.field, form.Field)
			assert.True(t, IsInputError(err))
		})
	}
}

func TestParseClientForm(t *testing.T) {
	input, err := ParseClientForm("Nadia\nTazi\nNadia@Example.com\n+212600000000\nB-123456")
	require.NoError(t, err)
	assert.Equal(t, "nadia@example.com", input.Email)
	assert.Equal(t, "B-123456", input.DriverLicenseNumber)

	_, err = ParseClientForm("Nadia\nTazi\nnot-an-email\n+212600000000\nB-123456")
	var form *FormError
	require.ErrorAs(t, err, &form)
	assert.Equal(t, "Email", form.Field)
	assert.Equal(t, "📝 Email: неверный адрес", ErrorMessage(err))

	_, err = ParseClientForm("Nadia\nTazi\nnadia@example.com\n123\nB-123456")
	require.ErrorAs(t, err, &form)
	assert.Equal(t, "Телефон", form.Field)
	assert.Equal(t, "не короче 6 символов", form.Hint)

	_, err = ParseClientForm("Nadia\nTazi")
	require.ErrorAs(t, err, &form)
	assert.Equal(t, "Email", form.Field)

	_, err = ParseClientForm("Nadia\nTazi\nnadia@example.com\n+212600000000\nB-123456\nлишнее")
	require.ErrorAs(t, err, &form)
}

func TestCarFormPromptParsesBack(t *testing.T) {
	car := model.Car{
		ID: "c1", Make: "Toyota", Model: "Yaris", Year: 2022, LicensePlate: "WW-123-AB",
		VIN: "JTDKB20U993000000", Status: model.CarStatusRented, DailyRate: 35000,
	}

	prompt := CarFormPrompt(&car)
	assert.Contains(t, prompt, "<pre>Toyota\nYaris\n2022\nWW-123-AB\nJTDKB20U993000000\n350.00\n-\n-</pre>")

	// Оператор копирует блок из подсказки без изменений
	input, err := ParseCarForm("Toyota\nYaris\n2022\nWW-123-AB\nJTDKB20U993000000\n350.00\n-\n-", car.Status)
	require.NoError(t, err)
	assert.Equal(t, car.Input(), input)

	assert.Contains(t, CarFormPrompt(nil), "Новая машина")
	assert.Contains(t, ClientFormPrompt(nil), "nadia@example.com")
}
