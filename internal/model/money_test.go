package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMoney(t *testing.T) {
	tests := []struct {
		input   string
		want    Money
		wantErr bool
	}{
		{input: "1250", want: 125000},
		{input: "1250.5", want: 125050},
		{input: "1 250,75", want: 125075},
		{input: "0.1", want: 10},
		{input: "", wantErr: true},
		{input: "abc", wantErr: true},
		{input: "NaN", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseMoney(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMoneyJSON(t *testing.T) {
	var car Car
	require.NoError(t, json.Unmarshal([]byte(`{"id":"1","dailyRate":249.99}`), &car))
	assert.Equal(t, Money(24999), car.DailyRate)

	out, err := json.Marshal(PaymentInput{AmountPaid: MoneyFromFloat(1000)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"amountPaid":1000.00}`, string(out))

	assert.Equal(t, "-0.50", Money(-50).String())
}
