package daterange

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Date
		wantErr bool
	}{
		{name: "plain date", input: "2024-05-01", want: NewDate(2024, time.May, 1)},
		{name: "rfc3339", input: "2024-05-01T10:30:00Z", want: NewDate(2024, time.May, 1)},
		{name: "naive timestamp", input: "2024-05-01T10:30:00", want: NewDate(2024, time.May, 1)},
		{name: "padded", input: "  2024-05-01 ", want: NewDate(2024, time.May, 1)},
		{name: "empty", input: "", wantErr: true},
		{name: "garbage", input: "01/05/2024", wantErr: true},
		{name: "impossible day", input: "2024-02-30", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidDate)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %s", got)
		})
	}
}

func TestDaysInclusive(t *testing.T) {
	start := MustParse("2024-05-01")

	days, err := DaysInclusive(start, start)
	require.NoError(t, err)
	assert.Equal(t, 1, days, "one-day rental is billed as one day")

	days, err = DaysInclusive(start, MustParse("2024-05-05"))
	require.NoError(t, err)
	assert.Equal(t, 5, days)

	// Через переход на летнее время количество дней не должно плыть
	days, err = DaysInclusive(MustParse("2024-03-30"), MustParse("2024-04-01"))
	require.NoError(t, err)
	assert.Equal(t, 3, days)

	_, err = DaysInclusive(MustParse("2024-05-05"), start)
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestDaysInclusiveBeyondDurationRange(t *testing.T) {
	// 400 григорианских лет = 146097 дней, плюс последний день
	days, err := DaysInclusive(MustParse("1700-01-01"), MustParse("2100-01-01"))
	require.NoError(t, err)
	assert.Equal(t, 146098, days)

	rng, err := NewRange(MustParse("1700-01-01"), MustParse("2100-01-01"))
	require.NoError(t, err)
	assert.Equal(t, 146098, rng.Days())
}

func TestOverlaps(t *testing.T) {
	r := func(from, to string) Range {
		return Range{From: MustParse(from), To: MustParse(to)}
	}

	tests := []struct {
		name string
		a, b Range
		want bool
	}{
		{"touching endpoints conflict", r("2024-05-01", "2024-05-05"), r("2024-05-05", "2024-05-10"), true},
		{"touching endpoints reversed", r("2024-05-05", "2024-05-10"), r("2024-05-01", "2024-05-05"), true},
		{"contained", r("2024-05-01", "2024-05-05"), r("2024-05-03", "2024-05-04"), true},
		{"same single day", r("2024-05-03", "2024-05-03"), r("2024-05-03", "2024-05-03"), true},
		{"adjacent days do not conflict", r("2024-05-01", "2024-05-05"), r("2024-05-06", "2024-05-10"), false},
		{"disjoint", r("2024-05-01", "2024-05-02"), r("2024-06-01", "2024-06-02"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Overlaps(tt.a, tt.b))
		})
	}
}

func TestRangeContainsAndDays(t *testing.T) {
	rng, err := NewRange(MustParse("2024-05-01"), MustParse("2024-05-05"))
	require.NoError(t, err)

	assert.True(t, rng.Contains(MustParse("2024-05-01")))
	assert.True(t, rng.Contains(MustParse("2024-05-05")))
	assert.False(t, rng.Contains(MustParse("2024-05-06")))
	assert.Equal(t, 5, rng.Days())

	_, err = NewRange(MustParse("2024-05-05"), MustParse("2024-05-01"))
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestDateJSON(t *testing.T) {
	type payload struct {
		Start Date  `json:"startDate"`
		Paid  *Date `json:"paidAt"`
	}

	var p payload
	require.NoError(t, json.Unmarshal([]byte(`{"startDate":"2024-05-01T00:00:00Z","paidAt":null}`), &p))
	assert.Equal(t, "2024-05-01", p.Start.String())
	assert.Nil(t, p.Paid)

	out, err := json.Marshal(payload{Start: MustParse("2024-05-07")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"startDate":"2024-05-07","paidAt":null}`, string(out))
}
