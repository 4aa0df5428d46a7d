package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseArgs(t *testing.T) {
	args, err := ParseArgs("res_st:5f0c:2", ReservationSetSt, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"5f0c", "2"}, args)

	args, err = ParseArgs("car_cal:c-1:2030-05", CarCalendar, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"c-1", "2030-05"}, args)

	_, err = ParseArgs("res_st:5f0c", ReservationSetSt, 2)
	assert.ErrorIs(t, err, ErrInvalidFormat)

	_, err = ParseArgs("res_view:", ReservationView, 1)
	assert.ErrorIs(t, err, ErrInvalidFormat)

	_, err = ParseArgs("other:1", ReservationView, 1)
	assert.ErrorIs(t, err, ErrInvalidFormat)
}

func TestParseInt(t *testing.T) {
	page, err := ParseInt("res_page:3", ReservationsPage)
	require.NoError(t, err)
	assert.Equal(t, 3, page)

	_, err = ParseInt("res_page:x", ReservationsPage)
	assert.ErrorIs(t, err, ErrInvalidFormat)
}
