package keyboard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaginationButtons(t *testing.T) {
	assert.Nil(t, PaginationButtons("res_page:", 0, 1))

	first := PaginationButtons("res_page:", 0, 3)
	require.Len(t, first, 2)
	assert.Equal(t, "📄 1/3", first[0].Text)
	assert.Equal(t, Noop, first[0].CallbackData)
	assert.Equal(t, "res_page:1", first[1].CallbackData)

	middle := PaginationButtons("res_page:", 1, 3)
	require.Len(t, middle, 3)
	assert.Equal(t, "res_page:0", middle[0].CallbackData)
	assert.Equal(t, "res_page:2", middle[2].CallbackData)
}

func TestPaginate(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6, 7}

	page, current, total := Paginate(items, 1, 3)
	assert.Equal(t, []int{4, 5, 6}, page)
	assert.Equal(t, 1, current)
	assert.Equal(t, 3, total)

	page, current, _ = Paginate(items, 10, 3)
	assert.Equal(t, []int{7}, page)
	assert.Equal(t, 2, current)

	page, current, total = Paginate([]int(nil), 0, 3)
	assert.Empty(t, page)
	assert.Equal(t, 0, current)
	assert.Equal(t, 1, total)
}

func TestMonthPagination(t *testing.T) {
	buttons := MonthPagination("car_cal:c1:", 2030, time.January, "Январь 2030")
	require.Len(t, buttons, 3)
	assert.Equal(t, "car_cal:c1:2029-12", buttons[0].CallbackData)
	assert.Equal(t, "car_cal:c1:2030-02", buttons[2].CallbackData)

	year, month, err := ParseMonthKey("2029-12")
	require.NoError(t, err)
	assert.Equal(t, 2029, year)
	assert.Equal(t, time.December, month)

	_, _, err = ParseMonthKey("12/2029")
	assert.Error(t, err)
}

func TestColumns(t *testing.T) {
	kb := NewBuilder().
		Columns(2, Button("a", "a"), Button("b", "b"), Button("c", "c")).
		AddBackToMainButton().
		Build()

	require.Len(t, kb.InlineKeyboard, 3)
	assert.Len(t, kb.InlineKeyboard[0], 2)
	assert.Len(t, kb.InlineKeyboard[1], 1)
	assert.Equal(t, "back_to_main", kb.InlineKeyboard[2][0].CallbackData)
}
