package keyboard

import (
	"fmt"
	"time"

	"github.com/go-telegram/bot/models"
)

// Noop callback для кнопок-индикаторов
const Noop = "noop"

// PaginationButtons создаёт ряд кнопок пагинации
// prefix - префикс для callback (например "res_page:")
// currentPage - текущая страница (0-based)
// totalPages - всего страниц
func PaginationButtons(prefix string, currentPage, totalPages int) []models.InlineKeyboardButton {
	if totalPages <= 1 {
		return nil
	}

	var buttons []models.InlineKeyboardButton

	if currentPage > 0 {
		buttons = append(buttons, Button("⬅️", fmt.Sprintf("%s%d", prefix, currentPage-1)))
	}

	buttons = append(buttons, Button(
		fmt.Sprintf("📄 %d/%d", currentPage+1, totalPages),
		Noop,
	))

	if currentPage < totalPages-1 {
		buttons = append(buttons, Button("➡️", fmt.Sprintf("%s%d", prefix, currentPage+1)))
	}

	return buttons
}

// AddPagination добавляет пагинацию к builder
func (b *Builder) AddPagination(prefix string, currentPage, totalPages int) *Builder {
	return b.Row(PaginationButtons(prefix, currentPage, totalPages)...)
}

// Paginate вырезает страницу page (0-based) из items.
// Номер страницы приводится к допустимому диапазону.
func Paginate[T any](items []T, page, perPage int) (pageItems []T, currentPage, totalPages int) {
	if perPage <= 0 {
		perPage = len(items)
	}
	if len(items) == 0 {
		return nil, 0, 1
	}

	totalPages = (len(items) + perPage - 1) / perPage
	if page < 0 {
		page = 0
	}
	if page >= totalPages {
		page = totalPages - 1
	}

	start := page * perPage
	end := start + perPage
	if end > len(items) {
		end = len(items)
	}
	return items[start:end], page, totalPages
}

// MonthKey "2030-05" для callback данных календаря
func MonthKey(year int, month time.Month) string {
	return fmt.Sprintf("%04d-%02d", year, int(month))
}

// ParseMonthKey обратное к MonthKey
func ParseMonthKey(key string) (int, time.Month, error) {
	t, err := time.Parse("2006-01", key)
	if err != nil {
		return 0, 0, fmt.Errorf("parse month %q: %w", key, err)
	}
	return t.Year(), t.Month(), nil
}

// MonthPagination листание календаря по месяцам: prefix + "2030-04"
func MonthPagination(prefix string, year int, month time.Month, title string) []models.InlineKeyboardButton {
	current := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	prev := current.AddDate(0, -1, 0)
	next := current.AddDate(0, 1, 0)

	return []models.InlineKeyboardButton{
		Button("◀️", prefix+MonthKey(prev.Year(), prev.Month())),
		Button(title, Noop),
		Button("▶️", prefix+MonthKey(next.Year(), next.Month())),
	}
}
