package formatting

import "fmt"

// Pluralize выбирает форму слова по числу: 1 день, 2 дня, 5 дней
func Pluralize(count int, one, few, many string) string {
	n := count
	if n < 0 {
		n = -n
	}
	if n%10 == 1 && n%100 != 11 {
		return one
	}
	if n%10 >= 2 && n%10 <= 4 && (n%100 < 10 || n%100 >= 20) {
		return few
	}
	return many
}

// Days "5 дней"
func Days(count int) string {
	return fmt.Sprintf("%d %s", count, Pluralize(count, "день", "дня", "дней"))
}

// Reservations "3 бронирования"
func Reservations(count int) string {
	return fmt.Sprintf("%d %s", count, Pluralize(count, "бронирование", "бронирования", "бронирований"))
}
