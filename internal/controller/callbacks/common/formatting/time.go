package formatting

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/Freeeeeet/rental_desk/internal/daterange"
)

var (
	// ErrBadPeriod ввод не похож на две даты
	ErrBadPeriod = errors.New("expected two dates")
	// ErrBadReturnTime ввод не похож на время возврата
	ErrBadReturnTime = errors.New("unrecognized return time")
)

var dottedDate = regexp.MustCompile(`^(\d{1,2})\.(\d{1,2})\.(\d{4})$`)

// FormatDate "01.05.2030"
func FormatDate(d daterange.Date) string {
	if d.IsZero() {
		return "-"
	}
	return d.Time().Format("02.01.2006")
}

// FormatPeriod "01.05.2030 - 05.05.2030"
func FormatPeriod(r daterange.Range) string {
	return FormatDate(r.From) + " - " + FormatDate(r.To)
}

// FormatDateTime время в часовом поясе агентства
func FormatDateTime(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format("02.01.2006 15:04")
}

// NormalizeDate переводит "01.05.2030" в "2030-05-01"; остальное не трогает
func NormalizeDate(s string) string {
	s = strings.TrimSpace(s)
	m := dottedDate.FindStringSubmatch(s)
	if m == nil {
		return s
	}
	return m[3] + "-" + pad(m[2]) + "-" + pad(m[1])
}

func pad(s string) string {
	if len(s) == 1 {
		return "0" + s
	}
	return s
}

// ParsePeriod разбирает ввод оператора "2030-05-01 2030-05-05" или "01.05.2030 - 05.05.2030".
// Одна дата означает аренду на один день. Сами даты проверяет валидатор.
func ParsePeriod(text string) (from, to string, err error) {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return r == ' ' || r == '\t' || r == '\n' || r == ','
	})

	parts := make([]string, 0, 2)
	for _, f := range fields {
		if f == "-" || f == ".." || f == "по" {
			continue
		}
		parts = append(parts, NormalizeDate(f))
	}

	switch len(parts) {
	case 1:
		return parts[0], parts[0], nil
	case 2:
		return parts[0], parts[1], nil
	default:
		return "", "", fmt.Errorf("%w: %q", ErrBadPeriod, text)
	}
}

// ParseReturnTime время возврата машины: "сейчас", "18:30" (сегодня),
// "2030-05-05 18:30" или "05.05.2030 18:30"
func ParseReturnTime(text string, now time.Time, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	text = strings.TrimSpace(strings.ToLower(text))
	now = now.In(loc)

	if text == "сейчас" || text == "now" {
		return now.Truncate(time.Minute), nil
	}

	if t, err := time.ParseInLocation("15:04", text, loc); err == nil {
		return time.Date(now.Year(), now.Month(), now.Day(), t.Hour(), t.Minute(), 0, 0, loc), nil
	}

	for _, layout := range []string{"2006-01-02 15:04", "02.01.2006 15:04"} {
		if t, err := time.ParseInLocation(layout, text, loc); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("%w: %q", ErrBadReturnTime, text)
}

// MonthName название месяца
func MonthName(month time.Month) string {
	months := map[time.Month]string{
		time.January:   "Январь",
		time.February:  "Февраль",
		time.March:     "Март",
		time.April:     "Апрель",
		time.May:       "Май",
		time.June:      "Июнь",
		time.July:      "Июль",
		time.August:    "Август",
		time.September: "Сентябрь",
		time.October:   "Октябрь",
		time.November:  "Ноябрь",
		time.December:  "Декабрь",
	}
	return months[month]
}

// WeekdayShort "Пн".."Вс"
func WeekdayShort(weekday time.Weekday) string {
	return [...]string{"Вс", "Пн", "Вт", "Ср", "Чт", "Пт", "Сб"}[weekday]
}
