package daterange

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Layout формат календарной даты в API и в сообщениях
const Layout = "2006-01-02"

const secondsPerDay = 24 * 60 * 60

var (
	ErrInvalidDate  = errors.New("invalid date")
	ErrInvalidRange = errors.New("end date is before start date")
)

// Date календарный день без времени (хранится как полночь UTC)
type Date struct {
	t time.Time
}

// NewDate создаёт дату из года, месяца и дня
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// FromTime берёт календарный день из времени в его собственной локации
func FromTime(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

// Today возвращает сегодняшнюю дату в указанной локации
func Today(loc *time.Location) Date {
	if loc == nil {
		loc = time.UTC
	}
	return FromTime(time.Now().In(loc))
}

// Parse разбирает "2006-01-02" или RFC3339 (берётся только дата)
func Parse(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Date{}, fmt.Errorf("%w: empty value", ErrInvalidDate)
	}

	if t, err := time.Parse(Layout, s); err == nil {
		return FromTime(t), nil
	}

	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return FromTime(t), nil
	}

	// Бэкенд иногда отдаёт время без зоны
	if t, err := time.Parse("2006-01-02T15:04:05", s); err == nil {
		return FromTime(t), nil
	}

	return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
}

// MustParse используется в тестах и константах
func MustParse(s string) Date {
	d, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return d
}

// IsZero true для неинициализированной даты
func (d Date) IsZero() bool {
	return d.t.IsZero()
}

// Time возвращает полночь UTC этого дня
func (d Date) Time() time.Time {
	return d.t
}

func (d Date) Year() int         { return d.t.Year() }
func (d Date) Month() time.Month { return d.t.Month() }
func (d Date) Day() int          { return d.t.Day() }

// Weekday день недели
func (d Date) Weekday() time.Weekday {
	return d.t.Weekday()
}

// Before строго раньше
func (d Date) Before(o Date) bool {
	return d.t.Before(o.t)
}

// After строго позже
func (d Date) After(o Date) bool {
	return d.t.After(o.t)
}

// Equal тот же календарный день
func (d Date) Equal(o Date) bool {
	return d.t.Equal(o.t)
}

// AddDays сдвигает дату на n дней
func (d Date) AddDays(n int) Date {
	return Date{t: d.t.AddDate(0, 0, n)}
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.t.Format(Layout)
}

// MarshalJSON пишет дату в формате "2006-01-02", пустая дата -> null
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON принимает дату, RFC3339 или null
func (d *Date) UnmarshalJSON(data []byte) error {
	s := string(data)
	if s == "null" || s == `""` {
		*d = Date{}
		return nil
	}

	parsed, err := Parse(strings.Trim(s, `"`))
	if err != nil {
		return err
	}

	*d = parsed
	return nil
}

// DaysInclusive количество календарных дней от start до end включительно.
// Аренда на один день (start == end) считается как 1 день.
func DaysInclusive(start, end Date) (int, error) {
	if end.Before(start) {
		return 0, fmt.Errorf("%w: %s > %s", ErrInvalidRange, start, end)
	}

	// Обе даты полночь UTC. Duration ограничен ~292 годами, поэтому считаем в секундах
	days := int((end.t.Unix()-start.t.Unix())/secondsPerDay) + 1
	return days, nil
}

// Range закрытый интервал дат [From, To]
type Range struct {
	From Date `json:"from"`
	To   Date `json:"to"`
}

// NewRange проверяет что To не раньше From
func NewRange(from, to Date) (Range, error) {
	if to.Before(from) {
		return Range{}, fmt.Errorf("%w: %s > %s", ErrInvalidRange, from, to)
	}
	return Range{From: from, To: to}, nil
}

// Days длина интервала в днях включительно
func (r Range) Days() int {
	days, err := DaysInclusive(r.From, r.To)
	if err != nil {
		return 0
	}
	return days
}

// Contains попадает ли день в интервал (границы включены)
func (r Range) Contains(d Date) bool {
	return !d.Before(r.From) && !d.After(r.To)
}

func (r Range) String() string {
	return r.From.String() + " .. " + r.To.String()
}

// Overlaps проверяет пересечение закрытых интервалов.
// Касание границ тоже пересечение: машина не может быть в двух местах в один день,
// поэтому аренда до D и аренда с D конфликтуют.
func Overlaps(a, b Range) bool {
	return !a.To.Before(b.From) && !b.To.Before(a.From)
}
