package model

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Money сумма в минимальных единицах валюты (сантимы/копейки).
// В JSON бэкенда передаётся как десятичное число: 1250.5 -> 125050.
type Money int64

// MoneyFromFloat переводит десятичную сумму в Money с округлением до сотых
func MoneyFromFloat(v float64) Money {
	return Money(math.Round(v * 100))
}

// ParseMoney разбирает ввод оператора: "1250", "1250.50", "1 250,50"
func ParseMoney(s string) (Money, error) {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, ",", ".")
	if s == "" {
		return 0, fmt.Errorf("empty amount")
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("parse amount %q: %w", s, err)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("invalid amount %q", s)
	}

	return MoneyFromFloat(v), nil
}

// Float десятичное представление суммы
func (m Money) Float() float64 {
	return float64(m) / 100
}

// Mul умножает сумму на целое (ставка * дни)
func (m Money) Mul(n int) Money {
	return m * Money(n)
}

// String сумма с двумя знаками после точки
func (m Money) String() string {
	sign := ""
	v := int64(m)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *Money) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "null" || s == "" {
		*m = 0
		return nil
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("decode money %q: %w", s, err)
	}

	*m = MoneyFromFloat(v)
	return nil
}
