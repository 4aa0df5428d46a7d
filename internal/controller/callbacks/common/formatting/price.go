package formatting

import (
	"strings"

	"github.com/Freeeeeet/rental_desk/internal/model"
)

// Currency валюта агентства
const Currency = "MAD"

// FormatMoney "1 250.00 MAD"
func FormatMoney(m model.Money) string {
	return groupThousands(m.String()) + " " + Currency
}

// FormatRate "250.00 MAD/день"
func FormatRate(m model.Money) string {
	return FormatMoney(m) + "/день"
}

// groupThousands разделяет целую часть пробелами: 1250000.00 -> 1 250 000.00
func groupThousands(s string) string {
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}

	whole, frac, _ := strings.Cut(s, ".")
	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}

	out := sign + b.String()
	if frac != "" {
		out += "." + frac
	}
	return out
}
