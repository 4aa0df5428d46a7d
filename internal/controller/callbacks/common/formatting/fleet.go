package formatting

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/Freeeeeet/rental_desk/internal/model"
)

// CarCard карточка машины (HTML)
func CarCard(car model.Car, loc *time.Location) string {
	status := GetCarStatusDisplay(car.Status)

	var b strings.Builder
	fmt.Fprintf(&b, "🚗 <b>%s %s</b>, %d\n\n", html.EscapeString(car.Make), html.EscapeString(car.Model), car.Year)
	fmt.Fprintf(&b, "🔖 %s\n", html.EscapeString(car.LicensePlate))
	fmt.Fprintf(&b, "🔢 VIN %s\n", html.EscapeString(car.VIN))
	if car.Color != "" {
		fmt.Fprintf(&b, "🎨 %s\n", html.EscapeString(car.Color))
	}
	fmt.Fprintf(&b, "%s\n", status)
	fmt.Fprintf(&b, "💰 %s\n", FormatRate(car.DailyRate))
	if car.Description != "" {
		fmt.Fprintf(&b, "\n📝 %s\n", html.EscapeString(car.Description))
	}
	if car.UpdatedAt != nil {
		fmt.Fprintf(&b, "\n<i>Изменена %s</i>", FormatDateTime(*car.UpdatedAt, loc))
	}
	return b.String()
}

// ClientCard карточка клиента (HTML)
func ClientCard(c model.Client, loc *time.Location) string {
	var b strings.Builder
	fmt.Fprintf(&b, "👤 <b>%s</b>\n\n", html.EscapeString(c.FullName()))
	fmt.Fprintf(&b, "📧 %s\n", html.EscapeString(c.Email))
	fmt.Fprintf(&b, "📞 %s\n", html.EscapeString(c.Phone))
	fmt.Fprintf(&b, "🪪 %s\n", html.EscapeString(c.DriverLicenseNumber))
	if c.RegisteredAt != nil {
		fmt.Fprintf(&b, "\n<i>Клиент с %s</i>", FormatDateTime(*c.RegisteredAt, loc))
	}
	return b.String()
}
