package model

import "time"

type CarStatus string

const (
	CarStatusAvailable    CarStatus = "available"
	CarStatusRented       CarStatus = "rented"
	CarStatusMaintenance  CarStatus = "maintenance"
	CarStatusOutOfService CarStatus = "out_of_service"
)

// CarStatuses все статусы машины в порядке показа
var CarStatuses = []CarStatus{
	CarStatusAvailable,
	CarStatusRented,
	CarStatusMaintenance,
	CarStatusOutOfService,
}

type Car struct {
	ID           string     `json:"id"`
	Make         string     `json:"make"`
	Model        string     `json:"model"`
	Year         int        `json:"year"`
	LicensePlate string     `json:"licensePlate"`
	VIN          string     `json:"vin"`
	Color        string     `json:"color,omitempty"`
	Status       CarStatus  `json:"status"`
	DailyRate    Money      `json:"dailyRate"`
	Description  string     `json:"description,omitempty"`
	ImageURL     string     `json:"imageUrl,omitempty"`
	AddedAt      *time.Time `json:"addedAt,omitempty"`
	UpdatedAt    *time.Time `json:"updatedAt,omitempty"`
}

// Title "Toyota Yaris (WW-123-AB)"
func (c Car) Title() string {
	return c.Make + " " + c.Model + " (" + c.LicensePlate + ")"
}

// CarInput тело запроса создания/обновления машины
type CarInput struct {
	Make         string    `json:"make" validate:"required,max=60"`
	Model        string    `json:"model" validate:"required,max=60"`
	Year         int       `json:"year" validate:"gte=1950,lte=2100"`
	LicensePlate string    `json:"licensePlate" validate:"required,max=20"`
	VIN          string    `json:"vin" validate:"required,len=17"`
	Color        string    `json:"color,omitempty"`
	Status       CarStatus `json:"status" validate:"required,oneof=available rented maintenance out_of_service"`
	DailyRate    Money     `json:"dailyRate" validate:"gt=0"`
	Description  string    `json:"description,omitempty" validate:"max=1000"`
}

// Input текущие поля машины как тело запроса обновления
func (c Car) Input() CarInput {
	return CarInput{
		Make:         c.Make,
		Model:        c.Model,
		Year:         c.Year,
		LicensePlate: c.LicensePlate,
		VIN:          c.VIN,
		Color:        c.Color,
		Status:       c.Status,
		DailyRate:    c.DailyRate,
		Description:  c.Description,
	}
}
