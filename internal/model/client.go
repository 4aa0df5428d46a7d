package model

import "time"

type Client struct {
	ID                  string     `json:"id"`
	FirstName           string     `json:"firstName"`
	LastName            string     `json:"lastName"`
	Email               string     `json:"email"`
	Phone               string     `json:"phone"`
	DriverLicenseNumber string     `json:"driverLicenseNumber"`
	RegisteredAt        *time.Time `json:"registeredAt,omitempty"`
}

// FullName имя и фамилия клиента
func (c Client) FullName() string {
	return c.FirstName + " " + c.LastName
}

// ClientInput тело запроса создания/обновления клиента
type ClientInput struct {
	FirstName           string `json:"firstName" validate:"required,max=60"`
	LastName            string `json:"lastName" validate:"required,max=60"`
	Email               string `json:"email" validate:"required,email"`
	Phone               string `json:"phone" validate:"required,min=6,max=20"`
	DriverLicenseNumber string `json:"driverLicenseNumber" validate:"required,max=30"`
}

func (c Client) Input() ClientInput {
	return ClientInput{
		FirstName:           c.FirstName,
		LastName:            c.LastName,
		Email:               c.Email,
		Phone:               c.Phone,
		DriverLicenseNumber: c.DriverLicenseNumber,
	}
}
