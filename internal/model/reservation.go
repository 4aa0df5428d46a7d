package model

import (
	"time"

	"github.com/Freeeeeet/rental_desk/internal/daterange"
)

type ReservationStatus string

const (
	ReservationStatusPendingConfirmation ReservationStatus = "pending_confirmation" // Ожидает подтверждения
	ReservationStatusConfirmed           ReservationStatus = "confirmed"            // Подтверждена
	ReservationStatusActive              ReservationStatus = "active"               // Машина у клиента
	ReservationStatusCompleted           ReservationStatus = "completed"            // Машина возвращена
	ReservationStatusCancelledByClient   ReservationStatus = "cancelled_by_client"
	ReservationStatusCancelledByAgency   ReservationStatus = "cancelled_by_agency"
	ReservationStatusNoShow              ReservationStatus = "no_show" // Клиент не пришёл
)

// ReservationStatuses все статусы в порядке жизненного цикла
var ReservationStatuses = []ReservationStatus{
	ReservationStatusPendingConfirmation,
	ReservationStatusConfirmed,
	ReservationStatusActive,
	ReservationStatusCompleted,
	ReservationStatusCancelledByClient,
	ReservationStatusCancelledByAgency,
	ReservationStatusNoShow,
}

var statusLabels = map[ReservationStatus]string{
	ReservationStatusPendingConfirmation: "Ожидает подтверждения",
	ReservationStatusConfirmed:           "Подтверждена",
	ReservationStatusActive:              "Активна",
	ReservationStatusCompleted:           "Завершена",
	ReservationStatusCancelledByClient:   "Отменена клиентом",
	ReservationStatusCancelledByAgency:   "Отменена агентством",
	ReservationStatusNoShow:              "Неявка",
}

// Label название статуса для оператора
func (s ReservationStatus) Label() string {
	if label, ok := statusLabels[s]; ok {
		return label
	}
	return string(s)
}

// Valid проверяет что статус из списка известных
func (s ReservationStatus) Valid() bool {
	for _, known := range ReservationStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// PaymentDetails оплата по бронированию
type PaymentDetails struct {
	AmountPaid       Money           `json:"amountPaid"`
	RemainingBalance Money           `json:"remainingBalance"`
	TransactionDate  *daterange.Date `json:"transactionDate,omitempty"`
}

// CarSummary краткие данные машины, которые бэкенд добавляет к бронированию
type CarSummary struct {
	Make         string `json:"make"`
	Model        string `json:"model"`
	LicensePlate string `json:"licensePlate"`
}

// ClientSummary краткие данные клиента из ответа бэкенда
type ClientSummary struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
}

type Reservation struct {
	ID                 string            `json:"id"`
	ReservationNumber  string            `json:"reservationNumber"`
	CarID              string            `json:"carId"`
	ClientID           string            `json:"clientId"`
	StartDate          daterange.Date    `json:"startDate"`
	EndDate            daterange.Date    `json:"endDate"`
	ActualPickupDate   *time.Time        `json:"actualPickupDate,omitempty"`
	ActualReturnDate   *time.Time        `json:"actualReturnDate,omitempty"`
	Status             ReservationStatus `json:"status"`
	EstimatedTotalCost Money             `json:"estimatedTotalCost"`
	FinalTotalCost     *Money            `json:"finalTotalCost,omitempty"`
	PaymentDetails     PaymentDetails    `json:"paymentDetails"`
	Notes              string            `json:"notes"`

	// Заполняются бэкендом, здесь только читаются
	ReservationDate *time.Time `json:"reservationDate,omitempty"`
	LastModifiedAt  *time.Time `json:"lastModifiedAt,omitempty"`
	CreatedBy       string     `json:"createdBy,omitempty"`
	LastModifiedBy  string     `json:"lastModifiedBy,omitempty"`

	// Дополнительные поля для отображения (не редактируются)
	CarDetails    *CarSummary    `json:"carDetails,omitempty"`
	ClientDetails *ClientSummary `json:"clientDetails,omitempty"`
}

// Period интервал аренды
func (r Reservation) Period() daterange.Range {
	return daterange.Range{From: r.StartDate, To: r.EndDate}
}

// TotalDue итоговая сумма к оплате: финальная если есть, иначе расчётная
func (r Reservation) TotalDue() Money {
	if r.FinalTotalCost != nil {
		return *r.FinalTotalCost
	}
	return r.EstimatedTotalCost
}

// ReservationInput тело запроса на создание бронирования.
// Стоимость не передаётся: бэкенд считает её сам.
type ReservationInput struct {
	CarID          string            `json:"carId" validate:"required"`
	ClientID       string            `json:"clientId" validate:"required"`
	StartDate      daterange.Date    `json:"startDate"`
	EndDate        daterange.Date    `json:"endDate"`
	Status         ReservationStatus `json:"status,omitempty"`
	Notes          string            `json:"notes,omitempty" validate:"max=2000"`
	PaymentDetails *PaymentInput     `json:"paymentDetails,omitempty"`
}

// PaymentInput оплата, которую вводит оператор
type PaymentInput struct {
	AmountPaid      Money           `json:"amountPaid" validate:"gte=0"`
	TransactionDate *daterange.Date `json:"transactionDate,omitempty"`
}

// ReservationPatch частичное обновление бронирования (nil поля не отправляются)
type ReservationPatch struct {
	CarID          *string         `json:"carId,omitempty"`
	ClientID       *string         `json:"clientId,omitempty"`
	StartDate      *daterange.Date `json:"startDate,omitempty"`
	EndDate        *daterange.Date `json:"endDate,omitempty"`
	Notes          *string         `json:"notes,omitempty"`
	PaymentDetails *PaymentInput   `json:"paymentDetails,omitempty"`
}

// StatusUpdate тело запроса смены статуса
type StatusUpdate struct {
	Status           ReservationStatus `json:"status" validate:"required"`
	FinalTotalCost   *Money            `json:"finalTotalCost,omitempty"`
	ActualReturnDate *time.Time        `json:"actualReturnDate,omitempty"`
	PaymentDetails   *PaymentDetails   `json:"paymentDetails,omitempty"`
	CompletionNotes  string            `json:"completionNotes,omitempty"`
}
