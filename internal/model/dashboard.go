package model

import "time"

// ManagerStats счётчики для панели менеджера
type ManagerStats struct {
	TotalCars           int   `json:"totalCars"`
	AvailableCars       int   `json:"availableCars"`
	RentedCars          int   `json:"rentedCars"`
	MaintenanceCars     int   `json:"maintenanceCars"`
	TotalClients        int   `json:"totalClients"`
	ActiveReservations  int   `json:"activeReservations"`
	PendingReservations int   `json:"pendingReservations"`
	MonthlyRevenue      Money `json:"monthlyRevenue"`
}

// AdminStats счётчики для панели администратора
type AdminStats struct {
	TotalManagers    int `json:"totalManagers"`
	TotalSystemUsers int `json:"totalSystemUsers"`
}

// RecentClient строка "новые клиенты"
type RecentClient struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Email        string     `json:"email,omitempty"`
	RegisteredAt *time.Time `json:"registeredAt,omitempty"`
}

// RecentReservation строка "последние бронирования"
type RecentReservation struct {
	ID         string            `json:"id"`
	ClientName string            `json:"clientName"`
	CarModel   string            `json:"carModel"`
	StartDate  string            `json:"startDate"`
	Status     ReservationStatus `json:"status"`
}

// ActivityEntry событие из журнала для панели администратора
type ActivityEntry struct {
	ID      string    `json:"id"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
	Action  string    `json:"action"`
	Status  string    `json:"status,omitempty"`
}
