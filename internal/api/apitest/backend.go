// Package apitest поднимает in-memory бэкенд проката на httptest для тестов.
package apitest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"time"

	"github.com/Freeeeeet/rental_desk/internal/daterange"
	"github.com/Freeeeeet/rental_desk/internal/model"
	"github.com/google/uuid"
)

const sessionCookie = "session"

type account struct {
	password string
	user     model.User
}

type rejection struct {
	status  int
	message string
}

// Backend поддельный бэкенд с теми же маршрутами и контрактом ошибок
type Backend struct {
	server *httptest.Server

	mu           sync.Mutex
	accounts     map[string]account
	sessions     map[string]model.User
	reservations []model.Reservation
	cars         []model.Car
	clients      []model.Client
	managers     []model.Manager
	auditLogs    []model.AuditLog
	nextNumber   int
	rejectNext   *rejection
	requestIDs   []string
}

// NewBackend запускает сервер; закрывается через t.Cleanup вызывающего или Close
func NewBackend() *Backend {
	b := &Backend{
		accounts: make(map[string]account),
		sessions: make(map[string]model.User),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/login", b.handleLogin)
	mux.HandleFunc("POST /api/auth/logout", b.handleLogout)
	mux.HandleFunc("GET /api/auth/status", b.handleStatus)

	mux.HandleFunc("GET /api/reservations", b.auth(model.RoleManager, b.handleListReservations))
	mux.HandleFunc("POST /api/reservations", b.auth(model.RoleManager, b.handleCreateReservation))
	mux.HandleFunc("GET /api/reservations/{id}", b.auth(model.RoleManager, b.handleGetReservation))
	mux.HandleFunc("PUT /api/reservations/{id}", b.auth(model.RoleManager, b.handleUpdateReservation))
	mux.HandleFunc("PUT /api/reservations/{id}/status", b.auth(model.RoleManager, b.handleUpdateStatus))
	mux.HandleFunc("DELETE /api/reservations/{id}", b.auth(model.RoleManager, b.handleDeleteReservation))

	mux.HandleFunc("GET /api/cars", b.auth(model.RoleManager, b.handleListCars))
	mux.HandleFunc("GET /api/cars/{id}", b.auth(model.RoleManager, b.handleGetCar))
	mux.HandleFunc("POST /api/cars", b.auth(model.RoleAdmin, b.handleCreateCar))
	mux.HandleFunc("PUT /api/cars/{id}", b.auth(model.RoleAdmin, b.handleUpdateCar))
	mux.HandleFunc("DELETE /api/cars/{id}", b.auth(model.RoleAdmin, b.handleDeleteCar))
	mux.HandleFunc("GET /api/clients", b.auth(model.RoleManager, b.handleListClients))
	mux.HandleFunc("GET /api/clients/{id}", b.auth(model.RoleManager, b.handleGetClient))
	mux.HandleFunc("POST /api/clients", b.auth(model.RoleManager, b.handleCreateClient))
	mux.HandleFunc("PUT /api/clients/{id}", b.auth(model.RoleManager, b.handleUpdateClient))
	mux.HandleFunc("DELETE /api/clients/{id}", b.auth(model.RoleAdmin, b.handleDeleteClient))

	mux.HandleFunc("GET /api/managers", b.auth(model.RoleAdmin, b.handleListManagers))
	mux.HandleFunc("POST /api/managers", b.auth(model.RoleAdmin, b.handleCreateManager))
	mux.HandleFunc("DELETE /api/managers/{id}", b.auth(model.RoleAdmin, b.handleDeleteManager))
	mux.HandleFunc("GET /api/audit-logs/", b.auth(model.RoleAdmin, b.handleAuditLogs))
	mux.HandleFunc("GET /api/admin/stats", b.auth(model.RoleAdmin, b.handleAdminStats))

	mux.HandleFunc("GET /api/manager/dashboard/stats", b.auth(model.RoleManager, b.handleManagerStats))

	b.server = httptest.NewServer(b.middleware(mux))
	return b
}

// URL базовый адрес API, как API_BASE_URL
func (b *Backend) URL() string {
	return b.server.URL + "/api"
}

func (b *Backend) Close() {
	b.server.Close()
}

// AddUser заводит учётную запись
func (b *Backend) AddUser(username, password string, role model.Role) model.User {
	b.mu.Lock()
	defer b.mu.Unlock()

	u := model.User{ID: uuid.NewString(), Username: username, Role: role, FullName: username}
	b.accounts[username] = account{password: password, user: u}
	return u
}

// AddCar добавляет машину в автопарк
func (b *Backend) AddCar(car model.Car) model.Car {
	b.mu.Lock()
	defer b.mu.Unlock()

	if car.ID == "" {
		car.ID = uuid.NewString()
	}
	if car.Status == "" {
		car.Status = model.CarStatusAvailable
	}
	b.cars = append(b.cars, car)
	return car
}

// AddClient добавляет клиента
func (b *Backend) AddClient(client model.Client) model.Client {
	b.mu.Lock()
	defer b.mu.Unlock()

	if client.ID == "" {
		client.ID = uuid.NewString()
	}
	b.clients = append(b.clients, client)
	return client
}

// AddReservation кладёт бронирование как есть (без проверок)
func (b *Backend) AddReservation(r model.Reservation) model.Reservation {
	b.mu.Lock()
	defer b.mu.Unlock()

	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.ReservationNumber == "" {
		r.ReservationNumber = b.nextReservationNumber()
	}
	b.reservations = append(b.reservations, r)
	return r
}

// AddAuditLog добавляет запись в начало журнала (новые первыми)
func (b *Backend) AddAuditLog(log model.AuditLog) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if log.ID == "" {
		log.ID = uuid.NewString()
	}
	if log.Timestamp.IsZero() {
		log.Timestamp = time.Now().UTC()
	}
	b.auditLogs = append([]model.AuditLog{log}, b.auditLogs...)
}

// RejectNext следующий запрос (кроме auth) получит этот ответ
func (b *Backend) RejectNext(status int, message string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.rejectNext = &rejection{status: status, message: message}
}

// Reservations текущее содержимое хранилища
func (b *Backend) Reservations() []model.Reservation {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]model.Reservation, len(b.reservations))
	copy(out, b.reservations)
	return out
}

// RequestIDs значения X-Request-ID всех запросов
func (b *Backend) RequestIDs() []string {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]string, len(b.requestIDs))
	copy(out, b.requestIDs)
	return out
}

func (b *Backend) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.requestIDs = append(b.requestIDs, r.Header.Get("X-Request-ID"))
		reject := b.rejectNext
		if reject != nil && r.URL.Path != "/api/auth/login" && r.URL.Path != "/api/auth/status" {
			b.rejectNext = nil
		} else {
			reject = nil
		}
		b.mu.Unlock()

		if reject != nil {
			writeMessage(w, reject.status, reject.message)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// auth проверяет cookie сессии; admin имеет доступ и к маршрутам менеджера
func (b *Backend) auth(role model.Role, next func(http.ResponseWriter, *http.Request, model.User)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := b.currentUser(r)
		if !ok {
			writeMessage(w, http.StatusUnauthorized, "Authentication required")
			return
		}
		if user.Role != role && user.Role != model.RoleAdmin {
			writeMessage(w, http.StatusForbidden, fmt.Sprintf("Access forbidden: '%s' role required. You have '%s'.", role, user.Role))
			return
		}
		next(w, r, user)
	}
}

func (b *Backend) currentUser(r *http.Request) (model.User, bool) {
	cookie, err := r.Cookie(sessionCookie)
	if err != nil {
		return model.User{}, false
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	user, ok := b.sessions[cookie.Value]
	return user, ok
}

func (b *Backend) handleLogin(w http.ResponseWriter, r *http.Request) {
	var creds model.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil || creds.Username == "" || creds.Password == "" {
		writeMessage(w, http.StatusBadRequest, "Username and password required")
		return
	}

	b.mu.Lock()
	acc, ok := b.accounts[creds.Username]
	if !ok || acc.password != creds.Password {
		b.mu.Unlock()
		writeMessage(w, http.StatusUnauthorized, "Invalid username or password")
		return
	}
	token := uuid.NewString()
	b.sessions[token] = acc.user
	b.mu.Unlock()

	http.SetCookie(w, &http.Cookie{Name: sessionCookie, Value: token, Path: "/", HttpOnly: true})
	writeJSON(w, http.StatusOK, map[string]interface{}{"user": acc.user})
}

func (b *Backend) handleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(sessionCookie); err == nil {
		b.mu.Lock()
		delete(b.sessions, cookie.Value)
		b.mu.Unlock()
	}
	http.SetCookie(w, &http.Cookie{Name: sessionCookie, Value: "", Path: "/", MaxAge: -1})
	writeMessage(w, http.StatusOK, "Logged out successfully")
}

func (b *Backend) handleStatus(w http.ResponseWriter, r *http.Request) {
	user, ok := b.currentUser(r)
	if !ok {
		writeJSON(w, http.StatusOK, map[string]interface{}{"user": nil})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"user": user})
}

func (b *Backend) handleListReservations(w http.ResponseWriter, r *http.Request, _ model.User) {
	writeJSON(w, http.StatusOK, b.Reservations())
}

func (b *Backend) handleGetReservation(w http.ResponseWriter, r *http.Request, _ model.User) {
	b.mu.Lock()
	defer b.mu.Unlock()

	idx := b.reservationIndex(r.PathValue("id"))
	if idx < 0 {
		writeMessage(w, http.StatusNotFound, "Reservation not found.")
		return
	}
	writeJSON(w, http.StatusOK, b.reservations[idx])
}

func (b *Backend) handleCreateReservation(w http.ResponseWriter, r *http.Request, user model.User) {
	var input model.ReservationInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid data type or format.")
		return
	}
	if input.CarID == "" || input.ClientID == "" || input.StartDate.IsZero() || input.EndDate.IsZero() {
		writeMessage(w, http.StatusBadRequest, "Missing required fields: carId, clientId, startDate, endDate")
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	car, ok := b.findCar(input.CarID)
	if !ok {
		writeMessage(w, http.StatusNotFound, "Car not found.")
		return
	}

	days, err := daterange.DaysInclusive(input.StartDate, input.EndDate)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "End date must be after start date.")
		return
	}

	period := daterange.Range{From: input.StartDate, To: input.EndDate}
	for _, existing := range b.reservations {
		if existing.CarID != input.CarID {
			continue
		}
		if existing.Status != model.ReservationStatusConfirmed && existing.Status != model.ReservationStatusActive {
			continue
		}
		if daterange.Overlaps(existing.Period(), period) {
			writeMessage(w, http.StatusConflict, "Car is not available for the selected dates.")
			return
		}
	}

	status := input.Status
	if status == "" {
		status = model.ReservationStatusPendingConfirmation
	}

	estimated := car.DailyRate.Mul(days)
	now := time.Now().UTC()
	res := model.Reservation{
		ID:                 uuid.NewString(),
		ReservationNumber:  b.nextReservationNumber(),
		CarID:              input.CarID,
		ClientID:           input.ClientID,
		StartDate:          input.StartDate,
		EndDate:            input.EndDate,
		Status:             status,
		EstimatedTotalCost: estimated,
		Notes:              input.Notes,
		ReservationDate:    &now,
		LastModifiedAt:     &now,
		CreatedBy:          user.ID,
		LastModifiedBy:     user.ID,
		CarDetails:         &model.CarSummary{Make: car.Make, Model: car.Model, LicensePlate: car.LicensePlate},
	}
	res.PaymentDetails.RemainingBalance = estimated
	if input.PaymentDetails != nil {
		res.PaymentDetails.AmountPaid = input.PaymentDetails.AmountPaid
		res.PaymentDetails.RemainingBalance = estimated - input.PaymentDetails.AmountPaid
		res.PaymentDetails.TransactionDate = input.PaymentDetails.TransactionDate
	}
	if client, ok := b.findClient(input.ClientID); ok {
		res.ClientDetails = &model.ClientSummary{FirstName: client.FirstName, LastName: client.LastName, Email: client.Email}
	}

	b.reservations = append(b.reservations, res)
	writeJSON(w, http.StatusCreated, res)
}

func (b *Backend) handleUpdateReservation(w http.ResponseWriter, r *http.Request, user model.User) {
	var patch model.ReservationPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeMessage(w, http.StatusBadRequest, "No update data provided.")
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	idx := b.reservationIndex(r.PathValue("id"))
	if idx < 0 {
		writeMessage(w, http.StatusNotFound, "Reservation not found.")
		return
	}

	res := b.reservations[idx]
	if patch.CarID != nil {
		res.CarID = *patch.CarID
	}
	if patch.ClientID != nil {
		res.ClientID = *patch.ClientID
	}
	if patch.StartDate != nil {
		res.StartDate = *patch.StartDate
	}
	if patch.EndDate != nil {
		res.EndDate = *patch.EndDate
	}
	if patch.Notes != nil {
		res.Notes = *patch.Notes
	}
	if car, ok := b.findCar(res.CarID); ok {
		if days, err := daterange.DaysInclusive(res.StartDate, res.EndDate); err == nil {
			res.EstimatedTotalCost = car.DailyRate.Mul(days)
		}
	}
	now := time.Now().UTC()
	res.LastModifiedAt = &now
	res.LastModifiedBy = user.ID

	b.reservations[idx] = res
	writeJSON(w, http.StatusOK, res)
}

func (b *Backend) handleUpdateStatus(w http.ResponseWriter, r *http.Request, user model.User) {
	var update model.StatusUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil || !update.Status.Valid() {
		writeMessage(w, http.StatusBadRequest, "Invalid status value.")
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	idx := b.reservationIndex(r.PathValue("id"))
	if idx < 0 {
		writeMessage(w, http.StatusNotFound, "Reservation not found.")
		return
	}

	res := b.reservations[idx]
	res.Status = update.Status
	if update.FinalTotalCost != nil {
		res.FinalTotalCost = update.FinalTotalCost
	}
	if update.ActualReturnDate != nil {
		res.ActualReturnDate = update.ActualReturnDate
	}
	if update.PaymentDetails != nil {
		res.PaymentDetails = *update.PaymentDetails
	}
	if update.Status == model.ReservationStatusActive && res.ActualPickupDate == nil {
		now := time.Now().UTC()
		res.ActualPickupDate = &now
	}
	if update.CompletionNotes != "" {
		res.Notes = update.CompletionNotes
	}
	res.LastModifiedBy = user.ID

	b.reservations[idx] = res
	writeJSON(w, http.StatusOK, res)
}

func (b *Backend) handleDeleteReservation(w http.ResponseWriter, r *http.Request, _ model.User) {
	b.mu.Lock()
	defer b.mu.Unlock()

	idx := b.reservationIndex(r.PathValue("id"))
	if idx < 0 {
		writeMessage(w, http.StatusNotFound, "Reservation not found.")
		return
	}

	b.reservations = append(b.reservations[:idx], b.reservations[idx+1:]...)
	w.WriteHeader(http.StatusNoContent)
}

func (b *Backend) handleListCars(w http.ResponseWriter, r *http.Request, _ model.User) {
	b.mu.Lock()
	defer b.mu.Unlock()
	writeJSON(w, http.StatusOK, b.cars)
}

func (b *Backend) handleGetCar(w http.ResponseWriter, r *http.Request, _ model.User) {
	b.mu.Lock()
	defer b.mu.Unlock()

	car, ok := b.findCar(r.PathValue("id"))
	if !ok {
		writeMessage(w, http.StatusNotFound, "Car not found.")
		return
	}
	writeJSON(w, http.StatusOK, car)
}

func (b *Backend) handleCreateCar(w http.ResponseWriter, r *http.Request, _ model.User) {
	var input model.CarInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid data type or format.")
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	now := time.Now().UTC()
	car := carFromInput(uuid.NewString(), input)
	car.AddedAt = &now
	car.UpdatedAt = &now
	b.cars = append(b.cars, car)
	writeJSON(w, http.StatusCreated, car)
}

func (b *Backend) handleUpdateCar(w http.ResponseWriter, r *http.Request, _ model.User) {
	var input model.CarInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid data type or format.")
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	id := r.PathValue("id")
	for i, c := range b.cars {
		if c.ID != id {
			continue
		}
		// VIN и цвет бэкенд при обновлении не меняет
		now := time.Now().UTC()
		car := carFromInput(id, input)
		car.VIN = c.VIN
		car.Color = c.Color
		car.ImageURL = c.ImageURL
		car.AddedAt = c.AddedAt
		car.UpdatedAt = &now
		b.cars[i] = car
		writeJSON(w, http.StatusOK, car)
		return
	}
	writeMessage(w, http.StatusNotFound, "Car not found.")
}

func (b *Backend) handleDeleteCar(w http.ResponseWriter, r *http.Request, _ model.User) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := r.PathValue("id")
	for i, c := range b.cars {
		if c.ID == id {
			b.cars = append(b.cars[:i], b.cars[i+1:]...)
			w.WriteHeader(http.StatusNoContent)
			return
		}
	}
	writeMessage(w, http.StatusNotFound, "Car not found.")
}

func (b *Backend) handleListClients(w http.ResponseWriter, r *http.Request, _ model.User) {
	b.mu.Lock()
	defer b.mu.Unlock()
	writeJSON(w, http.StatusOK, b.clients)
}

func (b *Backend) handleGetClient(w http.ResponseWriter, r *http.Request, _ model.User) {
	b.mu.Lock()
	defer b.mu.Unlock()

	client, ok := b.findClient(r.PathValue("id"))
	if !ok {
		writeMessage(w, http.StatusNotFound, "Client not found.")
		return
	}
	writeJSON(w, http.StatusOK, client)
}

func (b *Backend) handleCreateClient(w http.ResponseWriter, r *http.Request, _ model.User) {
	var input model.ClientInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid data type or format.")
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.emailTaken(input.Email, "") {
		writeMessage(w, http.StatusConflict, "Client with this email already exists.")
		return
	}

	now := time.Now().UTC()
	client := clientFromInput(uuid.NewString(), input)
	client.RegisteredAt = &now
	b.clients = append(b.clients, client)
	writeJSON(w, http.StatusCreated, client)
}

func (b *Backend) handleUpdateClient(w http.ResponseWriter, r *http.Request, _ model.User) {
	var input model.ClientInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid data type or format.")
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	id := r.PathValue("id")
	for i, c := range b.clients {
		if c.ID != id {
			continue
		}
		if b.emailTaken(input.Email, id) {
			writeMessage(w, http.StatusConflict, "Another client with this email already exists.")
			return
		}

		client := clientFromInput(id, input)
		client.RegisteredAt = c.RegisteredAt
		b.clients[i] = client
		writeJSON(w, http.StatusOK, client)
		return
	}
	writeMessage(w, http.StatusNotFound, "Client not found.")
}

func (b *Backend) handleDeleteClient(w http.ResponseWriter, r *http.Request, _ model.User) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := r.PathValue("id")
	for i, c := range b.clients {
		if c.ID == id {
			b.clients = append(b.clients[:i], b.clients[i+1:]...)
			w.WriteHeader(http.StatusNoContent)
			return
		}
	}
	writeMessage(w, http.StatusNotFound, "Client not found.")
}

func (b *Backend) handleListManagers(w http.ResponseWriter, r *http.Request, _ model.User) {
	b.mu.Lock()
	defer b.mu.Unlock()
	writeJSON(w, http.StatusOK, b.managers)
}

func (b *Backend) handleCreateManager(w http.ResponseWriter, r *http.Request, _ model.User) {
	var input model.ManagerInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid data.")
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if _, exists := b.accounts[input.Username]; exists {
		writeMessage(w, http.StatusConflict, fmt.Sprintf("Username '%s' already exists.", input.Username))
		return
	}

	now := time.Now().UTC()
	m := model.Manager{ID: uuid.NewString(), Username: input.Username, FullName: input.FullName, CreatedAt: &now}
	b.managers = append(b.managers, m)
	b.accounts[input.Username] = account{
		password: input.Password,
		user:     model.User{ID: m.ID, Username: m.Username, Role: model.RoleManager, FullName: m.FullName},
	}
	writeJSON(w, http.StatusCreated, m)
}

func (b *Backend) handleDeleteManager(w http.ResponseWriter, r *http.Request, _ model.User) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := r.PathValue("id")
	for i, m := range b.managers {
		if m.ID == id {
			b.managers = append(b.managers[:i], b.managers[i+1:]...)
			delete(b.accounts, m.Username)
			w.WriteHeader(http.StatusNoContent)
			return
		}
	}
	writeMessage(w, http.StatusNotFound, "Manager not found.")
}

func (b *Backend) handleAuditLogs(w http.ResponseWriter, r *http.Request, _ model.User) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 20
	}
	action := r.URL.Query().Get("action")

	b.mu.Lock()
	defer b.mu.Unlock()

	filtered := make([]model.AuditLog, 0, len(b.auditLogs))
	for _, l := range b.auditLogs {
		if action != "" && l.Action != action {
			continue
		}
		filtered = append(filtered, l)
	}

	total := len(filtered)
	from := (page - 1) * perPage
	to := from + perPage
	if from > total {
		from = total
	}
	if to > total {
		to = total
	}

	writeJSON(w, http.StatusOK, model.AuditLogPage{
		Logs:       filtered[from:to],
		Page:       page,
		PerPage:    perPage,
		Total:      total,
		TotalPages: (total + perPage - 1) / perPage,
	})
}

func (b *Backend) handleAdminStats(w http.ResponseWriter, r *http.Request, _ model.User) {
	b.mu.Lock()
	defer b.mu.Unlock()

	writeJSON(w, http.StatusOK, model.AdminStats{
		TotalManagers:    len(b.managers),
		TotalSystemUsers: len(b.accounts),
	})
}

func (b *Backend) handleManagerStats(w http.ResponseWriter, r *http.Request, _ model.User) {
	b.mu.Lock()
	defer b.mu.Unlock()

	stats := model.ManagerStats{TotalCars: len(b.cars), TotalClients: len(b.clients)}
	for _, c := range b.cars {
		switch c.Status {
		case model.CarStatusAvailable:
			stats.AvailableCars++
		case model.CarStatusRented:
			stats.RentedCars++
		case model.CarStatusMaintenance:
			stats.MaintenanceCars++
		}
	}
	for _, res := range b.reservations {
		switch res.Status {
		case model.ReservationStatusActive:
			stats.ActiveReservations++
		case model.ReservationStatusPendingConfirmation:
			stats.PendingReservations++
		}
	}
	writeJSON(w, http.StatusOK, stats)
}

// вызывается под b.mu
func (b *Backend) nextReservationNumber() string {
	b.nextNumber++
	return fmt.Sprintf("RES-%s-%04d", time.Now().UTC().Format("20060102"), b.nextNumber)
}

// вызывается под b.mu
func (b *Backend) reservationIndex(id string) int {
	for i, r := range b.reservations {
		if r.ID == id {
			return i
		}
	}
	return -1
}

// вызывается под b.mu
func (b *Backend) findCar(id string) (model.Car, bool) {
	for _, c := range b.cars {
		if c.ID == id {
			return c, true
		}
	}
	return model.Car{}, false
}

// вызывается под b.mu
func (b *Backend) findClient(id string) (model.Client, bool) {
	for _, c := range b.clients {
		if c.ID == id {
			return c, true
		}
	}
	return model.Client{}, false
}

// вызывается под b.mu
func (b *Backend) emailTaken(email, exceptID string) bool {
	for _, c := range b.clients {
		if c.ID != exceptID && c.Email == email {
			return true
		}
	}
	return false
}

func carFromInput(id string, in model.CarInput) model.Car {
	return model.Car{
		ID:           id,
		Make:         in.Make,
		Model:        in.Model,
		Year:         in.Year,
		LicensePlate: in.LicensePlate,
		VIN:          in.VIN,
		Color:        in.Color,
		Status:       in.Status,
		DailyRate:    in.DailyRate,
		Description:  in.Description,
	}
}

func clientFromInput(id string, in model.ClientInput) model.Client {
	return model.Client{
		ID:                  id,
		FirstName:           in.FirstName,
		LastName:            in.LastName,
		Email:               in.Email,
		Phone:               in.Phone,
		DriverLicenseNumber: in.DriverLicenseNumber,
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}
