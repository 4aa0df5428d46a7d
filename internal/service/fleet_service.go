package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/Freeeeeet/rental_desk/internal/model"
	"github.com/Freeeeeet/rental_desk/internal/reservation"
	"github.com/Freeeeeet/rental_desk/internal/session"
	"go.uber.org/zap"
)

// ErrHasOpenReservations у машины или клиента есть незавершённые бронирования
var ErrHasOpenReservations = errors.New("has open reservations")

// FleetService машины и клиенты (тонкая обёртка над API)
type FleetService struct {
	logger *zap.Logger
}

func NewFleetService(logger *zap.Logger) *FleetService {
	return &FleetService{logger: logger}
}

// ListCars машины, отсортированные по марке и модели
func (s *FleetService) ListCars(ctx context.Context, sess *session.Session) ([]model.Car, error) {
	if _, err := sess.Require(model.RoleManager); err != nil {
		return nil, err
	}

	cars, err := sess.API().ListCars(ctx)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(cars, func(i, j int) bool {
		return cars[i].Title() < cars[j].Title()
	})
	return cars, nil
}

func (s *FleetService) GetCar(ctx context.Context, sess *session.Session, id string) (*model.Car, error) {
	if _, err := sess.Require(model.RoleManager); err != nil {
		return nil, err
	}
	return sess.API().GetCar(ctx, id)
}

// CreateCar, UpdateCar и DeleteCar только для администратора, как и на бэкенде
func (s *FleetService) CreateCar(ctx context.Context, sess *session.Session, input model.CarInput) (*model.Car, error) {
	if _, err := sess.Require(model.RoleAdmin); err != nil {
		return nil, err
	}

	car, err := sess.API().CreateCar(ctx, input)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Car created", zap.String("car_id", car.ID), zap.String("plate", car.LicensePlate))
	return car, nil
}

func (s *FleetService) UpdateCar(ctx context.Context, sess *session.Session, id string, input model.CarInput) (*model.Car, error) {
	if _, err := sess.Require(model.RoleAdmin); err != nil {
		return nil, err
	}

	car, err := sess.API().UpdateCar(ctx, id, input)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Car updated", zap.String("car_id", car.ID), zap.String("status", string(car.Status)))
	return car, nil
}

// SetCarStatus меняет только статус: остальные поля берутся из текущей карточки
func (s *FleetService) SetCarStatus(ctx context.Context, sess *session.Session, id string, status model.CarStatus) (*model.Car, error) {
	if _, err := sess.Require(model.RoleAdmin); err != nil {
		return nil, err
	}

	car, err := sess.API().GetCar(ctx, id)
	if err != nil {
		return nil, err
	}
	if car.Status == status {
		return car, nil
	}

	input := car.Input()
	input.Status = status
	return s.UpdateCar(ctx, sess, id, input)
}

func (s *FleetService) DeleteCar(ctx context.Context, sess *session.Session, id string) error {
	if _, err := sess.Require(model.RoleAdmin); err != nil {
		return err
	}

	if err := s.checkNoOpenReservations(ctx, sess, func(r model.Reservation) bool { return r.CarID == id }); err != nil {
		return err
	}

	if err := sess.API().DeleteCar(ctx, id); err != nil {
		return err
	}

	s.logger.Info("Car deleted", zap.String("car_id", id))
	return nil
}

func (s *FleetService) ListClients(ctx context.Context, sess *session.Session) ([]model.Client, error) {
	if _, err := sess.Require(model.RoleManager); err != nil {
		return nil, err
	}

	clients, err := sess.API().ListClients(ctx)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(clients, func(i, j int) bool {
		return clients[i].FullName() < clients[j].FullName()
	})
	return clients, nil
}

// SearchClients поиск по имени, email, телефону или номеру прав (без учёта регистра)
func (s *FleetService) SearchClients(ctx context.Context, sess *session.Session, query string) ([]model.Client, error) {
	clients, err := s.ListClients(ctx, sess)
	if err != nil {
		return nil, err
	}

	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return clients, nil
	}

	found := make([]model.Client, 0)
	for _, c := range clients {
		haystack := strings.ToLower(strings.Join([]string{c.FullName(), c.Email, c.Phone, c.DriverLicenseNumber}, " "))
		if strings.Contains(haystack, query) {
			found = append(found, c)
		}
	}
	return found, nil
}

func (s *FleetService) GetClient(ctx context.Context, sess *session.Session, id string) (*model.Client, error) {
	if _, err := sess.Require(model.RoleManager); err != nil {
		return nil, err
	}
	return sess.API().GetClient(ctx, id)
}

func (s *FleetService) CreateClient(ctx context.Context, sess *session.Session, input model.ClientInput) (*model.Client, error) {
	if _, err := sess.Require(model.RoleManager); err != nil {
		return nil, err
	}

	client, err := sess.API().CreateClient(ctx, input)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Client created", zap.String("client_id", client.ID))
	return client, nil
}

func (s *FleetService) UpdateClient(ctx context.Context, sess *session.Session, id string, input model.ClientInput) (*model.Client, error) {
	if _, err := sess.Require(model.RoleManager); err != nil {
		return nil, err
	}
	return sess.API().UpdateClient(ctx, id, input)
}

// DeleteClient только для администратора.
// Бэкенд удаляет без проверок, поэтому клиента с незавершённой бронью не трогаем.
func (s *FleetService) DeleteClient(ctx context.Context, sess *session.Session, id string) error {
	if _, err := sess.Require(model.RoleAdmin); err != nil {
		return err
	}

	if err := s.checkNoOpenReservations(ctx, sess, func(r model.Reservation) bool { return r.ClientID == id }); err != nil {
		return err
	}

	if err := sess.API().DeleteClient(ctx, id); err != nil {
		return err
	}

	s.logger.Info("Client deleted", zap.String("client_id", id))
	return nil
}

// checkNoOpenReservations бронирования в нефинальных статусах не дают удалить запись
func (s *FleetService) checkNoOpenReservations(ctx context.Context, sess *session.Session, match func(model.Reservation) bool) error {
	list, err := sess.API().ListReservations(ctx)
	if err != nil {
		return err
	}

	open := 0
	for _, r := range list {
		if match(r) && !reservation.IsTerminal(r.Status) {
			open++
		}
	}
	if open > 0 {
		return fmt.Errorf("%w: %d", ErrHasOpenReservations, open)
	}
	return nil
}

// Lookup справочники машин и клиентов по ID (для экспорта и карточек)
func (s *FleetService) Lookup(ctx context.Context, sess *session.Session) (map[string]model.Car, map[string]model.Client, error) {
	cars, err := s.ListCars(ctx, sess)
	if err != nil {
		return nil, nil, err
	}
	clients, err := s.ListClients(ctx, sess)
	if err != nil {
		return nil, nil, err
	}

	carsByID := make(map[string]model.Car, len(cars))
	for _, c := range cars {
		carsByID[c.ID] = c
	}
	clientsByID := make(map[string]model.Client, len(clients))
	for _, c := range clients {
		clientsByID[c.ID] = c
	}
	return carsByID, clientsByID, nil
}
