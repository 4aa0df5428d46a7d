package api

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/rental_desk/internal/model"
)

// ListReservations все бронирования (бэкенд отдаёт полный список)
func (c *Client) ListReservations(ctx context.Context) ([]model.Reservation, error) {
	var reservations []model.Reservation
	if err := c.get(ctx, "/reservations", nil, &reservations); err != nil {
		return nil, fmt.Errorf("list reservations: %w", err)
	}
	if reservations == nil {
		reservations = []model.Reservation{}
	}
	return reservations, nil
}

func (c *Client) GetReservation(ctx context.Context, id string) (*model.Reservation, error) {
	var r model.Reservation
	if err := c.get(ctx, "/reservations/"+escape(id), nil, &r); err != nil {
		return nil, fmt.Errorf("get reservation %s: %w", id, err)
	}
	return &r, nil
}

// CreateReservation стоимость и номер бронирования назначает бэкенд
func (c *Client) CreateReservation(ctx context.Context, input model.ReservationInput) (*model.Reservation, error) {
	if err := checkPayload(input); err != nil {
		return nil, err
	}
	if input.StartDate.IsZero() || input.EndDate.IsZero() {
		return nil, fmt.Errorf("%w: start and end dates are required", ErrInvalidPayload)
	}

	var r model.Reservation
	if err := c.post(ctx, "/reservations", input, &r); err != nil {
		return nil, fmt.Errorf("create reservation: %w", err)
	}
	return &r, nil
}

func (c *Client) UpdateReservation(ctx context.Context, id string, patch model.ReservationPatch) (*model.Reservation, error) {
	var r model.Reservation
	if err := c.put(ctx, "/reservations/"+escape(id), patch, &r); err != nil {
		return nil, fmt.Errorf("update reservation %s: %w", id, err)
	}
	return &r, nil
}

func (c *Client) UpdateReservationStatus(ctx context.Context, id string, update model.StatusUpdate) (*model.Reservation, error) {
	if err := checkPayload(update); err != nil {
		return nil, err
	}

	var r model.Reservation
	if err := c.put(ctx, "/reservations/"+escape(id)+"/status", update, &r); err != nil {
		return nil, fmt.Errorf("update reservation %s status: %w", id, err)
	}
	return &r, nil
}

func (c *Client) DeleteReservation(ctx context.Context, id string) error {
	if err := c.delete(ctx, "/reservations/"+escape(id)); err != nil {
		return fmt.Errorf("delete reservation %s: %w", id, err)
	}
	return nil
}
