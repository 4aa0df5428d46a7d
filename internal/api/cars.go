package api

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/rental_desk/internal/model"
)

func (c *Client) ListCars(ctx context.Context) ([]model.Car, error) {
	var cars []model.Car
	if err := c.get(ctx, "/cars", nil, &cars); err != nil {
		return nil, fmt.Errorf("list cars: %w", err)
	}
	return cars, nil
}

func (c *Client) GetCar(ctx context.Context, id string) (*model.Car, error) {
	var car model.Car
	if err := c.get(ctx, "/cars/"+escape(id), nil, &car); err != nil {
		return nil, fmt.Errorf("get car %s: %w", id, err)
	}
	return &car, nil
}

func (c *Client) CreateCar(ctx context.Context, input model.CarInput) (*model.Car, error) {
	if err := checkPayload(input); err != nil {
		return nil, err
	}

	var car model.Car
	if err := c.post(ctx, "/cars", input, &car); err != nil {
		return nil, fmt.Errorf("create car: %w", err)
	}
	return &car, nil
}

func (c *Client) UpdateCar(ctx context.Context, id string, input model.CarInput) (*model.Car, error) {
	if err := checkPayload(input); err != nil {
		return nil, err
	}

	var car model.Car
	if err := c.put(ctx, "/cars/"+escape(id), input, &car); err != nil {
		return nil, fmt.Errorf("update car %s: %w", id, err)
	}
	return &car, nil
}

func (c *Client) DeleteCar(ctx context.Context, id string) error {
	if err := c.delete(ctx, "/cars/"+escape(id)); err != nil {
		return fmt.Errorf("delete car %s: %w", id, err)
	}
	return nil
}
