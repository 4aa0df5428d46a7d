package api

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/rental_desk/internal/model"
)

// Управление менеджерами доступно только администратору

func (c *Client) ListManagers(ctx context.Context) ([]model.Manager, error) {
	var managers []model.Manager
	if err := c.get(ctx, "/managers", nil, &managers); err != nil {
		return nil, fmt.Errorf("list managers: %w", err)
	}
	return managers, nil
}

func (c *Client) CreateManager(ctx context.Context, input model.ManagerInput) (*model.Manager, error) {
	if err := checkPayload(input); err != nil {
		return nil, err
	}

	var m model.Manager
	if err := c.post(ctx, "/managers", input, &m); err != nil {
		return nil, fmt.Errorf("create manager: %w", err)
	}
	return &m, nil
}

func (c *Client) UpdateManager(ctx context.Context, id string, patch model.ManagerPatch) (*model.Manager, error) {
	if err := checkPayload(patch); err != nil {
		return nil, err
	}

	var m model.Manager
	if err := c.put(ctx, "/managers/"+escape(id), patch, &m); err != nil {
		return nil, fmt.Errorf("update manager %s: %w", id, err)
	}
	return &m, nil
}

func (c *Client) DeleteManager(ctx context.Context, id string) error {
	if err := c.delete(ctx, "/managers/"+escape(id)); err != nil {
		return fmt.Errorf("delete manager %s: %w", id, err)
	}
	return nil
}
