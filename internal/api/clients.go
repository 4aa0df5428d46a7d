package api

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/rental_desk/internal/model"
)

func (c *Client) ListClients(ctx context.Context) ([]model.Client, error) {
	var clients []model.Client
	if err := c.get(ctx, "/clients", nil, &clients); err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	return clients, nil
}

func (c *Client) GetClient(ctx context.Context, id string) (*model.Client, error) {
	var client model.Client
	if err := c.get(ctx, "/clients/"+escape(id), nil, &client); err != nil {
		return nil, fmt.Errorf("get client %s: %w", id, err)
	}
	return &client, nil
}

func (c *Client) CreateClient(ctx context.Context, input model.ClientInput) (*model.Client, error) {
	if err := checkPayload(input); err != nil {
		return nil, err
	}

	var client model.Client
	if err := c.post(ctx, "/clients", input, &client); err != nil {
		return nil, fmt.Errorf("create client: %w", err)
	}
	return &client, nil
}

func (c *Client) UpdateClient(ctx context.Context, id string, input model.ClientInput) (*model.Client, error) {
	if err := checkPayload(input); err != nil {
		return nil, err
	}

	var client model.Client
	if err := c.put(ctx, "/clients/"+escape(id), input, &client); err != nil {
		return nil, fmt.Errorf("update client %s: %w", id, err)
	}
	return &client, nil
}

func (c *Client) DeleteClient(ctx context.Context, id string) error {
	if err := c.delete(ctx, "/clients/"+escape(id)); err != nil {
		return fmt.Errorf("delete client %s: %w", id, err)
	}
	return nil
}
