package api

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/rental_desk/internal/model"
)

type authResponse struct {
	User *model.User `json:"user"`
}

// Login открывает сессию; cookie сохраняется в jar клиента
func (c *Client) Login(ctx context.Context, creds model.Credentials) (*model.User, error) {
	if err := checkPayload(creds); err != nil {
		return nil, err
	}

	var resp authResponse
	if err := c.post(ctx, "/auth/login", creds, &resp); err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	if resp.User == nil {
		return nil, fmt.Errorf("login: empty user in response")
	}

	return resp.User, nil
}

// Logout закрывает сессию на бэкенде
func (c *Client) Logout(ctx context.Context) error {
	if err := c.post(ctx, "/auth/logout", struct{}{}, nil); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

// Status текущий пользователь сессии, nil если не авторизован
func (c *Client) Status(ctx context.Context) (*model.User, error) {
	var resp authResponse
	if err := c.get(ctx, "/auth/status", nil, &resp); err != nil {
		return nil, fmt.Errorf("auth status: %w", err)
	}
	return resp.User, nil
}
