package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/Freeeeeet/rental_desk/internal/model"
)

func (c *Client) AdminStats(ctx context.Context) (*model.AdminStats, error) {
	var stats model.AdminStats
	if err := c.get(ctx, "/admin/stats", nil, &stats); err != nil {
		return nil, fmt.Errorf("admin stats: %w", err)
	}
	return &stats, nil
}

func (c *Client) ManagerStats(ctx context.Context) (*model.ManagerStats, error) {
	var stats model.ManagerStats
	if err := c.get(ctx, "/manager/dashboard/stats", nil, &stats); err != nil {
		return nil, fmt.Errorf("manager stats: %w", err)
	}
	return &stats, nil
}

func (c *Client) RecentClients(ctx context.Context, limit int) ([]model.RecentClient, error) {
	var clients []model.RecentClient
	if err := c.get(ctx, "/manager/dashboard/recent-clients", limitQuery(limit), &clients); err != nil {
		return nil, fmt.Errorf("recent clients: %w", err)
	}
	return clients, nil
}

func (c *Client) RecentReservations(ctx context.Context, limit int) ([]model.RecentReservation, error) {
	var reservations []model.RecentReservation
	if err := c.get(ctx, "/manager/dashboard/recent-reservations", limitQuery(limit), &reservations); err != nil {
		return nil, fmt.Errorf("recent reservations: %w", err)
	}
	return reservations, nil
}

func limitQuery(limit int) url.Values {
	if limit <= 0 {
		return nil
	}
	return url.Values{"limit": []string{strconv.Itoa(limit)}}
}
