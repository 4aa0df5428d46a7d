package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/Freeeeeet/rental_desk/internal/model"
)

const DefaultAuditPerPage = 20

// AuditFilter фильтры журнала; пустые поля не передаются
type AuditFilter struct {
	UserUsername string
	Action       string
	EntityType   string
	StartDate    string
	EndDate      string
}

func (f AuditFilter) values(q url.Values) {
	set := func(key, value string) {
		if value != "" {
			q.Set(key, value)
		}
	}
	set("userUsername", f.UserUsername)
	set("action", f.Action)
	set("entityType", f.EntityType)
	set("startDate", f.StartDate)
	set("endDate", f.EndDate)
}

// ListAuditLogs страница журнала аудита (нумерация с 1)
func (c *Client) ListAuditLogs(ctx context.Context, page, perPage int, filter AuditFilter) (*model.AuditLogPage, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = DefaultAuditPerPage
	}

	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("per_page", strconv.Itoa(perPage))
	filter.values(q)

	var result model.AuditLogPage
	if err := c.get(ctx, "/audit-logs/", q, &result); err != nil {
		return nil, fmt.Errorf("list audit logs page %d: %w", page, err)
	}
	return &result, nil
}
