package model

import "time"

type AuditLog struct {
	ID           string                 `json:"id"`
	Timestamp    time.Time              `json:"timestamp"`
	Action       string                 `json:"action"`
	EntityType   string                 `json:"entityType,omitempty"`
	EntityID     string                 `json:"entityId,omitempty"`
	Status       string                 `json:"status,omitempty"`
	UserID       string                 `json:"userId,omitempty"`
	UserUsername string                 `json:"userUsername,omitempty"`
	Details      map[string]interface{} `json:"details,omitempty"`
}

// AuditLogPage страница журнала аудита
type AuditLogPage struct {
	Logs       []AuditLog `json:"logs"`
	Page       int        `json:"page"`
	PerPage    int        `json:"per_page"`
	Total      int        `json:"total"`
	TotalPages int        `json:"totalPages"`
}

// Actor кто совершил действие
func (l AuditLog) Actor() string {
	if l.UserUsername != "" {
		return l.UserUsername
	}
	if l.UserID != "" {
		return l.UserID
	}
	return "System"
}
