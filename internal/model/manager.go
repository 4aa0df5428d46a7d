package model

import "time"

type Manager struct {
	ID        string     `json:"id"`
	Username  string     `json:"username"`
	FullName  string     `json:"fullName"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
}

// ManagerInput создание менеджера (пароль обязателен)
type ManagerInput struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	FullName string `json:"fullName" validate:"required,max=100"`
	Password string `json:"password" validate:"required,min=8"`
}

// ManagerPatch частичное обновление менеджера
type ManagerPatch struct {
	Username *string `json:"username,omitempty" validate:"omitempty,min=3,max=50"`
	FullName *string `json:"fullName,omitempty" validate:"omitempty,max=100"`
	Password *string `json:"password,omitempty" validate:"omitempty,min=8"`
}
