package model

type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
)

// User учётная запись сотрудника на бэкенде (admin или manager)
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
	FullName string `json:"fullName"`
	IsActive *bool  `json:"isActive,omitempty"`
}

// Active считает учётку активной если бэкенд не сказал обратного
func (u User) Active() bool {
	return u.IsActive == nil || *u.IsActive
}

// Credentials логин и пароль для /auth/login
type Credentials struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}
