package model

import "time"

// StoredCookie cookie сессии бэкенда, сохраняемая между перезапусками бота
type StoredCookie struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// OperatorSession привязка Telegram-пользователя к сессии на бэкенде
type OperatorSession struct {
	TelegramID int64          `json:"telegram_id"`
	ChatID     int64          `json:"chat_id"`
	User       *User          `json:"user"`
	Cookies    []StoredCookie `json:"cookies"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}
