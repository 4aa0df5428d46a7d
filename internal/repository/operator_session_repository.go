package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Freeeeeet/rental_desk/internal/model"
	"github.com/Freeeeeet/rental_desk/internal/repository/base"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// OperatorSessionRepository cookie сессий операторов между перезапусками бота
type OperatorSessionRepository struct {
	*base.Repository
}

func NewOperatorSessionRepository(pool *pgxpool.Pool) *OperatorSessionRepository {
	return &OperatorSessionRepository{Repository: base.NewRepository(pool)}
}

const operatorSessionColumns = `telegram_id, chat_id, user_id, username, role, full_name, cookies, created_at, updated_at`

// Get сессия по Telegram ID, nil если её нет
func (r *OperatorSessionRepository) Get(ctx context.Context, telegramID int64) (*model.OperatorSession, error) {
	query := `SELECT ` + operatorSessionColumns + ` FROM operator_sessions WHERE telegram_id = $1`

	s, err := scanOperatorSession(r.QueryRow(ctx, query, telegramID))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get operator session: %w", err)
	}

	return s, nil
}

// Save создаёт или обновляет сессию
func (r *OperatorSessionRepository) Save(ctx context.Context, s *model.OperatorSession) error {
	cookies, err := json.Marshal(s.Cookies)
	if err != nil {
		return fmt.Errorf("encode cookies: %w", err)
	}

	var userID, username, role, fullName *string
	if s.User != nil {
		userID, username, fullName = &s.User.ID, &s.User.Username, &s.User.FullName
		roleValue := string(s.User.Role)
		role = &roleValue
	}

	createdAt := s.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	query := `
		INSERT INTO operator_sessions (telegram_id, chat_id, user_id, username, role, full_name, cookies, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
		ON CONFLICT (telegram_id) DO UPDATE
		SET chat_id = EXCLUDED.chat_id,
		    user_id = EXCLUDED.user_id,
		    username = EXCLUDED.username,
		    role = EXCLUDED.role,
		    full_name = EXCLUDED.full_name,
		    cookies = EXCLUDED.cookies,
		    updated_at = NOW()
		RETURNING updated_at
	`

	err = r.QueryRow(ctx, query,
		s.TelegramID,
		s.ChatID,
		userID,
		username,
		role,
		fullName,
		cookies,
		createdAt,
	).Scan(&s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("save operator session: %w", err)
	}

	return nil
}

// Delete удаляет сессию (выход или протухшие cookie)
func (r *OperatorSessionRepository) Delete(ctx context.Context, telegramID int64) error {
	if _, err := r.ExecAffected(ctx, `DELETE FROM operator_sessions WHERE telegram_id = $1`, telegramID); err != nil {
		return fmt.Errorf("delete operator session: %w", err)
	}
	return nil
}

// ListActive сессии с пользователем
func (r *OperatorSessionRepository) ListActive(ctx context.Context) ([]model.OperatorSession, error) {
	query := `SELECT ` + operatorSessionColumns + ` FROM operator_sessions WHERE user_id IS NOT NULL ORDER BY telegram_id`

	rows, err := r.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list operator sessions: %w", err)
	}
	defer rows.Close()

	var sessions []model.OperatorSession
	for rows.Next() {
		s, err := scanOperatorSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scan operator session: %w", err)
		}
		sessions = append(sessions, *s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate operator sessions: %w", err)
	}

	return sessions, nil
}

func scanOperatorSession(row pgx.Row) (*model.OperatorSession, error) {
	var (
		s                                model.OperatorSession
		userID, username, role, fullName *string
		cookies                          []byte
	)

	err := row.Scan(
		&s.TelegramID,
		&s.ChatID,
		&userID,
		&username,
		&role,
		&fullName,
		&cookies,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if userID != nil {
		s.User = &model.User{ID: *userID}
		if username != nil {
			s.User.Username = *username
		}
		if role != nil {
			s.User.Role = model.Role(*role)
		}
		if fullName != nil {
			s.User.FullName = *fullName
		}
	}

	if len(cookies) > 0 {
		if err := json.Unmarshal(cookies, &s.Cookies); err != nil {
			return nil, fmt.Errorf("decode cookies: %w", err)
		}
	}

	return &s, nil
}
