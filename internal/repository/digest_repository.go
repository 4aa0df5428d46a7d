package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/rental_desk/internal/daterange"
	"github.com/Freeeeeet/rental_desk/internal/repository/base"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DigestRepository журнал отправленных дайджестов, чтобы после перезапуска
// не отправить один и тот же день повторно
type DigestRepository struct {
	*base.Repository
}

func NewDigestRepository(pool *pgxpool.Pool) *DigestRepository {
	return &DigestRepository{Repository: base.NewRepository(pool)}
}

// MarkSent отмечает отправку; false если за этот день уже отправляли
func (r *DigestRepository) MarkSent(ctx context.Context, telegramID int64, day daterange.Date, pickups, returns int) (bool, error) {
	var inserted bool

	err := r.InTx(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			INSERT INTO digest_deliveries (telegram_id, digest_date, pickups, returns)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (telegram_id, digest_date) DO NOTHING
		`, telegramID, day.Time(), pickups, returns)
		if err != nil {
			return err
		}
		inserted = tag.RowsAffected() == 1

		// Старые записи больше не нужны
		_, err = tx.Exec(ctx, `
			DELETE FROM digest_deliveries
			WHERE telegram_id = $1 AND digest_date < $2
		`, telegramID, day.AddDays(-30).Time())
		return err
	})
	if err != nil {
		return false, fmt.Errorf("mark digest sent: %w", err)
	}

	return inserted, nil
}

// Unmark снимает отметку, если отправка в Telegram не удалась
func (r *DigestRepository) Unmark(ctx context.Context, telegramID int64, day daterange.Date) error {
	_, err := r.ExecAffected(ctx, `
		DELETE FROM digest_deliveries WHERE telegram_id = $1 AND digest_date = $2
	`, telegramID, day.Time())
	if err != nil {
		return fmt.Errorf("unmark digest: %w", err)
	}
	return nil
}
