package handlers

import (
	"bytes"
	"context"
	"fmt"

	"github.com/Freeeeeet/rental_desk/internal/controller/callbacks/common/formatting"
	"github.com/Freeeeeet/rental_desk/internal/export"
	"github.com/Freeeeeet/rental_desk/internal/model"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// HandleExport присылает все бронирования файлом XLSX
func (h *Handlers) HandleExport(ctx context.Context, b *bot.Bot, update *models.Update) {
	sess, _, ok := h.requireSession(ctx, b, update, model.RoleManager)
	if !ok {
		return
	}
	chatID := update.Message.Chat.ID

	list, err := h.reservationService.Refresh(ctx, sess)
	if err != nil {
		h.fail(ctx, b, chatID, sess, err, "refresh_reservations")
		return
	}

	cars, clients, err := h.fleetService.Lookup(ctx, sess)
	if err != nil {
		h.fail(ctx, b, chatID, sess, err, "load_lookup")
		return
	}

	var buf bytes.Buffer
	if err := export.WriteReservations(&buf, list, export.Lookup{Cars: cars, Clients: clients}); err != nil {
		h.fail(ctx, b, chatID, sess, err, "write_xlsx")
		return
	}

	today := h.reservationService.Today()
	_, err = b.SendDocument(ctx, &bot.SendDocumentParams{
		ChatID: chatID,
		Document: &models.InputFileUpload{
			Filename: fmt.Sprintf("reservations_%s.xlsx", today),
			Data:     &buf,
		},
		Caption: fmt.Sprintf("📦 %s на %s", formatting.Reservations(len(list)), formatting.FormatDate(today)),
	})
	if err != nil {
		h.logger.Error("Failed to send export", zap.Int64("chat_id", chatID), zap.Error(err))
		h.sendError(ctx, b, chatID, "❌ Не удалось отправить файл")
		return
	}

	h.logger.Info("Reservations exported",
		zap.Int64("telegram_id", update.Message.From.ID),
		zap.Int("count", len(list)))
}
