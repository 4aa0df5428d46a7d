package common

import (
	"bytes"
	"context"
	"errors"

	"github.com/Freeeeeet/rental_desk/internal/api"
	"github.com/Freeeeeet/rental_desk/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/rental_desk/internal/model"
	"github.com/Freeeeeet/rental_desk/internal/session"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// HandlerContext содержит общие данные для обработки callback
type HandlerContext struct {
	Ctx        context.Context
	Bot        *bot.Bot
	Callback   *models.CallbackQuery
	Handler    *callbacktypes.Handler
	Message    *models.Message
	Session    *session.Session
	User       *model.User
	TelegramID int64
	ChatID     int64
}

// NewHandlerContext создаёт новый контекст обработчика
func NewHandlerContext(
	ctx context.Context,
	b *bot.Bot,
	callback *models.CallbackQuery,
	h *callbacktypes.Handler,
) *HandlerContext {
	msg := GetMessageFromCallback(callback)
	var chatID int64
	if msg != nil {
		chatID = msg.Chat.ID
	}

	return &HandlerContext{
		Ctx:        ctx,
		Bot:        b,
		Callback:   callback,
		Handler:    h,
		Message:    msg,
		TelegramID: callback.From.ID,
		ChatID:     chatID,
	}
}

// LoadSession достаёт сессию оператора (восстанавливает из базы при первом обращении)
func (hc *HandlerContext) LoadSession() error {
	if hc.Session != nil {
		return nil
	}
	if hc.ChatID == 0 {
		return ErrNoMessage
	}

	sess, err := hc.Handler.AuthService.Session(hc.Ctx, hc.TelegramID, hc.ChatID)
	if err != nil {
		return err
	}
	hc.Session = sess
	return nil
}

// Require проверяет вход и роль оператора
func (hc *HandlerContext) Require(role model.Role) error {
	if err := hc.LoadSession(); err != nil {
		return err
	}

	user, err := hc.Session.Require(role)
	if err != nil {
		return err
	}
	hc.User = user
	return nil
}

// Fail логирует ошибку и показывает её оператору.
// На 401 локальная сессия сбрасывается.
func (hc *HandlerContext) Fail(err error, operation string) {
	hc.Handler.Logger.Error("Operation failed",
		zap.String("operation", operation),
		zap.Int64("telegram_id", hc.TelegramID),
		zap.Error(err))

	if hc.Session != nil && errors.Is(err, api.ErrUnauthorized) {
		hc.Handler.AuthService.Expire(hc.Ctx, hc.Session, err)
		hc.ClearState()
	}
	hc.AnswerAlert(ErrorMessage(err))
}

// Answer отвечает на callback query
func (hc *HandlerContext) Answer(text string) {
	AnswerCallback(hc.Ctx, hc.Bot, hc.Callback.ID, text)
}

// AnswerAlert отвечает на callback query с alert
func (hc *HandlerContext) AnswerAlert(text string) {
	AnswerCallbackAlert(hc.Ctx, hc.Bot, hc.Callback.ID, text)
}

// EditMessage редактирует сообщение
func (hc *HandlerContext) EditMessage(text string, keyboard *models.InlineKeyboardMarkup) error {
	if hc.Message == nil {
		return ErrNoMessage
	}

	_, err := hc.Bot.EditMessageText(hc.Ctx, &bot.EditMessageTextParams{
		ChatID:      hc.ChatID,
		MessageID:   hc.Message.ID,
		Text:        text,
		ParseMode:   models.ParseModeHTML,
		ReplyMarkup: keyboard,
	})

	if IsMessageNotModifiedError(err) {
		return nil
	}

	return err
}

// Show заменяет текущее сообщение экраном.
// Сообщение с картинкой нельзя превратить в текст, поэтому оно пересылается заново.
func (hc *HandlerContext) Show(screen Screen) error {
	if hc.Message != nil && len(hc.Message.Photo) > 0 {
		if err := hc.SendMessage(screen.Text, screen.Keyboard); err != nil {
			return err
		}
		if err := hc.DeleteMessage(); err != nil {
			hc.Handler.Logger.Warn("Failed to delete photo message", zap.Error(err))
		}
		return nil
	}
	return hc.EditMessage(screen.Text, screen.Keyboard)
}

// DeleteMessage удаляет сообщение
func (hc *HandlerContext) DeleteMessage() error {
	if hc.Message == nil {
		return ErrNoMessage
	}

	_, err := hc.Bot.DeleteMessage(hc.Ctx, &bot.DeleteMessageParams{
		ChatID:    hc.ChatID,
		MessageID: hc.Message.ID,
	})

	return err
}

// SendMessage отправляет новое сообщение
func (hc *HandlerContext) SendMessage(text string, keyboard *models.InlineKeyboardMarkup) error {
	params := &bot.SendMessageParams{
		ChatID:    hc.ChatID,
		Text:      text,
		ParseMode: models.ParseModeHTML,
	}
	if keyboard != nil {
		params.ReplyMarkup = keyboard
	}

	_, err := hc.Bot.SendMessage(hc.Ctx, params)
	return err
}

// SendPhoto отправляет PNG с подписью и кнопками
func (hc *HandlerContext) SendPhoto(png []byte, filename, caption string, keyboard *models.InlineKeyboardMarkup) error {
	params := &bot.SendPhotoParams{
		ChatID:    hc.ChatID,
		Photo:     &models.InputFileUpload{Filename: filename, Data: bytes.NewReader(png)},
		Caption:   caption,
		ParseMode: models.ParseModeHTML,
	}
	if keyboard != nil {
		params.ReplyMarkup = keyboard
	}

	_, err := hc.Bot.SendPhoto(hc.Ctx, params)
	return err
}

// ClearState очищает состояние диалога
func (hc *HandlerContext) ClearState() {
	hc.Handler.StateManager.ClearState(hc.TelegramID)
}

// StartDialog начинает текстовый диалог с начальными данными
func (hc *HandlerContext) StartDialog(state callbacktypes.UserState, data map[string]interface{}) {
	hc.Handler.StateManager.Start(hc.TelegramID, state, data)
}

// SetState устанавливает состояние диалога
func (hc *HandlerContext) SetState(state callbacktypes.UserState) {
	hc.Handler.StateManager.SetState(hc.TelegramID, state)
}

// SetData устанавливает данные в state
func (hc *HandlerContext) SetData(key string, value interface{}) {
	hc.Handler.StateManager.SetData(hc.TelegramID, key, value)
}

// GetString строка из данных диалога
func (hc *HandlerContext) GetString(key string) (string, bool) {
	value, ok := hc.Handler.StateManager.GetData(hc.TelegramID, key)
	if !ok {
		return "", false
	}
	s, ok := value.(string)
	return s, ok
}
