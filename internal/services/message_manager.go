package services

import (
	"context"
	"log"

	"github.com/go-telegram/bot"
	tgmodels "github.com/go-telegram/bot/models"
)

type MessageManager struct {
	bot      BotAPI
	errMgr   *ErrorManager
	maxRetry int
}

func NewMessageManager(b BotAPI, errMgr *ErrorManager, maxRetry int) *MessageManager {
	if maxRetry < 1 {
		maxRetry = 1
	}
	return &MessageManager{
		bot:      b,
		errMgr:   errMgr,
		maxRetry: maxRetry,
	}
}

func (m *MessageManager) SendWithRetry(ctx context.Context, params *bot.SendMessageParams) (*tgmodels.Message, error) {
	var lastErr error
	for attempt := 0; attempt < m.maxRetry; attempt++ {
		msg, err := m.bot.SendMessage(ctx, params)
		if err == nil {
			return msg, nil
		}
		lastErr = err
	}
	chatID, _ := params.ChatID.(int64)
	m.errMgr.NotifyAdminWithCurl(ctx, chatID, params, lastErr)
	return nil, lastErr
}

func (m *MessageManager) SendWithRetryAndEffect(ctx context.Context, params *bot.SendMessageParams, effectID string) (*tgmodels.Message, error) {
	if effectID != "" {
		params.MessageEffectID = effectID
	}
	return m.SendWithRetry(ctx, params)
}

// SendHTML sends text with HTML parse mode and an optional keyboard.
func (m *MessageManager) SendHTML(ctx context.Context, chatID int64, text string, keyboard *tgmodels.InlineKeyboardMarkup) (*tgmodels.Message, error) {
	params := &bot.SendMessageParams{
		ChatID:    chatID,
		Text:      text,
		ParseMode: tgmodels.ParseModeHTML,
	}
	if keyboard != nil {
		params.ReplyMarkup = keyboard
	}
	return m.SendWithRetry(ctx, params)
}

// AnswerCallback acknowledges a button press. A non-empty text is shown as
// an alert popup.
func (m *MessageManager) AnswerCallback(ctx context.Context, callbackID, text string) {
	params := &bot.AnswerCallbackQueryParams{
		CallbackQueryID: callbackID,
	}
	if text != "" {
		params.Text = text
		params.ShowAlert = true
	}
	if _, err := m.bot.AnswerCallbackQuery(ctx, params); err != nil {
		log.Printf("[MESSAGE] AnswerCallbackQuery error: %v", err)
	}
}
