package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"runtime/debug"
	"unicode/utf8"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

const maxAdminMessageLen = 4000

type ErrorManager struct {
	bot     BotAPI
	adminID int64
}

func NewErrorManager(b BotAPI, adminID int64) *ErrorManager {
	return &ErrorManager{
		bot:     b,
		adminID: adminID,
	}
}

func (e *ErrorManager) NotifyAdmin(ctx context.Context, panicValue interface{}, update *models.Update) {
	msg := fmt.Sprintf("🚨 Panic in handler\nUser: %s\nError: %v\n\nStack trace:\n%s",
		describeUpdateSender(update), panicValue, string(debug.Stack()))
	e.send(ctx, msg)
}

func (e *ErrorManager) NotifyAdminWithCurl(ctx context.Context, chatID int64, request interface{}, err error) {
	msg := fmt.Sprintf("❌ Failed to send message\nUser: [%d]\nError: %v\n\nCurl:\n%s",
		chatID, err, e.buildCurlCommand(request))
	e.send(ctx, msg)
}

func (e *ErrorManager) send(ctx context.Context, msg string) {
	if len(msg) > maxAdminMessageLen {
		msg = truncateAtRune(msg, maxAdminMessageLen) + "\n... (truncated)"
	}
	if e.bot == nil {
		log.Printf("[ERROR] %s", msg)
		return
	}
	if _, err := e.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: e.adminID,
		Text:   msg,
	}); err != nil {
		log.Printf("[ERROR] Failed to notify admin %d: %v\n%s", e.adminID, err, msg)
	}
}

// truncateAtRune cuts s to at most n bytes without splitting a rune.
func truncateAtRune(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

func (e *ErrorManager) buildCurlCommand(request interface{}) string {
	jsonData, err := json.MarshalIndent(request, "", "  ")
	if err != nil {
		return fmt.Sprintf("# Failed to serialize request: %v", err)
	}

	return fmt.Sprintf("curl -X POST 'https://api.telegram.org/bot[BOT_TOKEN]/sendMessage' \\\n  -H 'Content-Type: application/json' \\\n  -d '%s'",
		string(jsonData))
}

func describeUpdateSender(update *models.Update) string {
	if update == nil {
		return "unknown"
	}
	var from *models.User
	switch {
	case update.Message != nil && update.Message.From != nil:
		from = update.Message.From
	case update.CallbackQuery != nil && update.CallbackQuery.From.ID != 0:
		from = &update.CallbackQuery.From
	default:
		return "unknown"
	}

	info := fmt.Sprintf("[%d]", from.ID)
	if from.FirstName != "" {
		info = from.FirstName + " " + info
	}
	if from.Username != "" {
		info = info + " @" + from.Username
	}
	return info
}
