package handlers

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/ad/trustsphere/internal/services"
	"github.com/go-telegram/bot"
	tgmodels "github.com/go-telegram/bot/models"
)

const callbackAdminStats = "admin:stats"

type AdminHandler struct {
	bot          services.BotAPI
	adminID      int64
	statsService *services.StatisticsService
	navigator    *services.ModuleNavigator
}

func NewAdminHandler(b services.BotAPI, adminID int64, statsService *services.StatisticsService, navigator *services.ModuleNavigator) *AdminHandler {
	return &AdminHandler{
		bot:          b,
		adminID:      adminID,
		statsService: statsService,
		navigator:    navigator,
	}
}

func (h *AdminHandler) HandleCommand(ctx context.Context, msg *tgmodels.Message) bool {
	if msg.From == nil || msg.From.ID != h.adminID {
		return false
	}

	switch command(msg.Text) {
	case "/stats":
		h.showStats(ctx, msg.Chat.ID, 0)
		return true
	case "/user":
		h.showUser(ctx, msg.Chat.ID, msg.Text)
		return true
	default:
		return false
	}
}

func (h *AdminHandler) HandleCallback(ctx context.Context, callback *tgmodels.CallbackQuery) bool {
	if callback.From.ID != h.adminID {
		return false
	}

	msg := callback.Message.Message
	if msg == nil {
		return false
	}

	switch callback.Data {
	case callbackAdminStats:
		h.bot.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
			CallbackQueryID: callback.ID,
		})
		h.showStats(ctx, msg.Chat.ID, msg.ID)
	default:
		return false
	}

	return true
}

func (h *AdminHandler) showStats(ctx context.Context, chatID int64, messageID int) {
	text := "❌ Failed to calculate statistics"
	stats, err := h.statsService.Calculate()
	if err != nil {
		log.Printf("[STATS] Calculate error: %v", err)
	} else {
		text = services.FormatStats(stats, h.navigator.Catalog())
	}

	keyboard := &tgmodels.InlineKeyboardMarkup{
		InlineKeyboard: [][]tgmodels.InlineKeyboardButton{
			{{Text: "🔄 Refresh", CallbackData: callbackAdminStats}},
		},
	}
	h.editOrSend(ctx, chatID, messageID, text, keyboard)
}

// showUser answers "/user <id>" with that user's module flags.
func (h *AdminHandler) showUser(ctx context.Context, chatID int64, text string) {
	fields := strings.Fields(text)
	if len(fields) != 2 {
		h.sendMessage(ctx, chatID, "Usage: /user <telegram id>", nil)
		return
	}
	userID, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil {
		h.sendMessage(ctx, chatID, fmt.Sprintf("❌ Invalid user id %q", fields[1]), nil)
		return
	}

	p, err := h.statsService.UserProgress(userID)
	if err != nil {
		log.Printf("[STATS] User %d lookup error: %v", userID, err)
		h.sendMessage(ctx, chatID, fmt.Sprintf("❌ User %d not found", userID), nil)
		return
	}
	h.sendMessage(ctx, chatID, services.FormatUserProgress(p), nil)
}

func (h *AdminHandler) editOrSend(ctx context.Context, chatID int64, messageID int, text string, keyboard *tgmodels.InlineKeyboardMarkup) {
	if messageID > 0 {
		params := &bot.EditMessageTextParams{
			ChatID:    chatID,
			MessageID: messageID,
			Text:      text,
		}
		if keyboard != nil {
			params.ReplyMarkup = keyboard
		}
		_, err := h.bot.EditMessageText(ctx, params)
		if err == nil {
			return
		}
		log.Printf("[ADMIN] EditMessageText error: %v", err)
	}
	h.sendMessage(ctx, chatID, text, keyboard)
}

func (h *AdminHandler) sendMessage(ctx context.Context, chatID int64, text string, keyboard *tgmodels.InlineKeyboardMarkup) {
	params := &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	}
	if keyboard != nil {
		params.ReplyMarkup = keyboard
	}
	if _, err := h.bot.SendMessage(ctx, params); err != nil {
		log.Printf("[ADMIN] SendMessage error: %v", err)
	}
}
