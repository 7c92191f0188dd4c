package handlers

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/ad/trustsphere/internal/db"
	"github.com/ad/trustsphere/internal/models"
	"github.com/ad/trustsphere/internal/services"
	"github.com/go-telegram/bot"
	tgmodels "github.com/go-telegram/bot/models"
)

const (
	effectCelebrate = "5046509860389126442" // 🎉

	defaultWelcomeMessage = "🛡️ Welcome to TrustSphere!"
	defaultFinalMessage   = "🎉 You completed all three TrustSphere modules!"
)

type BotHandler struct {
	bot          services.BotAPI
	adminID      int64
	errorManager *services.ErrorManager
	msgManager   *services.MessageManager
	navigator    *services.ModuleNavigator
	userRepo     *db.UserRepository
	settingsRepo *db.SettingsRepository
	adminHandler *AdminHandler
}

func NewBotHandler(
	b services.BotAPI,
	adminID int64,
	errorManager *services.ErrorManager,
	msgManager *services.MessageManager,
	navigator *services.ModuleNavigator,
	statsService *services.StatisticsService,
	userRepo *db.UserRepository,
	settingsRepo *db.SettingsRepository,
) *BotHandler {
	return &BotHandler{
		bot:          b,
		adminID:      adminID,
		errorManager: errorManager,
		msgManager:   msgManager,
		navigator:    navigator,
		userRepo:     userRepo,
		settingsRepo: settingsRepo,
		adminHandler: NewAdminHandler(b, adminID, statsService, navigator),
	}
}

func (h *BotHandler) HandleUpdate(ctx context.Context, _ *bot.Bot, update *tgmodels.Update) {
	defer h.recoverPanic(ctx, update)

	if update.Message != nil {
		h.handleMessage(ctx, update.Message)
	} else if update.CallbackQuery != nil {
		h.handleCallback(ctx, update.CallbackQuery)
	}
}

func (h *BotHandler) recoverPanic(ctx context.Context, update *tgmodels.Update) {
	if r := recover(); r != nil {
		log.Printf("[HANDLER] Recovered panic: %v", r)
		h.errorManager.NotifyAdmin(ctx, r, update)
	}
}

func (h *BotHandler) handleMessage(ctx context.Context, msg *tgmodels.Message) {
	if msg.From == nil {
		return
	}

	if msg.From.ID == h.adminID && h.adminHandler.HandleCommand(ctx, msg) {
		return
	}

	switch command(msg.Text) {
	case "/start":
		h.handleStart(ctx, msg)
	case "/menu":
		h.sendMenu(ctx, msg.Chat.ID, msg.From.ID)
	case "/progress":
		h.sendProgress(ctx, msg.Chat.ID, msg.From.ID)
	default:
		h.msgManager.SendWithRetry(ctx, &bot.SendMessageParams{
			ChatID: msg.Chat.ID,
			Text:   "Use /menu to pick a module or /progress to see how far you are.",
		})
	}
}

func (h *BotHandler) handleCallback(ctx context.Context, callback *tgmodels.CallbackQuery) {
	data := callback.Data

	switch {
	case data == callbackMenu:
		h.msgManager.AnswerCallback(ctx, callback.ID, "")
		h.sendMenu(ctx, callback.From.ID, callback.From.ID)
	case strings.HasPrefix(data, callbackModulePrefix):
		h.handleModuleCallback(ctx, callback)
	case strings.HasPrefix(data, callbackActionPrefix):
		h.handleActionCallback(ctx, callback)
	case callback.From.ID == h.adminID && h.adminHandler.HandleCallback(ctx, callback):
	default:
		h.msgManager.AnswerCallback(ctx, callback.ID, "")
	}
}

func (h *BotHandler) handleStart(ctx context.Context, msg *tgmodels.Message) {
	user := &models.User{
		ID:           msg.From.ID,
		FirstName:    msg.From.FirstName,
		LastName:     msg.From.LastName,
		Username:     msg.From.Username,
		LanguageCode: msg.From.LanguageCode,
	}

	if err := h.userRepo.CreateOrUpdate(user); err != nil {
		log.Printf("[HANDLER] Failed to register user %s: %v", user.DisplayName(), err)
	}

	settings := h.loadSettings()
	welcome := defaultWelcomeMessage
	if settings.WelcomeMessage != "" {
		welcome = settings.WelcomeMessage
	}
	h.msgManager.SendWithRetry(ctx, &bot.SendMessageParams{
		ChatID: msg.Chat.ID,
		Text:   welcome,
	})

	h.sendMenu(ctx, msg.Chat.ID, user.ID)
}

func (h *BotHandler) handleModuleCallback(ctx context.Context, callback *tgmodels.CallbackQuery) {
	userID := callback.From.ID

	moduleID, err := parseModuleCallback(callback.Data)
	if err != nil {
		log.Printf("[HANDLER] Bad module callback from %d: %v", userID, err)
		h.msgManager.AnswerCallback(ctx, callback.ID, "")
		return
	}

	result, err := h.navigator.Enter(userID, moduleID)
	if err != nil {
		log.Printf("[HANDLER] Enter module %d for %d: %v", moduleID, userID, err)
		h.msgManager.AnswerCallback(ctx, callback.ID, "")
		return
	}
	if !result.Allowed {
		h.msgManager.AnswerCallback(ctx, callback.ID, result.Advisory)
		return
	}

	h.msgManager.AnswerCallback(ctx, callback.ID, "")
	h.msgManager.SendHTML(ctx, userID, services.FormatModuleIntro(result.Module), moduleKeyboard(result.Module))
}

func (h *BotHandler) handleActionCallback(ctx context.Context, callback *tgmodels.CallbackQuery) {
	userID := callback.From.ID

	moduleID, actionID, err := parseActionCallback(callback.Data)
	if err != nil {
		log.Printf("[HANDLER] Bad action callback from %d: %v", userID, err)
		h.msgManager.AnswerCallback(ctx, callback.ID, "")
		return
	}

	result, err := h.navigator.Perform(userID, moduleID, actionID)
	if err != nil {
		log.Printf("[HANDLER] Perform %s in module %d for %d: %v", actionID, moduleID, userID, err)
		h.msgManager.AnswerCallback(ctx, callback.ID, "")
		return
	}
	if !result.Allowed {
		h.msgManager.AnswerCallback(ctx, callback.ID, result.Advisory)
		return
	}

	h.msgManager.AnswerCallback(ctx, callback.ID, "")

	if !result.Action.Completes {
		h.msgManager.SendHTML(ctx, userID, services.FormatActionResponse(result.Action), moduleKeyboard(result.Module))
		return
	}

	h.msgManager.SendHTML(ctx, userID, services.FormatActionResponse(result.Action), nil)

	if result.Record.AllComplete() {
		h.sendFinal(ctx, userID)
		return
	}
	if result.Completed {
		h.msgManager.SendHTML(ctx, userID,
			fmt.Sprintf("✅ %s\n%s", services.FormatBold(fmt.Sprintf("Module %d complete!", moduleID)), progressBar(result.Record)),
			nil)
	}
	h.sendMenu(ctx, userID, userID)
}

func (h *BotHandler) sendMenu(ctx context.Context, chatID, userID int64) {
	entries := h.navigator.Menu(userID)
	h.msgManager.SendHTML(ctx, chatID, services.FormatMenu(entries), menuKeyboard(entries))
}

func (h *BotHandler) sendProgress(ctx context.Context, chatID, userID int64) {
	record := h.navigator.Record(userID)
	text := services.SafeConcat(
		services.FormatProgress(record, h.navigator.Catalog()),
		"\n\n",
		progressBar(record),
	)
	h.msgManager.SendHTML(ctx, chatID, text, menuButtonKeyboard())
}

func (h *BotHandler) sendFinal(ctx context.Context, chatID int64) {
	settings := h.loadSettings()
	final := defaultFinalMessage
	if settings.FinalMessage != "" {
		final = settings.FinalMessage
	}
	h.msgManager.SendWithRetryAndEffect(ctx, &bot.SendMessageParams{
		ChatID:      chatID,
		Text:        final,
		ReplyMarkup: menuButtonKeyboard(),
	}, effectCelebrate)
}

func (h *BotHandler) loadSettings() *models.Settings {
	settings, err := h.settingsRepo.GetAll()
	if err != nil || settings == nil {
		log.Printf("[HANDLER] Failed to load settings, using defaults: %v", err)
		return &models.Settings{}
	}
	return settings
}

func progressBar(record models.ProgressRecord) string {
	const width = 12
	filled := record.CompletedCount() * width / len(models.AllModules)
	return strings.Repeat("▰", filled) + strings.Repeat("▱", width-filled)
}

// command returns the bot command in text without arguments or @botname.
func command(text string) string {
	fields := strings.Fields(text)
	if len(fields) == 0 || !strings.HasPrefix(fields[0], "/") {
		return ""
	}
	cmd, _, _ := strings.Cut(fields[0], "@")
	return cmd
}
