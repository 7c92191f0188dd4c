package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ad/trustsphere/internal/catalog"
	"github.com/ad/trustsphere/internal/config"
	"github.com/ad/trustsphere/internal/db"
	"github.com/ad/trustsphere/internal/handlers"
	"github.com/ad/trustsphere/internal/services"
	"github.com/go-telegram/bot"
	tgmodels "github.com/go-telegram/bot/models"
	_ "github.com/joho/godotenv/autoload"
	_ "modernc.org/sqlite"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	modules, err := catalog.Load()
	if err != nil {
		log.Fatalf("Failed to load module catalog: %v", err)
	}

	sqlDB, err := sql.Open("sqlite", cfg.DSN())
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer sqlDB.Close()

	if err := db.InitSchema(sqlDB); err != nil {
		log.Fatalf("Failed to initialize schema: %v", err)
	}

	dbQueue := db.NewDBQueue(sqlDB)
	defer dbQueue.Close()

	userRepo := db.NewUserRepository(dbQueue)
	settingsRepo := db.NewSettingsRepository(dbQueue)
	progressRepo := db.NewProgressRepository(db.NewLocalStorageRepository(dbQueue))

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	b, err := bot.New(cfg.BotToken, bot.WithHTTPClient(cfg.HTTPTimeout/2, httpClient))
	if err != nil {
		log.Fatalf("Failed to create bot: %v", err)
	}

	botInfo, err := getMeWithRetry(b, 3)
	if err != nil {
		log.Fatalf("Failed to get bot info after 3 attempts: %v", err)
	}

	errorManager := services.NewErrorManager(b, cfg.AdminID)
	msgManager := services.NewMessageManager(b, errorManager, cfg.SendRetries)
	navigator := services.NewModuleNavigator(modules, progressRepo, settingsRepo)
	statsService := services.NewStatisticsService(userRepo, progressRepo)

	handler := handlers.NewBotHandler(
		b,
		cfg.AdminID,
		errorManager,
		msgManager,
		navigator,
		statsService,
		userRepo,
		settingsRepo,
	)

	b.RegisterHandlerMatchFunc(func(update *tgmodels.Update) bool {
		return true
	}, handler.HandleUpdate, logMiddleware)

	log.Printf("Bot @%s started. Admin ID: %d, DB: %s", botInfo.Username, cfg.AdminID, cfg.DBPath)

	b.Start(ctx)
}

func getMeWithRetry(b *bot.Bot, attempts int) (*tgmodels.User, error) {
	var lastErr error
	for i := 0; i < attempts; i++ {
		log.Printf("Attempting to connect to Telegram API (attempt %d/%d)...", i+1, attempts)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		botInfo, err := b.GetMe(ctx)
		cancel()
		if err == nil {
			return botInfo, nil
		}
		lastErr = err
		log.Printf("Failed to get bot info (attempt %d/%d): %v", i+1, attempts, err)
		if i < attempts-1 {
			time.Sleep(2 * time.Second)
		}
	}
	return nil, lastErr
}

func formatUser(u tgmodels.User) string {
	name := u.FirstName
	if u.LastName != "" {
		name += " " + u.LastName
	}
	if u.Username != "" {
		name += " @" + u.Username
	}
	return fmt.Sprintf("%s [%d]", name, u.ID)
}

func logMiddleware(next bot.HandlerFunc) bot.HandlerFunc {
	return func(ctx context.Context, b *bot.Bot, update *tgmodels.Update) {
		if update.Message != nil && update.Message.From != nil {
			log.Printf("[MSG] from=%s text=%q", formatUser(*update.Message.From), update.Message.Text)
		}
		if update.CallbackQuery != nil {
			log.Printf("[CALLBACK] from=%s data=%q", formatUser(update.CallbackQuery.From), update.CallbackQuery.Data)
		}
		next(ctx, b, update)
	}
}
