package services

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/ad/trustsphere/internal/catalog"
	"github.com/ad/trustsphere/internal/db"
	"github.com/go-telegram/bot"
	tgmodels "github.com/go-telegram/bot/models"
	_ "modernc.org/sqlite"
)

type testEnv struct {
	queue        *db.DBQueue
	userRepo     *db.UserRepository
	settingsRepo *db.SettingsRepository
	storageRepo  *db.LocalStorageRepository
	progressRepo *db.ProgressRepository
	catalog      *catalog.Catalog
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	sqlDB, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "services.db"))
	if err != nil {
		t.Fatal(err)
	}
	if err := db.InitSchema(sqlDB); err != nil {
		t.Fatal(err)
	}
	queue := db.NewDBQueueForTest(sqlDB)
	t.Cleanup(func() {
		queue.Close()
		sqlDB.Close()
	})

	c, err := catalog.Load()
	if err != nil {
		t.Fatal(err)
	}

	storageRepo := db.NewLocalStorageRepository(queue)
	return &testEnv{
		queue:        queue,
		userRepo:     db.NewUserRepository(queue),
		settingsRepo: db.NewSettingsRepository(queue),
		storageRepo:  storageRepo,
		progressRepo: db.NewProgressRepository(storageRepo),
		catalog:      c,
	}
}

type fakeBot struct {
	mu        sync.Mutex
	sent      []*bot.SendMessageParams
	answered  []*bot.AnswerCallbackQueryParams
	failSends int
	sendCalls int
}

var errSendFailed = errors.New("telegram unavailable")

func (f *fakeBot) SendMessage(_ context.Context, params *bot.SendMessageParams) (*tgmodels.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sendCalls++
	if f.failSends > 0 {
		f.failSends--
		return nil, errSendFailed
	}
	f.sent = append(f.sent, params)
	return &tgmodels.Message{ID: len(f.sent)}, nil
}

func (f *fakeBot) EditMessageText(_ context.Context, _ *bot.EditMessageTextParams) (*tgmodels.Message, error) {
	return &tgmodels.Message{}, nil
}

func (f *fakeBot) AnswerCallbackQuery(_ context.Context, params *bot.AnswerCallbackQueryParams) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.answered = append(f.answered, params)
	return true, nil
}
