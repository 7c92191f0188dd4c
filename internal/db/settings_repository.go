package db

import (
	"database/sql"

	"github.com/ad/trustsphere/internal/models"
)

type SettingsRepository struct {
	queue *DBQueue
}

func NewSettingsRepository(queue *DBQueue) *SettingsRepository {
	return &SettingsRepository{queue: queue}
}

func (r *SettingsRepository) Get(key string) (string, error) {
	return Query(r.queue, func(db *sql.DB) (string, error) {
		var value string
		err := db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
		return value, err
	})
}

func (r *SettingsRepository) Set(key, value string) error {
	_, err := r.queue.Execute(func(db *sql.DB) (interface{}, error) {
		_, err := db.Exec(`
			INSERT INTO settings (key, value) VALUES (?, ?)
			ON CONFLICT(key) DO UPDATE SET value = excluded.value
		`, key, value)
		return nil, err
	})
	return err
}

func (r *SettingsRepository) GetAll() (*models.Settings, error) {
	return Query(r.queue, func(db *sql.DB) (*models.Settings, error) {
		rows, err := db.Query(`SELECT key, value FROM settings`)
		if err != nil {
			return nil, err
		}
		defer rows.Close()

		settings := &models.Settings{}
		for rows.Next() {
			var key, value string
			if err := rows.Scan(&key, &value); err != nil {
				return nil, err
			}
			switch key {
			case "welcome_message":
				settings.WelcomeMessage = value
			case "final_message":
				settings.FinalMessage = value
			case "locked_message":
				settings.LockedMessage = value
			}
		}
		return settings, rows.Err()
	})
}
