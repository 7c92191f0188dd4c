package db

import (
	"database/sql"
	"errors"
)

// LocalStorageRepository keeps origin-scoped key-value pairs. An origin is
// the Telegram user ID.
type LocalStorageRepository struct {
	queue *DBQueue
}

func NewLocalStorageRepository(queue *DBQueue) *LocalStorageRepository {
	return &LocalStorageRepository{queue: queue}
}

type storedValue struct {
	value string
	found bool
}

func (r *LocalStorageRepository) Get(origin int64, key string) (string, bool, error) {
	result, err := Query(r.queue, func(db *sql.DB) (storedValue, error) {
		var value string
		err := db.QueryRow(`
			SELECT value FROM local_storage WHERE origin = ? AND key = ?
		`, origin, key).Scan(&value)
		if errors.Is(err, sql.ErrNoRows) {
			return storedValue{}, nil
		}
		if err != nil {
			return storedValue{}, err
		}
		return storedValue{value: value, found: true}, nil
	})
	if err != nil {
		return "", false, err
	}
	return result.value, result.found, nil
}

func (r *LocalStorageRepository) Set(origin int64, key, value string) error {
	_, err := r.queue.Execute(func(db *sql.DB) (interface{}, error) {
		_, err := db.Exec(`
			INSERT INTO local_storage (origin, key, value, updated_at)
			VALUES (?, ?, ?, CURRENT_TIMESTAMP)
			ON CONFLICT(origin, key) DO UPDATE SET
				value = excluded.value,
				updated_at = excluded.updated_at
		`, origin, key, value)
		return nil, err
	})
	return err
}

// ListByKey returns the value stored under key for every origin that has one.
func (r *LocalStorageRepository) ListByKey(key string) (map[int64]string, error) {
	return Query(r.queue, func(db *sql.DB) (map[int64]string, error) {
		rows, err := db.Query(`SELECT origin, value FROM local_storage WHERE key = ?`, key)
		if err != nil {
			return nil, err
		}
		defer rows.Close()

		values := make(map[int64]string)
		for rows.Next() {
			var origin int64
			var value string
			if err := rows.Scan(&origin, &value); err != nil {
				return nil, err
			}
			values[origin] = value
		}
		return values, rows.Err()
	})
}

func (r *LocalStorageRepository) ForOrigin(origin int64) *LocalStorage {
	return &LocalStorage{repo: r, origin: origin}
}

// LocalStorage is one origin's view of the repository. It satisfies
// progress.Storage.
type LocalStorage struct {
	repo   *LocalStorageRepository
	origin int64
}

func (s *LocalStorage) Load(key string) (string, bool, error) {
	return s.repo.Get(s.origin, key)
}

func (s *LocalStorage) Save(key, value string) error {
	return s.repo.Set(s.origin, key, value)
}
