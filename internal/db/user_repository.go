package db

import (
	"database/sql"

	"github.com/ad/trustsphere/internal/models"
)

type UserRepository struct {
	queue *DBQueue
}

func NewUserRepository(queue *DBQueue) *UserRepository {
	return &UserRepository{queue: queue}
}

func (r *UserRepository) CreateOrUpdate(user *models.User) error {
	_, err := r.queue.Execute(func(db *sql.DB) (interface{}, error) {
		_, err := db.Exec(`
			INSERT INTO users (id, first_name, last_name, username, language_code)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				first_name = excluded.first_name,
				last_name = excluded.last_name,
				username = excluded.username,
				language_code = excluded.language_code
		`, user.ID, user.FirstName, user.LastName, user.Username, user.LanguageCode)
		return nil, err
	})
	return err
}

func (r *UserRepository) GetByID(id int64) (*models.User, error) {
	return Query(r.queue, func(db *sql.DB) (*models.User, error) {
		row := db.QueryRow(`
			SELECT id, first_name, last_name, username, language_code, created_at
			FROM users WHERE id = ?
		`, id)
		return scanUser(row)
	})
}

func (r *UserRepository) GetAll() ([]*models.User, error) {
	return Query(r.queue, func(db *sql.DB) ([]*models.User, error) {
		rows, err := db.Query(`
			SELECT id, first_name, last_name, username, language_code, created_at
			FROM users ORDER BY created_at, id
		`)
		if err != nil {
			return nil, err
		}
		defer rows.Close()

		var users []*models.User
		for rows.Next() {
			user, err := scanUser(rows)
			if err != nil {
				return nil, err
			}
			users = append(users, user)
		}
		return users, rows.Err()
	})
}

func (r *UserRepository) Count() (int, error) {
	return Query(r.queue, func(db *sql.DB) (int, error) {
		var count int
		err := db.QueryRow(`SELECT COUNT(*) FROM users`).Scan(&count)
		return count, err
	})
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*models.User, error) {
	var user models.User
	var firstName, lastName, username, languageCode sql.NullString
	if err := row.Scan(&user.ID, &firstName, &lastName, &username, &languageCode, &user.StartedAt); err != nil {
		return nil, err
	}
	user.FirstName = firstName.String
	user.LastName = lastName.String
	user.Username = username.String
	user.LanguageCode = languageCode.String
	return &user, nil
}
