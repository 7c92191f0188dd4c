package models

import (
	"fmt"
	"strings"
	"time"
)

// User is a Telegram account that opened the bot. Its ID is also the
// storage origin for its progress record.
type User struct {
	ID           int64
	FirstName    string
	LastName     string
	Username     string
	LanguageCode string
	StartedAt    time.Time
}

func (u *User) DisplayName() string {
	var parts []string
	if name := strings.TrimSpace(u.FirstName + " " + u.LastName); name != "" {
		parts = append(parts, name)
	}
	if u.Username != "" {
		parts = append(parts, "@"+u.Username)
	}
	parts = append(parts, fmt.Sprintf("[%d]", u.ID))
	return strings.Join(parts, " ")
}
