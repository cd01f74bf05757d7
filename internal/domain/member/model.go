package member

import (
	"fmt"
	"strings"
)

// Member is a group participant. Identity is owned by the account service;
// this service only reads it.
type Member struct {
	ID          int64
	GroupID     int64
	DisplayName string
	Email       string
}

// ResolveName returns the label shown on leaderboards. Falls back to the
// local part of the email address, then to a synthetic "User {id}" label.
func (m Member) ResolveName() string {
	if name := strings.TrimSpace(m.DisplayName); name != "" {
		return name
	}
	if local := emailLocalPart(m.Email); local != "" {
		return local
	}
	return fmt.Sprintf("User %d", m.ID)
}

func emailLocalPart(email string) string {
	email = strings.TrimSpace(email)
	at := strings.IndexByte(email, '@')
	if at <= 0 {
		return ""
	}
	return email[:at]
}
