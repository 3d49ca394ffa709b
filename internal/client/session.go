package client

import (
	"time"
)

// SessionTTL mirrors the server's default token lifetime.
const SessionTTL = 8 * time.Hour

// Session is the identity the terminal client keeps between commands.
type Session struct {
	Token     string    `json:"token"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	LoginTime time.Time `json:"loginTime"`
}

// Valid reports whether the session has a token and is younger than SessionTTL.
func (s *Session) Valid(now time.Time) bool {
	if s == nil || s.Token == "" {
		return false
	}
	return now.Sub(s.LoginTime) < SessionTTL
}

func (s *Session) AuthHeader() string {
	return "Bearer " + s.Token
}
