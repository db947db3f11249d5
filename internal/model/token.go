package model

import "time"

// TokenManager signs and verifies bearer credentials.
type TokenManager interface {
	Generate(userID int64, username string) (string, error)
	Parse(token string) (Claims, error)
}

// Claims is the verified content of a credential. Claims must never be used
// when Parse returned an error.
type Claims struct {
	UserID   int64
	Username string
	IssuedAt time.Time
}
