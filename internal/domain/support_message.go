package domain

import "time"

// SupportMessage is a write-only message from a signed-in user to the
// administrators. The category is embedded as an upper-cased prefix in the
// subject line.
type SupportMessage struct {
	ID        string
	UserID    string
	UserEmail string
	UserName  string
	Subject   string
	Body      string
	CreatedAt time.Time
}
