package models

import "time"

// Session is the server-side authentication context for one logged-in user.
// The session_cookie carries the bound user id; the row here is what actually
// authenticates a request, and it stops matching once expires_at has passed.
type Session struct {
	ID        string
	UserID    string
	CreatedAt time.Time
	ExpiresAt time.Time
}
