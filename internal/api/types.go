package api

import "time"

// Session is a terminal session as reported by the server.
type Session struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Command   string    `json:"command"`
	Cwd       string    `json:"cwd"`
	Cols      int       `json:"cols"`
	Rows      int       `json:"rows"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Status    string    `json:"status"`
	Active    bool      `json:"active"`
	Clients   int       `json:"clients"`
}

// Session status values as reported by the server.
const (
	StatusRunning = "running"
	StatusExited  = "exited"
)

// IsRunning reports whether the session's process is still alive.
func (s Session) IsRunning() bool {
	return s.Status == StatusRunning
}

// DisplayTitle returns the title, falling back to the command when the
// session was created without one.
func (s Session) DisplayTitle() string {
	if s.Title != "" {
		return s.Title
	}
	return s.Command
}

// CreateSessionRequest is the body for POST /api/sessions.
type CreateSessionRequest struct {
	Command []string `json:"command,omitempty"`
	Cwd     string   `json:"cwd,omitempty"`
	Title   string   `json:"title,omitempty"`
	Cols    int      `json:"cols,omitempty"`
	Rows    int      `json:"rows,omitempty"`
}

// User is the authenticated user returned by login and current-user.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// LoginResponse is the body returned by POST /api/auth/login.
type LoginResponse struct {
	Success bool   `json:"success"`
	Token   string `json:"token"`
	User    User   `json:"user"`
}

// CleanupResponse is the body returned by POST /api/cleanup-exited.
type CleanupResponse struct {
	Message string `json:"message"`
	Count   int    `json:"count"`
}
