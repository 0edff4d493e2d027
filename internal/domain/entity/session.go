package entity

import "time"

type Credentials struct {
	Username string
	Password string
	PIN      string
}

type Session struct {
	ID        string            `json:"session_id"`
	Username  string            `json:"username"`
	URL       string            `json:"url"`
	StartedAt time.Time         `json:"started_at"`
	Challenge *ChallengeOutcome `json:"challenge,omitempty"`
}
