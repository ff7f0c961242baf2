package domain

import (
	"time"

	"github.com/google/uuid"
)

type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

type Notification struct {
	ID       uuid.UUID `json:"id"`
	UserID   string    `json:"user_id"`
	Message  string    `json:"message"`
	Severity Severity  `json:"severity"`
	Read     bool      `json:"read"`

	CreatedAt time.Time `json:"created_at"`
}
