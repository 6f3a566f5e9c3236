package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// BroadcastAll is the broadcast target that addresses every registered user.
const BroadcastAll = "all"

type Notification struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

type BroadcastRequest struct {
	UserID  string `json:"userId" validate:"required"`
	Title   string `json:"title" validate:"required,min=1,max=200"`
	Message string `json:"message" validate:"required,min=1,max=1000"`
}

type BroadcastResult struct {
	Message    string `json:"message"`
	Recipients int    `json:"recipients"`
}

// NotificationEvent is published on the message bus once a notification is stored.
type NotificationEvent struct {
	NotificationID uuid.UUID `json:"notification_id"`
	UserID         uuid.UUID `json:"user_id"`
	Title          string    `json:"title"`
	Message        string    `json:"message"`
	CreatedAt      time.Time `json:"created_at"`
}

func (r *BroadcastRequest) Normalize() {
	r.UserID = strings.TrimSpace(r.UserID)
	r.Title = strings.TrimSpace(r.Title)
	r.Message = strings.TrimSpace(r.Message)
}
