package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// PersonalLocation is a private, named point saved by a user (home, work, ...).
type PersonalLocation struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Name      string    `json:"name"`
	Location  []float64 `json:"location"`
	CreatedAt time.Time `json:"created_at"`
}

type CreatePersonalLocationRequest struct {
	Name     string    `json:"name" validate:"required,min=1,max=100"`
	Location []float64 `json:"location" validate:"required,len=2,lat,lng"`
}

func (r *CreatePersonalLocationRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
}
