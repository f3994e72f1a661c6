package model

import (
	"strings"
	"time"

	"jobportal-subscription/internal/domain"

	"github.com/google/uuid"
)

// User is a job-portal account referenced by the subscription core.
// HasActiveSubscription is a denormalized cache of the entitlement engine's
// output and must be kept in sync on every subscription transition.
type User struct {
	ID                    string
	Email                 string
	FullName              string
	HasActiveSubscription bool
	RegisteredAt          time.Time
	LastActiveAt          time.Time
}

func NewUser(id, email, fullName string) (*User, error) {
	if id == "" {
		id = uuid.NewString()
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, domain.ErrInvalidArgument
	}
	now := time.Now()
	return &User{
		ID:           id,
		Email:        email,
		FullName:     fullName,
		RegisteredAt: now,
		LastActiveAt: now,
	}, nil
}

func (u *User) IsZero() bool { return u == nil || u.ID == "" }
func (u *User) Touch()       { u.LastActiveAt = time.Now() }
