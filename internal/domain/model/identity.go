package model

import (
	"strings"

	"jobportal-subscription/internal/domain"
)

// Identity is a tagged union over the two ways callers address a subscriber:
// by internal user id or by bare email. Exactly one leg is set.
type Identity struct {
	UserID string
	Email  string
}

func IdentityByUserID(id string) Identity { return Identity{UserID: id} }

func IdentityByEmail(email string) Identity {
	return Identity{Email: strings.ToLower(strings.TrimSpace(email))}
}

func (i Identity) IsZero() bool { return i.UserID == "" && i.Email == "" }

// Validate rejects empty and double-set identities.
func (i Identity) Validate() error {
	if i.IsZero() {
		return domain.ErrInvalidArgument
	}
	if i.UserID != "" && i.Email != "" {
		return domain.ErrInvalidArgument
	}
	return nil
}
