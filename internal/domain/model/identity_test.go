package model

import (
	"errors"
	"testing"

	"jobportal-subscription/internal/domain"
)

func TestIdentity_Validate(t *testing.T) {
	cases := []struct {
		name string
		id   Identity
		ok   bool
	}{
		{"by user id", IdentityByUserID("u-1"), true},
		{"by email", IdentityByEmail("X@Y.co"), true},
		{"empty", Identity{}, false},
		{"both set", Identity{UserID: "u-1", Email: "x@y.co"}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.id.Validate()
			if tc.ok && err != nil {
				t.Fatalf("expected valid, got: %v", err)
			}
			if !tc.ok && !errors.Is(err, domain.ErrInvalidArgument) {
				t.Fatalf("expected ErrInvalidArgument, got: %v", err)
			}
		})
	}
}

func TestIdentityByEmail_Normalizes(t *testing.T) {
	id := IdentityByEmail("  Jobs@Example.COM ")
	if id.Email != "jobs@example.com" {
		t.Errorf("expected normalized email, got %q", id.Email)
	}
}
