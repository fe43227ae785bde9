package session

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidProfile is returned when a profile is missing its name or email.
var ErrInvalidProfile = errors.New("invalid profile")

// Profile is the signed-in user's profile as returned by the authentication API.
// It is persisted without the bearer token.
type Profile struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"isAdmin"`
}

// Validate reports ErrInvalidProfile when name or email is blank.
func (p Profile) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidProfile)
	}
	if strings.TrimSpace(p.Email) == "" {
		return fmt.Errorf("%w: email is required", ErrInvalidProfile)
	}
	return nil
}
