package auth

import (
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/abys-ai/abys-go/internal/chat"
)

// ErrMissingCredentials is returned when the email or password is blank.
var ErrMissingCredentials = errors.New("email and password are required")

// Login performs the local credential check and mints the user record.
// There is no real verification: any non-empty email and password pair is
// accepted, and registering is the same operation under a different label.
// An empty display name defaults to the local part of the email.
func Login(email, password, name string) (*chat.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, ErrMissingCredentials
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = email
		if i := strings.IndexByte(email, '@'); i > 0 {
			name = email[:i]
		}
	}
	return &chat.User{
		ID:    uuid.NewString(),
		Email: email,
		Name:  name,
	}, nil
}
