package auth

import (
	"strings"

	"chatkit/errors"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Credentials is a register/login request after trimming.
type Credentials struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

// ValidateCredentials checks shape only; password policy is the identity
// backend's concern, this layer merely refuses blanks and non-emails.
func ValidateCredentials(c Credentials) error {
	if err := validate.Struct(c); err != nil {
		return errors.ErrFieldsRequired
	}
	return nil
}

// AllowedDomain reports whether the email's domain is in the allow-list.
// An empty allow-list admits every domain.
func AllowedDomain(email string, domains []string) bool {
	if len(domains) == 0 {
		return true
	}
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return false
	}
	domain := email[at+1:]
	for _, allowed := range domains {
		if strings.EqualFold(domain, allowed) {
			return true
		}
	}
	return false
}
