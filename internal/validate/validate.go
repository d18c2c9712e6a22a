// Package validate holds the input rules shared by the API handlers: the
// password policy, email and phone formats, and free-text sanitization.
package validate

import (
	"errors"
	"regexp"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
)

var (
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

	// Accepts international numbers with optional country code, separators
	// and area-code parentheses.
	phonePattern = regexp.MustCompile(`^(\+[0-9]{1,3})?[-.\s]?\(?[0-9]{1,4}\)?[-.\s]?[0-9]{1,4}[-.\s]?[0-9]{1,9}$`)

	specialChars = `!@#$%^&*(),.?":{}|<>`

	// StrictPolicy strips all HTML, leaving escaped plain text.
	sanitizePolicy = bluemonday.StrictPolicy()
)

// Password checks the account password policy. The returned error message is
// shown to the user as-is.
func Password(password string) error {
	if len(password) < 8 {
		return errors.New("Password must be at least 8 characters long")
	}

	var upper, lower, digit, special bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case strings.ContainsRune(specialChars, r):
			special = true
		}
	}

	switch {
	case !upper:
		return errors.New("Password must contain at least one uppercase letter")
	case !lower:
		return errors.New("Password must contain at least one lowercase letter")
	case !digit:
		return errors.New("Password must contain at least one digit")
	case !special:
		return errors.New("Password must contain at least one special character")
	}

	return nil
}

// Email reports whether the address looks like a deliverable email address.
func Email(email string) bool {
	return emailPattern.MatchString(email)
}

// Phone reports whether the number looks like a dialable phone number.
func Phone(phone string) bool {
	return phonePattern.MatchString(phone)
}

// Sanitize strips HTML from free-text user input before it is stored.
func Sanitize(text string) string {
	return sanitizePolicy.Sanitize(text)
}

// RegisterValidators adds the custom tags used in request struct validate tags.
func RegisterValidators(v *validator.Validate) error {
	if err := v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return Phone(fl.Field().String())
	}); err != nil {
		return err
	}

	if err := v.RegisterValidation("strongpassword", func(fl validator.FieldLevel) bool {
		return Password(fl.Field().String()) == nil
	}); err != nil {
		return err
	}

	return v.RegisterValidation("emailformat", func(fl validator.FieldLevel) bool {
		return Email(fl.Field().String())
	})
}
