// Package validation holds the field checks run before any store access.
// Checks are pure and deterministic; Run evaluates them in argument order and
// stops at the first failure, whose message is what the client sees.
package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"accountd/internal/apperrors"
)

var validate = validator.New()

var (
	upperRe   = regexp.MustCompile(`[A-Z]`)
	lowerRe   = regexp.MustCompile(`[a-z]`)
	digitRe   = regexp.MustCompile(`[0-9]`)
	specialRe = regexp.MustCompile(`[^A-Za-z0-9]`)

	// Regional numbering-plan rule; swap for other deployments.
	phoneRe = regexp.MustCompile(`^\+91[0-9]{10}$`)
)

type Check func() (ok bool, message string)

// Run evaluates checks in order and returns an InvalidInput error carrying the
// first failing check's message, or nil when all pass.
func Run(checks ...Check) error {
	for _, check := range checks {
		if ok, message := check(); !ok {
			return apperrors.InvalidInput(message)
		}
	}
	return nil
}

func Required(name, value string) Check {
	return func() (bool, string) {
		if strings.TrimSpace(value) == "" {
			return false, fmt.Sprintf("%s is required", name)
		}
		return true, ""
	}
}

func Email(value string) Check {
	return func() (bool, string) {
		if err := validate.Var(value, "required,email"); err != nil {
			return false, "invalid email address"
		}
		return true, ""
	}
}

func Password(value string) Check {
	return func() (bool, string) {
		if len(value) < 6 ||
			!upperRe.MatchString(value) ||
			!lowerRe.MatchString(value) ||
			!digitRe.MatchString(value) ||
			!specialRe.MatchString(value) {
			return false, "password must be at least 6 characters and contain an uppercase letter, a lowercase letter, a digit and a special character"
		}
		return true, ""
	}
}

func Phone(value string) Check {
	return func() (bool, string) {
		if !phoneRe.MatchString(value) {
			return false, "phone number must be +91 followed by 10 digits"
		}
		return true, ""
	}
}
