package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "github.com/pollsay/pollsay/internal/errors"
)

func TestPasswordStrength(t *testing.T) {
	rule := PasswordStrength{
		MinLength:      8,
		RequireUpper:   true,
		RequireLower:   true,
		RequireNumber:  true,
		RequireSpecial: true,
	}

	tests := []struct {
		name     string
		password string
		errMsg   string
	}{
		{name: "valid password", password: "SecurePass123!"},
		{name: "too short", password: "Short1!", errMsg: "password must be at least 8 characters"},
		{name: "missing uppercase", password: "securepass123!", errMsg: "uppercase letter"},
		{name: "missing lowercase", password: "SECUREPASS123!", errMsg: "lowercase letter"},
		{name: "missing number", password: "SecurePass!", errMsg: "number"},
		{name: "missing special char", password: "SecurePass123", errMsg: "special character"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := rule.Validate(tt.password)
			if tt.errMsg == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.errMsg)
		})
	}

	assert.Error(t, rule.Validate(42))
}

func TestProfilePassword(t *testing.T) {
	assert.NoError(t, ProfilePassword.Validate("correct-horse-1"))
	assert.Error(t, ProfilePassword.Validate("correct-horse"))
	assert.Error(t, ProfilePassword.Validate("short1"))
}

func TestEmail(t *testing.T) {
	valid := []string{"user@example.com", "user@mail.example.com", "user+tag@example.com", "first.last@example.com"}
	invalid := []string{"userexample.com", "user@", "@example.com", "user@example", "user @example.com"}

	for _, email := range valid {
		assert.NoError(t, Email.Validate(email), email)
	}
	for _, email := range invalid {
		assert.Error(t, Email.Validate(email), email)
	}
}

func TestNoWhitespace(t *testing.T) {
	assert.NoError(t, NoWhitespace.Validate("valid string"))
	assert.Error(t, NoWhitespace.Validate(" leading"))
	assert.Error(t, NoWhitespace.Validate("trailing "))
}

func TestNotBlank(t *testing.T) {
	assert.NoError(t, NotBlank.Validate("org-1"))
	for _, input := range []string{"   ", "\t\t", "\n\n", " \t\n "} {
		assert.Error(t, NotBlank.Validate(input), "%q", input)
	}
}

func TestOneOf(t *testing.T) {
	rule := OneOf("text", "choice")
	assert.NoError(t, rule.Validate("text"))
	assert.ErrorContains(t, rule.Validate("rating"), "must be one of: text, choice")
}


func TestWrapValidationError(t *testing.T) {
	assert.NoError(t, WrapValidationError(nil))

	err := WrapValidationError(assert.AnError)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	assert.Contains(t, err.Error(), assert.AnError.Error())
}
