package validation

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// ValidationError represents a field-level validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateEmail checks if an email address is valid
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return ValidationError{Field: "email", Message: "email is required"}
	}
	if !emailRegex.MatchString(email) {
		return ValidationError{Field: "email", Message: "invalid email format"}
	}
	return nil
}

// ValidatePassword checks if a password meets requirements
func ValidatePassword(password string) error {
	if password == "" {
		return ValidationError{Field: "password", Message: "password is required"}
	}
	if len(password) < 8 {
		return ValidationError{Field: "password", Message: "password must be at least 8 characters"}
	}
	return nil
}

// ValidateName checks if a name is valid
func ValidateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ValidationError{Field: "name", Message: "name is required"}
	}
	if len(name) < 2 {
		return ValidationError{Field: "name", Message: "name must be at least 2 characters"}
	}
	return nil
}

// ValidateDailyHours checks the daily study time budget
func ValidateDailyHours(hours float64) error {
	if hours <= 0 {
		return ValidationError{Field: "daily_hours", Message: "daily hours must be greater than zero"}
	}
	if hours > 24 {
		return ValidationError{Field: "daily_hours", Message: "daily hours cannot exceed 24"}
	}
	return nil
}

// ValidateExamDate checks an optional exam date string (YYYY-MM-DD)
func ValidateExamDate(examDate string) error {
	if strings.TrimSpace(examDate) == "" {
		return nil
	}
	if _, err := time.Parse("2006-01-02", examDate); err != nil {
		return ValidationError{Field: "exam_date", Message: "exam date must be in YYYY-MM-DD format"}
	}
	return nil
}

// ValidateDifficulty checks a topic difficulty value
func ValidateDifficulty(difficulty string) error {
	switch strings.ToLower(strings.TrimSpace(difficulty)) {
	case "easy", "medium", "hard":
		return nil
	}
	return ValidationError{Field: "difficulty", Message: "difficulty must be easy, medium or hard"}
}
