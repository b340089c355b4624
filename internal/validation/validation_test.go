package validation

import (
	"errors"
	"testing"
)

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		wantErr bool
	}{
		{name: "valid email", email: "student@example.com", wantErr: false},
		{name: "valid with plus", email: "student+tag@example.co.uk", wantErr: false},
		{name: "empty", email: "", wantErr: true},
		{name: "missing at", email: "studentexample.com", wantErr: true},
		{name: "missing domain", email: "student@", wantErr: true},
		{name: "whitespace only", email: "   ", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEmail(tt.email)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateEmail(%q) error = %v, wantErr %v", tt.email, err, tt.wantErr)
			}
		})
	}
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{name: "valid password", password: "longenough", wantErr: false},
		{name: "empty", password: "", wantErr: true},
		{name: "too short", password: "short", wantErr: true},
		{name: "exactly eight", password: "12345678", wantErr: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword(tt.password)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePassword() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "valid name", input: "Ada Lovelace", wantErr: false},
		{name: "empty", input: "", wantErr: true},
		{name: "single char", input: "A", wantErr: true},
		{name: "whitespace only", input: "   ", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateDailyHours(t *testing.T) {
	tests := []struct {
		name    string
		hours   float64
		wantErr bool
	}{
		{name: "valid", hours: 2, wantErr: false},
		{name: "fractional", hours: 0.5, wantErr: false},
		{name: "zero", hours: 0, wantErr: true},
		{name: "negative", hours: -1, wantErr: true},
		{name: "more than a day", hours: 25, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDailyHours(tt.hours)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateDailyHours(%v) error = %v, wantErr %v", tt.hours, err, tt.wantErr)
			}
		})
	}
}

func TestValidateExamDate(t *testing.T) {
	tests := []struct {
		name    string
		date    string
		wantErr bool
	}{
		{name: "valid date", date: "2026-06-15", wantErr: false},
		{name: "empty is allowed", date: "", wantErr: false},
		{name: "blank is allowed", date: "  ", wantErr: false},
		{name: "wrong format", date: "15/06/2026", wantErr: true},
		{name: "not a date", date: "soon", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateExamDate(tt.date)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateExamDate(%q) error = %v, wantErr %v", tt.date, err, tt.wantErr)
			}
		})
	}
}

func TestValidateDifficulty(t *testing.T) {
	for _, valid := range []string{"easy", "medium", "hard", "EASY", " Hard "} {
		if err := ValidateDifficulty(valid); err != nil {
			t.Errorf("ValidateDifficulty(%q) error = %v, want nil", valid, err)
		}
	}
	for _, invalid := range []string{"", "extreme", "med"} {
		if err := ValidateDifficulty(invalid); err == nil {
			t.Errorf("ValidateDifficulty(%q) error = nil, want error", invalid)
		}
	}
}

func TestValidationErrorFields(t *testing.T) {
	err := ValidateDailyHours(0)
	var vErr ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("error %v is not a ValidationError", err)
	}
	if vErr.Field != "daily_hours" {
		t.Errorf("Field = %q, want %q", vErr.Field, "daily_hours")
	}
	if vErr.Message == "" {
		t.Error("Message is empty")
	}
}
