package validation

import "testing"

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		wantErr bool
	}{
		{name: "valid email", email: "kid@example.com", wantErr: false},
		{name: "valid with plus tag", email: "kid+class@example.com", wantErr: false},
		{name: "valid with dots", email: "first.last@school.example.org", wantErr: false},
		{name: "surrounding whitespace", email: "  kid@example.com  ", wantErr: false},
		{name: "empty", email: "", wantErr: true},
		{name: "missing at sign", email: "kid.example.com", wantErr: true},
		{name: "missing domain", email: "kid@", wantErr: true},
		{name: "missing tld", email: "kid@example", wantErr: true},
		{name: "spaces inside", email: "kid name@example.com", wantErr: true},
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

func TestValidateName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "valid name", input: "Class 5A", wantErr: false},
		{name: "two characters", input: "5A", wantErr: false},
		{name: "empty", input: "", wantErr: true},
		{name: "only whitespace", input: "   ", wantErr: true},
		{name: "single character", input: "A", wantErr: true},
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

func TestValidateDate(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{name: "valid date", value: "2025-01-15", wantErr: false},
		{name: "empty", value: "", wantErr: true},
		{name: "slashes", value: "2025/01/15", wantErr: true},
		{name: "day first", value: "15-01-2025", wantErr: true},
		{name: "too short", value: "2025-1-5", wantErr: true},
		{name: "letters", value: "2025-ab-cd", wantErr: true},
		{name: "trailing text", value: "2025-01-15T00:00:00Z", wantErr: true},
		{name: "month out of range", value: "2025-99-99", wantErr: true},
		{name: "impossible day", value: "2025-02-30", wantErr: true},
		{name: "leap day", value: "2024-02-29", wantErr: false},
		{name: "leap day off-year", value: "2025-02-29", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDate("startDate", tt.value)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateDate(%q) error = %v, wantErr %v", tt.value, err, tt.wantErr)
			}
		})
	}
}

func TestValidationErrorNamesField(t *testing.T) {
	err := ValidateDate("endDate", "bad")
	if err == nil {
		t.Fatal("expected error")
	}
	if got := err.Error(); got != "endDate: date must use YYYY-MM-DD format" {
		t.Errorf("Error() = %q", got)
	}
}
