package domain

import (
	"strings"
	"testing"
)

func TestSignupCredentialsValidate_MissingField(t *testing.T) {
	cases := []SignupCredentials{
		{Email: "amanda@test.com"},
		{Password: "Password123"},
		{},
	}
	for _, creds := range cases {
		verr := creds.Validate()
		if verr == nil {
			t.Fatalf("expected validation error for %+v", creds)
		}
		if verr.Message != "Missing field" {
			t.Fatalf("expected 'Missing field', got %q", verr.Message)
		}
	}
}

func TestSignupCredentialsValidate_Whitespace(t *testing.T) {
	cases := []SignupCredentials{
		{Email: "  amanda@test.com", Password: "Password123"},
		{Email: "amanda@test.com ", Password: "Password123"},
		{Email: "amanda@test.com", Password: " Password123"},
		{Email: "amanda@test.com", Password: "Password123 "},
	}
	for _, creds := range cases {
		verr := creds.Validate()
		if verr == nil {
			t.Fatalf("expected validation error for %+v", creds)
		}
		if verr.Message != "Cannot start or end with whitespace" {
			t.Fatalf("expected whitespace message, got %q", verr.Message)
		}
	}
}

func TestSignupCredentialsValidate_PasswordLength(t *testing.T) {
	short := SignupCredentials{Email: "amanda@test.com", Password: "1"}
	verr := short.Validate()
	if verr == nil || verr.Message != "Must be at least 8 characters long" {
		t.Fatalf("expected min length message, got %v", verr)
	}

	long := SignupCredentials{Email: "amanda@test.com", Password: strings.Repeat("a", 66)}
	verr = long.Validate()
	if verr == nil || verr.Message != "Must be at most 65 characters long" {
		t.Fatalf("expected max length message, got %v", verr)
	}
}

func TestSignupCredentialsValidate_OK(t *testing.T) {
	creds := SignupCredentials{Email: "jane@test.com", Password: "fakePassword1"}
	if verr := creds.Validate(); verr != nil {
		t.Fatalf("expected valid credentials, got %q", verr.Message)
	}
}
