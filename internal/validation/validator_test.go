package validation

import (
	"errors"
	"strings"
	"testing"

	"github.com/user-management-console/internal/models"
)

func TestValidateNewUser(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		name       string
		user       models.NewUser
		wantFields []string
	}{
		{
			name: "valid with canonical role",
			user: models.NewUser{Username: "alice", Email: "a@x.com", Role: "ViewAccess", Password: "pw1"},
		},
		{
			name: "valid with display label",
			user: models.NewUser{Username: "bob", Email: "b@x.com", Role: "Admin Access", Password: "pw2"},
		},
		{
			name: "empty role allowed",
			user: models.NewUser{Username: "carol", Email: "c@x.com", Password: "pw3"},
		},
		{
			name:       "missing username",
			user:       models.NewUser{Email: "a@x.com", Password: "pw"},
			wantFields: []string{"username"},
		},
		{
			name:       "whitespace username",
			user:       models.NewUser{Username: "   ", Email: "a@x.com", Password: "pw"},
			wantFields: []string{"username"},
		},
		{
			name:       "bad email",
			user:       models.NewUser{Username: "alice", Email: "not-an-email", Password: "pw"},
			wantFields: []string{"email"},
		},
		{
			name:       "unknown role",
			user:       models.NewUser{Username: "alice", Email: "a@x.com", Role: "superadmin", Password: "pw"},
			wantFields: []string{"role"},
		},
		{
			name:       "missing password",
			user:       models.NewUser{Username: "alice", Email: "a@x.com"},
			wantFields: []string{"password"},
		},
		{
			name:       "everything missing",
			user:       models.NewUser{},
			wantFields: []string{"username", "email", "password"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := tt.user
			err := v.ValidateNewUser(&u)
			if len(tt.wantFields) == 0 {
				if err != nil {
					t.Fatalf("Expected no error, got %v", err)
				}
				return
			}

			var verrs Errors
			if !errors.As(err, &verrs) {
				t.Fatalf("Expected validation Errors, got %v", err)
			}
			if len(verrs) != len(tt.wantFields) {
				t.Fatalf("Expected %d errors, got %d: %v", len(tt.wantFields), len(verrs), verrs)
			}
			for i, field := range tt.wantFields {
				if verrs[i].Field != field {
					t.Errorf("error %d: expected field %s, got %s", i, field, verrs[i].Field)
				}
			}
		})
	}
}

func TestValidateNewUser_TrimsInput(t *testing.T) {
	v := NewValidator()
	u := models.NewUser{Username: "  alice ", Email: " a@x.com ", Password: "pw"}
	if err := v.ValidateNewUser(&u); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if u.Username != "alice" || u.Email != "a@x.com" {
		t.Errorf("Expected trimmed fields, got %q %q", u.Username, u.Email)
	}
}

func TestValidate_DoesNotEchoPassword(t *testing.T) {
	v := NewValidator()
	u := models.NewUser{Username: "alice", Email: "a@x.com", Password: strings.Repeat("s", 80)}

	err := v.ValidateNewUser(&u)
	var verrs Errors
	if !errors.As(err, &verrs) {
		t.Fatalf("Expected validation Errors, got %v", err)
	}
	if verrs[0].Field != "password" {
		t.Fatalf("Expected password error, got %v", verrs)
	}
	if verrs[0].Value != nil {
		t.Errorf("Password value must not be echoed, got %v", verrs[0].Value)
	}
}

func TestValidateSignUp(t *testing.T) {
	v := NewValidator()

	ok := models.SignUpRequest{Username: "dave", Email: "d@x.com", Password: "secret"}
	if err := v.ValidateSignUp(&ok); err != nil {
		t.Errorf("Expected valid sign-up, got %v", err)
	}

	bad := models.SignUpRequest{Username: "dave", Email: "d@", Password: ""}
	err := v.ValidateSignUp(&bad)
	var verrs Errors
	if !errors.As(err, &verrs) || len(verrs) != 2 {
		t.Fatalf("Expected 2 validation errors, got %v", err)
	}
	if !strings.Contains(err.Error(), "email: invalid email format") {
		t.Errorf("Unexpected error text: %s", err.Error())
	}
}

func TestValidateLogin(t *testing.T) {
	v := NewValidator()

	if err := v.ValidateLogin(&models.LoginRequest{Identifier: "a@x.com", Password: "pw"}); err != nil {
		t.Errorf("Expected valid login, got %v", err)
	}
	if err := v.ValidateLogin(&models.LoginRequest{Identifier: " ", Password: "pw"}); err == nil {
		t.Error("Expected error for blank identifier")
	}

	req := &models.LoginRequest{Identifier: " padded ", Password: "pw"}
	if err := v.ValidateLogin(req); err != nil {
		t.Errorf("Expected valid login, got %v", err)
	}
	if req.Identifier != " padded " {
		t.Errorf("Expected identifier kept verbatim, got %q", req.Identifier)
	}
}
