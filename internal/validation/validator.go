package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/user-management-console/internal/models"
)

// ValidationError represents a single validation error
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
}

// Errors is a list of field errors returned as a single error
type Errors []ValidationError

func (e Errors) Error() string {
	parts := make([]string, len(e))
	for i, ve := range e {
		parts[i] = ve.Field + ": " + ve.Message
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Validator validates console input forms
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	// Role accepts canonical names and display labels
	_ = v.RegisterValidation("role", func(fl validator.FieldLevel) bool {
		_, ok := models.ParseRole(fl.Field().String())
		return ok
	})
	return &Validator{validate: v}
}

// ValidateNewUser validates the add-user form
func (v *Validator) ValidateNewUser(u *models.NewUser) error {
	normalize(&u.Username, &u.Email)
	return v.check(u)
}

// ValidateSignUp validates the self-service sign-up form
func (v *Validator) ValidateSignUp(req *models.SignUpRequest) error {
	normalize(&req.Username, &req.Email)
	return v.check(req)
}

// ValidateLogin validates the login form. The identifier is matched exactly
// against the roster, so it is left untouched; only a blank one is rejected.
func (v *Validator) ValidateLogin(req *models.LoginRequest) error {
	trimmed := *req
	trimmed.Identifier = strings.TrimSpace(req.Identifier)
	return v.check(&trimmed)
}

func (v *Validator) check(s interface{}) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	out := make(Errors, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		ve := ValidationError{Field: fe.Field(), Message: message(fe)}
		// Never echo passwords back
		if fe.Field() != "password" && fe.Tag() != "required" {
			ve.Value = fe.Value()
		}
		out = append(out, ve)
	}
	return out
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "email":
		return "invalid email format"
	case "role":
		return "invalid role, must be one of: ViewAccess, EditAccess, AdminAccess"
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag())
	}
}

func normalize(username, email *string) {
	*username = strings.TrimSpace(*username)
	*email = strings.TrimSpace(*email)
}
