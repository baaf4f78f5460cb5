package flow

import (
	"fmt"
	"net/mail"
	"strings"
)

const (
	nameMinLen     = 2
	nameMaxLen     = 50
	emailMaxLen    = 254
	passwordMinLen = 8
	passwordMaxLen = 128
)

// FieldError describes a single invalid field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries every field error collected in a single pass, not
// just the first one, so clients can fix all problems in one retry.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = f.Message
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// Messages returns the client-facing messages in field order.
func (e *ValidationError) Messages() []string {
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = f.Message
	}
	return msgs
}

func (e *ValidationError) add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

// RegisterInput is the registration payload. Validate normalizes it in place:
// name and email are trimmed and the email is lowercased.
type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (in *RegisterInput) Validate() error {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = normalizeEmail(in.Email)

	verr := &ValidationError{}

	switch {
	case in.Name == "":
		verr.add("name", "Name is required")
	case len(in.Name) < nameMinLen:
		verr.add("name", fmt.Sprintf("Name must be at least %d characters", nameMinLen))
	case len(in.Name) > nameMaxLen:
		verr.add("name", fmt.Sprintf("Name cannot exceed %d characters", nameMaxLen))
	}

	validateEmail(verr, in.Email)

	switch {
	case in.Password == "":
		verr.add("password", "Password is required")
	case len(in.Password) < passwordMinLen:
		verr.add("password", fmt.Sprintf("Password must be at least %d characters", passwordMinLen))
	case len(in.Password) > passwordMaxLen:
		verr.add("password", fmt.Sprintf("Password cannot exceed %d characters", passwordMaxLen))
	}

	if len(verr.Fields) > 0 {
		return verr
	}
	return nil
}

// LoginInput is the login payload. Password strength is not re-checked here,
// only presence; the stored hash decides whether the login succeeds.
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (in *LoginInput) Validate() error {
	in.Email = normalizeEmail(in.Email)

	verr := &ValidationError{}

	validateEmail(verr, in.Email)

	if in.Password == "" {
		verr.add("password", "Password is required")
	}

	if len(verr.Fields) > 0 {
		return verr
	}
	return nil
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func validateEmail(verr *ValidationError, email string) {
	switch {
	case email == "":
		verr.add("email", "Email is required")
	case len(email) > emailMaxLen:
		verr.add("email", fmt.Sprintf("Email cannot exceed %d characters", emailMaxLen))
	case !validEmailAddress(email):
		verr.add("email", "Please provide a valid email address")
	}
}

// validEmailAddress accepts plain addr-spec addresses with a dotted domain.
// Display names, comments, and bare local domains are rejected.
func validEmailAddress(s string) bool {
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s {
		return false
	}
	at := strings.LastIndex(s, "@")
	if at < 1 {
		return false
	}
	domain := s[at+1:]
	if !strings.Contains(domain, ".") || strings.HasPrefix(domain, ".") || strings.HasSuffix(domain, ".") {
		return false
	}
	return true
}
