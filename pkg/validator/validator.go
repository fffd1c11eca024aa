package validator

import (
	"net/mail"
	"strings"
)

// ValidationErrors maps field names to the first failed rule's message.
type ValidationErrors map[string]string

func (v ValidationErrors) HasErrors() bool {
	return len(v) > 0
}

func (v ValidationErrors) Add(field, message string) {
	if _, exists := v[field]; !exists {
		v[field] = message
	}
}

func ValidateSignup(username, email, firstName, lastName, password string) ValidationErrors {
	errs := make(ValidationErrors)

	username = strings.TrimSpace(username)
	if username == "" {
		errs.Add("username", "Username is required")
	} else if len(username) < 4 || len(username) > 150 {
		errs.Add("username", "Username must be between 4 to 150 characters")
	}

	validateEmail(email, errs)

	if strings.TrimSpace(firstName) == "" {
		errs.Add("firstName", "FirstName is required")
	}
	if strings.TrimSpace(lastName) == "" {
		errs.Add("lastName", "LastName is required")
	}

	validatePassword(password, "password", errs)

	return errs
}

func ValidatePost(title, body string) ValidationErrors {
	errs := make(ValidationErrors)

	title = strings.TrimSpace(title)
	if title == "" {
		errs.Add("title", "Title is required")
	} else if len(title) < 4 || len(title) > 150 {
		errs.Add("title", "Title must be between 4 to 150 characters")
	}

	body = strings.TrimSpace(body)
	if body == "" {
		errs.Add("body", "Body is required")
	} else if len(body) < 4 || len(body) > 2000 {
		errs.Add("body", "Body must be between 4 to 2000 characters")
	}

	return errs
}

func ValidateNewPassword(newPassword string) ValidationErrors {
	errs := make(ValidationErrors)
	validatePassword(newPassword, "newPassword", errs)
	return errs
}

func ValidateEmail(email string) ValidationErrors {
	errs := make(ValidationErrors)
	validateEmail(email, errs)
	return errs
}

func validateEmail(email string, errs ValidationErrors) {
	email = strings.TrimSpace(email)
	if email == "" {
		errs.Add("email", "Email is required")
	} else if _, err := mail.ParseAddress(email); err != nil {
		errs.Add("email", "Email is invalid")
	}
}

func validatePassword(password, field string, errs ValidationErrors) {
	if password == "" {
		errs.Add(field, "Password is required")
	} else if len(password) < 6 {
		errs.Add(field, "Password must contain at least 6 characters")
	}
}
