package usecase

import (
	"fmt"
	"net/mail"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

var (
	phonePattern    = regexp.MustCompile(`^[\+]?[1-9][\d]{0,15}$`)
	phoneSeparators = regexp.MustCompile(`[\s\-\(\)]`)
)

func ValidateCustomerInput(in entity.CustomerInput) []ValidationError {
	var errors []ValidationError

	errors = append(errors, validateName(in.Name)...)
	errors = append(errors, validateEmail(in.Email)...)
	errors = append(errors, validatePhone(in.Phone)...)
	errors = append(errors, validateCompany(in.Company)...)

	return errors
}

// ValidateCustomerPatch only checks the fields present in the patch.
func ValidateCustomerPatch(p entity.CustomerPatch) []ValidationError {
	var errors []ValidationError

	if p.Name != nil {
		errors = append(errors, validateName(*p.Name)...)
	}
	if p.Email != nil {
		errors = append(errors, validateEmail(*p.Email)...)
	}
	if p.Phone != nil {
		errors = append(errors, validatePhone(*p.Phone)...)
	}
	if p.Company != nil {
		errors = append(errors, validateCompany(*p.Company)...)
	}

	return errors
}

func ValidateLeadInput(in entity.LeadInput) []ValidationError {
	var errors []ValidationError

	errors = append(errors, validateTitle(in.Title)...)
	errors = append(errors, validateDescription(in.Description)...)
	errors = append(errors, validateValue(in.Value)...)

	if in.Status != "" && !in.Status.Valid() {
		errors = append(errors, ValidationError{"status", "must be one of New, Contacted, Converted, Lost"})
	}
	if strings.TrimSpace(in.CustomerID) == "" {
		errors = append(errors, ValidationError{"customerId", "Please select a customer"})
	}

	return errors
}

func ValidateLeadPatch(p entity.LeadPatch) []ValidationError {
	var errors []ValidationError

	if p.Title != nil {
		errors = append(errors, validateTitle(*p.Title)...)
	}
	if p.Description != nil {
		errors = append(errors, validateDescription(*p.Description)...)
	}
	if p.Value != nil {
		errors = append(errors, validateValue(*p.Value)...)
	}
	if p.Status != nil && !p.Status.Valid() {
		errors = append(errors, ValidationError{"status", "must be one of New, Contacted, Converted, Lost"})
	}
	if p.CustomerID != nil && strings.TrimSpace(*p.CustomerID) == "" {
		errors = append(errors, ValidationError{"customerId", "Please select a customer"})
	}

	return errors
}

// ValidateLoginInput only requires both fields. Format and length rules belong
// to registration; a bad login is always reported as invalid credentials.
func ValidateLoginInput(in LoginInput) []ValidationError {
	var errors []ValidationError

	if strings.TrimSpace(in.Email) == "" {
		errors = append(errors, ValidationError{"email", "Email is required"})
	}
	if in.Password == "" {
		errors = append(errors, ValidationError{"password", "Password is required"})
	}

	return errors
}

func ValidateRegisterInput(in RegisterInput) []ValidationError {
	var errors []ValidationError

	errors = append(errors, validateName(in.Name)...)
	errors = append(errors, validateEmail(in.Email)...)
	errors = append(errors, validatePassword(in.Password)...)

	return errors
}

func validateName(name string) []ValidationError {
	switch {
	case strings.TrimSpace(name) == "":
		return []ValidationError{{"name", "Name is required"}}
	case utf8.RuneCountInString(strings.TrimSpace(name)) < 2:
		return []ValidationError{{"name", "Name must be at least 2 characters"}}
	}
	return nil
}

func validateEmail(email string) []ValidationError {
	if strings.TrimSpace(email) == "" {
		return []ValidationError{{"email", "Email is required"}}
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != strings.TrimSpace(email) {
		return []ValidationError{{"email", "Invalid email"}}
	}
	return nil
}

func validatePhone(phone string) []ValidationError {
	if strings.TrimSpace(phone) == "" {
		return []ValidationError{{"phone", "Phone is required"}}
	}
	if !isValidPhoneNumber(phone) {
		return []ValidationError{{"phone", "Invalid phone number"}}
	}
	return nil
}

func validateCompany(company string) []ValidationError {
	if company != "" && utf8.RuneCountInString(strings.TrimSpace(company)) < 2 {
		return []ValidationError{{"company", "Company name must be at least 2 characters"}}
	}
	return nil
}

func validateTitle(title string) []ValidationError {
	if utf8.RuneCountInString(strings.TrimSpace(title)) < 3 {
		return []ValidationError{{"title", "Title must be at least 3 characters"}}
	}
	return nil
}

func validateDescription(description string) []ValidationError {
	if utf8.RuneCountInString(strings.TrimSpace(description)) < 10 {
		return []ValidationError{{"description", "Description must be at least 10 characters"}}
	}
	return nil
}

func validateValue(value float64) []ValidationError {
	if value < 0 {
		return []ValidationError{{"value", "Value must be positive"}}
	}
	return nil
}

func validatePassword(password string) []ValidationError {
	if len(password) < 6 {
		return []ValidationError{{"password", "Password must be at least 6 characters"}}
	}
	return nil
}

// isValidPhoneNumber accepts formatted numbers such as "+1-555-0101" by stripping
// separators before matching.
func isValidPhoneNumber(phone string) bool {
	cleaned := phoneSeparators.ReplaceAllString(phone, "")
	return phonePattern.MatchString(cleaned)
}
