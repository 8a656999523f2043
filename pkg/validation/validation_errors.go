package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldLabels maps struct field names to user-facing Polish labels
var FieldLabels = map[string]string{
	// Registration fields
	"FullName":       "Imię i nazwisko",
	"Email":          "Email",
	"Specialization": "Specjalizacja",
	"Experience":     "Doświadczenie",
	"LinkedInURL":    "Profil LinkedIn",
	"Source":         "Źródło",
	"Message":        "Wiadomość",
	"Company":        "Firma",
	"CompanyURL":     "Strona firmy",
	"Reason":         "Powód",

	// Auth fields
	"Password": "Hasło",
	"Token":    "Token",
	"Role":     "Rola",

	// Contact request fields
	"CandidateIDs": "Kandydaci",

	// Candidate fields
	"FirstName":    "Imię",
	"LastName":     "Nazwisko",
	"Seniority":    "Seniority",
	"Rate":         "Stawka",
	"Skills":       "Technologie",
	"Availability": "Dostępność",
	"Guardian":     "Opiekun",
}

// FormatValidationErrors converts validator.ValidationErrors to user-friendly messages
func FormatValidationErrors(err error) []string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return []string{err.Error()}
	}

	messages := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		messages = append(messages, formatSingleError(e))
	}
	return messages
}

// formatSingleError formats a single validation error to a user-friendly message
func formatSingleError(e validator.FieldError) string {
	label := getFieldLabel(e.Field())
	param := e.Param()

	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s: pole wymagane", label)
	case "min":
		if e.Kind().String() == "string" {
			return fmt.Sprintf("%s: minimum %s znaków", label, param)
		}
		return fmt.Sprintf("%s: minimum %s", label, param)
	case "max":
		if e.Kind().String() == "string" {
			return fmt.Sprintf("%s: maksymalnie %s znaków", label, param)
		}
		return fmt.Sprintf("%s: maksymalnie %s", label, param)
	case "oneof":
		return fmt.Sprintf("%s: dozwolone wartości: %s", label, strings.ReplaceAll(param, " ", ", "))
	case "email":
		return fmt.Sprintf("%s: nieprawidłowy adres email", label)
	case "url", "http_url":
		return fmt.Sprintf("%s: nieprawidłowy adres URL", label)
	case "uuid", "uuid4":
		return fmt.Sprintf("%s: nieprawidłowy identyfikator", label)
	case "valid_name":
		return fmt.Sprintf("%s: dozwolone są tylko litery, spacje i znaki . ' -", label)
	case "no_emoji":
		return fmt.Sprintf("%s: nie może zawierać emoji", label)
	case "linkedin_url":
		return fmt.Sprintf("%s: podaj link do profilu na linkedin.com", label)
	case "eqfield":
		return fmt.Sprintf("%s: musi być równe polu %s", label, getFieldLabel(param))
	default:
		return fmt.Sprintf("%s: nieprawidłowa wartość (%s)", label, e.Tag())
	}
}

// getFieldLabel returns the user-friendly label for a field
func getFieldLabel(fieldName string) string {
	if label, ok := FieldLabels[fieldName]; ok {
		return label
	}
	return formatCamelCase(fieldName)
}

// formatCamelCase converts CamelCase to spaced words
func formatCamelCase(s string) string {
	var result strings.Builder
	for i, r := range s {
		if i > 0 && r >= 'A' && r <= 'Z' {
			result.WriteRune(' ')
		}
		result.WriteRune(r)
	}
	return result.String()
}
