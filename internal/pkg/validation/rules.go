package validation

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/yigit/alumnihub/internal/app/models"
	"github.com/yigit/alumnihub/internal/pkg/apperrors"
)

// Validation rule patterns
var (
	EmailPattern = `^[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}$`

	PasswordMinLength = 8

	NameMinLength = 1
	NameMaxLength = 50

	// Graduation years accepted at registration
	MinGraduationYear = 1950
	FutureYearsWindow = 10

	MaxDonationAmount = 1_000_000.0
)

// CompiledPatterns caches compiled regex patterns
var CompiledPatterns = struct {
	Email *regexp.Regexp
}{
	Email: regexp.MustCompile(EmailPattern),
}

// StringValidation describes the constraints of one string field
type StringValidation struct {
	Value    string
	MinLen   int
	MaxLen   int
	Required bool
	Pattern  *regexp.Regexp
}

// NewStringValidation creates a new string validation
func NewStringValidation(value string) *StringValidation {
	return &StringValidation{
		Value:    value,
		Required: true,
	}
}

func (v *StringValidation) WithMinLength(min int) *StringValidation {
	v.MinLen = min
	return v
}

func (v *StringValidation) WithMaxLength(max int) *StringValidation {
	v.MaxLen = max
	return v
}

func (v *StringValidation) WithPattern(pattern *regexp.Regexp) *StringValidation {
	v.Pattern = pattern
	return v
}

func (v *StringValidation) WithRequired(required bool) *StringValidation {
	v.Required = required
	return v
}

// Validate performs validation
func (v *StringValidation) Validate() bool {
	if v.Value == "" {
		return !v.Required
	}

	length := len([]rune(v.Value))
	if v.MinLen > 0 && length < v.MinLen {
		return false
	}
	if v.MaxLen > 0 && length > v.MaxLen {
		return false
	}
	if v.Pattern != nil && !v.Pattern.MatchString(v.Value) {
		return false
	}
	return true
}

// NumericValidation describes an inclusive integer range
type NumericValidation struct {
	Value int
	Min   int
	Max   int
}

// NewNumericValidation creates a new numeric validation
func NewNumericValidation(value int) *NumericValidation {
	return &NumericValidation{Value: value}
}

func (v *NumericValidation) WithMin(min int) *NumericValidation {
	v.Min = min
	return v
}

func (v *NumericValidation) WithMax(max int) *NumericValidation {
	v.Max = max
	return v
}

// Validate performs validation
func (v *NumericValidation) Validate() bool {
	if v.Min != 0 && v.Value < v.Min {
		return false
	}
	if v.Max != 0 && v.Value > v.Max {
		return false
	}
	return true
}

// NormalizeEmail trims and lowercases an email address
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateEmail checks the format of an already normalized email address
func ValidateEmail(email string) error {
	if !NewStringValidation(email).WithMaxLength(120).WithPattern(CompiledPatterns.Email).Validate() {
		return fmt.Errorf("%w: Please enter a valid email address.", apperrors.ErrValidationFailed)
	}
	return nil
}

// ValidatePassword requires a minimum length plus at least one letter and one digit
func ValidatePassword(password string) error {
	if !NewStringValidation(password).WithMinLength(PasswordMinLength).WithMaxLength(72).Validate() {
		return fmt.Errorf("%w: Password must be between %d and 72 characters.", apperrors.ErrValidationFailed, PasswordMinLength)
	}

	var hasLetter, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasLetter || !hasDigit {
		return fmt.Errorf("%w: Password must contain at least one letter and one digit.", apperrors.ErrValidationFailed)
	}
	return nil
}

// ValidateName checks a first or last name
func ValidateName(field, name string) error {
	if !NewStringValidation(strings.TrimSpace(name)).WithMinLength(NameMinLength).WithMaxLength(NameMaxLength).Validate() {
		return fmt.Errorf("%w: %s is required and must be at most %d characters.", apperrors.ErrValidationFailed, field, NameMaxLength)
	}
	return nil
}

// ValidateGraduationYear accepts years from MinGraduationYear up to FutureYearsWindow years after now
func ValidateGraduationYear(year int, now time.Time) error {
	max := now.Year() + FutureYearsWindow
	if !NewNumericValidation(year).WithMin(MinGraduationYear).WithMax(max).Validate() {
		return fmt.Errorf("%w: Graduation year must be between %d and %d.", apperrors.ErrValidationFailed, MinGraduationYear, max)
	}
	return nil
}

// ValidateJobType checks a job type against the accepted set
func ValidateJobType(jobType string) (models.JobType, error) {
	if jobType == "" {
		return models.JobFullTime, nil
	}
	for _, t := range models.JobTypes {
		if string(t) == jobType {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: Unknown job type %q.", apperrors.ErrValidationFailed, jobType)
}

// ValidatePaymentMethod checks a payment method against the accepted set
func ValidatePaymentMethod(method string) (models.PaymentMethod, error) {
	for _, m := range models.PaymentMethods {
		if string(m) == method {
			return m, nil
		}
	}
	return "", fmt.Errorf("%w: Please choose a valid payment method.", apperrors.ErrValidationFailed)
}

// ValidateDonationAmount requires a positive amount within the accepted ceiling
func ValidateDonationAmount(amount float64) error {
	if amount <= 0 || amount > MaxDonationAmount {
		return fmt.Errorf("%w: Donation amount must be greater than 0 and at most %.0f.", apperrors.ErrValidationFailed, MaxDonationAmount)
	}
	return nil
}

// ValidateOptionalURL accepts an empty value or an absolute http(s) URL
func ValidateOptionalURL(field, raw string) error {
	if raw == "" {
		return nil
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: %s must be a valid http(s) URL.", apperrors.ErrValidationFailed, field)
	}
	return nil
}
