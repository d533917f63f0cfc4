package validation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/alumnihub/internal/app/models"
	"github.com/yigit/alumnihub/internal/pkg/apperrors"
)

func TestValidateEmail(t *testing.T) {
	valid := []string{"jane@example.com", "j.doe+alumni@mail.uni.edu", "x@y.museum"}
	for _, email := range valid {
		assert.NoError(t, ValidateEmail(email), email)
	}

	invalid := []string{"", "jane", "jane@", "@example.com", "jane@example", "Jane@Example.com"}
	for _, email := range invalid {
		err := ValidateEmail(email)
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed, email)
	}
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "jane@example.com", NormalizeEmail("  Jane@Example.COM "))
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		password string
		ok       bool
	}{
		{"abc12345", true},
		{"short1", false},
		{"allletters", false},
		{"12345678", false},
		{"pässwörd1", true},
	}
	for _, tt := range tests {
		err := ValidatePassword(tt.password)
		if tt.ok {
			assert.NoError(t, err, tt.password)
		} else {
			assert.ErrorIs(t, err, apperrors.ErrValidationFailed, tt.password)
		}
	}
}

func TestValidateGraduationYear(t *testing.T) {
	now := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	assert.NoError(t, ValidateGraduationYear(1950, now))
	assert.NoError(t, ValidateGraduationYear(2034, now))
	assert.Error(t, ValidateGraduationYear(1949, now))
	assert.Error(t, ValidateGraduationYear(2035, now))
}

func TestValidateJobType(t *testing.T) {
	jt, err := ValidateJobType("")
	require.NoError(t, err)
	assert.Equal(t, models.JobFullTime, jt)

	jt, err = ValidateJobType("internship")
	require.NoError(t, err)
	assert.Equal(t, models.JobInternship, jt)

	_, err = ValidateJobType("gig")
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestValidatePaymentMethod(t *testing.T) {
	m, err := ValidatePaymentMethod("upi")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentUPI, m)

	_, err = ValidatePaymentMethod("cash")
	assert.Error(t, err)
}

func TestValidateDonationAmount(t *testing.T) {
	assert.NoError(t, ValidateDonationAmount(0.01))
	assert.NoError(t, ValidateDonationAmount(1_000_000))
	assert.Error(t, ValidateDonationAmount(0))
	assert.Error(t, ValidateDonationAmount(-5))
	assert.Error(t, ValidateDonationAmount(1_000_000.01))
}

func TestValidateOptionalURL(t *testing.T) {
	assert.NoError(t, ValidateOptionalURL("LinkedIn", ""))
	assert.NoError(t, ValidateOptionalURL("LinkedIn", "https://www.linkedin.com/in/jane"))
	assert.Error(t, ValidateOptionalURL("LinkedIn", "javascript:alert(1)"))
	assert.Error(t, ValidateOptionalURL("LinkedIn", "linkedin.com/in/jane"))
}

func TestStringValidation(t *testing.T) {
	assert.True(t, NewStringValidation("").WithRequired(false).WithMinLength(3).Validate())
	assert.False(t, NewStringValidation("").Validate())
	assert.False(t, NewStringValidation("ab").WithMinLength(3).Validate())
	assert.True(t, NewStringValidation("äöü").WithMaxLength(3).Validate())
}
