package validation

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestValidateRequired(t *testing.T) {
	assert.NoError(t, ValidateRequired("value", "field"))
	assert.Error(t, ValidateRequired("", "field"))
	assert.Error(t, ValidateRequired("   ", "field"))
}

func TestValidateMinLength(t *testing.T) {
	assert.NoError(t, ValidateMinLength("abc", 3, "field"))

	err := ValidateMinLength("ab", 3, "field")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "at least 3 characters")
}

func TestValidateMaxLength(t *testing.T) {
	assert.NoError(t, ValidateMaxLength("abc", 3, "field"))

	err := ValidateMaxLength("abcd", 3, "field")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "at most 3 characters")
}

func TestValidateUUID(t *testing.T) {
	assert.NoError(t, ValidateUUID(uuid.New().String(), "id"))
	assert.Error(t, ValidateUUID("not-a-uuid", "id"))
}

func TestValidateEmail(t *testing.T) {
	assert.NoError(t, ValidateEmail("user@example.com"))
	assert.Error(t, ValidateEmail("userexample.com"))
	assert.Error(t, ValidateEmail("@example.com"))
	assert.Error(t, ValidateEmail("user@"))
}

func TestValidateDateRange(t *testing.T) {
	start := time.Now()
	assert.NoError(t, ValidateDateRange(start, start.Add(time.Hour)))
	assert.Error(t, ValidateDateRange(start, start.Add(-time.Hour)))
}

func TestRegistrationValidationName(t *testing.T) {
	v := RegistrationValidation{}

	assert.NoError(t, v.ValidateName("Awa", "Diallo"))
	assert.NoError(t, v.ValidateName("Awa", ""))
	assert.Error(t, v.ValidateName("", "  "))
}

func TestRegistrationValidationContact(t *testing.T) {
	v := RegistrationValidation{}

	assert.NoError(t, v.ValidateContact("awa@example.com", "+221771234567"))
	assert.Error(t, v.ValidateContact("", ""))
	assert.Error(t, v.ValidateContact("bad-email", ""))
}
