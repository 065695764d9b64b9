package validation

import (
	"errors"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// ValidateRequired valida que un campo no esté vacío
func ValidateRequired(value, fieldName string) error {
	if strings.TrimSpace(value) == "" {
		return errors.New(fieldName + " is required")
	}
	return nil
}

// ValidateMinLength valida la longitud mínima de un string
func ValidateMinLength(value string, minLength int, fieldName string) error {
	if utf8.RuneCountInString(value) < minLength {
		return errors.New(fieldName + " must be at least " + strconv.Itoa(minLength) + " characters long")
	}
	return nil
}

// ValidateMaxLength valida la longitud máxima de un string
func ValidateMaxLength(value string, maxLength int, fieldName string) error {
	if utf8.RuneCountInString(value) > maxLength {
		return errors.New(fieldName + " must be at most " + strconv.Itoa(maxLength) + " characters long")
	}
	return nil
}

// ValidateUUID valida que un string sea un UUID válido
func ValidateUUID(value, fieldName string) error {
	if _, err := uuid.Parse(value); err != nil {
		return errors.New(fieldName + " must be a valid UUID")
	}
	return nil
}

// ValidateEmail valida formato básico de email
func ValidateEmail(email string) error {
	trimmed := strings.TrimSpace(email)
	at := strings.Index(trimmed, "@")
	if at <= 0 || at == len(trimmed)-1 {
		return errors.New("email must have a valid format")
	}
	return nil
}

// ValidateDateRange valida que una fecha esté en el rango correcto
func ValidateDateRange(startDate, endDate time.Time) error {
	if endDate.Before(startDate) {
		return errors.New("end date must be after start date")
	}
	return nil
}

// RegistrationValidation contiene validaciones específicas para inscripciones
type RegistrationValidation struct{}

// ValidateName valida el nombre de un inscrito
func (v RegistrationValidation) ValidateName(firstName, lastName string) error {
	if strings.TrimSpace(firstName) == "" && strings.TrimSpace(lastName) == "" {
		return errors.New("first_name or last_name is required")
	}
	if err := ValidateMaxLength(firstName, 100, "first_name"); err != nil {
		return err
	}
	if err := ValidateMaxLength(lastName, 100, "last_name"); err != nil {
		return err
	}
	return nil
}

// ValidateContact valida el email y teléfono de un inscrito
func (v RegistrationValidation) ValidateContact(email, phone string) error {
	if err := ValidateRequired(email, "email"); err != nil {
		return err
	}
	if err := ValidateEmail(email); err != nil {
		return err
	}
	if err := ValidateMaxLength(phone, 30, "phone"); err != nil {
		return err
	}
	return nil
}

// ValidateRemark valida la observación del administrador
func (v RegistrationValidation) ValidateRemark(remark string) error {
	return ValidateMaxLength(remark, 500, "remark")
}

// EventValidation contiene validaciones específicas para eventos
type EventValidation struct{}

// ValidateEventName valida el nombre de un evento
func (v EventValidation) ValidateEventName(name string) error {
	if err := ValidateRequired(name, "name"); err != nil {
		return err
	}
	if err := ValidateMinLength(name, 3, "name"); err != nil {
		return err
	}
	if err := ValidateMaxLength(name, 100, "name"); err != nil {
		return err
	}
	return nil
}
