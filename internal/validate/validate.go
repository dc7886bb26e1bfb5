// Package validate performs client-side form checks before any network call.
//
// Validation failures are resolved entirely in the form layer: they surface
// as ValidationError values and never reach the store.
package validate

import (
	"regexp"

	apperrors "smartcity/internal/errors"
	"smartcity/internal/store"

	"github.com/go-playground/validator/v10"
)

// FormValidator wraps go-playground validator with the municipal form rules.
type FormValidator struct {
	validate *validator.Validate
}

// New creates a validator with the custom rules registered.
func New() *FormValidator {
	v := validator.New()

	v.RegisterValidation("phone10", validatePhone10)
	v.RegisterValidation("pin6", validatePin6)

	return &FormValidator{validate: v}
}

// validatePhone10 requires exactly 10 digits.
func validatePhone10(fl validator.FieldLevel) bool {
	phoneRegex := regexp.MustCompile(`^\d{10}$`)
	return phoneRegex.MatchString(fl.Field().String())
}

// validatePin6 requires exactly 6 digits.
func validatePin6(fl validator.FieldLevel) bool {
	pinRegex := regexp.MustCompile(`^\d{6}$`)
	return pinRegex.MatchString(fl.Field().String())
}

// Registration validates the registration form, including the role-shaped
// required fields: citizens need phone, address, city and PIN; workers need
// phone and specialization.
func (fv *FormValidator) Registration(form store.RegistrationForm) error {
	if err := fv.validate.Struct(form); err != nil {
		return firstViolation(err)
	}

	switch form.Role {
	case store.RoleCitizen:
		if form.PhoneNumber == "" {
			return apperrors.NewValidationError("phoneNumber", "required for citizens")
		}
		if form.Address == "" {
			return apperrors.NewValidationError("address", "required for citizens")
		}
		if form.City == "" {
			return apperrors.NewValidationError("city", "required for citizens")
		}
		if form.PinCode == "" {
			return apperrors.NewValidationError("pinCode", "required for citizens")
		}
	case store.RoleWorker:
		if form.PhoneNumber == "" {
			return apperrors.NewValidationError("phoneNumber", "required for workers")
		}
		if form.Specialization == "" {
			return apperrors.NewValidationError("specialization", "required for workers")
		}
	}
	return nil
}

// Profile validates a partial profile update.
func (fv *FormValidator) Profile(update store.ProfileUpdate) error {
	if err := fv.validate.Struct(update); err != nil {
		return firstViolation(err)
	}
	return nil
}

// Complaint validates the complaint-creation form.
func (fv *FormValidator) Complaint(form store.ComplaintForm) error {
	if err := fv.validate.Struct(form); err != nil {
		return firstViolation(err)
	}
	return nil
}

// firstViolation converts the validator's first field violation into the
// client's ValidationError type.
func firstViolation(err error) error {
	if violations, ok := err.(validator.ValidationErrors); ok && len(violations) > 0 {
		v := violations[0]
		return apperrors.NewValidationError(v.Field(), messageFor(v))
	}
	return apperrors.NewValidationError("", err.Error())
}

// messageFor maps a violated rule to the message the forms display.
func messageFor(v validator.FieldError) string {
	switch v.Tag() {
	case "required":
		return "this field is required"
	case "email":
		return "please enter a valid email address"
	case "min":
		if v.Field() == "Password" {
			return "password must be at least 8 characters"
		}
		return "value is too short"
	case "phone10":
		return "must be exactly 10 digits"
	case "pin6":
		return "must be exactly 6 digits"
	case "oneof":
		return "must be one of CITIZEN, WORKER or ADMIN"
	}
	return "invalid value"
}
