package utils

import (
	"github.com/go-playground/validator/v10"

	apperrors "gearguard/pkg/errors"
)

type CustomValidator struct {
	validator *validator.Validate
}

func NewValidator(v *validator.Validate) *CustomValidator {
	return &CustomValidator{validator: v}
}

func (cv *CustomValidator) Validate(i interface{}) error {
	if err := cv.validator.Struct(i); err != nil {
		if fieldErrors, ok := err.(validator.ValidationErrors); ok && len(fieldErrors) > 0 {
			first := fieldErrors[0]
			return apperrors.NewValidationError(first.Field(), "field %q failed validation rule %q", first.Field(), first.Tag())
		}
		return apperrors.NewValidationError("", "%v", err)
	}
	return nil
}
