package validator

import (
	"errors"
	"time"

	"clinic-appointment-api/internal/domain/entity"

	"github.com/go-playground/validator/v10"
)

type CustomValidator struct {
	validator *validator.Validate
}

func NewValidator() *CustomValidator {
	v := validator.New()
	// registration only fails on an empty tag or a nil func
	_ = v.RegisterValidation("clock", validateClock)
	_ = v.RegisterValidation("date", validateDate)
	return &CustomValidator{validator: v}
}

func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

// validateClock accepts HH:MM times of day
func validateClock(fl validator.FieldLevel) bool {
	_, err := entity.ParseClockTime(fl.Field().String())
	return err == nil
}

// validateDate accepts YYYY-MM-DD calendar dates
func validateDate(fl validator.FieldLevel) bool {
	_, err := time.Parse(time.DateOnly, fl.Field().String())
	return err == nil
}

func (cv *CustomValidator) FormatValidationErrors(err error) map[string]string {
	errs := make(map[string]string)

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return errs
	}

	for _, e := range validationErrors {
		field := e.Field()
		switch e.Tag() {
		case "required":
			errs[field] = field + " is required"
		case "email":
			errs[field] = field + " must be a valid email address"
		case "min":
			errs[field] = field + " must be at least " + e.Param()
		case "max":
			errs[field] = field + " must be at most " + e.Param()
		case "gte":
			errs[field] = field + " must be greater than or equal to " + e.Param()
		case "lte":
			errs[field] = field + " must be less than or equal to " + e.Param()
		case "oneof":
			errs[field] = field + " must be one of: " + e.Param()
		case "clock":
			errs[field] = field + " must be a time in HH:MM format"
		case "date":
			errs[field] = field + " must be a date in YYYY-MM-DD format"
		default:
			errs[field] = field + " is invalid"
		}
	}

	return errs
}
