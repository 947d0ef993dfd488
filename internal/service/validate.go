package service

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()

	// Override the built-in string validators with finite numeric checks.
	validate.RegisterValidation("latitude", validateLatitude)
	validate.RegisterValidation("longitude", validateLongitude)

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

func validateLatitude(fl validator.FieldLevel) bool {
	return inRange(fl.Field().Float(), 90)
}

func validateLongitude(fl validator.FieldLevel) bool {
	return inRange(fl.Field().Float(), 180)
}

func inRange(v, bound float64) bool {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return false
	}
	return v >= -bound && v <= bound
}

// ValidateCoordinate reports ErrInvalidArgument for a non-finite or out of
// range coordinate.
func ValidateCoordinate(coord Coordinate) error {
	err := validate.Struct(coord)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return invalidArgument("%v", err)
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, getErrorMessage(fe))
	}
	return invalidArgument("%s", strings.Join(msgs, "; "))
}

func validateLocationKey(key string) error {
	if err := validate.Var(strings.TrimSpace(key), "required"); err != nil {
		return invalidArgument("location key must not be empty")
	}
	return nil
}

func validateDays(days, minDays, maxDays int) error {
	if err := validate.Var(days, fmt.Sprintf("min=%d,max=%d", minDays, maxDays)); err != nil {
		if days < minDays {
			return invalidArgument("days must be at least %d, got %d", minDays, days)
		}
		return invalidArgument("days must be at most %d, got %d", maxDays, days)
	}
	return nil
}

func getErrorMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "latitude":
		return fmt.Sprintf("%s must be a finite number between -90 and 90, got %v", fe.Field(), fe.Value())
	case "longitude":
		return fmt.Sprintf("%s must be a finite number between -180 and 180, got %v", fe.Field(), fe.Value())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}
