// Package validation validates request DTOs with go-playground/validator
// and converts failures into domain validation errors.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/Abdurahmanit/GroupProject/bookreview-service/internal/domain"
	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// Validator returns the shared validator. Field names in errors are the
// JSON names clients send.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})
		// notfutureyear: an integer year that is not after the current year.
		_ = validate.RegisterValidation("notfutureyear", func(fl validator.FieldLevel) bool {
			return fl.Field().Int() <= int64(time.Now().Year())
		})
		// trimmin=N: at least N characters once surrounding whitespace is removed.
		_ = validate.RegisterValidation("trimmin", func(fl validator.FieldLevel) bool {
			n, err := strconv.Atoi(fl.Param())
			if err != nil {
				return false
			}
			return utf8.RuneCountInString(strings.TrimSpace(fl.Field().String())) >= n
		})
	})
	return validate
}

// Struct validates s. Failures are returned as a domain ValidationFailed
// error whose message names the first offending field and whose details
// hold one message per field.
func Struct(s interface{}) error {
	err := Validator().Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return domain.Validation("Invalid request").WithCause(err)
	}
	details := make(map[string]string, len(verrs))
	var first string
	for _, fe := range verrs {
		msg := translate(fe)
		if first == "" {
			first = msg
		}
		if _, seen := details[fe.Field()]; !seen {
			details[fe.Field()] = msg
		}
	}
	return domain.Validation(first).WithDetails(details)
}

var simpleMessages = map[string]string{
	"required":      "%s is required",
	"email":         "Please provide a valid email",
	"notfutureyear": "%s cannot be in the future",
	"url":           "%s must be a valid URL",
	"mongodb":       "Invalid ID format",
}

func translate(fe validator.FieldError) string {
	field := fe.Field()
	if tmpl, ok := simpleMessages[fe.Tag()]; ok {
		if strings.Contains(tmpl, "%s") {
			return fmt.Sprintf(tmpl, field)
		}
		return tmpl
	}

	switch fe.Kind() {
	case reflect.String:
		switch fe.Tag() {
		case "min", "trimmin":
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		case "max":
			return fmt.Sprintf("%s cannot be more than %s characters", field, fe.Param())
		}
	case reflect.Slice, reflect.Array:
		switch fe.Tag() {
		case "min":
			return fmt.Sprintf("%s must contain at least %s item(s)", field, fe.Param())
		case "max":
			return fmt.Sprintf("%s cannot contain more than %s items", field, fe.Param())
		}
	default:
		switch fe.Tag() {
		case "min", "gte":
			return fmt.Sprintf("%s must be at least %s", field, fe.Param())
		case "max", "lte":
			return fmt.Sprintf("%s must be at most %s", field, fe.Param())
		}
	}
	return fmt.Sprintf("%s is invalid", field)
}
