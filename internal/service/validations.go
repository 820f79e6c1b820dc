package service

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/limbo/bloom/pkg/entity"
)

// Package for custom validations
var (
	validate *validator.Validate
	once     sync.Once
)

func InitValidator() {
	once.Do(func() {
		validate = validator.New()
		validate.RegisterValidation("mood_label", func(fl validator.FieldLevel) bool {
			switch fl.Field().String() {
			case entity.MoodAmazing, entity.MoodGood, entity.MoodOkay, entity.MoodDown, entity.MoodStressed:
				return true
			}
			return false
		})
	})
}

// ValidateStruct runs the shared validator. Exposed so test doubles can
// mirror service-side validation.
func ValidateStruct(s any) error {
	return validate.Struct(s)
}

// FieldErrors flattens a validation error into per-field messages so the
// handler can report them inline next to the offending inputs. The second
// return is false when err is not a validation failure.
func FieldErrors(err error) (map[string]string, bool) {
	var verr validator.ValidationErrors
	if !errors.As(err, &verr) {
		return nil, false
	}
	fields := make(map[string]string, len(verr))
	for _, fe := range verr {
		fields[strings.ToLower(fe.Field())] = fieldMessage(fe)
	}
	return fields, true
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Please enter a valid email address."
	case "min":
		if fe.Kind().String() == "string" {
			return fmt.Sprintf("Must be at least %s characters.", fe.Param())
		}
		return fmt.Sprintf("Must be at least %s.", fe.Param())
	case "max":
		if fe.Kind().String() == "string" {
			return fmt.Sprintf("Must be at most %s characters.", fe.Param())
		}
		return fmt.Sprintf("Must be at most %s.", fe.Param())
	case "mood_label":
		return "Please select a mood."
	}
	return "Invalid value."
}
