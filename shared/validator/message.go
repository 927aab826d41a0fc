package validator

import (
	"cmp"
	"errors"
	"reflect"
	"strings"

	val "github.com/go-playground/validator/v10"
)

var messages = map[string]string{
	"required": "{field} is required",
	"email":    "{field} must be a valid email address",
	"e164":     "{field} must be a phone number in international format",
	"uuid":     "{field} must be a valid UUID",
	"oneof":    "{field} must be one of {param}",
	"unique":   "{field} must not contain duplicates",
	"gt":       "{field} must be greater than {param}",
	"gte":      "{field} must be greater than or equal to {param}",
	"lt":       "{field} must be less than {param}",
	"lte":      "{field} must be less than or equal to {param}",
	"day":      "{field} must be a date formatted as YYYY-MM-DD",
	"clock":    "{field} must be a time formatted as HH:mm",
	"enum":     "{field} has an unsupported value",
}

// sizeMessages depend on what is being measured.
var sizeMessages = map[string]map[reflect.Kind]string{
	"min": {
		reflect.String: "{field} must be at least {param} characters long",
		reflect.Slice:  "{field} must contain at least {param} items",
	},
	"max": {
		reflect.String: "{field} must be at most {param} characters long",
		reflect.Slice:  "{field} must contain at most {param} items",
	},
}

func describe(fieldErr val.FieldError) string {
	template := messages[fieldErr.Tag()]

	if bySize, ok := sizeMessages[fieldErr.Tag()]; ok {
		template = bySize[fieldErr.Kind()]
	}

	if template == "" {
		return ""
	}

	return strings.NewReplacer("{field}", cmp.Or(fieldErr.Field(), "value"), "{param}", fieldErr.Param()).Replace(template)
}

// message reports the first field error that has a readable template.
func message(err error) string {
	var fieldErrs val.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err.Error()
	}

	for _, fieldErr := range fieldErrs {
		if text := describe(fieldErr); text != "" {
			return text
		}
	}

	return fieldErrs.Error()
}
