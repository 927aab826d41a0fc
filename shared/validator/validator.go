package validator

import (
	"encoding/json"
	"io"
	"reflect"
	"salon/shared/constant"
	"salon/shared/failure"
	"strings"
	"time"

	val "github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

var validate = newValidate()

// enumValue is implemented by string enums that know their own members.
type enumValue interface {
	IsValid() bool
}

// layout accepts empty values so it composes with omitempty and required.
func layout(format string) val.Func {
	return func(fl val.FieldLevel) bool {
		value := fl.Field().String()
		if value == "" {
			return true
		}

		_, err := time.Parse(format, value)

		return err == nil
	}
}

func enum(fl val.FieldLevel) bool {
	field := fl.Field()
	if !field.CanInterface() {
		return false
	}

	value, ok := field.Interface().(enumValue)

	return ok && value.IsValid()
}

// jsonName reports fields by the name clients send.
func jsonName(field reflect.StructField) string {
	name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}

	if name == "" {
		return field.Name
	}

	return name
}

func newValidate() *val.Validate {
	v := val.New(val.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonName)

	custom := map[string]val.Func{
		"day":   layout(constant.DayFormat),
		"clock": layout(constant.ClockFormat),
		"enum":  enum,
		"empty": func(fl val.FieldLevel) bool { return fl.Field().IsZero() },
	}

	for tag, fn := range custom {
		if err := v.RegisterValidation(tag, fn); err != nil {
			panic(err)
		}
	}

	return v
}

func invalid(err error) error {
	if err == nil {
		return nil
	}

	return failure.BadRequestFromString(message(err))
}

// Validate decodes a JSON body into data and validates the result.
func Validate[T any](r io.Reader, data *T) error {
	if err := json.NewDecoder(r).Decode(data); err != nil {
		return failure.BadRequest(errors.Wrap(err, "failed to decode request body"))
	}

	return ValidateStruct(data)
}

func ValidateStruct[T any](data *T) error {
	return invalid(validate.Struct(data))
}

// ValidateVar checks a single value, typically a query parameter.
func ValidateVar(field any, tag string) error {
	return invalid(validate.Var(field, tag))
}
