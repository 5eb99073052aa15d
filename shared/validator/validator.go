package validator

import (
	"encoding/json"
	"fmt"
	"io"
	"reflect"
	"regexp"
	"strings"

	"spacebook/shared/failure"

	val "github.com/go-playground/validator/v10"
)

var (
	validate *val.Validate

	timeOfDayPattern = regexp.MustCompile(`^(([01]\d|2[0-3]):[0-5]\d|24:00)$`)
	taxIDPattern     = regexp.MustCompile(`^[A-Z0-9]{8,15}$`)
)

// timeofday accepts "HH:MM" on a 24h clock, plus "24:00" as end of day.
func validateTimeOfDay(field val.FieldLevel) bool {
	return timeOfDayPattern.MatchString(field.Field().String())
}

// taxid accepts a VAT or national tax number once spaces, dots and dashes are removed.
func validateTaxID(field val.FieldLevel) bool {
	normalized := strings.NewReplacer(" ", "", ".", "", "-", "").Replace(strings.ToUpper(field.Field().String()))

	return taxIDPattern.MatchString(normalized)
}

func init() {
	validate = val.New(val.WithRequiredStructEnabled())

	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}

		return name
	})

	for tag, fn := range map[string]val.Func{
		"timeofday": validateTimeOfDay,
		"taxid":     validateTaxID,
	} {
		if err := validate.RegisterValidation(tag, fn); err != nil {
			panic(err)
		}
	}
}

// Validate decodes a JSON body from r into data and validates the result.
func Validate[T any](r io.Reader, data *T) error {
	if err := json.NewDecoder(r).Decode(data); err != nil {
		return failure.BadRequest(fmt.Errorf("failed to decode request body: %w", err)) //nolint:wrapcheck
	}

	return ValidateStruct(data)
}

func ValidateStruct[T any](data *T) error {
	if err := validate.Struct(data); err != nil {
		return failure.BadRequestFromString(message(err)) //nolint:wrapcheck
	}

	return nil
}

func ValidateVar(field any, tag string) error {
	if err := validate.Var(field, tag); err != nil {
		return failure.BadRequestFromString(message(err)) //nolint:wrapcheck
	}

	return nil
}
