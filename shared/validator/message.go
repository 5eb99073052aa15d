package validator

import (
	"errors"
	"strings"

	val "github.com/go-playground/validator/v10"
)

var messages = map[string]string{
	"required": "{field} is required",
	"gte":      "{field} must be greater than or equal to {param}",
	"lte":      "{field} must be less than or equal to {param}",
	"oneof":    "{field} must be one of {param}",
	"max":      "{field} must be less than or equal to {param}",
	"min":      "{field} must be greater than or equal to {param}",
	"email":    "{field} must be a valid email address",

	"datetime":         "{field} must be formatted as {param}",
	"timeofday":        "{field} must be a time of day formatted as HH:MM",
	"taxid":            "{field} must be a valid tax identification number",
	"iso3166_1_alpha2": "{field} must be a two letter country code",
	"gtfield":          "{field} must be after {param}",
}

// message renders the first failure that has a template, or the validator's own text otherwise.
func message(err error) string {
	var fieldErrors val.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return err.Error()
	}

	for _, fieldErr := range fieldErrors {
		if template, ok := messages[fieldErr.Tag()]; ok {
			return strings.NewReplacer("{field}", fieldErr.Field(), "{param}", fieldErr.Param()).Replace(template)
		}
	}

	return fieldErrors.Error()
}
