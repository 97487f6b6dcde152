// Package validation holds the field format rules shared by the HTTP layer
// and the services.
package validation

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

var (
	venmoRegex           = regexp.MustCompile(`^@[a-zA-Z0-9_-]+$`)
	cashAppRegex         = regexp.MustCompile(`^\$[a-zA-Z0-9_-]+$`)
	payPalRegex          = regexp.MustCompile(`^[a-zA-Z0-9]+$`)
	conferencePhoneRegex = regexp.MustCompile(`^[0-9+,#]+$`)
)

var messages = map[string]string{
	"venmo": "Enter a valid Venmo username. Must start with '@', and can contain " +
		"letters, numbers, '-', and '_'.",
	"cashapp": "Enter a valid CashApp username. Must start with '$', and can contain " +
		"letters, numbers, '-', and '_'.",
	"paypal": "Enter a valid PayPal username for https://paypal.me/. Only letters and " +
		"numbers are valid.",
	"conference_phone": "Enter a valid conference phone number. The three groups of numbers in this " +
		"example are a Zoom phone number, meeting code, and password: " +
		"+19294362866,,2151234215#,,#,,12341234#",
}

func New() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	mustRegister(v, "venmo", venmoRegex)
	mustRegister(v, "cashapp", cashAppRegex)
	mustRegister(v, "paypal", payPalRegex)
	mustRegister(v, "conference_phone", conferencePhoneRegex)

	return v
}

func mustRegister(v *validator.Validate, tag string, re *regexp.Regexp) {
	err := v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
		return re.MatchString(fl.Field().String())
	})
	if err != nil {
		panic(err)
	}
}

// Messages flattens validation errors into "field: message" lines.
func Messages(err error) []string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{err.Error()}
	}

	out := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, fmt.Sprintf("%s: %s", fe.Field(), message(fe)))
	}
	return out
}

func message(fe validator.FieldError) string {
	if msg, ok := messages[fe.Tag()]; ok {
		return msg
	}

	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("Ensure this value has at most %s characters.", fe.Param())
		}
		return fmt.Sprintf("Ensure this value is less than or equal to %s.", fe.Param())
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("Ensure this value has at least %s characters.", fe.Param())
		}
		return fmt.Sprintf("Ensure this value is greater than or equal to %s.", fe.Param())
	case "url":
		return "Enter a valid URL."
	case "oneof":
		return fmt.Sprintf("Value must be one of: %s.", fe.Param())
	default:
		return fmt.Sprintf("Failed on the '%s' rule.", fe.Tag())
	}
}
