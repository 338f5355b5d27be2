package validation

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// RequestValidator plugs validator/v10 into echo's Validator hook.
type RequestValidator struct {
	validate *validator.Validate
}

func New() *RequestValidator {
	v := validator.New(validator.WithRequiredStructEnabled())

	// usernames may not contain whitespace
	_ = v.RegisterValidation("nospace", func(fl validator.FieldLevel) bool {
		return !strings.ContainsAny(fl.Field().String(), " \t\n")
	})

	return &RequestValidator{validate: v}
}

func (rv *RequestValidator) Validate(i interface{}) error {
	return rv.validate.Struct(i)
}

// Messages flattens validator violations into the message list returned
// verbatim to the caller. Non-validator errors collapse into a single
// generic entry.
func Messages(err error) []string {
	violations, ok := err.(validator.ValidationErrors)
	if !ok {
		return []string{"invalid request body"}
	}

	msgs := make([]string, 0, len(violations))
	for _, v := range violations {
		msgs = append(msgs, message(v))
	}
	return msgs
}

func message(v validator.FieldError) string {
	field := strings.ToLower(v.Field()[:1]) + v.Field()[1:]

	switch v.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, v.Param())
	case "eqfield":
		return fmt.Sprintf("%s does not match %s", field, strings.ToLower(v.Param()[:1])+v.Param()[1:])
	case "nospace":
		return fmt.Sprintf("%s must not contain spaces", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, v.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
