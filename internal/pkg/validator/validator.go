package validator

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"foodgram/internal/pkg/apperr"

	"github.com/go-playground/validator/v10"
)

// usernamePattern accepts letters, digits and . @ + - _ (unicode aware).
var usernamePattern = regexp.MustCompile(`^[\p{L}\p{N}_.@+-]+$`)

var validate *validator.Validate

func init() {
	validate = validator.New()

	// field names in errors follow the json tags clients send
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	_ = validate.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(fl.Field().String())
	})
}

// Validate checks struct tags and returns an apperr validation error with
// per-field messages, or nil.
func Validate(v interface{}) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperr.Validation("invalid request").WithCause(err)
	}

	details := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		details[fieldPath(fe)] = message(fe)
	}
	return apperr.ValidationWithDetails("validation failed", details)
}

// fieldPath drops the top-level struct name: "CreateRecipeRequest.ingredients[0].amount"
// becomes "ingredients[0].amount".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "username":
		return "may contain only letters, digits and @/./+/-/_"
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must not exceed %s characters", fe.Param())
		}
		return "must be at most " + fe.Param()
	case "min":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("must contain at least %s item(s)", fe.Param())
		}
		return "must be at least " + fe.Param()
	case "gte":
		return "must be greater than or equal to " + fe.Param()
	case "gt":
		return "must be greater than " + fe.Param()
	default:
		return "is invalid"
	}
}
