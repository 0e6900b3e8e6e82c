// Package bind decodes and validates a fiber request body into a struct.
package bind

import (
	"errors"
	"reflect"
	"strings"

	"mealplan-backend/internal/apperr"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var (
	ErrInvalidBody = apperr.Validation("INVALID_BODY", "request body could not be parsed")
	ErrInvalidData = apperr.Validation("INVALID_FIELDS", "request body failed validation")
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// report json names, not Go field names
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// JSON parses the body into dest and runs its `validate` tags.
func JSON(c *fiber.Ctx, dest any) error {
	if err := c.BodyParser(dest); err != nil {
		return ErrInvalidBody.Wrap(err)
	}
	return Struct(dest)
}

// Struct validates dest and returns ErrInvalidData with a field → rule map.
func Struct(dest any) error {
	err := validate.Struct(dest)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return ErrInvalidBody.Wrap(err)
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fieldPath(fe.Namespace())] = fe.Tag()
	}
	return ErrInvalidData.WithDetails(map[string]any{"fields": fields})
}

// fieldPath drops the root struct name from a validator namespace.
func fieldPath(ns string) string {
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return ns
}
