package models

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/beesaferoot/casadf-schema/integrity"
)

type enumValue interface {
	Valid() bool
	Variants() []string
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New()
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return f.Name
			}
			return name
		})
		_ = v.RegisterValidation("enum", func(fl validator.FieldLevel) bool {
			e, ok := fl.Field().Interface().(enumValue)
			return ok && e.Valid()
		})
		_ = v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
			return ValidSlug(fl.Field().String())
		})
		validate = v
	})
	return validate
}

// Validate checks e against its field rules and returns the first failure as
// an *integrity.ValidationError.
func Validate(e Entity) error {
	err := validatorInstance().Struct(e)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return fmt.Errorf("validate %s: %w", e.TableName(), err)
	}
	fe := fieldErrs[0]
	return &integrity.ValidationError{
		Entity: e.TableName(),
		Field:  fe.Field(),
		Reason: reason(fe),
	}
}

func reason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("exceeds %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "len":
		return fmt.Sprintf("must be exactly %s characters", fe.Param())
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "slug":
		return "must be lower-case words separated by single hyphens"
	case "enum":
		if e, ok := fe.Value().(enumValue); ok {
			return fmt.Sprintf("%q is not one of %s", fe.Value(), strings.Join(e.Variants(), ", "))
		}
		return fmt.Sprintf("%v is not a declared variant", fe.Value())
	}
	return fmt.Sprintf("failed %s", fe.Tag())
}
