package booking

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}

		return name
	})

	mustRegister(v, "notblank", notBlank)
	mustRegister(v, "hasimage", hasImage)

	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(err)
	}
}

func notBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// hasImage requires at least one non-blank entry in a []string field.
func hasImage(fl validator.FieldLevel) bool {
	field := fl.Field()
	if field.Kind() != reflect.Slice {
		return false
	}

	for i := 0; i < field.Len(); i++ {
		if strings.TrimSpace(field.Index(i).String()) != "" {
			return true
		}
	}

	return false
}

// validateStruct runs the struct tags of s and collects failures into an
// InputError, using messages to phrase them.
func validateStruct(s any, messages map[string]string) *InputError {
	inputErr := newInputError()

	err := validate.Struct(s)
	if err == nil {
		return inputErr
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		inputErr.addError("form", err.Error())

		return inputErr
	}

	for _, fe := range fieldErrs {
		msg, ok := messages[fe.Field()+"."+fe.Tag()]
		if !ok {
			msg = "provide valid " + fe.Field()
		}

		inputErr.addError(fe.Field(), msg)
	}

	return inputErr
}
