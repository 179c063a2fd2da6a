package forms

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report fields by their form names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	return v
}

// fieldErrors validates s and adds a message for every failing field not
// already reported in errs
func fieldErrors(s any, errs map[string]string) {
	err := validate.Struct(s)
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return
	}
	for _, e := range validationErrs {
		if _, found := errs[e.Field()]; !found {
			errs[e.Field()] = friendlyMessage(e)
		}
	}
}

func friendlyMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "This field is required."
	case "max":
		return "Ensure this value has at most " + e.Param() + " characters."
	case "gte":
		return "Ensure this value is greater than or equal to " + e.Param() + "."
	case "lte":
		return "Ensure this value is less than or equal to " + e.Param() + "."
	}
	return "Enter a valid value."
}
