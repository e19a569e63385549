package apperror

import (
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func jsonTagName(fld reflect.StructField) string {
	// Field names come from the json tag (e.g. `json:"base_salary"`)
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	return name
}

// Init registers json tag names on gin's validator so binding errors name
// fields the way clients send them.
func Init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(jsonTagName)
	}
}

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.SetTagName("binding")
		validate.RegisterTagNameFunc(jsonTagName)
	})
	return validate
}

// Validate runs the same `binding` tag rules gin applies, outside the HTTP
// path. It returns an INVALID_INPUT AppError describing the first failing field.
func Validate(v any) error {
	if err := validatorInstance().Struct(v); err != nil {
		return MapValidationError(err)
	}
	return nil
}
