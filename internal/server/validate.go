package server

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	cberrors "github.com/matzehuels/cellbars/pkg/errors"
	"github.com/matzehuels/cellbars/pkg/pipeline"
)

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate
)

// validatorInstance returns the shared request validator. Field names in
// errors are the request's JSON names.
func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())

		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			return name
		})

		_ = v.RegisterValidation("format", func(fl validator.FieldLevel) bool {
			return pipeline.ValidateFormat(fl.Field().String()) == nil
		})

		validateInst = v
	})
	return validateInst
}

// validateRequest checks the request shape before anything is rendered.
func validateRequest(req *RenderRequest) error {
	err := validatorInstance().Struct(req)
	if err == nil {
		return nil
	}

	var ves validator.ValidationErrors
	if !errors.As(err, &ves) || len(ves) == 0 {
		return cberrors.Wrap(cberrors.ErrCodeInvalidInput, err, "invalid request")
	}
	fe := ves[0]
	switch fe.Tag() {
	case "required":
		return cberrors.New(cberrors.ErrCodeInvalidInput, "%s is required", fe.Field())
	case "format":
		format, _ := fe.Value().(string)
		return pipeline.ValidateFormat(format)
	case "max", "lte":
		return cberrors.New(cberrors.ErrCodeInvalidInput, "%s must be at most %s", fe.Field(), fe.Param())
	case "min", "gte":
		return cberrors.New(cberrors.ErrCodeInvalidInput, "%s must be at least %s", fe.Field(), fe.Param())
	}
	return cberrors.New(cberrors.ErrCodeInvalidInput, "%s failed validation for tag '%s'", fe.Field(), fe.Tag())
}
