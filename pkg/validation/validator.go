package validation

import (
	"encoding/json"
	"errors"
	"io"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/oksasatya/go-identity-directory/internal/domain/apperror"
)

// Init configures the global validator used by Gin's binding so errors use
// JSON tag names.
func Init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			for _, tag := range []string{"json", "form"} {
				name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
				if name == "-" {
					return ""
				}
				if name != "" {
					return name
				}
			}
			return fld.Name
		})
	}
}

// ToFieldErrors converts gin binding errors into domain field errors.
func ToFieldErrors(err error) []apperror.FieldError {
	if err == nil {
		return nil
	}

	var se *json.SyntaxError
	var ute *json.UnmarshalTypeError
	switch {
	case errors.Is(err, io.EOF):
		return []apperror.FieldError{{Field: "payload", Rule: apperror.CodeRequired, Message: "request body is required"}}
	case errors.As(err, &se):
		return []apperror.FieldError{{Field: "payload", Rule: apperror.CodeInvalidFormat, Message: "invalid json"}}
	case errors.As(err, &ute):
		field := ute.Field
		if field == "" {
			field = "payload"
		}
		return []apperror.FieldError{{Field: field, Rule: apperror.CodeInvalidType, Message: "must be a " + ute.Type.String()}}
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		out := make([]apperror.FieldError, 0, len(verrs))
		for _, fe := range verrs {
			out = append(out, formatFieldError(fe))
		}
		return out
	}

	return []apperror.FieldError{{Field: "payload", Rule: apperror.CodeInvalidFormat, Message: "invalid payload"}}
}

func formatFieldError(fe validator.FieldError) apperror.FieldError {
	out := apperror.FieldError{Field: fe.Field(), Rule: apperror.CodeInvalidFormat}
	param := fe.Param()
	switch fe.Tag() {
	case "required":
		out.Rule = apperror.CodeRequired
		out.Message = "is required"
	case "min":
		if isNumberKind(fe.Kind()) {
			out.Message = "must be at least " + param
		} else {
			out.Message = "must be at least " + param + " characters long"
		}
	case "max":
		if isNumberKind(fe.Kind()) {
			out.Message = "must be at most " + param
		} else {
			out.Message = "must be at most " + param + " characters long"
		}
	case "uuid":
		out.Message = "must be a valid UUID"
	case "oneof":
		out.Message = "must be one of: " + strings.Join(strings.Fields(param), ", ")
	default:
		if param != "" {
			out.Message = "validation failed for '" + fe.Tag() + "' with parameter '" + param + "'"
		} else {
			out.Message = "validation failed for '" + fe.Tag() + "'"
		}
	}
	return out
}

func isNumberKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}
