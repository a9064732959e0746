package validators

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/MKhiriev/go-todo-keeper/models"
	"github.com/go-playground/validator/v10"
)

// Field names used in ValidationError.Fields that are not struct fields.
const (
	FieldBody  = "body"
	FieldTitle = "title"
)

const maxTitleLength = 200

// RequestValidator validates the request models of the API with
// go-playground/validator struct tags.
type RequestValidator struct {
	validate *validator.Validate
}

// NewRequestValidator returns a Validator for the auth and task request models.
func NewRequestValidator() Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	// bcrypt only hashes the first 72 bytes, longer secrets are refused.
	_ = v.RegisterValidation("bcrypt", func(fl validator.FieldLevel) bool {
		return len(fl.Field().String()) <= 72
	})

	return &RequestValidator{validate: v}
}

func (v *RequestValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case models.RegisterRequest, *models.RegisterRequest,
		models.LoginRequest, *models.LoginRequest,
		models.CreateTaskRequest, *models.CreateTaskRequest,
		models.TaskQuery, *models.TaskQuery:
		return v.validateStruct(ctx, value, fields...)

	case models.TaskPatch:
		return v.validateTaskPatch(ctx, value)
	case *models.TaskPatch:
		return v.validateTaskPatch(ctx, *value)

	default:
		return ErrUnsupportedType
	}
}

func (v *RequestValidator) validateStruct(ctx context.Context, obj any, fields ...string) error {
	var err error
	if len(fields) > 0 {
		err = v.validate.StructPartialCtx(ctx, obj, fields...)
	} else {
		err = v.validate.StructCtx(ctx, obj)
	}

	return toValidationError(err)
}

func (v *RequestValidator) validateTaskPatch(ctx context.Context, patch models.TaskPatch) error {
	if patch.IsEmpty() {
		return NewValidationError(FieldBody, "at least one of title, completed is required")
	}

	if patch.Title != nil {
		rules := fmt.Sprintf("required,max=%d", maxTitleLength)
		if err := v.validate.VarCtx(ctx, *patch.Title, rules); err != nil {
			return toFieldError(FieldTitle, err)
		}
	}

	return nil
}

func toValidationError(err error) error {
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("error validating request: %w", err)
	}

	out := &ValidationError{Fields: make(map[string]string, len(fieldErrs))}
	for _, fe := range fieldErrs {
		if _, seen := out.Fields[fe.Field()]; !seen {
			out.Fields[fe.Field()] = reason(fe)
		}
	}

	return out
}

func toFieldError(field string, err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return fmt.Errorf("error validating %s: %w", field, err)
	}

	return NewValidationError(field, reason(fieldErrs[0]))
}

func reason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return "must be at least " + fe.Param() + " characters"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "gte":
		return "must be at least " + fe.Param()
	case "lte":
		return "must be at most " + fe.Param()
	case "bcrypt":
		return "must be at most 72 bytes"
	default:
		return "is invalid"
	}
}
