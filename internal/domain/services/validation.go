package services

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"property-http-service/internal/error/apperror"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// 校验错误中使用 JSON 字段名
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// violations 返回全部校验失败的字段
func violations(input interface{}) ([]apperror.FieldError, error) {
	err := validate.Struct(input)
	if err == nil {
		return nil, nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return nil, err
	}

	fields := make([]apperror.FieldError, 0, len(validationErrs))
	for _, fe := range validationErrs {
		fields = append(fields, apperror.FieldError{Field: fe.Field(), Rule: fe.Tag()})
	}
	return fields, nil
}

// validateInput 校验失败时返回带错误码的 ValidationError
func validateInput(input interface{}, errCode int) error {
	fields, err := violations(input)
	if err != nil {
		return err
	}
	if len(fields) > 0 {
		return apperror.NewValidationError(errCode, fields)
	}
	return nil
}
