package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/yigit/schoolhub/internal/app/models/dto"
)

// HandleValidationError answers 400 for a request body that failed to bind
func HandleValidationError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, dto.NewErrorResponse(ValidationErrorDetail(err)))
}

// ValidationErrorDetail turns binding errors into an error detail listing every failed field
func ValidationErrorDetail(err error) *dto.ErrorDetail {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]dto.FieldError, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, dto.FieldError{Field: jsonFieldName(fe), Message: formatValidationError(fe)})
		}
		detail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, fields[0].Message).WithDetails(fields)
		if len(fields) == 1 {
			detail.WithField(fields[0].Field)
		}
		return detail
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &typeErr):
		return dto.NewErrorDetail(dto.ErrorCodeValidationFailed, typeErr.Field+" has the wrong type").WithField(typeErr.Field)
	case errors.As(err, &syntaxErr):
		return dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Malformed JSON body")
	}

	return dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid request format")
}

// jsonFieldName lower-cases the first letter of the struct field to match the JSON tag style
func jsonFieldName(fe validator.FieldError) string {
	name := fe.Field()
	if name == "" {
		return name
	}
	// nested paths such as Attendance[0].Status keep their index
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		ns = ns[i+1:]
		parts := strings.Split(ns, ".")
		for i, p := range parts {
			parts[i] = strings.ToLower(p[:1]) + p[1:]
		}
		return strings.Join(parts, ".")
	}
	return strings.ToLower(name[:1]) + name[1:]
}

// formatValidationError creates a human-readable validation error message
func formatValidationError(e validator.FieldError) string {
	field := jsonFieldName(e)
	switch e.Tag() {
	case "required":
		return field + " is required"
	case "min":
		return field + " must be at least " + e.Param()
	case "max":
		return field + " must be at most " + e.Param()
	case "email":
		return field + " must be a valid email address"
	case "oneof":
		return field + " must be one of: " + e.Param()
	case "weekday":
		return field + " must be a day from Monday to Sunday"
	case "clock":
		return field + " must be a time in HH:MM format"
	case "datetime":
		return field + " must be a date in " + e.Param() + " format"
	default:
		return field + " validation failed: " + e.Tag()
	}
}
