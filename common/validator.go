package common

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// MaxBodyBytes caps JSON request bodies. Product images arrive inline as
// data URIs, so the limit sits well above a typical payload.
var MaxBodyBytes int64 = 16 << 20

// ValidateAndDecode decodes the JSON body into payload and validates it.
func ValidateAndDecode(r *http.Request, payload interface{}) *AppError {
	r.Body = http.MaxBytesReader(nil, r.Body, MaxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(payload); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return NewAppError(http.StatusRequestEntityTooLarge, "Request body too large", err)
		}
		return NewAppError(http.StatusBadRequest, "Invalid request body", err)
	}

	if err := validate.Struct(payload); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			return NewAppError(http.StatusBadRequest, validationMessage(validationErrors), err)
		}
		return NewAppError(http.StatusBadRequest, "Invalid request body", err)
	}

	return nil
}

func validationMessage(errs validator.ValidationErrors) string {
	for _, fe := range errs {
		if fe.Tag() == "required" {
			return "All fields are required"
		}
	}
	fields := make([]string, 0, len(errs))
	for _, fe := range errs {
		fields = append(fields, strings.ToLower(fe.Field()))
	}
	return "Invalid value for: " + strings.Join(fields, ", ")
}
