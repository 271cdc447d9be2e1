package serverutils

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidationError carries per-field messages for a failed request payload.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %d field(s)", len(e.Fields))
}

// ValidateRequest checks struct tags on a request DTO. Field values are never
// echoed back; only the field name and the failed rule.
func ValidateRequest(req interface{}) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	valErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	fields := make(map[string]string, len(valErrs))
	for _, fe := range valErrs {
		fields[fe.Field()] = fmt.Sprintf("failed rule '%s'", fe.Tag())
	}
	return &ValidationError{Fields: fields}
}
