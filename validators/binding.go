package validators

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FormatBindingError turns the validation errors produced by gin's
// binding layer into a field-level message suitable for a 400
// response. Non-validation errors (malformed JSON and the like)
// collapse into a generic message.
func FormatBindingError(err error) string {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return "Invalid request body"
	}

	msgs := make([]string, 0, len(ve))
	for _, fe := range ve {
		msgs = append(msgs, fmt.Sprintf("field '%s' failed '%s'", fe.Field(), fe.Tag()))
	}

	return strings.Join(msgs, "; ")
}
