package errs

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// Request & Input-Validation Errors
var (
	ErrInvalidField = errors.New("invalid field")
	ErrInvalidJSON  = errors.New("invalid JSON")
	ErrValidation   = errors.New("validation failed")
)

// MissingPropertiesMessage is the 400 message for any body that fails its schema.
const MissingPropertiesMessage = "Request body is missing one of the needed properties!"

// NewInvalidIDError reports a path id that is not a valid identifier, e.g. "Contact id is not valid".
func NewInvalidIDError(entity string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadRequest,
		err:        withSentinel(fmt.Sprintf("%s id is not valid", entity), ErrInvalidField),
		Field:      "id",
	}
}

func NewInvalidJSONError(cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadRequest,
		err:        withSentinel(MissingPropertiesMessage, ErrInvalidJSON),
		Details:    "Invalid JSON format",
		Cause:      cause,
		Field:      "json",
	}
}

// NewValidationError reports schema failures. fields maps the JSON field name
// to a human readable reason.
func NewValidationError(fields map[string]string) *ApiErr {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	reasons := make([]string, 0, len(names))
	for _, name := range names {
		reasons = append(reasons, fmt.Sprintf("%s %s", name, fields[name]))
	}

	apiErr := &ApiErr{
		StatusCode: http.StatusBadRequest,
		err:        withSentinel(MissingPropertiesMessage, ErrValidation),
		Details:    strings.Join(reasons, "; "),
	}
	if len(names) == 1 {
		apiErr.Field = names[0]
	}
	return apiErr
}

func IsValidationError(err error) bool {
	return errors.Is(err, ErrValidation) || errors.Is(err, ErrInvalidJSON)
}

func IsInvalidFieldError(err error) bool {
	return errors.Is(err, ErrInvalidField)
}
