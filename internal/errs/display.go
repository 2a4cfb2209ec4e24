package errs

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// UserMessage reduces any core error to a single line fit for display.
// Validation errors list their fields; everything unrecognized falls
// back to a generic message.
func UserMessage(err error) string {
	var (
		validation *ValidationError
		notFound   *NotFoundError
		conflict   *ConflictError
		network    *NetworkError
		rejection  *ServerRejection
	)
	switch {
	case errors.As(err, &validation):
		return "invalid input: " + joinFields(validation.Fields)
	case errors.As(err, &notFound):
		return notFound.Message
	case errors.As(err, &conflict):
		return conflict.Message
	case errors.As(err, &network):
		return "could not reach the server, please try again"
	case errors.As(err, &rejection):
		return rejection.Message
	default:
		return "an unexpected error occurred"
	}
}

func joinFields(fields map[string]string) string {
	if len(fields) == 0 {
		return "please check the form"
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s (%s)", k, fields[k]))
	}
	return strings.Join(parts, ", ")
}
