package validation

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldErrors converts a validator error into a Laravel-style
// field -> messages map keyed by the JSON path of the offending field,
// e.g. "email" or "attributes.0.name".
func FieldErrors(err error) map[string][]string {
	fields := map[string][]string{}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		fields["payload"] = []string{err.Error()}
		return fields
	}

	for _, e := range validationErrors {
		key := fieldKey(e.Namespace())
		fields[key] = append(fields[key], formatSingleError(key, e))
	}

	return fields
}

// formatSingleError renders one validation failure as a user-facing message
func formatSingleError(key string, e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return fmt.Sprintf("The %s field is required.", key)
	case "email":
		return fmt.Sprintf("The %s must be a valid email address.", key)
	case "datetime":
		return fmt.Sprintf("The %s does not match the format %s.", key, e.Param())
	case "url":
		return fmt.Sprintf("The %s format is invalid.", key)
	case "min":
		return fmt.Sprintf("The %s must be at least %s.", key, e.Param())
	case "max":
		return fmt.Sprintf("The %s may not be greater than %s.", key, e.Param())
	case "oneof":
		return fmt.Sprintf("The selected %s is invalid.", key)
	default:
		return fmt.Sprintf("The %s field failed validation (%s).", key, e.Tag())
	}
}

// fieldKey turns a validator namespace like
// "StoreCandidateRequest.Attributes[0].Name" into "attributes.0.name"
func fieldKey(namespace string) string {
	parts := strings.Split(namespace, ".")
	if len(parts) > 1 {
		parts = parts[1:] // drop the root struct name
	}

	for i, part := range parts {
		// Unfold array indexes: "Attributes[0]" -> "attributes.0"
		if idx := strings.IndexByte(part, '['); idx >= 0 {
			name := snakeCase(part[:idx])
			index := strings.TrimSuffix(part[idx+1:], "]")
			parts[i] = name + "." + index
			continue
		}
		parts[i] = snakeCase(part)
	}

	return strings.Join(parts, ".")
}

// snakeCase converts CamelCase struct field names to their json form
func snakeCase(s string) string {
	var result strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				result.WriteRune('_')
			}
			result.WriteRune(r - 'A' + 'a')
			continue
		}
		result.WriteRune(r)
	}
	return result.String()
}
