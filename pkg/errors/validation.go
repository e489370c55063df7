package errors

import (
	"strings"
	"unicode"
)

// maxColumnNameLength bounds column names accepted from CSV headers and spec files.
const maxColumnNameLength = 256

// ValidateColumnName validates a column name taken from a CSV header or a spec file.
//
// The validation rules are intentionally conservative:
//   - No empty names
//   - No control characters
//   - Maximum length of 256 characters
func ValidateColumnName(name string) error {
	if strings.TrimSpace(name) == "" {
		return New(ErrCodeInvalidColumn, "column name cannot be empty")
	}

	if len(name) > maxColumnNameLength {
		return New(ErrCodeInvalidColumn, "column name too long (max %d characters)", maxColumnNameLength)
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidColumn, "column name contains invalid control characters")
		}
	}

	return nil
}

// ValidateChoice checks that value is one of allowed. The empty string is
// accepted when allowEmpty is set, so callers can fall back to a default.
func ValidateChoice(option, value string, allowEmpty bool, allowed ...string) error {
	if value == "" && allowEmpty {
		return nil
	}
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	return New(ErrCodeInvalidConfig, "invalid %s: %q (must be one of %s)", option, value, quoteList(allowed))
}

func quoteList(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = "'" + v + "'"
	}
	return strings.Join(quoted, ", ")
}
