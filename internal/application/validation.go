package application

import (
	"errors"
	"fmt"
	"strings"

	"confluenz/internal/domain"
)

// ValidateRequired checks that a path field is non-empty after trimming.
// An empty path is an ErrInvalidPath ValidationError.
func ValidateRequired(fieldName, value string) error {
	if strings.TrimSpace(value) == "" {
		return &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("%s is required", formatFieldName(fieldName)),
			Kind:    ErrInvalidPath,
		}
	}
	return nil
}

// formatFieldName converts camelCase field names to space-separated words
// for more readable error messages (e.g., "storagePath" -> "storage path")
func formatFieldName(fieldName string) string {
	replacements := map[string]string{
		"storagePath":       "storage path",
		"parentStoragePath": "parent storage path",
		"logicalPath":       "logical path",
		"segment":           "page name",
		"baseVersionStamp":  "base version stamp",
		"query":             "query",
		"newPath":           "new path",
	}

	if formatted, ok := replacements[fieldName]; ok {
		return formatted
	}
	return fieldName
}

// ValidateLogicalPath parses a user-typed page path like "guide/install"
func ValidateLogicalPath(fieldName, value string) ([]string, error) {
	if err := ValidateRequired(fieldName, value); err != nil {
		return nil, err
	}
	segments, err := domain.SplitLogicalPath(strings.TrimSpace(value))
	if err != nil {
		return nil, pathValidationError(fieldName, err)
	}
	return segments, nil
}

// ValidateDocumentPath checks that value is the storage path of a page
func ValidateDocumentPath(fieldName, value string) error {
	if err := ValidateRequired(fieldName, value); err != nil {
		return err
	}
	if _, err := domain.ParentLogicalPath(value); err != nil {
		return pathValidationError(fieldName, err)
	}
	return nil
}

func pathValidationError(fieldName string, err error) error {
	msg := err.Error()
	var pe *domain.PathError
	if errors.As(err, &pe) {
		msg = pe.Reason
	}
	return &ValidationError{
		Field:   fieldName,
		Message: fmt.Sprintf("invalid %s: %s", formatFieldName(fieldName), msg),
		Kind:    ErrInvalidPath,
	}
}
