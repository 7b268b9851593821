// Package internal holds helpers shared by the SQL storage backends.
package internal

import (
	"fmt"
	"regexp"
)

var validTableNameRegex = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// IsValidTableName checks if a table name is valid (lowercase, alphanumeric with underscores, max 63 chars).
func IsValidTableName(name string) bool {
	return validTableNameRegex.MatchString(name) && len(name) <= 63
}

// ValidateTableName returns an error describing why name cannot be used as a table name.
func ValidateTableName(name string) error {
	if name == "" {
		return fmt.Errorf("validate table: table name cannot be empty")
	}
	if !IsValidTableName(name) {
		return fmt.Errorf("validate table: invalid table name: %s (must match ^[a-z_][a-z0-9_]*$ and be <= 63 chars)", name)
	}
	return nil
}

// ColumnInfo describes an expected column for schema validation.
type ColumnInfo struct {
	Name       string
	DataType   string
	IsNullable bool
}
