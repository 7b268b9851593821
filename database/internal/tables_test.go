package internal_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sagarc03/tinyweb/database/internal"
)

func TestIsValidTableName(t *testing.T) {
	tt := []struct {
		Name  string
		Table string
		Want  bool
	}{
		{Name: "simple", Table: "tinyweb_files", Want: true},
		{Name: "leading underscore", Table: "_files", Want: true},
		{Name: "digits", Table: "files2", Want: true},
		{Name: "empty", Table: "", Want: false},
		{Name: "leading digit", Table: "2files", Want: false},
		{Name: "upper case", Table: "Files", Want: false},
		{Name: "quote", Table: `files"; drop`, Want: false},
		{Name: "too long", Table: strings.Repeat("a", 64), Want: false},
		{Name: "max length", Table: strings.Repeat("a", 63), Want: true},
	}

	for _, tc := range tt {
		t.Run(tc.Name, func(t *testing.T) {
			assert.Equal(t, tc.Want, internal.IsValidTableName(tc.Table))
		})
	}
}

func TestValidateTableName(t *testing.T) {
	assert.NoError(t, internal.ValidateTableName("tinyweb_files"))
	assert.ErrorContains(t, internal.ValidateTableName(""), "cannot be empty")
	assert.ErrorContains(t, internal.ValidateTableName("Bad"), "invalid table name")
}
