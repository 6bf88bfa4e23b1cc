package models

import (
	"os"
	"path/filepath"
	"reflect"
	"regexp"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// bindingMax extracts the max=N validator from a struct field's binding tag.
func bindingMax(t *testing.T, typ reflect.Type, field string) int {
	t.Helper()
	f, ok := typ.FieldByName(field)
	require.True(t, ok)
	m := regexp.MustCompile(`max=(\d+)`).FindStringSubmatch(f.Tag.Get("binding"))
	require.NotNil(t, m, "field %s has no max validator", field)
	max, err := strconv.Atoi(m[1])
	require.NoError(t, err)
	return max
}

// columnLength extracts the VARCHAR length of a column from the initial
// migration.
func columnLength(t *testing.T, sql []byte, column string) int {
	t.Helper()
	m := regexp.MustCompile(`(?m)^\s+` + column + `\s+VARCHAR\((\d+)\)`).FindSubmatch(sql)
	require.NotNil(t, m, "column %s not found as VARCHAR", column)
	length, err := strconv.Atoi(string(m[1]))
	require.NoError(t, err)
	return length
}

// A title that passes request validation must also fit the column, or the
// INSERT fails and surfaces as an opaque 500.
func TestRequestLimitsFitSchema(t *testing.T) {
	sql, err := os.ReadFile(filepath.Join("..", "..", "..", "migrations", "000001_init.up.sql"))
	require.NoError(t, err)

	assert.GreaterOrEqual(t,
		columnLength(t, sql, "title"),
		bindingMax(t, reflect.TypeOf(TodoCreateRequest{}), "Title"))
	assert.GreaterOrEqual(t,
		columnLength(t, sql, "title"),
		bindingMax(t, reflect.TypeOf(TodoUpdateRequest{}), "Title"))
	assert.GreaterOrEqual(t,
		columnLength(t, sql, "name"),
		bindingMax(t, reflect.TypeOf(CategoryRequest{}), "Name"))
	assert.GreaterOrEqual(t,
		columnLength(t, sql, "color"),
		bindingMax(t, reflect.TypeOf(CategoryRequest{}), "Color"))
	assert.GreaterOrEqual(t,
		columnLength(t, sql, "icon"),
		bindingMax(t, reflect.TypeOf(CategoryRequest{}), "Icon"))
}
