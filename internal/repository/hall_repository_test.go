package repository

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEncodeStringList(t *testing.T) {
	assert.Equal(t, "[]", encodeStringList(nil))
	assert.Equal(t, "[]", encodeStringList([]string{}))
	assert.Equal(t, `["parking","catering"]`, encodeStringList([]string{"parking", "catering"}))
}

func TestDecodeStringList(t *testing.T) {
	assert.Equal(t, []string{}, decodeStringList(sql.NullString{}))
	assert.Equal(t, []string{}, decodeStringList(sql.NullString{String: "  ", Valid: true}))
	assert.Equal(t, []string{}, decodeStringList(sql.NullString{String: "not json", Valid: true}))
	assert.Equal(t, []string{"parking"}, decodeStringList(sql.NullString{String: `["parking"]`, Valid: true}))
}
