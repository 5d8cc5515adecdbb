package server

import (
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOptionalID(t *testing.T) {
	id, err := parseOptionalID("")
	require.NoError(t, err)
	assert.Equal(t, snowflake.ID(0), id)

	id, err = parseOptionalID("-1")
	require.NoError(t, err)
	assert.Equal(t, snowflake.ID(0), id)

	id, err = parseOptionalID(" 12345 ")
	require.NoError(t, err)
	assert.Equal(t, snowflake.ID(12345), id)

	_, err = parseOptionalID("abc")
	assert.ErrorIs(t, err, ErrInvalidRequest)
	_, err = parseOptionalID("0")
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestParseTriBool(t *testing.T) {
	value, err := parseTriBool("")
	require.NoError(t, err)
	assert.Nil(t, value)

	value, err = parseTriBool("-1")
	require.NoError(t, err)
	assert.Nil(t, value)

	value, err = parseTriBool("0")
	require.NoError(t, err)
	require.NotNil(t, value)
	assert.False(t, *value)

	// Any nonzero integer other than -1 selects.
	for _, raw := range []string{"1", "2", "-2"} {
		value, err = parseTriBool(raw)
		require.NoError(t, err)
		require.NotNil(t, value, "raw=%q", raw)
		assert.True(t, *value, "raw=%q", raw)
	}

	_, err = parseTriBool("true")
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestParseFlag(t *testing.T) {
	for _, raw := range []string{"", "0", "-1"} {
		value, err := parseFlag(raw)
		require.NoError(t, err)
		assert.False(t, value, "raw=%q", raw)
	}
	for _, raw := range []string{"1", "2"} {
		value, err := parseFlag(raw)
		require.NoError(t, err)
		assert.True(t, value, "raw=%q", raw)
	}

	_, err := parseFlag("yes")
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestParseAscending(t *testing.T) {
	for _, raw := range []string{"", "-1"} {
		value, err := parseAscending(raw)
		require.NoError(t, err)
		assert.False(t, value, "raw=%q", raw)
	}

	// Any integer other than -1 flips to oldest first.
	for _, raw := range []string{"0", "1", "2"} {
		value, err := parseAscending(raw)
		require.NoError(t, err)
		assert.True(t, value, "raw=%q", raw)
	}

	_, err := parseAscending("desc")
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestParsePathID(t *testing.T) {
	id, err := parsePathID("12345")
	require.NoError(t, err)
	assert.Equal(t, snowflake.ID(12345), id)

	_, err = parsePathID("abc")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = parsePathID("-1")
	assert.ErrorIs(t, err, ErrNotFound)
}
