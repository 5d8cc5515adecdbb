package server

import (
	"strconv"
	"strings"

	"github.com/bwmarrin/snowflake"
)

// Listing endpoints accept -1 as the explicit "unset" value for id and
// tri-state parameters, matching the client convention of sending -1 rather
// than omitting the field.

// parseOptionalID parses an id parameter. Empty and -1 mean unset.
func parseOptionalID(value string) (snowflake.ID, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" || trimmed == "-1" {
		return 0, nil
	}
	parsed, err := snowflake.ParseString(trimmed)
	if err != nil || parsed <= 0 {
		return 0, ErrInvalidRequest
	}
	return parsed, nil
}

// parseTriBool parses a tri-state integer parameter. Empty and -1 mean
// "all", 0 excludes, any other integer selects.
func parseTriBool(value string) (*bool, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(trimmed)
	if err != nil {
		return nil, ErrInvalidRequest
	}
	if n == -1 {
		return nil, nil
	}
	v := n != 0
	return &v, nil
}

// parseFlag parses an integer flag parameter. Empty, -1 and 0 mean false,
// any other integer means true.
func parseFlag(value string) (bool, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return false, nil
	}
	n, err := strconv.Atoi(trimmed)
	if err != nil {
		return false, ErrInvalidRequest
	}
	return n != -1 && n != 0, nil
}

// parseAscending parses the order parameter: empty and -1 are newest first,
// any other integer is oldest first.
func parseAscending(value string) (bool, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return false, nil
	}
	n, err := strconv.Atoi(trimmed)
	if err != nil {
		return false, ErrInvalidRequest
	}
	return n != -1, nil
}

// parsePathID parses a required path id parameter.
func parsePathID(value string) (snowflake.ID, error) {
	parsed, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || parsed <= 0 {
		return 0, ErrNotFound
	}
	return parsed, nil
}
