package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"photo-review-go/internal/pagination"
)

var jsonNull = []byte("null")

func parsePagination(r *http.Request) (pagination.Params, error) {
	query := r.URL.Query()

	page, err := parseIntParam(query.Get("page"), 0)
	if err != nil {
		return pagination.Params{}, fmt.Errorf("invalid page")
	}
	pageSize, err := parseIntParam(query.Get("pageSize"), 0)
	if err != nil {
		return pagination.Params{}, fmt.Errorf("invalid pageSize")
	}

	return pagination.Params{Page: page, PageSize: pageSize}, nil
}

func parseIntParam(value string, fallback int) (int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid int")
	}
	return parsed, nil
}

func parseBoolParam(value string) (*bool, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return nil, fmt.Errorf("invalid bool")
	}
	return &parsed, nil
}

func parseDecisionParam(value string) (*int16, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	parsed, err := strconv.ParseInt(value, 10, 16)
	if err != nil {
		return nil, fmt.Errorf("invalid decision")
	}
	decision := int16(parsed)
	return &decision, nil
}

// rawIsSet reports whether a json.RawMessage body field was present at all.
// A present-but-null field decodes to the literal "null".
func rawIsSet(raw json.RawMessage) bool {
	return len(raw) > 0
}

func rawIsNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), jsonNull)
}

func rawInt16(raw json.RawMessage) (*int16, error) {
	var value int16
	if err := json.Unmarshal(raw, &value); err != nil {
		return nil, err
	}
	return &value, nil
}

func rawString(raw json.RawMessage) (*string, error) {
	var value string
	if err := json.Unmarshal(raw, &value); err != nil {
		return nil, err
	}
	return &value, nil
}
