package jsonx

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
)

var (
	ErrEmptyBody    = errors.New("empty body")
	ErrTrailingJSON = errors.New("trailing data")
)

// ParseStrictJSONBody reads and strictly decodes a JSON HTTP request body into dst.
//
// Failures that should map to 400 Bad Request:
//
//   - Malformed JSON syntax (bad tokens, truncated body)
//   - Empty body (ErrEmptyBody)
//   - Trailing data after a single JSON value (ErrTrailingJSON)
//   - Unknown fields, via DisallowUnknownFields
//   - Field-type mismatches (string into int)
//
// Shape validation only: required-field presence and semantic rules stay with
// the caller. The reader is capped at 1MB.
func ParseStrictJSONBody[T any](r *http.Request, dst *T) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		return err
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return ErrEmptyBody
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return err
	}
	// Ensure no trailing JSON values
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return ErrTrailingJSON
	}
	return nil
}
