// Package utils contains small helper functions used across the project.
package utils

import (
	"encoding/json"
	"io"

	"github.com/pkg/errors"
)

// WriteJSON encodes v as a single line of JSON followed by a newline.
//
// Slices and structs are written exactly as their json tags describe;
// HTML characters are left unescaped so descriptions print verbatim.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return errors.Wrap(err, "failed to encode JSON")
	}
	return nil
}

// PrintJSON is WriteJSON with two-space indentation, for humans.
func PrintJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return errors.Wrap(err, "failed to encode JSON")
	}
	return nil
}
