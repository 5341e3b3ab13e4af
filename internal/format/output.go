// Package format renders command results as JSON or EDN.
package format

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

type Format string

const (
	JSON Format = "json"
	EDN  Format = "edn"
)

// Parse validates a --format value. Empty selects JSON.
func Parse(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "", JSON:
		return JSON, nil
	case EDN:
		return EDN, nil
	default:
		return "", fmt.Errorf("unknown format: %s (want json or edn)", s)
	}
}

// Write writes v in the requested format.
func Write(w io.Writer, v any, format string, pretty bool) error {
	f, err := Parse(format)
	if err != nil {
		return err
	}
	if f == EDN {
		return WriteEDN(w, v, pretty)
	}
	return WriteJSON(w, v, pretty)
}

// WriteJSON writes one JSON document followed by a newline.
func WriteJSON(w io.Writer, v any, pretty bool) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}
