// Package base64 inspects data-URI encoded payloads.
package base64

import "strings"

// GetContentType extracts the MIME type from a data URI such as
// "data:image/png;base64,...". It returns an empty string when the
// input does not follow that shape.
func GetContentType(file string) string {
	rest, ok := strings.CutPrefix(file, "data:")
	if !ok {
		return ""
	}

	contentType, _, ok := strings.Cut(rest, ";base64,")
	if !ok {
		return ""
	}

	return contentType
}
