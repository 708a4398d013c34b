package renderer

import (
	"bytes"
	"io"
)

// optionalSection renders a section into a buffer and copies it to w only
// when section reports that it has content.
func optionalSection(w io.Writer, section func(io.Writer) bool) {
	var buf bytes.Buffer
	if section(&buf) {
		_, _ = buf.WriteTo(w)
	}
}
