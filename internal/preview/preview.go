// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package preview produces bounded, single-line excerpts of file content.
// Extraction never fails: read and decode errors fold into the returned
// Result, which renders them as a bracketed diagnostic the consumer can
// tell apart from real content.
package preview

import (
	"fmt"
	"os"
	"strings"
	"unicode/utf8"
)

// DefaultLength bounds the preview in decoded characters.
const DefaultLength = 200

// Result carries either a decoded preview or the error that prevented one.
// The zero value is an empty successful preview.
type Result struct {
	text string
	err  error
}

// Ok wraps a successfully decoded preview.
func Ok(text string) Result {
	return Result{text: text}
}

// Failed wraps a read or decode failure.
func Failed(err error) Result {
	return Result{err: err}
}

// Text renders the result for a record's preview field. Failures render as
// "<error reading file: ...>" so downstream consumers can detect that the
// field does not hold real content.
func (r Result) Text() string {
	if r.err != nil {
		return fmt.Sprintf("<error reading file: %v>", r.err)
	}
	return r.text
}

// Err returns the underlying failure, or nil for a successful preview.
func (r Result) Err() error {
	return r.err
}

// Extract reads path and returns a preview of at most maxChars decoded
// characters, with line breaks collapsed to spaces. maxChars <= 0 means
// DefaultLength. All failure modes fold into the Result.
func Extract(path string, maxChars int) Result {
	if maxChars <= 0 {
		maxChars = DefaultLength
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Failed(err)
	}
	if !utf8.Valid(data) {
		return Failed(fmt.Errorf("invalid UTF-8 in %s", path))
	}

	return Ok(truncate(string(data), maxChars))
}

// truncate bounds text to maxChars characters and collapses line breaks to
// single spaces. CRLF counts as one break; the bound is measured after
// normalization so a preview is never longer than maxChars.
func truncate(text string, maxChars int) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")

	runes := []rune(text)
	if len(runes) > maxChars {
		runes = runes[:maxChars]
	}

	var b strings.Builder
	b.Grow(len(runes))
	for _, r := range runes {
		if r == '\n' || r == '\r' {
			b.WriteRune(' ')
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
