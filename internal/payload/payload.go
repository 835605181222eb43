// Package payload handles the data-URL boundary of the record store:
// encoding raw upload bytes into prefixed payload strings, detecting the
// payload category, decoding text payloads back to plain text, and
// validating uploads before they ever become a record.
package payload

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// Kind is the payload category carried by a record's type prefix.
type Kind string

const (
	KindImage   Kind = "image"
	KindPDF     Kind = "pdf"
	KindText    Kind = "text"
	KindUnknown Kind = "unknown"
)

// MaxFileSize is the default per-file ceiling on decoded payload bytes.
const MaxFileSize = 5 * 1024 * 1024

const (
	prefixImage = "data:image/"
	prefixPDF   = "data:application/pdf"
	prefixText  = "data:text/plain"
)

// ValidationError reports an upload rejected before admission: the file
// never becomes a record and the store is unaffected.
type ValidationError struct {
	Name   string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("rejected %q: %s", e.Name, e.Reason)
}

// DetectKind classifies a payload string by its data-URL prefix.
func DetectKind(data string) Kind {
	switch {
	case strings.HasPrefix(data, prefixImage):
		return KindImage
	case strings.HasPrefix(data, prefixPDF):
		return KindPDF
	case strings.HasPrefix(data, prefixText):
		return KindText
	default:
		return KindUnknown
	}
}

// Encode builds the payload string for raw upload bytes:
// "data:<mime>;base64,<body>".
func Encode(mimeType string, raw []byte) string {
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(raw)
}

// Decode splits a payload string into its media type and decoded bytes.
func Decode(data string) (mimeType string, raw []byte, err error) {
	rest, ok := strings.CutPrefix(data, "data:")
	if !ok {
		return "", nil, fmt.Errorf("payload has no data prefix")
	}
	meta, body, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, fmt.Errorf("payload has no body separator")
	}
	mimeType = strings.TrimSuffix(meta, ";base64")
	raw, err = base64.StdEncoding.DecodeString(body)
	if err != nil {
		return "", nil, fmt.Errorf("decoding payload body: %w", err)
	}
	return mimeType, raw, nil
}

// DecodeText returns the plain text of a text-category payload, removing
// the encoding layer. Non-text payloads are an error.
func DecodeText(data string) (string, error) {
	if DetectKind(data) != KindText {
		return "", fmt.Errorf("payload is not text")
	}
	_, raw, err := Decode(data)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// Validate checks an encoded payload against the upload constraints: the
// type prefix must be on the allow-list and the decoded body must not
// exceed maxBytes. Returns a *ValidationError on rejection.
func Validate(name, data string, maxBytes int64) error {
	if DetectKind(data) == KindUnknown {
		return &ValidationError{Name: name, Reason: "unsupported payload type"}
	}
	if maxBytes <= 0 {
		maxBytes = MaxFileSize
	}
	_, raw, err := Decode(data)
	if err != nil {
		return &ValidationError{Name: name, Reason: err.Error()}
	}
	if int64(len(raw)) > maxBytes {
		return &ValidationError{
			Name:   name,
			Reason: fmt.Sprintf("file too large: %d bytes (limit %d)", len(raw), maxBytes),
		}
	}
	return nil
}
