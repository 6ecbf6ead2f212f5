package clipboard

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/atotto/clipboard"
)

const (
	// maxURLLength keeps pasted blobs from being treated as URLs.
	maxURLLength = 2048
)

var (
	// ErrClipboardRead indicates an error reading from the clipboard
	ErrClipboardRead = errors.New("failed to read from clipboard")
	// ErrClipboardWrite indicates an error writing to the clipboard
	ErrClipboardWrite = errors.New("failed to write to clipboard")
	// ErrInvalidURL indicates the clipboard content is not a valid URL
	ErrInvalidURL = errors.New("clipboard does not contain a valid URL")
)

// Swapped in tests; the real clipboard needs a display server.
var (
	readAll  = clipboard.ReadAll
	writeAll = clipboard.WriteAll
)

type Validator struct {
	allowedSchemes map[string]bool
}

func NewValidator() *Validator {
	return &Validator{
		allowedSchemes: map[string]bool{"http": true, "https": true},
	}
}

// ExtractURL validates and extracts a URL from the given text.
// Returns empty string if the text is not a valid HTTP/HTTPS URL.
// The trimmed input is returned as is so percent-encoding survives for the extractor.
func (v *Validator) ExtractURL(text string) string {
	text = strings.TrimSpace(text)

	if text == "" || len(text) > maxURLLength || strings.ContainsAny(text, "\n\r") {
		return ""
	}

	parsed, err := url.Parse(text)
	if err != nil {
		return ""
	}

	if !v.allowedSchemes[strings.ToLower(parsed.Scheme)] || strings.TrimSpace(parsed.Host) == "" {
		return ""
	}

	return text
}

// ReadURL reads the clipboard and returns a valid URL if found
func ReadURL() (string, error) {
	text, err := readAll()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrClipboardRead, err)
	}

	u := NewValidator().ExtractURL(text)
	if u == "" {
		return "", ErrInvalidURL
	}
	return u, nil
}

// WriteText copies text to the clipboard.
func WriteText(text string) error {
	if err := writeAll(text); err != nil {
		return fmt.Errorf("%w: %v", ErrClipboardWrite, err)
	}
	return nil
}
