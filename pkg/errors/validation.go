package errors

import (
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"
)

// MaxTextBytes is the largest graph text accepted by the server and editor.
const MaxTextBytes = 1 << 20

// ValidateGraphText checks raw graph text for transport-level problems
// before it reaches the parser. It does not check the grammar.
//
// The validation rules are intentionally conservative:
//   - Valid UTF-8
//   - At most maxBytes bytes (MaxTextBytes when maxBytes <= 0)
//   - No control characters other than whitespace
func ValidateGraphText(text string, maxBytes int) error {
	if maxBytes <= 0 {
		maxBytes = MaxTextBytes
	}
	if len(text) > maxBytes {
		return New(ErrCodeInvalidInput, "graph text too long (max %d bytes)", maxBytes)
	}
	if !utf8.ValidString(text) {
		return New(ErrCodeInvalidInput, "graph text is not valid UTF-8")
	}
	for _, r := range text {
		if unicode.IsControl(r) && !unicode.IsSpace(r) {
			return New(ErrCodeInvalidInput, "graph text contains invalid control characters")
		}
	}
	return nil
}

// ValidateSnippetID checks that id is a canonical UUID string.
func ValidateSnippetID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "snippet id cannot be empty")
	}
	parsed, err := uuid.Parse(id)
	if err != nil || parsed.String() != id {
		return New(ErrCodeInvalidInput, "invalid snippet id: %q", id)
	}
	return nil
}
