package graphtext

import (
	"fmt"
	"strconv"
	"strings"

	apperrors "github.com/matzehuels/graphtext/pkg/errors"
)

// Base messages, shown verbatim by every surface.
const (
	MsgParse                 = "Failed to parse integer"
	MsgEmptyInput            = "There is no line"
	MsgMalformedHeader       = "The first line is invalid"
	MsgEdgeCountMismatch     = "Edge counts and line counts did not match"
	MsgInvalidEdgeDefinition = "Invalid edge definition"
	MsgEdgeOutOfRange        = "Some edges' source or destination are invalid"
)

// SplitLines trims text and splits it on runs of newline characters.
// Lines are returned untrimmed; a line holding only spaces is kept.
// Text that is empty after trimming yields no lines.
func SplitLines(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	return strings.FieldsFunc(text, func(r rune) bool { return r == '\n' })
}

// ParseIntLine trims line, splits it on runs of whitespace and converts
// every segment with leading-numeral semantics.
func ParseIntLine(line string) ([]int, error) {
	return parseIntLine(line, 0)
}

// parseIntLine is ParseIntLine with a 1-based line number for messages.
// lineNo 0 omits the location.
func parseIntLine(line string, lineNo int) ([]int, error) {
	segments := strings.Fields(line)
	if len(segments) == 0 {
		// A blank line behaves like a single empty segment.
		segments = []string{""}
	}

	nums := make([]int, len(segments))
	for i, seg := range segments {
		n, err := parseLeadingInt(seg)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrCodeParse, err, "%s", withLocation(MsgParse, lineNo, fmt.Sprintf("%q", seg)))
		}
		nums[i] = n
	}
	return nums, nil
}

// parseLeadingInt converts the longest numeric prefix of s.
//
//	"42"    -> 42     "-7" -> -7     "+3" -> 3
//	"12abc" -> 12     "1e3" -> 1     "0x1f" -> 31
//	"abc", "", "-", "0x" -> error
func parseLeadingInt(s string) (int, error) {
	rest := s
	neg := false
	if rest != "" && (rest[0] == '+' || rest[0] == '-') {
		neg = rest[0] == '-'
		rest = rest[1:]
	}

	base := 10
	if len(rest) >= 2 && rest[0] == '0' && (rest[1] == 'x' || rest[1] == 'X') {
		base = 16
		rest = rest[2:]
	}

	end := 0
	for end < len(rest) && isDigit(rest[end], base) {
		end++
	}
	if end == 0 {
		return 0, fmt.Errorf("no digits in %q", s)
	}

	digits := rest[:end]
	if neg {
		digits = "-" + digits
	}
	n, err := strconv.ParseInt(digits, base, strconv.IntSize)
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

func isDigit(c byte, base int) bool {
	switch {
	case c >= '0' && c <= '9':
		return true
	case base == 16 && c >= 'a' && c <= 'f':
		return true
	case base == 16 && c >= 'A' && c <= 'F':
		return true
	}
	return false
}

// withLocation appends ": line N: detail" to msg, skipping empty parts.
func withLocation(msg string, lineNo int, detail string) string {
	if lineNo > 0 {
		msg = fmt.Sprintf("%s: line %d", msg, lineNo)
	}
	if detail != "" {
		msg += ": " + detail
	}
	return msg
}
