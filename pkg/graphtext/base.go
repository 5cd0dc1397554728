package graphtext

import (
	"strconv"
	"strings"

	apperrors "github.com/matzehuels/graphtext/pkg/errors"
	"github.com/matzehuels/graphtext/pkg/graph"
)

// IndexBase re-exports graph.IndexBase so callers of this package need a
// single import.
type IndexBase = graph.IndexBase

const (
	ZeroBased = graph.ZeroBased
	OneBased  = graph.OneBased
)

// ParseIndexBase accepts "0", "1", "zero" or "one" (case-insensitive).
func ParseIndexBase(s string) (IndexBase, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "0", "zero":
		return ZeroBased, nil
	case "1", "one":
		return OneBased, nil
	}
	return 0, apperrors.New(apperrors.ErrCodeInvalidInput, "index base must be 0 or 1, got %q", s)
}

// IndexBaseFromInt converts 0 or 1 to an IndexBase.
func IndexBaseFromInt(n int) (IndexBase, error) {
	b := IndexBase(n)
	if !b.Valid() {
		return 0, apperrors.New(apperrors.ErrCodeInvalidInput, "index base must be 0 or 1, got %s", strconv.Itoa(n))
	}
	return b, nil
}
