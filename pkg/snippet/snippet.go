// Package snippet stores graph text under a short-lived shareable id.
//
// The drawing page posts its current text and toggles; the server stores
// them as a [Snippet] and hands back an id that reopens the page prefilled.
// Snippets hold the raw text, not the parsed graph, so a failing input can
// be shared as well.
//
// [MemoryStore] serves single-process deployments and tests. [MongoStore]
// persists snippets in a MongoDB collection.
package snippet

import (
	"context"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/matzehuels/graphtext/pkg/errors"
	"github.com/matzehuels/graphtext/pkg/graph"
)

// Snippet is a stored drawing input.
type Snippet struct {
	ID        string          `json:"id" bson:"_id"`
	Text      string          `json:"text" bson:"text"`
	Directed  bool            `json:"directed" bson:"directed"`
	IndexBase graph.IndexBase `json:"index_base" bson:"index_base"`
	CreatedAt time.Time       `json:"created_at" bson:"created_at"`
}

// Store persists snippets. Implementations must be safe for concurrent use.
type Store interface {
	// Create assigns an id and creation time to s and stores it.
	Create(ctx context.Context, s Snippet) (Snippet, error)

	// Get returns the snippet with the given id. A missing id is a
	// NOT_FOUND error; a malformed id is INVALID_INPUT.
	Get(ctx context.Context, id string) (Snippet, error)

	Close(ctx context.Context) error
}

// prepare validates s and fills ID and CreatedAt.
func prepare(s Snippet, now time.Time) (Snippet, error) {
	if err := apperrors.ValidateGraphText(s.Text, 0); err != nil {
		return Snippet{}, err
	}
	if !s.IndexBase.Valid() {
		return Snippet{}, apperrors.New(apperrors.ErrCodeInvalidInput, "index base must be 0 or 1, got %d", int(s.IndexBase))
	}
	s.ID = uuid.NewString()
	s.CreatedAt = now.UTC().Truncate(time.Millisecond)
	return s, nil
}

func notFound(id string) error {
	return apperrors.New(apperrors.ErrCodeNotFound, "snippet %s not found", id)
}
