package snippet

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/graphtext/pkg/cache"
	apperrors "github.com/matzehuels/graphtext/pkg/errors"
)

// MongoOptions configures a MongoStore.
type MongoOptions struct {
	URI        string
	Database   string
	Collection string
}

// MongoStore keeps snippets in a MongoDB collection keyed by _id.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
	now    func() time.Time
}

// NewMongoStore connects and pings the server, retrying transient failures.
func NewMongoStore(ctx context.Context, opts MongoOptions) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(opts.URI))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal, err, "connect to mongo")
	}

	err = cache.RetryWithBackoff(ctx, func() error {
		if err := client.Ping(ctx, nil); err != nil {
			return cache.Retryable(fmt.Errorf("%w: %v", cache.ErrUnavailable, err))
		}
		return nil
	})
	if err != nil {
		_ = client.Disconnect(context.WithoutCancel(ctx))
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal, err, "ping mongo")
	}

	return &MongoStore{
		client: client,
		coll:   client.Database(opts.Database).Collection(opts.Collection),
		now:    time.Now,
	}, nil
}

func (m *MongoStore) Create(ctx context.Context, s Snippet) (Snippet, error) {
	s, err := prepare(s, m.now())
	if err != nil {
		return Snippet{}, err
	}
	if _, err := m.coll.InsertOne(ctx, s); err != nil {
		return Snippet{}, apperrors.Wrap(apperrors.ErrCodeInternal, err, "store snippet")
	}
	return s, nil
}

func (m *MongoStore) Get(ctx context.Context, id string) (Snippet, error) {
	if err := apperrors.ValidateSnippetID(id); err != nil {
		return Snippet{}, err
	}
	var s Snippet
	err := m.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&s)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return Snippet{}, notFound(id)
	}
	if err != nil {
		return Snippet{}, apperrors.Wrap(apperrors.ErrCodeInternal, err, "load snippet")
	}
	return s, nil
}

func (m *MongoStore) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)
