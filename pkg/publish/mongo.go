package publish

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/archscape/pkg/errors"
	"github.com/matzehuels/archscape/pkg/io"
)

// Default database and collection for [Mongo].
const (
	DefaultMongoDatabase   = "archscape"
	DefaultMongoCollection = "workspaces"
)

// Mongo stores the workspace document and its artifacts in MongoDB, one
// record per workspace name. Publishing again replaces the record.
type Mongo struct {
	URI        string
	Database   string
	Collection string

	// Now overrides the clock used for PublishedAt.
	Now func() time.Time
}

type mongoRecord struct {
	Name        string            `bson:"_id"`
	Workspace   io.Document       `bson:"workspace"`
	Artifacts   map[string][]byte `bson:"artifacts,omitempty"`
	PublishedAt time.Time         `bson:"publishedAt"`
}

func (m *Mongo) Name() string { return "mongo" }

func (m *Mongo) Publish(ctx context.Context, p Payload) error {
	if m.URI == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "mongo URI is required")
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(m.URI))
	if err != nil {
		return errors.Wrap(errors.ErrCodeNetwork, err, "connect to mongo")
	}
	defer client.Disconnect(context.WithoutCancel(ctx))

	now := time.Now
	if m.Now != nil {
		now = m.Now
	}
	rec := mongoRecord{
		Name:        p.Document.Name,
		Workspace:   p.Document,
		Artifacts:   p.Artifacts,
		PublishedAt: now().UTC(),
	}
	_, err = m.collection(client).ReplaceOne(ctx,
		bson.M{"_id": rec.Name}, rec, options.Replace().SetUpsert(true))
	if err != nil {
		return errors.Wrap(errors.ErrCodeNetwork, err, "store workspace %q", rec.Name)
	}
	return nil
}

// Target is the URI plus database and collection.
func (m *Mongo) Target() string {
	db, coll := m.names()
	return m.URI + " " + db + "." + coll
}

func (m *Mongo) names() (db, coll string) {
	db, coll = m.Database, m.Collection
	if db == "" {
		db = DefaultMongoDatabase
	}
	if coll == "" {
		coll = DefaultMongoCollection
	}
	return db, coll
}

func (m *Mongo) collection(client *mongo.Client) *mongo.Collection {
	db, coll := m.names()
	return client.Database(db).Collection(coll)
}
