package server

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/kazin-kharizma/element-call/pkg/errors"
	"github.com/kazin-kharizma/element-call/pkg/grid/state"
)

const (
	archiveDatabase   = "element-call"
	archiveCollection = "arrangements"
)

// Archive stores named arrangements in MongoDB, independent of any live
// call. Users save a favorite layout under a name and restore it into
// later calls.
type Archive struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// archivedArrangement is the stored document shape.
type archivedArrangement struct {
	Name        string            `bson:"_id"`
	Arrangement state.Arrangement `bson:"arrangement"`
	SavedAt     time.Time         `bson:"saved_at"`
}

// NewArchive connects to MongoDB at uri and verifies the connection.
func NewArchive(ctx context.Context, uri string) (*Archive, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "connect mongodb")
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "ping mongodb")
	}
	return &Archive{
		client: client,
		coll:   client.Database(archiveDatabase).Collection(archiveCollection),
	}, nil
}

// Put saves an arrangement under name, replacing any previous one.
func (a *Archive) Put(ctx context.Context, name string, arr state.Arrangement) error {
	doc := archivedArrangement{Name: name, Arrangement: arr, SavedAt: time.Now()}
	opts := options.Replace().SetUpsert(true)
	if _, err := a.coll.ReplaceOne(ctx, bson.M{"_id": name}, doc, opts); err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "save arrangement %s", name)
	}
	return nil
}

// Get loads the arrangement saved under name.
func (a *Archive) Get(ctx context.Context, name string) (state.Arrangement, error) {
	var doc archivedArrangement
	err := a.coll.FindOne(ctx, bson.M{"_id": name}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return state.Arrangement{}, errors.New(errors.ErrCodeNotFound, "arrangement %s not found", name)
	}
	if err != nil {
		return state.Arrangement{}, errors.Wrap(errors.ErrCodeStore, err, "load arrangement %s", name)
	}
	return doc.Arrangement, nil
}

// List returns the names of all saved arrangements.
func (a *Archive) List(ctx context.Context) ([]string, error) {
	opts := options.Find().SetProjection(bson.M{"_id": 1}).SetSort(bson.M{"_id": 1})
	cur, err := a.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "list arrangements")
	}
	defer cur.Close(ctx)

	var names []string
	for cur.Next(ctx) {
		var doc struct {
			Name string `bson:"_id"`
		}
		if err := cur.Decode(&doc); err != nil {
			return nil, errors.Wrap(errors.ErrCodeStore, err, "decode arrangement name")
		}
		names = append(names, doc.Name)
	}
	if err := cur.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "list arrangements")
	}
	return names, nil
}

// Close disconnects from MongoDB.
func (a *Archive) Close(ctx context.Context) error {
	return a.client.Disconnect(ctx)
}
