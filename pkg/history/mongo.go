package history

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/AyanAnees/volunteer-webapp-sd29-sub001/pkg/core/model"
)

const (
	DefaultDatabase   = "volunteer"
	DefaultCollection = "application_history"
	defaultQueryLimit = 100
)

// record is the stored form of a history entry
type record struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty"`
	model.HistoryEntry `bson:",inline"`
}

// Filter narrows Query results. Zero values mean "no filter".
type Filter struct {
	ApplicationID string
	VolunteerID   string
	EventID       string
	Since         time.Time
	Limit         int64
}

// MongoRecorder appends history entries to a MongoDB collection
type MongoRecorder struct {
	c *mongo.Collection
}

// NewMongoRecorder stores entries in the named collection of db
func NewMongoRecorder(db *mongo.Database, collection string) *MongoRecorder {
	if collection == "" {
		collection = DefaultCollection
	}
	return &MongoRecorder{c: db.Collection(collection)}
}

// Connect opens a client for uri and returns it along with a recorder for
// database/collection. The caller disconnects the client.
func Connect(ctx context.Context, uri, database, collection string) (*mongo.Client, *MongoRecorder, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	if database == "" {
		database = DefaultDatabase
	}
	return client, NewMongoRecorder(client.Database(database), collection), nil
}

// EnsureIndexes creates the indexes used by Query
func (r *MongoRecorder) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "application_id", Value: 1},
				{Key: "at", Value: -1},
			},
		},
		{
			Keys: bson.D{
				{Key: "volunteer_id", Value: 1},
				{Key: "at", Value: -1},
			},
		},
		{
			Keys: bson.D{
				{Key: "event_id", Value: 1},
				{Key: "at", Value: -1},
			},
		},
	}
	if _, err := r.c.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("failed to create history indexes: %w", err)
	}
	return nil
}

// Record appends entry
func (r *MongoRecorder) Record(ctx context.Context, entry model.HistoryEntry) error {
	if entry.At.IsZero() {
		entry.At = time.Now().UTC()
	}
	doc := record{ID: primitive.NewObjectID(), HistoryEntry: entry}
	if _, err := r.c.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to insert history entry: %w", err)
	}
	return nil
}

// Query returns entries matching filter, most recent first
func (r *MongoRecorder) Query(ctx context.Context, filter Filter) ([]model.HistoryEntry, error) {
	query := bson.M{}
	if filter.ApplicationID != "" {
		query["application_id"] = filter.ApplicationID
	}
	if filter.VolunteerID != "" {
		query["volunteer_id"] = filter.VolunteerID
	}
	if filter.EventID != "" {
		query["event_id"] = filter.EventID
	}
	if !filter.Since.IsZero() {
		query["at"] = bson.M{"$gte": filter.Since}
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultQueryLimit
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "at", Value: -1}}).
		SetLimit(limit)

	cursor, err := r.c.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer cursor.Close(ctx)

	var records []record
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("failed to decode history: %w", err)
	}

	entries := make([]model.HistoryEntry, len(records))
	for i, rec := range records {
		entries[i] = rec.HistoryEntry
	}
	return entries, nil
}
