package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Mongo wraps the client and the GridFS bucket used for file blobs.
type Mongo struct {
	Client *mongo.Client
	Bucket *gridfs.Bucket
}

// NewMongo connects to MongoDB and opens the default GridFS bucket.
func NewMongo(uri, database string) (*Mongo, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	bucket, err := gridfs.NewBucket(client.Database(database))
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return &Mongo{Client: client, Bucket: bucket}, nil
}

// GridFS returns the blob bucket, nil when the store is not connected.
func (m *Mongo) GridFS() *gridfs.Bucket {
	if m == nil {
		return nil
	}
	return m.Bucket
}

// Healthy verifies mongo connectivity.
func (m *Mongo) Healthy(ctx context.Context) bool {
	if m == nil || m.Client == nil {
		return false
	}
	return m.Client.Ping(ctx, readpref.Primary()) == nil
}

// Close disconnects the client.
func (m *Mongo) Close(ctx context.Context) error {
	if m == nil || m.Client == nil {
		return nil
	}
	return m.Client.Disconnect(ctx)
}
