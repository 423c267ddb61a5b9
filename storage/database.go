package storage

import (
	"context"
	"errors"
	"log"
	"net/url"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// ErrNotFound signals that a referenced campground or review does not exist.
var ErrNotFound = errors.New("record not found")

const defaultDatabaseName = "yelp-camp"

// Connect dials the document database and returns a handle scoped to the
// database named in the connection URL. The handle is meant to be passed
// down to the stores rather than held in a package global, so tests can
// run against an isolated instance.
func Connect(ctx context.Context, dbURL string) (*mongo.Database, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(dbURL))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, err
	}
	log.Println("Database connected")
	return client.Database(databaseName(dbURL)), nil
}

func databaseName(dbURL string) string {
	u, err := url.Parse(dbURL)
	if err != nil {
		return defaultDatabaseName
	}
	if name := strings.Trim(u.Path, "/"); name != "" {
		return name
	}
	return defaultDatabaseName
}
