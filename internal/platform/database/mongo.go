// File: internal/platform/database/mongo.go
package database

import (
	"context"
	"fmt"
	"log" // Standard log for critical connection errors

	"marvel_nexus_backend/internal/config"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// NewMongo connects to MongoDB and returns the application database handle
// together with a cleanup function that disconnects the client.
func NewMongo(cfg *config.Config) (*mongo.Database, func(), error) {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.MongoConnectTimeout)
	defer cancel()

	clientOpts := options.Client().ApplyURI(cfg.MongoURI)
	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	// Ping to verify the connection before the server starts taking traffic.
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	db := client.Database(cfg.MongoDBName)

	if err := ensureIndexes(ctx, db); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("failed to create indexes: %w", err)
	}

	cleanup := func() {
		log.Println("Closing MongoDB connection...")
		if err := client.Disconnect(context.Background()); err != nil {
			log.Printf("Error closing MongoDB connection: %v\n", err)
		} else {
			log.Println("MongoDB connection closed.")
		}
	}

	log.Println("Successfully connected to MongoDB.")
	return db, cleanup, nil
}

// ensureIndexes creates the unique and TTL indexes the application relies on.
func ensureIndexes(ctx context.Context, db *mongo.Database) error {
	userIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "googleId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			// Collection lookups scan for the embedded collection id.
			Keys: bson.D{{Key: "collections._id", Value: 1}},
		},
	}
	if _, err := db.Collection("users").Indexes().CreateMany(ctx, userIndexes); err != nil {
		return err
	}

	sessionIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "token", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			// TTL index, expired sessions are removed by the server.
			Keys:    bson.D{{Key: "expiresAt", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(0),
		},
	}
	if _, err := db.Collection("sessions").Indexes().CreateMany(ctx, sessionIndexes); err != nil {
		return err
	}

	comicIndexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "externalId", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "title", Value: 1}, {Key: "issueNumber", Value: 1}},
		},
	}
	if _, err := db.Collection("comics").Indexes().CreateMany(ctx, comicIndexes); err != nil {
		return err
	}

	return nil
}
