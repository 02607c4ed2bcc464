package config

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	UsersCollection      = "users"
	PropertiesCollection = "properties"
)

func ConnectDB(ctx context.Context, cfg Config) (*mongo.Client, error) {
	if cfg.MongoURI == "" {
		return nil, fmt.Errorf("MONGOURI not set in environment")
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, fmt.Errorf("error connecting to database: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx, nil); err != nil {
		return nil, fmt.Errorf("MongoDB ping failed: %w", err)
	}

	log.Println("Connected to MongoDB")
	return client, nil
}

// Collections returns the users and properties collections of the configured database.
func Collections(client *mongo.Client, cfg Config) (users, properties *mongo.Collection) {
	db := client.Database(cfg.DBName)
	return db.Collection(UsersCollection), db.Collection(PropertiesCollection)
}

func CloseDBConnection(ctx context.Context, client *mongo.Client) {
	if err := client.Disconnect(ctx); err != nil {
		log.Printf("Error closing database connection: %v", err)
		return
	}
	log.Println("MongoDB connection closed")
}
