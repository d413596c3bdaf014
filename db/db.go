package db

import (
	"context"
	"log"
	"os"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	UserCollection        *mongo.Collection
	ProductCollection     *mongo.Collection
	CartCollection        *mongo.Collection
	OrderCollection       *mongo.Collection
	IdempotencyCollection *mongo.Collection
	Client                *mongo.Client
)

// Init connects to MongoDB and binds the collections. Call once from main
// after the environment has been loaded.
func Init() {
	uri := os.Getenv("MONGO_URL")
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}

	clientOptions := options.Client().ApplyURI(uri)
	var err error
	Client, err = mongo.Connect(context.TODO(), clientOptions)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}

	store := Client.Database("storedb")
	UserCollection = store.Collection("users")
	ProductCollection = store.Collection("products")
	CartCollection = store.Collection("carts")
	OrderCollection = store.Collection("orders")
	IdempotencyCollection = store.Collection("idempotency")
}
