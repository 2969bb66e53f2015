package db

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readconcern"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"
)

// Store bundles the MongoDB client and the collections the storefront uses.
// It is built once in main and handed to every handler that needs it; no
// package keeps a global client.
type Store struct {
	Client     *mongo.Client
	Users      *mongo.Collection
	Products   *mongo.Collection
	Cart       *mongo.Collection
	Orders     *mongo.Collection
	OrderLines *mongo.Collection
	Settings   *mongo.Collection
}

// Connect dials MongoDB and resolves the storefront collections.
func Connect(ctx context.Context, uri, dbName string) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	d := client.Database(dbName)
	return &Store{
		Client:     client,
		Users:      d.Collection("users"),
		Products:   d.Collection("products"),
		Cart:       d.Collection("cart"),
		Orders:     d.Collection("orders"),
		OrderLines: d.Collection("orderlines"),
		Settings:   d.Collection("settings"),
	}, nil
}

// EnsureIndexes creates the schema up front, at startup. Request handlers
// assume every collection and index already exists.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	idx := []struct {
		coll   *mongo.Collection
		models []mongo.IndexModel
	}{
		{s.Users, []mongo.IndexModel{
			{Keys: bson.D{{Key: "userid", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
		}},
		{s.Products, []mongo.IndexModel{
			{Keys: bson.D{{Key: "productId", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "name", Value: "text"}}},
		}},
		{s.Cart, []mongo.IndexModel{
			{Keys: bson.D{{Key: "lineId", Value: 1}}, Options: options.Index().SetUnique(true)},
			// one cart line per user+product; add-to-cart upserts into it
			{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "productId", Value: 1}}, Options: options.Index().SetUnique(true)},
		}},
		{s.Orders, []mongo.IndexModel{
			{Keys: bson.D{{Key: "orderId", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}}},
			{Keys: bson.D{{Key: "status", Value: 1}}},
		}},
		{s.OrderLines, []mongo.IndexModel{
			{Keys: bson.D{{Key: "orderId", Value: 1}}},
		}},
		{s.Settings, []mongo.IndexModel{
			{Keys: bson.D{{Key: "userID", Value: 1}}, Options: options.Index().SetUnique(true)},
		}},
	}

	for _, i := range idx {
		if _, err := i.coll.Indexes().CreateMany(ctx, i.models); err != nil {
			return fmt.Errorf("create indexes on %s: %w", i.coll.Name(), err)
		}
	}
	return nil
}

// WithTransaction runs fn inside a single multi-document transaction with
// majority read/write concerns. Everything fn writes commits together or
// not at all.
func (s *Store) WithTransaction(ctx context.Context, fn func(sc mongo.SessionContext) error) error {
	sess, err := s.Client.StartSession()
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer sess.EndSession(ctx)

	txnOpts := options.Transaction().
		SetReadConcern(readconcern.Majority()).
		SetWriteConcern(writeconcern.Majority())

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	}, txnOpts)
	return err
}

// Close disconnects the underlying client.
func (s *Store) Close(ctx context.Context) error {
	return s.Client.Disconnect(ctx)
}
