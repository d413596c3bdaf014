package pay

import (
	"context"
	"errors"
	"time"

	"vestire/db"
	"vestire/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// ErrOrderNotFound is returned for ids no order carries.
var ErrOrderNotFound = errors.New("order not found")

// OrderStore is the slice of order persistence the payment flow needs.
type OrderStore interface {
	Get(ctx context.Context, orderID string) (models.Order, error)
	// MarkPaid sets the order paid with a paid timestamp. It reports whether
	// an order actually matched; writing to a missing order is not an error.
	MarkPaid(ctx context.Context, orderID string) (bool, error)
}

// MongoOrders backs OrderStore with the orders collection.
type MongoOrders struct{}

func (MongoOrders) Get(ctx context.Context, orderID string) (models.Order, error) {
	var order models.Order
	err := db.OrderCollection.FindOne(ctx, bson.M{"orderid": orderID}).Decode(&order)
	if err == mongo.ErrNoDocuments {
		return order, ErrOrderNotFound
	}
	return order, err
}

func (MongoOrders) MarkPaid(ctx context.Context, orderID string) (bool, error) {
	now := time.Now()
	res, err := db.OrderCollection.UpdateOne(ctx,
		bson.M{"orderid": orderID},
		bson.M{"$set": bson.M{"status": models.StatusPaid, "paidAt": now, "updated_at": now}},
	)
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}
