package orders

import (
	"context"
	"errors"

	"retailpro/db"
	"retailpro/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoRepo implements Repo on the shared store.
type MongoRepo struct {
	store *db.Store
}

func NewMongoRepo(store *db.Store) *MongoRepo {
	return &MongoRepo{store: store}
}

func (r *MongoRepo) CartLines(ctx context.Context, userID string) ([]models.CartLine, error) {
	opts := options.Find().SetSort(bson.D{{Key: "addedAt", Value: 1}})
	cursor, err := r.store.Cart.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, storeErr(err)
	}
	defer cursor.Close(ctx)

	var lines []models.CartLine
	if err := cursor.All(ctx, &lines); err != nil {
		return nil, storeErr(err)
	}
	return lines, nil
}

func (r *MongoRepo) MissingProducts(ctx context.Context, productIDs []string) ([]string, error) {
	cursor, err := r.store.Products.Find(ctx, bson.M{"productId": bson.M{"$in": productIDs}})
	if err != nil {
		return nil, storeErr(err)
	}
	defer cursor.Close(ctx)

	found := make(map[string]bool, len(productIDs))
	var products []models.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, storeErr(err)
	}
	for _, p := range products {
		found[p.ProductID] = true
	}

	var missing []string
	for _, id := range productIDs {
		if !found[id] {
			missing = append(missing, id)
		}
	}
	return missing, nil
}

// CommitCheckout writes the order header (with all shipping metadata — one
// write, not header-then-update), its lines, and the cart deletion inside
// one transaction. The delete matches each snapshot row field by field, so
// a line that was edited or already consumed by a racing checkout makes
// the count come up short and aborts the whole unit.
func (r *MongoRepo) CommitCheckout(ctx context.Context, order *models.Order, lines []models.OrderLine, snapshot []models.CartLine) error {
	err := r.store.WithTransaction(ctx, func(sc mongo.SessionContext) error {
		if _, err := r.store.Orders.InsertOne(sc, order); err != nil {
			return err
		}

		docs := make([]interface{}, 0, len(lines))
		for _, l := range lines {
			docs = append(docs, l)
		}
		if _, err := r.store.OrderLines.InsertMany(sc, docs); err != nil {
			return err
		}

		match := make([]bson.M, 0, len(snapshot))
		for _, l := range snapshot {
			match = append(match, bson.M{
				"lineId":    l.LineID,
				"userId":    l.UserID,
				"productId": l.ProductID,
				"quantity":  l.Quantity,
				"unitPrice": l.UnitPrice,
			})
		}
		res, err := r.store.Cart.DeleteMany(sc, bson.M{"$or": match})
		if err != nil {
			return err
		}
		if res.DeletedCount != int64(len(snapshot)) {
			return ErrConcurrencyConflict
		}
		return nil
	})
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrConcurrencyConflict) {
		return ErrConcurrencyConflict
	}
	return storeErr(err)
}

func (r *MongoRepo) OrderByID(ctx context.Context, orderID string) (*models.Order, error) {
	var order models.Order
	err := r.store.Orders.FindOne(ctx, bson.M{"orderId": orderID}).Decode(&order)
	if err == mongo.ErrNoDocuments {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, storeErr(err)
	}
	return &order, nil
}

// ApplyTransition sets the new status and its side-effect fields in one
// update keyed on the old status. A racing transition leaves the filter
// unmatched and surfaces as ErrConcurrencyConflict.
func (r *MongoRepo) ApplyTransition(ctx context.Context, orderID string, from Status, ch *Changes) (*models.Order, error) {
	set := bson.M{"status": string(ch.Status)}
	if ch.ShippedAt != nil {
		set["shippedAt"] = *ch.ShippedAt
		set["trackingNumber"] = ch.TrackingNumber
		set["shippingCarrier"] = ch.ShippingCarrier
	}
	if ch.ExpectedDelivery != nil {
		set["expectedDelivery"] = *ch.ExpectedDelivery
	}
	if ch.DeliveredAt != nil {
		set["deliveredAt"] = *ch.DeliveredAt
	}

	res := r.store.Orders.FindOneAndUpdate(ctx,
		bson.M{"orderId": orderID, "status": string(from)},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)

	var updated models.Order
	if err := res.Decode(&updated); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrConcurrencyConflict
		}
		return nil, storeErr(err)
	}
	return &updated, nil
}

// LinesForOrder returns the immutable line items of one order.
func (r *MongoRepo) LinesForOrder(ctx context.Context, orderID string) ([]models.OrderLine, error) {
	cursor, err := r.store.OrderLines.Find(ctx, bson.M{"orderId": orderID})
	if err != nil {
		return nil, storeErr(err)
	}
	defer cursor.Close(ctx)

	var lines []models.OrderLine
	if err := cursor.All(ctx, &lines); err != nil {
		return nil, storeErr(err)
	}
	return lines, nil
}
