package orders

import (
	"context"
	"log"
	"time"

	"retailpro/db"
	"retailpro/models"

	"go.mongodb.org/mongo-driver/bson"
)

// Reconciler sweeps for cart lines that were already converted to an
// order but never deleted. Checkout itself clears the cart inside its
// transaction, so this only catches rows written by older clients that
// cleared the cart as a separate best-effort step.
type Reconciler struct {
	Store    *db.Store
	Interval time.Duration
	Window   time.Duration
}

func NewReconciler(store *db.Store) *Reconciler {
	return &Reconciler{Store: store, Interval: 5 * time.Minute, Window: time.Hour}
}

// Run loops until ctx is cancelled.
func (rc *Reconciler) Run(ctx context.Context) {
	ticker := time.NewTicker(rc.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n, err := rc.Sweep(ctx); err != nil {
				log.Println("Reconciler sweep error:", err)
			} else if n > 0 {
				log.Printf("Reconciler purged %d stale cart lines", n)
			}
		}
	}
}

// Sweep deletes every cart line whose user placed an order containing the
// same product after the line was added, within the window. Returns the
// number of purged lines.
func (rc *Reconciler) Sweep(ctx context.Context) (int64, error) {
	since := time.Now().Add(-rc.Window)

	cursor, err := rc.Store.Cart.Find(ctx, bson.M{"addedAt": bson.M{"$gte": since}})
	if err != nil {
		return 0, storeErr(err)
	}
	defer cursor.Close(ctx)

	var lines []models.CartLine
	if err := cursor.All(ctx, &lines); err != nil {
		return 0, storeErr(err)
	}

	var purged int64
	for _, l := range lines {
		stale, err := rc.lineConverted(ctx, l)
		if err != nil {
			return purged, err
		}
		if !stale {
			continue
		}
		res, err := rc.Store.Cart.DeleteOne(ctx, bson.M{"lineId": l.LineID})
		if err != nil {
			return purged, storeErr(err)
		}
		purged += res.DeletedCount
	}
	return purged, nil
}

// lineConverted reports whether an order of the same user, placed after
// the line was added, already contains the line's product.
func (rc *Reconciler) lineConverted(ctx context.Context, l models.CartLine) (bool, error) {
	cursor, err := rc.Store.Orders.Find(ctx, bson.M{
		"userId":    l.UserID,
		"createdAt": bson.M{"$gte": l.AddedAt},
	})
	if err != nil {
		return false, storeErr(err)
	}
	defer cursor.Close(ctx)

	var placed []models.Order
	if err := cursor.All(ctx, &placed); err != nil {
		return false, storeErr(err)
	}
	if len(placed) == 0 {
		return false, nil
	}

	ids := make([]string, 0, len(placed))
	for _, o := range placed {
		ids = append(ids, o.OrderID)
	}
	n, err := rc.Store.OrderLines.CountDocuments(ctx, bson.M{
		"orderId":   bson.M{"$in": ids},
		"productId": l.ProductID,
	})
	if err != nil {
		return false, storeErr(err)
	}
	return n > 0, nil
}
