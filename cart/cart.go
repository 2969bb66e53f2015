package cart

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"retailpro/db"
	"retailpro/models"
	"retailpro/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Handler serves the shopping cart. Cart lines belong to exactly one
// customer; every operation here is scoped to the authenticated user, and
// checkout (in the orders package) is the only other code that touches
// the collection.
type Handler struct {
	Store *db.Store
}

func NewHandler(store *db.Store) *Handler {
	return &Handler{Store: store}
}

// AddToCart increments quantity if the product is already in the cart, or
// inserts a new line snapshotting the current catalog price.
func (h *Handler) AddToCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var body struct {
		ProductID string `json:"productId"`
		Quantity  int    `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		log.Println("AddToCart decode error:", err)
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	if body.ProductID == "" || body.Quantity <= 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "Missing or invalid fields")
		return
	}

	var product models.Product
	err := h.Store.Products.FindOne(ctx, bson.M{"productId": body.ProductID}).Decode(&product)
	if err == mongo.ErrNoDocuments {
		utils.RespondWithError(w, http.StatusBadRequest, "Product does not exist")
		return
	}
	if err != nil {
		log.Println("AddToCart product lookup error:", err)
		utils.RespondWithError(w, http.StatusServiceUnavailable, "Failed to add to cart")
		return
	}

	filter := bson.M{"userId": userID, "productId": body.ProductID}
	update := bson.M{
		"$inc": bson.M{"quantity": body.Quantity},
		"$setOnInsert": bson.M{
			"lineId":      "cl-" + utils.GetUUID(),
			"productName": product.Name,
			"unitPrice":   product.Price,
			"addedAt":     time.Now(),
		},
	}
	opts := options.Update().SetUpsert(true)

	if _, err := h.Store.Cart.UpdateOne(ctx, filter, update, opts); err != nil {
		log.Println("AddToCart UpdateOne error:", err)
		utils.RespondWithError(w, http.StatusServiceUnavailable, "Failed to add to cart")
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, utils.M{"status": "added"})
}

// GetCart returns all cart lines for the user, oldest first.
func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	opts := options.Find().SetSort(bson.D{{Key: "addedAt", Value: 1}})
	cursor, err := h.Store.Cart.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		log.Println("GetCart Find error:", err)
		utils.RespondWithError(w, http.StatusServiceUnavailable, "Could not retrieve cart")
		return
	}
	defer cursor.Close(ctx)

	var lines []models.CartLine
	if err := cursor.All(ctx, &lines); err != nil {
		log.Println("GetCart cursor.All error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Error reading cart data")
		return
	}
	if len(lines) == 0 {
		lines = []models.CartLine{}
	}

	utils.RespondWithJSON(w, http.StatusOK, lines)
}

// UpdateQuantity sets the quantity of one line. Quantities below 1 are
// rejected; removal is an explicit DELETE.
func (h *Handler) UpdateQuantity(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var body struct {
		Quantity int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}
	if body.Quantity < 1 {
		utils.RespondWithError(w, http.StatusBadRequest, "Quantity must be at least 1")
		return
	}

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	res, err := h.Store.Cart.UpdateOne(ctx,
		bson.M{"lineId": ps.ByName("lineId"), "userId": userID},
		bson.M{"$set": bson.M{"quantity": body.Quantity}},
	)
	if err != nil {
		log.Println("UpdateQuantity error:", err)
		utils.RespondWithError(w, http.StatusServiceUnavailable, "Failed to update cart")
		return
	}
	if res.MatchedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Cart line not found")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"status": "updated"})
}

// RemoveFromCart deletes one line.
func (h *Handler) RemoveFromCart(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	res, err := h.Store.Cart.DeleteOne(ctx, bson.M{"lineId": ps.ByName("lineId"), "userId": userID})
	if err != nil {
		log.Println("RemoveFromCart error:", err)
		utils.RespondWithError(w, http.StatusServiceUnavailable, "Failed to remove cart line")
		return
	}
	if res.DeletedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Cart line not found")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"status": "removed"})
}

// ClearCart removes every line of the user's cart.
func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if _, err := h.Store.Cart.DeleteMany(ctx, bson.M{"userId": userID}); err != nil {
		log.Println("ClearCart error:", err)
		utils.RespondWithError(w, http.StatusServiceUnavailable, "Failed to clear cart")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"status": "cleared"})
}
