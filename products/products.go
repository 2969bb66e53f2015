package products

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"retailpro/db"
	"retailpro/models"
	"retailpro/rdx"
	"retailpro/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const listCacheKey = "products:all"
const listCacheTTL = 2 * time.Minute

// Handler serves the product catalog. Reads are public; writes are wired
// behind the admin middleware in routes.
type Handler struct {
	Store *db.Store
	Cache *rdx.Cache
}

func NewHandler(store *db.Store, cache *rdx.Cache) *Handler {
	return &Handler{Store: store, Cache: cache}
}

// GetProducts lists the catalog, optionally filtered with ?q=. The
// unfiltered list is cached in Redis for a couple of minutes.
func (h *Handler) GetProducts(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	q := r.URL.Query().Get("q")
	if q == "" && h.Cache != nil {
		if cached, err := h.Cache.Get(ctx, listCacheKey); err == nil && cached != "" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(cached))
			return
		}
	}

	filter := bson.M{}
	if q != "" {
		filter["name"] = bson.M{"$regex": q, "$options": "i"}
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := h.Store.Products.Find(ctx, filter, opts)
	if err != nil {
		log.Println("GetProducts Find error:", err)
		utils.RespondWithError(w, http.StatusServiceUnavailable, "Could not retrieve products")
		return
	}
	defer cursor.Close(ctx)

	var list []models.Product
	if err := cursor.All(ctx, &list); err != nil {
		log.Println("GetProducts cursor error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Error reading products")
		return
	}
	if len(list) == 0 {
		list = []models.Product{}
	}

	if q == "" && h.Cache != nil {
		if data, err := json.Marshal(list); err == nil {
			if err := h.Cache.Set(ctx, listCacheKey, string(data), listCacheTTL); err != nil {
				log.Println("GetProducts cache set error:", err)
			}
		}
	}

	utils.RespondWithJSON(w, http.StatusOK, list)
}

// GetProduct returns one catalog entry.
func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var product models.Product
	err := h.Store.Products.FindOne(ctx, bson.M{"productId": ps.ByName("productId")}).Decode(&product)
	if err == mongo.ErrNoDocuments {
		utils.RespondWithError(w, http.StatusNotFound, "Product not found")
		return
	}
	if err != nil {
		log.Println("GetProduct error:", err)
		utils.RespondWithError(w, http.StatusServiceUnavailable, "Could not retrieve product")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, product)
}

// CreateProduct adds a catalog entry. Admin only.
func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var product models.Product
	if err := json.NewDecoder(r.Body).Decode(&product); err != nil {
		log.Println("CreateProduct decode error:", err)
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}
	if product.Name == "" || product.Price <= 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "Name and a positive price are required")
		return
	}
	if product.Rating < 0 || product.Rating > 5 {
		utils.RespondWithError(w, http.StatusBadRequest, "Rating must be between 0 and 5")
		return
	}

	product.ProductID = "p" + utils.GenerateRandomString(10)
	product.CreatedAt = time.Now()

	if _, err := h.Store.Products.InsertOne(ctx, product); err != nil {
		log.Println("CreateProduct InsertOne error:", err)
		utils.RespondWithError(w, http.StatusServiceUnavailable, "Failed to create product")
		return
	}
	h.invalidateListCache(ctx)

	utils.RespondWithJSON(w, http.StatusCreated, product)
}

// UpdateProduct edits a catalog entry. Existing cart and order snapshots
// keep their captured price. Admin only.
func (h *Handler) UpdateProduct(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var body models.Product
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}
	if body.Name == "" || body.Price <= 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "Name and a positive price are required")
		return
	}
	if body.Rating < 0 || body.Rating > 5 {
		utils.RespondWithError(w, http.StatusBadRequest, "Rating must be between 0 and 5")
		return
	}

	res := h.Store.Products.FindOneAndUpdate(ctx,
		bson.M{"productId": ps.ByName("productId")},
		bson.M{"$set": bson.M{
			"name":        body.Name,
			"description": body.Description,
			"price":       body.Price,
			"imageUrl":    body.ImageURL,
			"rating":      body.Rating,
		}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)

	var updated models.Product
	if err := res.Decode(&updated); err != nil {
		if err == mongo.ErrNoDocuments {
			utils.RespondWithError(w, http.StatusNotFound, "Product not found")
			return
		}
		log.Println("UpdateProduct error:", err)
		utils.RespondWithError(w, http.StatusServiceUnavailable, "Failed to update product")
		return
	}
	h.invalidateListCache(ctx)

	utils.RespondWithJSON(w, http.StatusOK, updated)
}

// DeleteProduct removes a catalog entry. Admin only. Orders that already
// snapshotted the product are unaffected.
func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	res, err := h.Store.Products.DeleteOne(ctx, bson.M{"productId": ps.ByName("productId")})
	if err != nil {
		log.Println("DeleteProduct error:", err)
		utils.RespondWithError(w, http.StatusServiceUnavailable, "Failed to delete product")
		return
	}
	if res.DeletedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Product not found")
		return
	}
	h.invalidateListCache(ctx)

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"status": "deleted"})
}

func (h *Handler) invalidateListCache(ctx context.Context) {
	if h.Cache == nil {
		return
	}
	if err := h.Cache.Del(ctx, listCacheKey); err != nil {
		log.Println("product cache invalidate error:", err)
	}
}
