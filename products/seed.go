package products

import (
	"context"
	"log"
	"net/http"
	"time"

	"retailpro/currency"
	"retailpro/models"
	"retailpro/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
)

// sampleProducts is the demo catalog an empty store can be seeded with.
func sampleProducts(now time.Time) []models.Product {
	return []models.Product{
		{
			ProductID:   "p" + utils.GenerateRandomString(10),
			Name:        "Premium Wireless Headphones",
			Description: "High-quality wireless headphones with noise cancellation and 30-hour battery life.",
			Price:       currency.FromRupees(12999),
			ImageURL:    "https://images.unsplash.com/photo-1505740420928-5e560c06d30e?w=500",
			Rating:      4.8,
			CreatedAt:   now,
		},
		{
			ProductID:   "p" + utils.GenerateRandomString(10),
			Name:        "Smart Fitness Tracker",
			Description: "Track your fitness goals with this advanced smart tracker. Features heart rate monitoring, sleep tracking, and more.",
			Price:       currency.FromRupees(3499),
			ImageURL:    "https://images.unsplash.com/photo-1576243345690-4e4b79b63288?w=500",
			Rating:      4.5,
			CreatedAt:   now,
		},
		{
			ProductID:   "p" + utils.GenerateRandomString(10),
			Name:        "Ultra HD Smart TV",
			Description: "55-inch Ultra HD Smart TV with HDR and built-in streaming apps. Experience stunning visuals and smart features.",
			Price:       currency.FromRupees(49999),
			ImageURL:    "https://images.unsplash.com/photo-1593784991095-a20500764cbd?w=500",
			Rating:      4.7,
			CreatedAt:   now,
		},
		{
			ProductID:   "p" + utils.GenerateRandomString(10),
			Name:        "Professional DSLR Camera",
			Description: "Capture stunning photos and videos with this professional-grade DSLR camera. Includes 24-70mm lens.",
			Price:       currency.FromRupees(78999),
			ImageURL:    "https://images.unsplash.com/photo-1502920917128-1aa500764cbd?w=500",
			Rating:      4.9,
			CreatedAt:   now,
		},
	}
}

// SeedSampleProducts inserts the demo catalog if the store is empty.
// Admin only.
func (h *Handler) SeedSampleProducts(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	count, err := h.Store.Products.CountDocuments(ctx, bson.M{})
	if err != nil {
		log.Println("SeedSampleProducts count error:", err)
		utils.RespondWithError(w, http.StatusServiceUnavailable, "Failed to seed products")
		return
	}
	if count > 0 {
		utils.RespondWithError(w, http.StatusConflict, "Catalog is not empty")
		return
	}

	samples := sampleProducts(time.Now())
	docs := make([]interface{}, 0, len(samples))
	for _, p := range samples {
		docs = append(docs, p)
	}
	if _, err := h.Store.Products.InsertMany(ctx, docs); err != nil {
		log.Println("SeedSampleProducts InsertMany error:", err)
		utils.RespondWithError(w, http.StatusServiceUnavailable, "Failed to seed products")
		return
	}
	h.invalidateListCache(ctx)

	utils.RespondWithJSON(w, http.StatusCreated, samples)
}
