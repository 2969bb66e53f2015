package admin

import (
	"context"
	"log"
	"net/http"
	"time"

	"retailpro/currency"
	"retailpro/db"
	"retailpro/models"
	"retailpro/orders"
	"retailpro/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Handler serves the back-office dashboard endpoints. All routes are
// behind the admin role gate.
type Handler struct {
	Store *db.Store
}

func NewHandler(store *db.Store) *Handler {
	return &Handler{Store: store}
}

type dashboardStats struct {
	TotalOrders    int64            `json:"totalOrders"`
	OrdersByStatus map[string]int64 `json:"ordersByStatus"`
	Revenue        currency.Paise   `json:"revenue"`
	TotalProducts  int64            `json:"totalProducts"`
	TotalCustomers int64            `json:"totalCustomers"`
}

// GetDashboard aggregates storewide counts and revenue.
func (h *Handler) GetDashboard(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	stats := dashboardStats{OrdersByStatus: make(map[string]int64)}

	cur, err := h.Store.Orders.Aggregate(ctx, []bson.M{
		{"$group": bson.M{
			"_id":     "$status",
			"count":   bson.M{"$sum": 1},
			"revenue": bson.M{"$sum": "$total"},
		}},
	})
	if err != nil {
		log.Println("Dashboard aggregate error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to load dashboard")
		return
	}
	defer cur.Close(ctx)

	var groups []struct {
		Status  string         `bson:"_id"`
		Count   int64          `bson:"count"`
		Revenue currency.Paise `bson:"revenue"`
	}
	if err := cur.All(ctx, &groups); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to decode dashboard")
		return
	}
	for _, g := range groups {
		stats.OrdersByStatus[g.Status] = g.Count
		stats.TotalOrders += g.Count
		// cancelled orders never contribute to revenue
		if g.Status != string(orders.StatusCancelled) {
			stats.Revenue += g.Revenue
		}
	}

	if stats.TotalProducts, err = h.Store.Products.CountDocuments(ctx, bson.M{}); err != nil {
		log.Println("Dashboard product count error:", err)
	}
	if stats.TotalCustomers, err = h.Store.Users.CountDocuments(ctx, bson.M{"role": "customer"}); err != nil {
		log.Println("Dashboard customer count error:", err)
	}

	utils.RespondWithJSON(w, http.StatusOK, stats)
}

// GetAllOrders lists every order, newest first, optionally filtered by status.
func (h *Handler) GetAllOrders(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	filter := bson.M{}
	if status := r.URL.Query().Get("status"); status != "" {
		if !orders.Known(orders.Status(status)) {
			utils.RespondWithError(w, http.StatusBadRequest, "Unknown status filter")
			return
		}
		filter["status"] = status
	}

	cur, err := h.Store.Orders.Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}).SetLimit(200))
	if err != nil {
		log.Println("Admin orders error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to load orders")
		return
	}
	defer cur.Close(ctx)

	var all []models.Order
	if err := cur.All(ctx, &all); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to decode orders")
		return
	}
	if all == nil {
		all = []models.Order{}
	}

	utils.RespondWithJSON(w, http.StatusOK, all)
}

type customerView struct {
	UserID    string    `json:"userid"`
	Username  string    `json:"username"`
	Email     string    `json:"email,omitempty"`
	LastLogin time.Time `json:"lastLogin,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// GetCustomers lists registered customers without credential fields.
func (h *Handler) GetCustomers(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	cur, err := h.Store.Users.Find(ctx, bson.M{"role": "customer"},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		log.Println("Admin customers error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to load customers")
		return
	}
	defer cur.Close(ctx)

	var users []models.User
	if err := cur.All(ctx, &users); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to decode customers")
		return
	}

	views := make([]customerView, 0, len(users))
	for _, u := range users {
		views = append(views, customerView{
			UserID:    u.UserID,
			Username:  u.Username,
			Email:     u.Email,
			LastLogin: u.LastLogin,
			CreatedAt: u.CreatedAt,
		})
	}

	utils.RespondWithJSON(w, http.StatusOK, views)
}
