package orders

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
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Handler exposes the order lifecycle over HTTP.
type Handler struct {
	Service *Service
	Repo    *MongoRepo
	Store   *db.Store
}

func NewHandler(svc *Service, repo *MongoRepo, store *db.Store) *Handler {
	return &Handler{Service: svc, Repo: repo, Store: store}
}

// orderView is an order plus its immutable lines, the shape the
// storefront renders.
type orderView struct {
	models.Order
	Lines []models.OrderLine `json:"lines"`
}

func writeOrderError(w http.ResponseWriter, op string, err error) {
	switch {
	case IsValidation(err):
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
	case IsInvalidTransition(err):
		utils.RespondWithError(w, http.StatusConflict, err.Error())
	case err == ErrConcurrencyConflict:
		utils.RespondWithError(w, http.StatusConflict, "cart or order changed, please retry")
	case err == ErrOrderNotFound:
		utils.RespondWithError(w, http.StatusNotFound, "order not found")
	case IsStoreUnavailable(err):
		log.Println(op, "store error:", err)
		utils.RespondWithError(w, http.StatusServiceUnavailable, "store unavailable, please retry")
	default:
		log.Println(op, "error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "internal error")
	}
}

// Checkout converts the caller's cart into an order.
// POST /api/checkout {"deliveryTier":"standard"}
func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	var body struct {
		DeliveryTier string `json:"deliveryTier"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		log.Println("Checkout decode error:", err)
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	order, err := h.Service.Checkout(ctx, userID, body.DeliveryTier)
	if err != nil {
		writeOrderError(w, "Checkout", err)
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, order)
}

// GetMyOrders returns the caller's order history, newest first, each with
// its lines.
func (h *Handler) GetMyOrders(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := h.Store.Orders.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		log.Println("GetMyOrders Find error:", err)
		utils.RespondWithError(w, http.StatusServiceUnavailable, "Could not retrieve orders")
		return
	}
	defer cursor.Close(ctx)

	var list []models.Order
	if err := cursor.All(ctx, &list); err != nil {
		log.Println("GetMyOrders cursor error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Error reading orders")
		return
	}

	views := make([]orderView, 0, len(list))
	for _, o := range list {
		lines, err := h.Repo.LinesForOrder(ctx, o.OrderID)
		if err != nil {
			writeOrderError(w, "GetMyOrders", err)
			return
		}
		views = append(views, orderView{Order: o, Lines: lines})
	}

	utils.RespondWithJSON(w, http.StatusOK, views)
}

// GetOrder returns one order with lines; owners only.
func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	order, err := h.Repo.OrderByID(ctx, ps.ByName("orderId"))
	if err != nil {
		writeOrderError(w, "GetOrder", err)
		return
	}
	if order.UserID != userID {
		utils.RespondWithError(w, http.StatusNotFound, "order not found")
		return
	}

	lines, err := h.Repo.LinesForOrder(ctx, order.OrderID)
	if err != nil {
		writeOrderError(w, "GetOrder", err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, orderView{Order: *order, Lines: lines})
}

// CancelOrder lets a customer cancel their own non-terminal order.
func (h *Handler) CancelOrder(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	order, err := h.Service.Cancel(ctx, userID, ps.ByName("orderId"))
	if err != nil {
		writeOrderError(w, "CancelOrder", err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, order)
}

// ShippingCarriers is the set offered in the admin ship form.
var ShippingCarriers = []string{
	"BlueDart",
	"Delhivery",
	"DTDC",
	"Ekart",
	"India Post",
	"FedEx",
	"DHL",
}

// GetShippingCarriers lists the carriers an admin can assign when
// marking an order shipped.
func (h *Handler) GetShippingCarriers(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	utils.RespondWithJSON(w, http.StatusOK, ShippingCarriers)
}

// UpdateOrderStatus is the admin transition endpoint.
// PUT /api/admin/orders/:orderId/status
// {"status":"shipped","trackingNumber":"TRK1","shippingCarrier":"DHL"}
func (h *Handler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var req TransitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Println("UpdateOrderStatus decode error:", err)
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	order, err := h.Service.Transition(ctx, ps.ByName("orderId"), req)
	if err != nil {
		writeOrderError(w, "UpdateOrderStatus", err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, order)
}
