package settings

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

type Handler struct {
	Store *db.Store
}

func NewHandler(store *db.Store) *Handler {
	return &Handler{Store: store}
}

func defaultSettings(userID string) models.StoreSettings {
	return models.StoreSettings{
		UserID:        userID,
		Notifications: true,
		Language:      "en",
		Currency:      "INR",
	}
}

// GetSettings returns the caller's settings, seeding defaults on first read.
func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var s models.StoreSettings
	err := h.Store.Settings.FindOne(ctx, bson.M{"userID": userID}).Decode(&s)
	if err == mongo.ErrNoDocuments {
		s = defaultSettings(userID)
		if _, err := h.Store.Settings.InsertOne(ctx, s); err != nil {
			log.Println("Settings seed error:", err)
		}
	} else if err != nil {
		log.Println("Settings load error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to load settings")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, s)
}

// UpdateSettings replaces the caller's settings document.
func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var s models.StoreSettings
	if err := json.NewDecoder(r.Body).Decode(&s); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	s.UserID = userID
	if s.Language == "" {
		s.Language = "en"
	}
	if s.Currency == "" {
		s.Currency = "INR"
	}

	_, err := h.Store.Settings.ReplaceOne(ctx,
		bson.M{"userID": userID}, s, options.Replace().SetUpsert(true))
	if err != nil {
		log.Println("Settings update error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update settings")
		return
	}

	utils.SendResponse(w, http.StatusOK, s, "Settings updated", nil)
}
