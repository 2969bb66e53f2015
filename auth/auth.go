package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"retailpro/db"
	"retailpro/middleware"
	"retailpro/models"
	"retailpro/rdx"
	"retailpro/utils"

	"github.com/golang-jwt/jwt/v5"
	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

const (
	refreshTokenTTL = 7 * 24 * time.Hour
	accessTokenTTL  = 12 * time.Hour
)

// Handler serves account registration and session management.
type Handler struct {
	Store *db.Store
	Cache *rdx.Cache
	Auth  *middleware.Auth
}

func NewHandler(store *db.Store, cache *rdx.Cache, auth *middleware.Auth) *Handler {
	return &Handler{Store: store, Cache: cache, Auth: auth}
}

// Register creates a customer account.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var user models.User
	if err := json.NewDecoder(r.Body).Decode(&user); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if user.Username == "" || user.Password == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Username and password are required")
		return
	}

	var existing models.User
	err := h.Store.Users.FindOne(ctx, bson.M{"username": user.Username}).Decode(&existing)
	if err == nil {
		utils.RespondWithError(w, http.StatusConflict, "User already exists")
		return
	} else if err != mongo.ErrNoDocuments {
		log.Println("Register lookup error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("Failed to hash password for user %s: %v", user.Username, err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to hash password")
		return
	}
	user.Password = string(hashed)
	user.UserID = "u" + utils.GenerateRandomString(10)
	user.Role = []string{"customer"}
	user.CreatedAt = time.Now()

	if _, err := h.Store.Users.InsertOne(ctx, user); err != nil {
		log.Println("Register InsertOne error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to register user")
		return
	}

	// cache only after the account actually exists
	if err := h.Cache.HSet(ctx, "usernames", user.UserID, user.Username); err != nil {
		log.Printf("Failed to cache username: %v", err)
	}

	utils.SendResponse(w, http.StatusCreated, map[string]string{"userid": user.UserID}, "Registration successful", nil)
}

// Login verifies credentials and issues an access + refresh token pair.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var input struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	var stored models.User
	err := h.Store.Users.FindOne(ctx, bson.M{"username": input.Username}).Decode(&stored)
	if err != nil {
		utils.RespondWithError(w, http.StatusUnauthorized, "Invalid username or password")
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte(input.Password)); err != nil {
		utils.RespondWithError(w, http.StatusUnauthorized, "Invalid username or password")
		return
	}

	tokenString, err := h.signAccessToken(stored)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	refreshToken, err := generateRefreshToken()
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Error generating refresh token")
		return
	}

	_, err = h.Store.Users.UpdateOne(ctx,
		bson.M{"userid": stored.UserID},
		bson.M{"$set": bson.M{
			"refresh_token":  hashToken(refreshToken),
			"refresh_expiry": time.Now().Add(refreshTokenTTL),
			"last_login":     time.Now(),
		}},
	)
	if err != nil {
		log.Println("Login refresh token store error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to store refresh token")
		return
	}

	if err := h.Cache.HSet(ctx, "tokki", stored.UserID, tokenString); err != nil {
		log.Printf("Redis token storage failed: %v", err)
	}

	utils.SendResponse(w, http.StatusOK, map[string]string{
		"token":        tokenString,
		"refreshToken": refreshToken,
		"userid":       stored.UserID,
	}, "Login successful", nil)
}

// Logout invalidates the caller's cached access token.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if err := h.Cache.HDel(ctx, "tokki", userID); err != nil {
		log.Printf("Error removing token from Redis: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to log out")
		return
	}

	utils.SendResponse(w, http.StatusOK, nil, "User logged out successfully", nil)
}

// RefreshToken exchanges a valid refresh token for a new access token.
func (h *Handler) RefreshToken(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var input struct {
		UserID       string `json:"userid"`
		RefreshToken string `json:"refreshToken"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if input.UserID == "" || input.RefreshToken == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "User id and refresh token are required")
		return
	}

	var stored models.User
	err := h.Store.Users.FindOne(ctx, bson.M{"userid": input.UserID}).Decode(&stored)
	if err != nil {
		utils.RespondWithError(w, http.StatusUnauthorized, "Invalid refresh token")
		return
	}
	if stored.RefreshToken != hashToken(input.RefreshToken) || time.Now().After(stored.RefreshExpiry) {
		utils.RespondWithError(w, http.StatusUnauthorized, "Invalid or expired refresh token")
		return
	}

	tokenString, err := h.signAccessToken(stored)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to refresh token")
		return
	}

	if err := h.Cache.HSet(ctx, "tokki", stored.UserID, tokenString); err != nil {
		log.Printf("Error updating token in Redis: %v", err)
	}

	utils.SendResponse(w, http.StatusOK, map[string]string{"token": tokenString}, "Token refreshed successfully", nil)
}

func (h *Handler) signAccessToken(user models.User) (string, error) {
	claims := &middleware.Claims{
		Username: user.Username,
		UserID:   user.UserID,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(accessTokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(h.Auth.Secret)
}

// Generates a random refresh token
func generateRefreshToken() (string, error) {
	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(tokenBytes), nil
}

// Hashes a given token
func hashToken(token string) string {
	hash := sha256.New()
	hash.Write([]byte(token))
	return hex.EncodeToString(hash.Sum(nil))
}
