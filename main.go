package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"retailpro/admin"
	"retailpro/auth"
	"retailpro/cart"
	"retailpro/config"
	"retailpro/db"
	"retailpro/invoice"
	"retailpro/middleware"
	"retailpro/mq"
	"retailpro/notify"
	"retailpro/orders"
	"retailpro/products"
	"retailpro/ratelim"
	"retailpro/rdx"
	"retailpro/routes"
	"retailpro/settings"

	"github.com/julienschmidt/httprouter"
	"github.com/rs/cors"
)

// securityHeaders applies a set of recommended HTTP security headers.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// XSS, content sniffing, framing
		w.Header().Set("X-XSS-Protection", "1; mode=block")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "frame-ancestors 'none'")
		// HSTS (must be on HTTPS)
		w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains; preload")
		// Referrer and permissions
		w.Header().Set("Referrer-Policy", "no-referrer")
		w.Header().Set("Permissions-Policy", "geolocation=(), microphone=(), camera=()")
		// Prevent caching
		w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate, private")
		next.ServeHTTP(w, r)
	})
}

// loggingMiddleware logs each request method, path, remote address, and duration.
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		duration := time.Since(start)
		log.Printf("%s %s from %s – %v", r.Method, r.RequestURI, r.RemoteAddr, duration)
	})
}

// Index is a simple health check handler.
func Index(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	fmt.Fprint(w, "200")
}

func setupRouter(store *db.Store, cache *rdx.Cache, emitter *mq.Emitter, hub *notify.Hub, mw *middleware.Auth) *httprouter.Router {
	router := httprouter.New()
	router.GET("/health", Index)

	rateLimiter := ratelim.NewRateLimiter()

	orderRepo := orders.NewMongoRepo(store)
	orderSvc := orders.NewService(orderRepo, emitter)
	orderHandler := orders.NewHandler(orderSvc, orderRepo, store)

	routes.AddAuthRoutes(router, auth.NewHandler(store, cache, mw), rateLimiter, mw)
	routes.AddProductRoutes(router, products.NewHandler(store, cache), rateLimiter, mw)
	routes.AddCartRoutes(router, cart.NewHandler(store), rateLimiter, mw)
	routes.AddOrderRoutes(router, orderHandler, invoice.NewHandler(store), rateLimiter, mw)
	routes.AddAdminRoutes(router, admin.NewHandler(store), orderHandler, rateLimiter, mw)
	routes.AddSettingsRoutes(router, settings.NewHandler(store), mw)
	routes.AddNotifyRoutes(router, hub, mw)

	return router
}

func main() {
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	initCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	store, err := db.Connect(initCtx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		log.Fatalf("❌ MongoDB connection failed: %v", err)
	}
	if err := store.EnsureIndexes(initCtx); err != nil {
		log.Fatalf("❌ Index creation failed: %v", err)
	}

	cache, err := rdx.Connect(initCtx, cfg.RedisAddr)
	if err != nil {
		log.Fatalf("❌ Redis connection failed: %v", err)
	}

	mw := middleware.NewAuth([]byte(cfg.JWTSecret))
	emitter := mq.NewEmitter(cache)

	hub := notify.NewHub()
	go hub.Run()
	go mq.StartOrderEventWorker(ctx, cache, hub)

	reconciler := orders.NewReconciler(store)
	go reconciler.Run(ctx)

	router := setupRouter(store, cache, emitter, hub, mw)

	// apply middleware: CORS → security headers → logging → router
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"}, // lock down in production
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler(router)

	handler := loggingMiddleware(securityHeaders(corsHandler))

	server := &http.Server{
		Addr:              cfg.Port,
		Handler:           handler,
		ReadTimeout:       7 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       120 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
	}

	server.RegisterOnShutdown(func() {
		log.Println("🛑 Shutting down notification hub...")
		hub.Stop()
	})

	go func() {
		log.Printf("🚀 Server listening on %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ ListenAndServe error: %v", err)
		}
	}()

	<-ctx.Done()

	log.Println("🛑 Shutdown signal received; shutting down gracefully...")
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("❌ Graceful shutdown failed: %v", err)
	}

	if err := store.Close(shutdownCtx); err != nil {
		log.Printf("Mongo close error: %v", err)
	}
	if err := cache.Close(); err != nil {
		log.Printf("Redis close error: %v", err)
	}

	log.Println("✅ Server stopped cleanly")
}
