package router

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/surprisewrap/service-shop-go/internal/auth"
	"github.com/surprisewrap/service-shop-go/internal/giftpackage"
	"github.com/surprisewrap/service-shop-go/internal/mailer"
	"github.com/surprisewrap/service-shop-go/internal/order"
	"github.com/surprisewrap/service-shop-go/internal/product"
	"github.com/surprisewrap/service-shop-go/internal/store"
)

// loggingResponseWriter wraps http.ResponseWriter to capture status and size.
type loggingResponseWriter struct {
	http.ResponseWriter
	status int
	size   int
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.status = code
	lrw.ResponseWriter.WriteHeader(code)
}

func (lrw *loggingResponseWriter) Write(b []byte) (int, error) {
	if lrw.status == 0 {
		lrw.status = http.StatusOK
	}
	n, err := lrw.ResponseWriter.Write(b)
	lrw.size += n
	return n, err
}

// LoggingMiddleware returns a middleware that logs requests at debug level using the provided sugared logger.
func LoggingMiddleware(logger *zap.SugaredLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			lrw := &loggingResponseWriter{ResponseWriter: w}
			next.ServeHTTP(lrw, r)
			dur := time.Since(start)
			status := lrw.status
			if status == 0 {
				status = http.StatusOK
			}
			logger.Debugw("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"remote", r.RemoteAddr,
				"status", status,
				"duration_ms", float64(dur.Microseconds())/1000.0,
				"size", lrw.size,
			)
		})
	}
}

// SecurityHeadersMiddleware returns a middleware that sets common HTTP security headers.
// It is intentionally simple and conservative so it works with most setups.
func SecurityHeadersMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Prevent MIME sniffing
			w.Header().Set("X-Content-Type-Options", "nosniff")

			// Clickjacking protection
			w.Header().Set("X-Frame-Options", "DENY")

			// Referrer policy
			w.Header().Set("Referrer-Policy", "no-referrer-when-downgrade")

			// Lock down browser features the API never uses
			w.Header().Set("Permissions-Policy", "camera=(), microphone=(), geolocation=()")

			if w.Header().Get("Content-Security-Policy") == "" {
				w.Header().Set("Content-Security-Policy", "default-src 'self'; object-src 'none'; base-uri 'self';")
			}

			// HSTS only makes sense when the request came in over TLS
			if r.TLS != nil {
				// 30 days
				w.Header().Set("Strict-Transport-Security", "max-age=2592000; includeSubDomains")
			}

			next.ServeHTTP(w, r)
		})
	}
}

// CORSMiddleware allows any origin, matching the storefront's deployment
// model where web clients are served from arbitrary hosts.
func CORSMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RegisterRoutes mounts HTTP handlers on the standard library's
// http.ServeMux. Register and login are open; the product, order and
// gift-package groups each pass through exactly one auth gate.
func RegisterRoutes(logger *zap.SugaredLogger, st store.Store, ml mailer.Mailer, authCfg auth.Config) http.Handler {
	mux := http.NewServeMux()

	tokens := auth.NewTokenService(authCfg)
	requireAuth := auth.Middleware(tokens, logger)

	// health
	mux.HandleFunc("GET /shop-api/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	// auth routes
	authHandler := auth.NewHandler(auth.NewService(st, tokens, nil), logger)
	mux.HandleFunc("POST /register", authHandler.Register)
	mux.HandleFunc("POST /login", authHandler.Login)

	// product routes
	productHandler := product.NewHandler(st, logger)
	products := http.NewServeMux()
	products.HandleFunc("POST /products", productHandler.Create)
	products.HandleFunc("GET /products", productHandler.List)
	products.HandleFunc("GET /products/{id}", productHandler.Get)
	products.HandleFunc("PUT /products/{id}", productHandler.Update)
	products.HandleFunc("DELETE /products/{id}", productHandler.Delete)
	mux.Handle("/products", requireAuth(products))
	mux.Handle("/products/", requireAuth(products))

	// order routes
	orderHandler := order.NewHandler(st, ml, tokens, logger)
	orders := http.NewServeMux()
	orders.HandleFunc("POST /orders", orderHandler.Create)
	orders.HandleFunc("GET /orders", orderHandler.List)
	orders.HandleFunc("GET /orders/{id}", orderHandler.Get)
	orders.HandleFunc("GET /orders/user/{userId}", orderHandler.ListByUser)
	orders.HandleFunc("PUT /orders/{id}", orderHandler.Update)
	orders.HandleFunc("DELETE /orders/{id}", orderHandler.Delete)
	mux.Handle("/orders", requireAuth(orders))
	mux.Handle("/orders/", requireAuth(orders))

	// gift package routes
	giftHandler := giftpackage.NewHandler(st, logger)
	gifts := http.NewServeMux()
	gifts.HandleFunc("POST /gift-packages", giftHandler.Create)
	gifts.HandleFunc("GET /gift-packages", giftHandler.List)
	gifts.HandleFunc("GET /gift-packages/{id}", giftHandler.Get)
	gifts.HandleFunc("GET /gift-packages/user/{userId}", giftHandler.ListByUser)
	gifts.HandleFunc("PUT /gift-packages/{id}", giftHandler.Update)
	gifts.HandleFunc("DELETE /gift-packages/{id}", giftHandler.Delete)
	mux.Handle("/gift-packages", requireAuth(gifts))
	mux.Handle("/gift-packages/", requireAuth(gifts))

	// wrap with logging, then security headers, then CORS
	handler := LoggingMiddleware(logger)(SecurityHeadersMiddleware()(CORSMiddleware()(mux)))
	return handler
}
