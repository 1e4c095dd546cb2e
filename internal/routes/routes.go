package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/jslopes/journal-backend/internal/apierror"
	"github.com/jslopes/journal-backend/internal/config"
	"github.com/jslopes/journal-backend/internal/handlers"
	"github.com/jslopes/journal-backend/internal/middleware"
)

// New builds the router. Each endpoint is registered for exactly one method
// (update accepts PUT and POST); anything else gets a structured 405 before
// a handler or the database is touched.
func New(cfg *config.Config, entry *handlers.Entry, upload *handlers.Upload, redisClient *redis.Client, log zerolog.Logger) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestLogger(log))
	if cfg.IsProduction() {
		r.Use(middleware.SecurityHeaders)
	}
	r.Use(middleware.RateLimit(redisClient))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
		MaxAge:         300,
	}))

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeAPIError(w, apierror.NotFound("Not found"))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeAPIError(w, apierror.MethodNotAllowed())
	})

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("OK"))
	})

	r.Post("/create_entry", entry.Create)
	r.Get("/read_entries", entry.List)
	r.Get("/read_single_entry", entry.Single)
	r.Put("/update_entry", entry.Update)
	r.Post("/update_entry", entry.Update)
	r.Post("/upload_image", upload.Image)

	// Stored images are served straight off the upload directory so that
	// image_url paths resolve against this server.
	uploadsFS := http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.UploadDir)))
	r.Get("/uploads/*", uploadsFS.ServeHTTP)

	return r
}

func writeAPIError(w http.ResponseWriter, apiErr *apierror.APIError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(apiErr.Status)
	w.Write([]byte(`{"status":"error","message":"` + apiErr.Message + `"}`))
}
