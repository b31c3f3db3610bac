package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/Kyrilous/AutoLogg/internal/server/identity"
	"github.com/Kyrilous/AutoLogg/internal/server/service"
)

type Router struct {
	records  *service.Records
	verifier identity.Verifier
	logger   *zap.Logger
}

func NewRouter(records *service.Records, verifier identity.Verifier, logger *zap.Logger, corsOrigins []string) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Router{records: records, verifier: verifier, logger: logger}
	mux := chi.NewRouter()

	mux.Use(middleware.RequestID)
	mux.Use(middleware.Recoverer)
	mux.Use(r.requestLogger)
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins:   corsOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	mux.Get("/health", r.handleHealth)

	mux.Group(func(pr chi.Router) {
		pr.Use(r.authMiddleware)
		pr.Post("/add_record", r.handleAddRecord)
		pr.Get("/records", r.handleListRecords)
		pr.Delete("/records/{id}", r.handleDeleteRecord)
	})

	return mux
}

func (r *Router) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
