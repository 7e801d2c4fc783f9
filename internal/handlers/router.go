package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/spotatlas/spotatlasgo/internal/buildinfo"
	"github.com/spotatlas/spotatlasgo/internal/config"
	"github.com/spotatlas/spotatlasgo/internal/database"
	"github.com/spotatlas/spotatlasgo/internal/discovery"
	"github.com/spotatlas/spotatlasgo/internal/enrich"
	"github.com/spotatlas/spotatlasgo/internal/importer"
	"github.com/spotatlas/spotatlasgo/internal/middleware"
	"github.com/spotatlas/spotatlasgo/internal/store"
	"github.com/spotatlas/spotatlasgo/internal/sync"
	"github.com/spotatlas/spotatlasgo/internal/websocket"
)

// Router wraps the mux router and the app's collaborators.
type Router struct {
	*mux.Router
	db        *database.DB
	store     store.Store
	cfg       *config.Config
	engine    *sync.Engine
	hub       *websocket.Hub
	enricher  enrich.Enricher
	discovery *discovery.Service
	importer  *importer.Importer
}

// Deps carries everything the router needs. Enricher and Discovery are
// optional; their endpoints answer 503 when absent.
type Deps struct {
	DB        *database.DB
	Store     store.Store
	Config    *config.Config
	Engine    *sync.Engine
	Hub       *websocket.Hub
	Enricher  enrich.Enricher
	Discovery *discovery.Service
	Importer  *importer.Importer
}

// NewRouter creates a new HTTP router with all routes
func NewRouter(deps Deps) *Router {
	r := &Router{
		Router:    mux.NewRouter(),
		db:        deps.DB,
		store:     deps.Store,
		cfg:       deps.Config,
		engine:    deps.Engine,
		hub:       deps.Hub,
		enricher:  deps.Enricher,
		discovery: deps.Discovery,
		importer:  deps.Importer,
	}

	// Health check endpoint
	r.HandleFunc("/health", r.healthCheck).Methods("GET")

	// Auth routes
	auth := r.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/login", r.login).Methods("POST")
	auth.HandleFunc("/register", r.register).Methods("POST")

	// API routes (protected)
	api := r.PathPrefix("/api").Subrouter()
	api.Use(middleware.AuthMiddleware(r.cfg))
	api.HandleFunc("/status", r.getStatus).Methods("GET")

	// Spot catalog
	api.HandleFunc("/spots", r.listSpots).Methods("GET")
	api.HandleFunc("/spots", r.createSpot).Methods("POST")
	api.HandleFunc("/spots/{id}", r.getSpot).Methods("GET")
	api.HandleFunc("/spots/{id}", r.updateSpot).Methods("PUT")
	api.HandleFunc("/spots/{id}", r.deleteSpot).Methods("DELETE")
	api.HandleFunc("/spots/{id}/enrich", r.enrichSpot).Methods("POST")
	api.HandleFunc("/spots/{id}/qr", r.spotQR).Methods("GET")

	// Sync control
	api.HandleFunc("/sync/status", r.getSyncStatus).Methods("GET")
	api.HandleFunc("/sync/run", r.runSync).Methods("POST")
	api.HandleFunc("/sync/reset-breaker", r.resetBreaker).Methods("POST")

	// Discovery and import
	api.HandleFunc("/discover", r.discoverSpots).Methods("POST")
	api.HandleFunc("/import", r.importSpots).Methods("POST")

	// Export
	api.HandleFunc("/export/pdf", r.exportPDF).Methods("GET")

	// Live sync event feed
	r.HandleFunc("/ws", func(w http.ResponseWriter, req *http.Request) {
		websocket.ServeWs(r.hub, w, req)
	})

	// Public share landing (path arrives lowercased from QR scans)
	r.HandleFunc("/s/{id}", r.shareLanding).Methods("GET")

	return r
}

// Handler returns the router wrapped in the app-wide middleware.
func (r *Router) Handler() http.Handler {
	return middleware.CaseInsensitiveMiddleware(r.Router)
}

// healthCheck returns the health status of the API
func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"server": "local",
	})
}

// getStatus returns the current status
func (r *Router) getStatus(w http.ResponseWriter, req *http.Request) {
	version := buildinfo.CommitHash
	if version == "" {
		version = "dev"
	}
	respondJSON(w, http.StatusOK, map[string]string{
		"status":     "running",
		"version":    version,
		"built_at":   buildinfo.BuildTime,
		"started_at": buildinfo.StartTime,
	})
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError sends an error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}
