package inspect

import (
	"encoding/json"
	"net/http"

	"github.com/mcdev12/wordarena/go/internal/gateway"
	"github.com/mcdev12/wordarena/go/internal/store"
	"github.com/rs/cors"
	"github.com/rs/zerolog/log"
)

// SnapshotProvider is where the handler reads state from.
type SnapshotProvider interface {
	Snapshot() store.Snapshot
}

// HealthResponse is returned by /health.
type HealthResponse struct {
	Status string        `json:"status"`
	Socket gateway.State `json:"socket"`
}

// Handler serves read-only views of the session state
type Handler struct {
	provider SnapshotProvider
}

// NewHandler creates a new inspect handler
func NewHandler(provider SnapshotProvider) *Handler {
	return &Handler{
		provider: provider,
	}
}

// HandleGetState handles GET /state and GET /state/{slice}
func (h *Handler) HandleGetState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	snapshot := h.provider.Snapshot()

	var body interface{} = snapshot
	if name := r.PathValue("slice"); name != "" {
		body = snapshot.Slice(store.Slice(name))
		if body == nil {
			http.Error(w, "Unknown slice", http.StatusNotFound)
			return
		}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error().Err(err).Msg("failed to encode state response")
	}
}

// HandleHealth handles GET /health
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	response := HealthResponse{
		Status: "ok",
		Socket: h.provider.Snapshot().Socket.State,
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Error().Err(err).Msg("failed to encode health response")
	}
}

// RegisterRoutes registers the inspect routes
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /state", h.HandleGetState)
	mux.HandleFunc("GET /state/{slice}", h.HandleGetState)
	mux.HandleFunc("GET /health", h.HandleHealth)
}

// NewServer builds the inspect HTTP server wrapped with CORS.
func NewServer(addr string, provider SnapshotProvider) *http.Server {
	mux := http.NewServeMux()
	NewHandler(provider).RegisterRoutes(mux)

	c := cors.New(cors.Options{
		AllowedMethods: []string{
			http.MethodHead,
			http.MethodGet,
		},
		AllowedOrigins: []string{"*"},
		AllowedHeaders: []string{"*"},
	})

	return &http.Server{
		Addr:    addr,
		Handler: c.Handler(mux),
	}
}
