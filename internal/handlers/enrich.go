package handlers

import (
	"encoding/json"
	"net/http"

	"gorm.io/datatypes"
)

// enrichSpot generates insights for a spot and persists them. The
// enrichment is local metadata: it does not mark the spot as modified,
// so it never triggers an upload by itself.
func (r *Router) enrichSpot(w http.ResponseWriter, req *http.Request) {
	if r.enricher == nil {
		respondError(w, http.StatusServiceUnavailable, "Enrichment is not configured")
		return
	}

	spot := r.findSpot(w, req)
	if spot == nil {
		return
	}

	insight, err := r.enricher.Enrich(req.Context(), spot)
	if err != nil {
		respondError(w, http.StatusBadGateway, "Enrichment failed")
		return
	}

	raw, err := json.Marshal(insight)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to encode insight")
		return
	}
	spot.Enrichment = datatypes.JSON(raw)

	if err := r.store.Save(req.Context(), spot); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to save enrichment")
		return
	}
	respondJSON(w, http.StatusOK, spot)
}

// DiscoverRequest is the payload for a discovery query.
type DiscoverRequest struct {
	Query string `json:"query"`
	Limit int    `json:"limit"`
}

// discoverSpots returns catalog-ready drafts for a free-form query.
// Drafts are not saved; the client POSTs the accepted ones to /api/spots.
func (r *Router) discoverSpots(w http.ResponseWriter, req *http.Request) {
	if r.discovery == nil {
		respondError(w, http.StatusServiceUnavailable, "Discovery is not configured")
		return
	}

	var body DiscoverRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if body.Query == "" {
		respondError(w, http.StatusBadRequest, "Query is required")
		return
	}
	if body.Limit <= 0 {
		body.Limit = 5
	}

	drafts, err := r.discovery.Discover(req.Context(), body.Query, body.Limit)
	if err != nil {
		respondError(w, http.StatusBadGateway, "Discovery failed")
		return
	}
	respondJSON(w, http.StatusOK, drafts)
}

// ImportRequest points at a JSON export file on the local filesystem.
type ImportRequest struct {
	Path string `json:"path"`
}

// importSpots loads spots from a JSON export file
func (r *Router) importSpots(w http.ResponseWriter, req *http.Request) {
	var body ImportRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if body.Path == "" {
		respondError(w, http.StatusBadRequest, "Path is required")
		return
	}

	summary, err := r.importer.ImportFile(req.Context(), body.Path)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Import failed")
		return
	}
	respondJSON(w, http.StatusOK, summary)
}
