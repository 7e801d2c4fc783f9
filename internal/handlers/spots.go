package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/spotatlas/spotatlasgo/internal/models"
	"github.com/spotatlas/spotatlasgo/internal/store"
)

// SpotRequest is the payload for creating or updating a spot.
type SpotRequest struct {
	Name      string  `json:"name"`
	Address   string  `json:"address"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Rating    *int    `json:"rating,omitempty"`
	Price     *int    `json:"price,omitempty"`
	Visited   *bool   `json:"visited,omitempty"`
	Favorite  *bool   `json:"favorite,omitempty"`
	Notes     *string `json:"notes,omitempty"`
	PhotoRef  *string `json:"photo_ref,omitempty"`
}

// listSpots returns the catalog, optionally filtered by visited/favorite
func (r *Router) listSpots(w http.ResponseWriter, req *http.Request) {
	var preds []store.Predicate
	if v := req.URL.Query().Get("visited"); v != "" {
		preds = append(preds, store.Eq("visited", v == "true"))
	}
	if v := req.URL.Query().Get("favorite"); v != "" {
		preds = append(preds, store.Eq("favorite", v == "true"))
	}

	spots, err := r.store.Fetch(req.Context(), preds)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch spots")
		return
	}
	respondJSON(w, http.StatusOK, spots)
}

// createSpot adds a new spot to the catalog
func (r *Router) createSpot(w http.ResponseWriter, req *http.Request) {
	var body SpotRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	name := strings.TrimSpace(body.Name)
	address := strings.TrimSpace(body.Address)
	if name == "" || address == "" {
		respondError(w, http.StatusBadRequest, "Name and address are required")
		return
	}

	spot := models.Spot{
		ID:        uuid.NewString(),
		Name:      name,
		Address:   address,
		Latitude:  body.Latitude,
		Longitude: body.Longitude,
		Rating:    models.RatingDefault,
	}
	applySpotRequest(&spot, &body)
	spot.Touch()

	if err := r.store.Save(req.Context(), &spot); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to create spot")
		return
	}
	respondJSON(w, http.StatusCreated, spot)
}

// getSpot returns a single spot
func (r *Router) getSpot(w http.ResponseWriter, req *http.Request) {
	spot := r.findSpot(w, req)
	if spot == nil {
		return
	}
	respondJSON(w, http.StatusOK, spot)
}

// updateSpot applies a partial update and stamps the spot as modified,
// which makes it an upload candidate for the next sync pass.
func (r *Router) updateSpot(w http.ResponseWriter, req *http.Request) {
	spot := r.findSpot(w, req)
	if spot == nil {
		return
	}

	var body SpotRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if name := strings.TrimSpace(body.Name); name != "" {
		spot.Name = name
	}
	if address := strings.TrimSpace(body.Address); address != "" {
		spot.Address = address
	}
	if body.Latitude != 0 || body.Longitude != 0 {
		spot.Latitude = body.Latitude
		spot.Longitude = body.Longitude
	}
	applySpotRequest(spot, &body)
	spot.Touch()

	if err := r.store.Save(req.Context(), spot); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to update spot")
		return
	}
	respondJSON(w, http.StatusOK, spot)
}

// deleteSpot removes a spot from the catalog
func (r *Router) deleteSpot(w http.ResponseWriter, req *http.Request) {
	spot := r.findSpot(w, req)
	if spot == nil {
		return
	}

	if err := r.store.Delete(req.Context(), spot); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to delete spot")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// findSpot resolves the {id} route variable, writing the error response
// itself when the spot cannot be served.
func (r *Router) findSpot(w http.ResponseWriter, req *http.Request) *models.Spot {
	id := mux.Vars(req)["id"]

	spot, err := r.store.FindByID(req.Context(), id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch spot")
		return nil
	}
	if spot == nil {
		respondError(w, http.StatusNotFound, "Spot not found")
		return nil
	}
	return spot
}

func applySpotRequest(spot *models.Spot, body *SpotRequest) {
	if body.Rating != nil && *body.Rating >= models.RatingMin && *body.Rating <= models.RatingMax {
		spot.Rating = *body.Rating
	}
	if body.Price != nil {
		spot.Price = *body.Price
	}
	if body.Visited != nil {
		spot.Visited = *body.Visited
	}
	if body.Favorite != nil {
		spot.Favorite = *body.Favorite
	}
	if body.Notes != nil {
		spot.Notes = *body.Notes
	}
	if body.PhotoRef != nil {
		spot.PhotoRef = *body.PhotoRef
	}
}
