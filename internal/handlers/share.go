package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/spotatlas/spotatlasgo/internal/services/export"
	"github.com/spotatlas/spotatlasgo/internal/services/share"
)

// spotQR renders the share link for a spot as a QR code PNG
func (r *Router) spotQR(w http.ResponseWriter, req *http.Request) {
	spot := r.findSpot(w, req)
	if spot == nil {
		return
	}

	size := 0
	if s := req.URL.Query().Get("size"); s != "" {
		size, _ = strconv.Atoi(s)
	}

	png, err := share.QRCode(spot, size)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to generate QR")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Write(png)
}

// shareLanding serves the public view of a shared spot. Only fields a
// recipient should see are exposed; sync metadata and personal flags
// stay private.
func (r *Router) shareLanding(w http.ResponseWriter, req *http.Request) {
	spot := r.findSpot(w, req)
	if spot == nil {
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"name":      spot.Name,
		"address":   spot.Address,
		"latitude":  spot.Latitude,
		"longitude": spot.Longitude,
		"rating":    spot.Rating,
	})
}

// exportPDF renders the catalog as a downloadable PDF
func (r *Router) exportPDF(w http.ResponseWriter, req *http.Request) {
	spots, err := r.store.Fetch(req.Context(), nil)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch spots")
		return
	}

	opts := export.Options{
		Title:        req.URL.Query().Get("title"),
		IncludeNotes: req.URL.Query().Get("notes") == "true",
	}

	pdfBytes, err := export.GenerateCatalogPDF(spots, opts)
	if err != nil {
		respondError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to generate PDF: %v", err))
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=\"spots.pdf\"")
	w.Header().Set("Content-Length", strconv.Itoa(len(pdfBytes)))
	w.Write(pdfBytes)
}
