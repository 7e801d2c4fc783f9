package discovery

import (
	"context"
	"log"
	"strings"

	"github.com/google/uuid"

	"github.com/spotatlas/spotatlasgo/internal/enrich"
	"github.com/spotatlas/spotatlasgo/internal/models"
	"github.com/spotatlas/spotatlasgo/internal/store"
	"github.com/spotatlas/spotatlasgo/internal/utils"
)

// Service turns free-form queries into catalog-ready spot drafts: it
// asks the suggester for candidates, drops the ones already in the
// catalog or suggested recently, and returns the rest as unsaved spots.
type Service struct {
	store     store.Store
	suggester enrich.Suggester
}

// NewService creates a discovery service.
func NewService(st store.Store, sg enrich.Suggester) *Service {
	return &Service{store: st, suggester: sg}
}

// Discover returns up to limit new spot drafts for the query. Drafts are
// not persisted; the caller saves the ones the user accepts.
func (s *Service) Discover(ctx context.Context, query string, limit int) ([]models.Spot, error) {
	suggestions, err := s.suggester.Suggest(ctx, query, limit)
	if err != nil {
		return nil, err
	}

	var drafts []models.Spot
	for _, sug := range suggestions {
		name := strings.TrimSpace(sug.Name)
		address := strings.TrimSpace(sug.Address)
		if name == "" || address == "" {
			continue
		}

		if existing, err := s.store.FindByNaturalKey(ctx, name, address); err != nil {
			log.Printf("⚠️ Discovery lookup for %q failed: %v", name, err)
			continue
		} else if existing != nil {
			continue
		}

		if utils.IsDuplicate(utils.SuggestionKey(name, address)) {
			continue
		}

		spot := models.Spot{
			ID:        uuid.NewString(),
			Name:      name,
			Address:   address,
			Latitude:  sug.Lat,
			Longitude: sug.Lng,
			Rating:    clampRating(sug.Rating),
			Notes:     sug.Reason,
		}
		spot.Touch()
		drafts = append(drafts, spot)
	}
	return drafts, nil
}

func clampRating(r int) int {
	if r < models.RatingMin || r > models.RatingMax {
		return models.RatingDefault
	}
	return r
}
