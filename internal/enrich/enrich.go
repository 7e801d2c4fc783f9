package enrich

import (
	"context"
	"fmt"

	"github.com/spotatlas/spotatlasgo/internal/models"
)

// Insight is the structured enrichment produced for one spot. It is
// persisted verbatim into Spot.Enrichment.
type Insight struct {
	Summary   string   `json:"summary"`
	Tags      []string `json:"tags,omitempty"`
	BestTime  string   `json:"best_time,omitempty"`
	PriceHint string   `json:"price_hint,omitempty"`
}

// Suggestion is one candidate place returned by discovery.
type Suggestion struct {
	Name    string  `json:"name"`
	Address string  `json:"address"`
	Reason  string  `json:"reason,omitempty"`
	Rating  int     `json:"rating,omitempty"`
	Lat     float64 `json:"lat,omitempty"`
	Lng     float64 `json:"lng,omitempty"`
}

// Enricher generates structured insights for a saved spot.
type Enricher interface {
	Enrich(ctx context.Context, spot *models.Spot) (*Insight, error)
	Close()
}

// Suggester proposes new places matching a free-form query.
type Suggester interface {
	Suggest(ctx context.Context, query string, limit int) ([]Suggestion, error)
}

func enrichPrompt(spot *models.Spot) string {
	return fmt.Sprintf(`You are a local guide. Describe the place below for someone who saved it to a personal catalog.

Name: %s
Address: %s
Notes: %s

Respond with ONLY a JSON object, no prose, matching:
{"summary": "...", "tags": ["..."], "best_time": "...", "price_hint": "..."}
Keep the summary under 60 words.`, spot.Name, spot.Address, spot.Notes)
}

func suggestPrompt(query string, limit int) string {
	return fmt.Sprintf(`You are a local guide. Suggest up to %d real places matching this request: %q

Respond with ONLY a JSON array, no prose, matching:
[{"name": "...", "address": "...", "reason": "...", "rating": 1-5, "lat": 0.0, "lng": 0.0}]
Only include places you are confident actually exist, with their real street addresses.`, limit, query)
}
