package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/spotatlas/spotatlasgo/internal/models"
)

// Options controls the catalog PDF layout.
type Options struct {
	Title        string `json:"title"`
	IncludeNotes bool   `json:"includeNotes"`
}

// GenerateCatalogPDF renders the given spots as a printable A4 catalog,
// one row per spot.
func GenerateCatalogPDF(spots []models.Spot, opts Options) ([]byte, error) {
	title := opts.Title
	if title == "" {
		title = "My Spots"
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.SetAutoPageBreak(true, 20)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 10, title, "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 9)
	pdf.SetTextColor(120, 120, 120)
	pdf.CellFormat(0, 5, fmt.Sprintf("%d place(s)", len(spots)), "", 1, "L", false, 0, "")
	pdf.Ln(4)
	pdf.SetTextColor(0, 0, 0)

	for _, spot := range spots {
		pdf.SetFont("Arial", "B", 11)
		name := spot.Name
		if spot.Favorite {
			name += " *"
		}
		pdf.CellFormat(130, 6, name, "", 0, "L", false, 0, "")

		pdf.SetFont("Arial", "", 10)
		pdf.CellFormat(0, 6, ratingStars(spot.Rating), "", 1, "R", false, 0, "")

		pdf.SetFont("Arial", "", 9)
		pdf.SetTextColor(90, 90, 90)
		line := spot.Address
		if spot.Visited {
			line += "  (visited)"
		}
		if spot.Price > 0 {
			line += "  " + strings.Repeat("$", spot.Price)
		}
		pdf.CellFormat(0, 5, line, "", 1, "L", false, 0, "")

		if opts.IncludeNotes && strings.TrimSpace(spot.Notes) != "" {
			pdf.SetFont("Arial", "I", 8)
			pdf.MultiCell(0, 4, spot.Notes, "", "L", false)
		}

		pdf.SetTextColor(0, 0, 0)
		pdf.SetDrawColor(220, 220, 220)
		pdf.Line(15, pdf.GetY()+2, 195, pdf.GetY()+2)
		pdf.Ln(4)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render catalog PDF: %w", err)
	}
	return buf.Bytes(), nil
}

func ratingStars(rating int) string {
	if rating < models.RatingMin {
		rating = models.RatingMin
	}
	if rating > models.RatingMax {
		rating = models.RatingMax
	}
	return strings.Repeat("#", rating) + strings.Repeat("-", models.RatingMax-rating)
}
