package share

import (
	"fmt"
	"net/url"
	"os"

	"github.com/skip2/go-qrcode"

	"github.com/spotatlas/spotatlasgo/internal/models"
)

// BaseURL returns the public base URL encoded into share links.
func BaseURL() string {
	if base := os.Getenv("SHARE_BASE_URL"); base != "" {
		return base
	}
	return "http://localhost:3000"
}

// Link builds the share URL for a spot. The path is uppercase because
// alphanumeric QR content encodes more densely; the router lowercases
// incoming paths to compensate.
func Link(spot *models.Spot) string {
	return fmt.Sprintf("%s/S/%s", BaseURL(), url.PathEscape(spot.ID))
}

// QRCode renders the share link for a spot as a PNG.
func QRCode(spot *models.Spot, size int) ([]byte, error) {
	if size <= 0 {
		size = 256
	}
	png, err := qrcode.Encode(Link(spot), qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("failed to encode share QR: %w", err)
	}
	return png, nil
}
