package remote

import (
	"testing"
	"time"
)

func TestDecodeRecord_FullBag(t *testing.T) {
	bag := map[string]interface{}{
		"id":            "rec-1",
		"name":          "Foreign Cinema",
		"address":       "2534 Mission St",
		"lat":           37.7565,
		"lng":           -122.4191,
		"rating":        5,
		"price":         3,
		"visited":       true,
		"favorite":      false,
		"notes":         "back patio",
		"photo_ref":     "ph-9",
		"last_modified": "2026-08-20T11:30:00Z",
		"local_ref":     "spot-1",
	}

	rec := DecodeRecord(bag)
	if rec.ID != "rec-1" || rec.Name != "Foreign Cinema" || rec.Address != "2534 Mission St" {
		t.Errorf("String fields mangled: %+v", rec)
	}
	if rec.Latitude != 37.7565 || rec.Longitude != -122.4191 {
		t.Errorf("Coordinates mangled: %f,%f", rec.Latitude, rec.Longitude)
	}
	if rec.Rating != 5 || rec.Price != 3 || !rec.Visited || rec.Favorite {
		t.Errorf("Scalar fields mangled: %+v", rec)
	}
	want := time.Date(2026, 8, 20, 11, 30, 0, 0, time.UTC)
	if !rec.LastModified.Equal(want) {
		t.Errorf("Expected %v, got %v", want, rec.LastModified)
	}
}

func TestDecodeRecord_MalformedFieldsTakeDefaults(t *testing.T) {
	bag := map[string]interface{}{
		"id":            "rec-2",
		"name":          42,              // wrong type
		"rating":        "five",          // wrong type
		"visited":       "yes",           // wrong type
		"lat":           "not-a-number",  // wrong type
		"last_modified": "garbage-stamp", // unparseable
	}

	rec := DecodeRecord(bag)
	if rec.Name != "" {
		t.Errorf("Malformed name must default to empty, got %q", rec.Name)
	}
	if rec.Rating != 0 {
		t.Errorf("Malformed rating must decode to the out-of-scale zero, got %d", rec.Rating)
	}
	if rec.Visited {
		t.Error("Malformed bool must default to false")
	}
	if rec.Latitude != 0 {
		t.Errorf("Malformed float must default to zero, got %f", rec.Latitude)
	}
	if !rec.LastModified.IsZero() {
		t.Errorf("Unparseable timestamp must default to zero, got %v", rec.LastModified)
	}
}

func TestDecodeRecord_NumericWidening(t *testing.T) {
	// XML-RPC decoders hand back int64 and float64 interchangeably.
	bag := map[string]interface{}{
		"rating":        int64(4),
		"price":         float64(2),
		"lat":           int(37),
		"last_modified": int64(1756400000), // unix seconds
	}

	rec := DecodeRecord(bag)
	if rec.Rating != 4 || rec.Price != 2 || rec.Latitude != 37 {
		t.Errorf("Numeric widening failed: %+v", rec)
	}
	if rec.LastModified != time.Unix(1756400000, 0).UTC() {
		t.Errorf("Unix timestamp not decoded, got %v", rec.LastModified)
	}
}

func TestEncodeDecodeRecord_RoundTrip(t *testing.T) {
	in := Record{
		ID:           "rec-3",
		Name:         "La Taqueria",
		Address:      "2889 Mission St",
		Latitude:     37.75,
		Longitude:    -122.418,
		Rating:       5,
		Price:        1,
		Visited:      true,
		Notes:        "no rice",
		LastModified: time.Date(2026, 8, 25, 9, 0, 0, 500, time.UTC),
		LocalRef:     "spot-3",
	}

	out := DecodeRecord(EncodeRecord(in))
	if out != in {
		t.Errorf("Round trip changed the record:\n in: %+v\nout: %+v", in, out)
	}
}
