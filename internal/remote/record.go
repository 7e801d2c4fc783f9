package remote

import (
	"time"
)

// Wire field names. The backend stores records as flat key/value bags;
// this table is the single place the names appear.
const (
	fieldID           = "id"
	fieldName         = "name"
	fieldAddress      = "address"
	fieldLatitude     = "lat"
	fieldLongitude    = "lng"
	fieldRating       = "rating"
	fieldPrice        = "price"
	fieldVisited      = "visited"
	fieldFavorite     = "favorite"
	fieldNotes        = "notes"
	fieldPhotoRef     = "photo_ref"
	fieldLastModified = "last_modified"
	fieldLocalRef     = "local_ref"
)

// DecodeRecord converts a wire key/value bag into a Record. Every field is
// coerced with a typed default: a missing or malformed field never aborts
// the record, it just takes the default (booleans false, strings empty).
// A missing rating decodes to zero, outside the 1-5 scale, so the mapper
// can tell "no rating sent" apart from a real value.
func DecodeRecord(bag map[string]interface{}) Record {
	return Record{
		ID:           coerceString(bag[fieldID], ""),
		Name:         coerceString(bag[fieldName], ""),
		Address:      coerceString(bag[fieldAddress], ""),
		Latitude:     coerceFloat(bag[fieldLatitude], 0),
		Longitude:    coerceFloat(bag[fieldLongitude], 0),
		Rating:       coerceInt(bag[fieldRating], 0),
		Price:        coerceInt(bag[fieldPrice], 0),
		Visited:      coerceBool(bag[fieldVisited]),
		Favorite:     coerceBool(bag[fieldFavorite]),
		Notes:        coerceString(bag[fieldNotes], ""),
		PhotoRef:     coerceString(bag[fieldPhotoRef], ""),
		LastModified: coerceTime(bag[fieldLastModified]),
		LocalRef:     coerceString(bag[fieldLocalRef], ""),
	}
}

// EncodeRecord converts a Record into the wire key/value bag.
func EncodeRecord(r Record) map[string]interface{} {
	return map[string]interface{}{
		fieldID:           r.ID,
		fieldName:         r.Name,
		fieldAddress:      r.Address,
		fieldLatitude:     r.Latitude,
		fieldLongitude:    r.Longitude,
		fieldRating:       r.Rating,
		fieldPrice:        r.Price,
		fieldVisited:      r.Visited,
		fieldFavorite:     r.Favorite,
		fieldNotes:        r.Notes,
		fieldPhotoRef:     r.PhotoRef,
		fieldLastModified: r.LastModified.UTC().Format(time.RFC3339Nano),
		fieldLocalRef:     r.LocalRef,
	}
}

// Per-field coercers. Total over all inputs: they return a value or the
// default, never an error.

func coerceString(v interface{}, def string) string {
	if s, ok := v.(string); ok {
		return s
	}
	return def
}

func coerceFloat(v interface{}, def float64) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	}
	return def
}

func coerceInt(v interface{}, def int) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	}
	return def
}

func coerceBool(v interface{}) bool {
	if b, ok := v.(bool); ok {
		return b
	}
	return false
}

func coerceTime(v interface{}) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t.UTC()
	case string:
		if parsed, err := time.Parse(time.RFC3339Nano, t); err == nil {
			return parsed.UTC()
		}
		if parsed, err := time.Parse(time.RFC3339, t); err == nil {
			return parsed.UTC()
		}
	case int64:
		return time.Unix(t, 0).UTC()
	case float64:
		return time.Unix(int64(t), 0).UTC()
	}
	return time.Time{}
}
