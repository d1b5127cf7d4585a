package domain

import (
	"time"

	"github.com/google/uuid"
)

// GeoFilter selects photographs within RadiusMeters of a center point,
// measured along the great circle.
type GeoFilter struct {
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	RadiusMeters float64 `json:"radius_meters"`
}

// SearchPhotosInput combines any subset of predicates with logical AND.
type SearchPhotosInput struct {
	// Text matches description, photographer notes and tag names, tolerant
	// of substrings and small misspellings.
	Text *string

	// Inclusive bounds on the EXIF capture timestamp (naive comparison).
	DateFrom *time.Time
	DateTo   *time.Time

	Geo *GeoFilter

	OwnerID    *string
	CemeteryID *string

	// Anchor bounds results to records created at or before the given
	// instant. The search service sets it on the first page; clients echo it
	// on later pages so concurrent uploads cannot shift page boundaries.
	Anchor *time.Time

	Pagination PaginationParams
}

// Normalize validates predicate values and clamps pagination. maxRadiusMeters
// comes from configuration.
func (in *SearchPhotosInput) Normalize(maxRadiusMeters float64) error {
	in.Pagination.Validate()

	if in.Text != nil && *in.Text == "" {
		in.Text = nil
	}

	if in.DateFrom != nil && in.DateTo != nil && in.DateTo.Before(*in.DateFrom) {
		return ErrBadInput("Date range is invalid: the end date is before the start date")
	}

	if in.Geo != nil {
		g := in.Geo
		if g.Latitude < -90 || g.Latitude > 90 || g.Longitude < -180 || g.Longitude > 180 {
			return ErrBadInput("Search center is not a valid coordinate pair")
		}
		if g.RadiusMeters <= 0 {
			return ErrBadInput("Search radius must be greater than zero")
		}
		if g.RadiusMeters > maxRadiusMeters {
			return ErrBadInput("Search radius is too large")
		}
	}

	return nil
}

// PhotoSummary is one search hit. DistanceMeters is populated only when a
// geographic filter was active.
type PhotoSummary struct {
	ID             uuid.UUID  `json:"id" db:"photo_id"`
	CemeteryID     string     `json:"cemetery_id" db:"cemetery_id"`
	Description    *string    `json:"description,omitempty" db:"description"`
	FileFormat     string     `json:"file_format" db:"file_format"`
	ImageWidth     int        `json:"image_width" db:"image_width"`
	ImageHeight    int        `json:"image_height" db:"image_height"`
	ExifDateTaken  *time.Time `json:"exif_date_taken,omitempty" db:"exif_date_taken"`
	ExifLatitude   *float64   `json:"exif_latitude,omitempty" db:"exif_latitude"`
	ExifLongitude  *float64   `json:"exif_longitude,omitempty" db:"exif_longitude"`
	DistanceMeters *float64   `json:"distance_meters,omitempty" db:"distance_meters"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
}
