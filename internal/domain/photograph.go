package domain

import (
	"time"

	"github.com/google/uuid"
)

// Photograph is the catalog record for one uploaded photo. The original
// bytes behind StoragePath are immutable once written; the record itself is
// only ever mutated by the soft-delete marker.
type Photograph struct {
	ID uuid.UUID `json:"id" db:"photo_id"`

	// Association identifiers are opaque: they are minted and validated by
	// the organizational hierarchy service and only stored here.
	OwnerID    string  `json:"owner_id" db:"owner_id"`
	CemeteryID string  `json:"cemetery_id" db:"cemetery_id"`
	SectionID  *string `json:"section_id,omitempty" db:"section_id"`
	PlotID     *string `json:"plot_id,omitempty" db:"plot_id"`

	StoragePath   string `json:"-" db:"storage_path"`
	ThumbnailPath string `json:"-" db:"thumbnail_path"`
	PreviewPath   string `json:"-" db:"preview_path"`

	// Intrinsics, always populated from the bytes themselves.
	FileSize    int64  `json:"file_size" db:"file_size"`
	FileFormat  string `json:"file_format" db:"file_format"`
	ImageWidth  int    `json:"image_width" db:"image_width"`
	ImageHeight int    `json:"image_height" db:"image_height"`

	// EXIF fields, each independently optional.
	// ExifDateTaken is a naive wall-clock instant: EXIF timestamps carry no
	// offset and none is inferred, the value is stored exactly as encoded.
	ExifDateTaken    *time.Time `json:"exif_date_taken,omitempty" db:"exif_date_taken"`
	ExifLatitude     *float64   `json:"exif_latitude,omitempty" db:"exif_latitude"`
	ExifLongitude    *float64   `json:"exif_longitude,omitempty" db:"exif_longitude"`
	ExifCameraMake   *string    `json:"exif_camera_make,omitempty" db:"exif_camera_make"`
	ExifCameraModel  *string    `json:"exif_camera_model,omitempty" db:"exif_camera_model"`
	ExifFocalLength  *string    `json:"exif_focal_length,omitempty" db:"exif_focal_length"`
	ExifAperture     *string    `json:"exif_aperture,omitempty" db:"exif_aperture"`
	ExifShutterSpeed *string    `json:"exif_shutter_speed,omitempty" db:"exif_shutter_speed"`
	ExifISO          *int       `json:"exif_iso,omitempty" db:"exif_iso"`

	Description       *string `json:"description,omitempty" db:"description"`
	PhotographerNotes *string `json:"photographer_notes,omitempty" db:"photographer_notes"`

	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	DeletedAt *time.Time `json:"-" db:"deleted_at"`

	Tags []Tag `json:"tags,omitempty" db:"-"`
}

// HasLocation reports whether the record carries a GPS point. Latitude and
// longitude are set together or not at all.
func (p *Photograph) HasLocation() bool {
	return p.ExifLatitude != nil && p.ExifLongitude != nil
}

// ExtractedMetadata holds whatever could be recovered from the embedded EXIF
// container. A fixed shape with optional fields: downstream code never deals
// with dynamically keyed maps.
type ExtractedMetadata struct {
	DateTaken    *time.Time
	Latitude     *float64
	Longitude    *float64
	CameraMake   *string
	CameraModel  *string
	FocalLength  *string
	Aperture     *string
	ShutterSpeed *string
	ISO          *int
}

// IngestInput carries one upload through the pipeline. DeclaredType and
// DeclaredFilename are untrusted caller claims.
type IngestInput struct {
	Data             []byte
	DeclaredType     string
	DeclaredFilename string

	OwnerID    string
	CemeteryID string
	SectionID  *string
	PlotID     *string

	Description       *string
	PhotographerNotes *string
	Tags              []string
}

type DerivedVariant string

const (
	VariantThumbnail DerivedVariant = "thumbnail"
	VariantPreview   DerivedVariant = "preview"
)

func (v DerivedVariant) IsValid() bool {
	return v == VariantThumbnail || v == VariantPreview
}
