package service

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/tiff"

	"stonearchive/internal/domain"
)

// exifTimeLayout is the EXIF DateTime encoding. It carries no timezone and
// none is assumed: values parse and store as naive wall-clock instants.
const exifTimeLayout = "2006:01:02 15:04:05"

// ExifExtractor recovers whatever metadata the embedded EXIF container
// holds. It never fails an upload: a missing or corrupt container yields
// empty fields, and a field that will not parse is dropped without touching
// the ones that did.
type ExifExtractor struct{}

func NewExifExtractor() *ExifExtractor {
	return &ExifExtractor{}
}

func (e *ExifExtractor) Extract(data []byte) *domain.ExtractedMetadata {
	meta := &domain.ExtractedMetadata{}

	x, err := exif.Decode(bytes.NewReader(data))
	if err != nil {
		return meta
	}

	meta.DateTaken = extractDateTaken(x)
	meta.Latitude, meta.Longitude = extractGPS(x)
	meta.CameraMake = extractString(x, exif.Make)
	meta.CameraModel = extractString(x, exif.Model)
	meta.FocalLength = extractFocalLength(x)
	meta.Aperture = extractAperture(x)
	meta.ShutterSpeed = extractShutterSpeed(x)
	meta.ISO = extractISO(x)

	return meta
}

// extractDateTaken prefers the capture timestamp over the digitization and
// file-modification ones.
func extractDateTaken(x *exif.Exif) *time.Time {
	for _, field := range []exif.FieldName{exif.DateTimeOriginal, exif.DateTimeDigitized, exif.DateTime} {
		tag, err := x.Get(field)
		if err != nil {
			continue
		}
		raw, err := tag.StringVal()
		if err != nil {
			continue
		}
		t, err := time.Parse(exifTimeLayout, strings.TrimSpace(raw))
		if err != nil {
			continue
		}
		return &t
	}
	return nil
}

// extractGPS returns a signed decimal-degree pair, or nil/nil unless both
// coordinates are present, convertible and in range. A partial pair is
// dropped entirely: the catalog never holds a half coordinate or a default
// (0, 0) point.
func extractGPS(x *exif.Exif) (*float64, *float64) {
	lat, err := dmsToDecimal(x, exif.GPSLatitude, exif.GPSLatitudeRef, "S")
	if err != nil {
		return nil, nil
	}
	lng, err := dmsToDecimal(x, exif.GPSLongitude, exif.GPSLongitudeRef, "W")
	if err != nil {
		return nil, nil
	}
	if *lat < -90 || *lat > 90 || *lng < -180 || *lng > 180 {
		return nil, nil
	}
	return lat, lng
}

// dmsToDecimal converts a degree/minute/second rational triple plus its
// hemisphere reference into signed decimal degrees.
func dmsToDecimal(x *exif.Exif, coordField, refField exif.FieldName, negativeRef string) (*float64, error) {
	coord, err := x.Get(coordField)
	if err != nil {
		return nil, err
	}
	ref, err := x.Get(refField)
	if err != nil {
		return nil, err
	}

	var parts [3]float64
	for i := 0; i < 3; i++ {
		num, den, err := coord.Rat2(i)
		if err != nil {
			return nil, err
		}
		if den == 0 {
			return nil, fmt.Errorf("zero denominator in %s", coordField)
		}
		parts[i] = float64(num) / float64(den)
	}

	decimal := parts[0] + parts[1]/60.0 + parts[2]/3600.0

	refVal, err := ref.StringVal()
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(refVal) == negativeRef {
		decimal = -decimal
	}

	return &decimal, nil
}

func extractString(x *exif.Exif, field exif.FieldName) *string {
	tag, err := x.Get(field)
	if err != nil {
		return nil
	}
	raw, err := tag.StringVal()
	if err != nil {
		return nil
	}
	val := strings.TrimRight(strings.TrimSpace(raw), "\x00")
	if val == "" {
		return nil
	}
	return &val
}

func extractFocalLength(x *exif.Exif) *string {
	val, err := rationalValue(x, exif.FocalLength)
	if err != nil {
		return nil
	}
	s := fmt.Sprintf("%.0fmm", val)
	return &s
}

func extractAperture(x *exif.Exif) *string {
	val, err := rationalValue(x, exif.FNumber)
	if err != nil {
		return nil
	}
	s := fmt.Sprintf("f/%.1f", val)
	return &s
}

// extractShutterSpeed renders exposure time the way photographers read it:
// fractions of a second stay fractions, longer exposures become seconds.
func extractShutterSpeed(x *exif.Exif) *string {
	tag, err := x.Get(exif.ExposureTime)
	if err != nil {
		return nil
	}
	num, den, err := tag.Rat2(0)
	if err != nil || den == 0 {
		return nil
	}

	var s string
	if num == 1 {
		s = fmt.Sprintf("1/%d", den)
	} else {
		s = fmt.Sprintf("%.2fs", float64(num)/float64(den))
	}
	return &s
}

func extractISO(x *exif.Exif) *int {
	tag, err := x.Get(exif.ISOSpeedRatings)
	if err != nil {
		return nil
	}
	val, err := tag.Int(0)
	if err != nil {
		return nil
	}
	return &val
}

func rationalValue(x *exif.Exif, field exif.FieldName) (float64, error) {
	tag, err := x.Get(field)
	if err != nil {
		return 0, err
	}
	if tag.Format() != tiff.RatVal {
		return 0, fmt.Errorf("%s is not rational", field)
	}
	num, den, err := tag.Rat2(0)
	if err != nil {
		return 0, err
	}
	if den == 0 {
		return 0, fmt.Errorf("zero denominator in %s", field)
	}
	return float64(num) / float64(den), nil
}
