package service

import (
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"stonearchive/internal/domain"
)

// allowedFormats maps sniffed MIME types to the canonical format label and
// the extension used for the stored original.
var allowedFormats = map[string]struct {
	Format    string
	Extension string
}{
	"image/jpeg": {Format: "JPEG", Extension: ".jpg"},
	"image/png":  {Format: "PNG", Extension: ".png"},
	"image/tiff": {Format: "TIFF", Extension: ".tif"},
}

// ValidatedUpload is the only thing later pipeline stages see: the bytes and
// what they actually are. Nothing the caller declared survives past here.
type ValidatedUpload struct {
	Data      []byte
	Format    string
	MIMEType  string
	Extension string
}

type UploadValidator struct {
	maxBytes int64
}

func NewUploadValidator(maxBytes int64) *UploadValidator {
	return &UploadValidator{maxBytes: maxBytes}
}

// Validate checks size, sniffed content type and filename safety, in that
// order. The declared content type is ignored entirely; the format comes
// from the bytes.
func (v *UploadValidator) Validate(data []byte, declaredType, declaredFilename string) (*ValidatedUpload, error) {
	if int64(len(data)) > v.maxBytes {
		return nil, domain.ErrSizeExceeded(v.maxBytes, int64(len(data)))
	}

	// Errors report the sniffed type, not the declared one: a renamed HTML
	// file is rejected as HTML, whatever the caller claimed it was.
	mtype := mimetype.Detect(data)
	allowed, ok := allowedFormats[mtype.String()]
	if !ok {
		return nil, domain.ErrUnsupportedFormat(mtype.String())
	}

	if unsafeFilename(declaredFilename) {
		return nil, domain.ErrUnsafeFilename(declaredFilename)
	}

	return &ValidatedUpload{
		Data:      data,
		Format:    allowed.Format,
		MIMEType:  mtype.String(),
		Extension: allowed.Extension,
	}, nil
}

// unsafeFilename rejects anything that could traverse outside a storage
// prefix. The stored name is derived from the record id anyway; this guards
// log lines and response fields that echo the name.
func unsafeFilename(name string) bool {
	if name == "" {
		return false
	}
	if strings.ContainsAny(name, `/\`) || strings.ContainsRune(name, 0) {
		return true
	}
	return name == "." || name == ".."
}
