package service

import (
	"bytes"
	"context"
	"image"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/tiff"

	"stonearchive/internal/domain"
)

// Derivatives are the two fixed-size JPEG variants generated from one
// validated upload, plus the pixel dimensions of the decoded source.
type Derivatives struct {
	Thumbnail []byte
	Preview   []byte
	Width     int
	Height    int
}

// DerivativeGenerator produces thumbnail and preview rasters. Decoding and
// resampling are the only CPU- and memory-heavy steps in the pipeline, so
// concurrent generations across uploads share a bounded worker slot pool.
//
// Generation is deterministic: identical input bytes always produce
// byte-identical output.
type DerivativeGenerator struct {
	thumbWidth, thumbHeight     int
	previewWidth, previewHeight int
	thumbQuality                int
	previewQuality              int

	slots chan struct{}
}

func NewDerivativeGenerator(thumbW, thumbH, thumbQ, previewW, previewH, previewQ, workers int) *DerivativeGenerator {
	if workers < 1 {
		workers = 1
	}
	return &DerivativeGenerator{
		thumbWidth:     thumbW,
		thumbHeight:    thumbH,
		thumbQuality:   thumbQ,
		previewWidth:   previewW,
		previewHeight:  previewH,
		previewQuality: previewQ,
		slots:          make(chan struct{}, workers),
	}
}

// Generate decodes the raster and fits it into the thumbnail and preview
// boxes, preserving aspect ratio and never upscaling past the source's
// native resolution. Both variants re-encode as JPEG regardless of source
// format. A payload that passed format sniffing but fails true decode is
// fatal for the upload.
func (g *DerivativeGenerator) Generate(ctx context.Context, data []byte) (*Derivatives, error) {
	select {
	case g.slots <- struct{}{}:
		defer func() { <-g.slots }()
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, domain.ErrGenerationFailed(err)
	}

	bounds := img.Bounds()

	thumb := imaging.Fit(img, g.thumbWidth, g.thumbHeight, imaging.Lanczos)
	preview := imaging.Fit(img, g.previewWidth, g.previewHeight, imaging.Lanczos)

	thumbData, err := encodeJPEG(thumb, g.thumbQuality)
	if err != nil {
		return nil, domain.ErrGenerationFailed(err)
	}
	previewData, err := encodeJPEG(preview, g.previewQuality)
	if err != nil {
		return nil, domain.ErrGenerationFailed(err)
	}

	return &Derivatives{
		Thumbnail: thumbData,
		Preview:   previewData,
		Width:     bounds.Dx(),
		Height:    bounds.Dy(),
	}, nil
}

func encodeJPEG(img *image.NRGBA, quality int) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
