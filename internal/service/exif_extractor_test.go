package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExifExtractor_FullContainer(t *testing.T) {
	extractor := NewExifExtractor()
	data := makeExifJPEG(t, 320, 240, true)

	meta := extractor.Extract(data)

	require.NotNil(t, meta.DateTaken)
	assert.Equal(t, time.Date(2021, 6, 15, 14, 30, 0, 0, time.UTC), *meta.DateTaken)

	require.NotNil(t, meta.Latitude)
	require.NotNil(t, meta.Longitude)
	// 39°46'54" N, 89°39'0" W
	assert.InDelta(t, 39.7817, *meta.Latitude, 0.0005)
	assert.InDelta(t, -89.6501, *meta.Longitude, 0.0005)

	require.NotNil(t, meta.CameraMake)
	assert.Equal(t, "Canon", *meta.CameraMake)
	require.NotNil(t, meta.CameraModel)
	assert.Equal(t, "Canon EOS R5", *meta.CameraModel)

	require.NotNil(t, meta.FocalLength)
	assert.Equal(t, "50mm", *meta.FocalLength)

	require.NotNil(t, meta.ISO)
	assert.Equal(t, 200, *meta.ISO)
}

func TestExifExtractor_NoContainer(t *testing.T) {
	extractor := NewExifExtractor()

	t.Run("plain PNG", func(t *testing.T) {
		meta := extractor.Extract(makePNG(t, 100, 80))

		assert.Nil(t, meta.DateTaken)
		assert.Nil(t, meta.Latitude)
		assert.Nil(t, meta.Longitude)
		assert.Nil(t, meta.CameraMake)
		assert.Nil(t, meta.CameraModel)
		assert.Nil(t, meta.FocalLength)
		assert.Nil(t, meta.Aperture)
		assert.Nil(t, meta.ShutterSpeed)
		assert.Nil(t, meta.ISO)
	})

	t.Run("plain JPEG", func(t *testing.T) {
		meta := extractor.Extract(makeJPEG(t, 100, 80))
		assert.Nil(t, meta.DateTaken)
		assert.Nil(t, meta.Latitude)
	})

	t.Run("not an image at all", func(t *testing.T) {
		meta := extractor.Extract([]byte("definitely not an image"))
		assert.Nil(t, meta.DateTaken)
		assert.Nil(t, meta.Latitude)
		assert.Nil(t, meta.ISO)
	})
}

func TestExifExtractor_NoGPSMeansNoCoordinates(t *testing.T) {
	extractor := NewExifExtractor()
	data := makeExifJPEG(t, 320, 240, false)

	meta := extractor.Extract(data)

	// Other fields still parse; the GPS pair is absent, never (0, 0).
	require.NotNil(t, meta.DateTaken)
	assert.Nil(t, meta.Latitude)
	assert.Nil(t, meta.Longitude)
}

func TestExifExtractor_CorruptContainerKeepsUpload(t *testing.T) {
	extractor := NewExifExtractor()

	// APP1 marker present but the TIFF inside is garbage: extraction
	// degrades to empty fields without failing.
	base := makeJPEG(t, 60, 40)
	corrupt := append([]byte{}, base[:2]...)
	corrupt = append(corrupt, 0xFF, 0xE1, 0x00, 0x10)
	corrupt = append(corrupt, []byte("Exif\x00\x00~~~~~~~~")...)
	corrupt = append(corrupt, base[2:]...)

	meta := extractor.Extract(corrupt)
	assert.Nil(t, meta.DateTaken)
	assert.Nil(t, meta.Latitude)
	assert.Nil(t, meta.CameraMake)
}
