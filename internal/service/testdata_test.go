package service

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"
)

// makeTestImage renders a deterministic gradient so resampling tests have
// real pixel variation to work with.
func makeTestImage(width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{
				R: uint8(x * 255 / width),
				G: uint8(y * 255 / height),
				B: uint8((x + y) * 255 / (width + height)),
				A: 255,
			})
		}
	}
	return img
}

func makeJPEG(t *testing.T, width, height int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, makeTestImage(width, height), &jpeg.Options{Quality: 90}); err != nil {
		t.Fatalf("encode jpeg: %v", err)
	}
	return buf.Bytes()
}

func makePNG(t *testing.T, width, height int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, makeTestImage(width, height)); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

// The helpers below assemble a minimal EXIF container (little-endian TIFF
// with IFD0, Exif and GPS sub-IFDs) and splice it into a JPEG as an APP1
// segment, giving tests a camera-like file with known tag values.

const (
	tiffTypeASCII    = 2
	tiffTypeShort    = 3
	tiffTypeLong     = 4
	tiffTypeRational = 5
)

type ifdEntry struct {
	tag   uint16
	typ   uint16
	count uint32
	value []byte // raw value bytes; stored inline if <= 4 bytes
}

func asciiEntry(tag uint16, s string) ifdEntry {
	v := append([]byte(s), 0)
	return ifdEntry{tag: tag, typ: tiffTypeASCII, count: uint32(len(v)), value: v}
}

func shortEntry(tag uint16, v uint16) ifdEntry {
	b := make([]byte, 2)
	binary.LittleEndian.PutUint16(b, v)
	return ifdEntry{tag: tag, typ: tiffTypeShort, count: 1, value: b}
}

func longEntry(tag uint16, v uint32) ifdEntry {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, v)
	return ifdEntry{tag: tag, typ: tiffTypeLong, count: 1, value: b}
}

func rationalEntry(tag uint16, pairs [][2]uint32) ifdEntry {
	b := make([]byte, 0, len(pairs)*8)
	for _, p := range pairs {
		b = binary.LittleEndian.AppendUint32(b, p[0])
		b = binary.LittleEndian.AppendUint32(b, p[1])
	}
	return ifdEntry{tag: tag, typ: tiffTypeRational, count: uint32(len(pairs)), value: b}
}

func ifdSize(entries []ifdEntry) uint32 {
	size := uint32(2 + 12*len(entries) + 4)
	for _, e := range entries {
		if len(e.value) > 4 {
			size += uint32(len(e.value) + len(e.value)%2)
		}
	}
	return size
}

// encodeIFD writes one IFD at the given TIFF offset, entries already sorted
// by tag as the format requires.
func encodeIFD(entries []ifdEntry, offset uint32) []byte {
	var body, data bytes.Buffer

	dataOffset := offset + uint32(2+12*len(entries)+4)

	b := make([]byte, 4)
	binary.LittleEndian.PutUint16(b, uint16(len(entries)))
	body.Write(b[:2])

	for _, e := range entries {
		binary.LittleEndian.PutUint16(b, e.tag)
		body.Write(b[:2])
		binary.LittleEndian.PutUint16(b, e.typ)
		body.Write(b[:2])
		binary.LittleEndian.PutUint32(b, e.count)
		body.Write(b)

		if len(e.value) <= 4 {
			inline := make([]byte, 4)
			copy(inline, e.value)
			body.Write(inline)
		} else {
			binary.LittleEndian.PutUint32(b, dataOffset+uint32(data.Len()))
			body.Write(b)
			data.Write(e.value)
			if len(e.value)%2 != 0 {
				data.WriteByte(0)
			}
		}
	}

	// next-IFD offset: none
	body.Write([]byte{0, 0, 0, 0})
	body.Write(data.Bytes())

	return body.Bytes()
}

// buildExifTIFF assembles the TIFF payload with camera, timestamp and GPS
// tags. GPS is 39°46'54" N, 89°39'0" W unless overridden by withGPS=false.
func buildExifTIFF(withGPS bool) []byte {
	exifEntries := []ifdEntry{
		shortEntry(0x8827, 200), // ISOSpeedRatings
		asciiEntry(0x9003, "2021:06:15 14:30:00"), // DateTimeOriginal
		rationalEntry(0x920A, [][2]uint32{{50, 1}}), // FocalLength
	}

	gpsEntries := []ifdEntry{
		asciiEntry(0x0001, "N"),
		rationalEntry(0x0002, [][2]uint32{{39, 1}, {46, 1}, {54, 1}}),
		asciiEntry(0x0003, "W"),
		rationalEntry(0x0004, [][2]uint32{{89, 1}, {39, 1}, {0, 1}}),
	}

	var ifd0 []ifdEntry
	build := func() ([]ifdEntry, uint32, uint32) {
		ifd0Size := ifdSize(ifd0)
		exifOffset := 8 + ifd0Size
		gpsOffset := exifOffset + ifdSize(exifEntries)
		return ifd0, exifOffset, gpsOffset
	}

	// First pass with placeholder pointers to fix IFD0's size, second pass
	// with real offsets.
	ifd0 = []ifdEntry{
		asciiEntry(0x010F, "Canon"),       // Make
		asciiEntry(0x0110, "Canon EOS R5"), // Model
		longEntry(0x8769, 0),               // ExifIFDPointer
	}
	if withGPS {
		ifd0 = append(ifd0, longEntry(0x8825, 0)) // GPSInfoIFDPointer
	}
	_, exifOffset, gpsOffset := build()

	ifd0 = []ifdEntry{
		asciiEntry(0x010F, "Canon"),
		asciiEntry(0x0110, "Canon EOS R5"),
		longEntry(0x8769, exifOffset),
	}
	if withGPS {
		ifd0 = append(ifd0, longEntry(0x8825, gpsOffset))
	}

	var buf bytes.Buffer
	buf.WriteString("II")
	buf.Write([]byte{0x2A, 0x00})
	buf.Write([]byte{0x08, 0x00, 0x00, 0x00})
	buf.Write(encodeIFD(ifd0, 8))
	buf.Write(encodeIFD(exifEntries, exifOffset))
	if withGPS {
		buf.Write(encodeIFD(gpsEntries, gpsOffset))
	}
	return buf.Bytes()
}

// makeExifJPEG splices the EXIF APP1 segment into a real encoded JPEG right
// after the SOI marker.
func makeExifJPEG(t *testing.T, width, height int, withGPS bool) []byte {
	t.Helper()

	base := makeJPEG(t, width, height)
	tiffData := buildExifTIFF(withGPS)

	payload := append([]byte("Exif\x00\x00"), tiffData...)

	var buf bytes.Buffer
	buf.Write(base[:2]) // SOI
	buf.Write([]byte{0xFF, 0xE1})
	segLen := make([]byte, 2)
	binary.BigEndian.PutUint16(segLen, uint16(len(payload)+2))
	buf.Write(segLen)
	buf.Write(payload)
	buf.Write(base[2:])

	return buf.Bytes()
}
