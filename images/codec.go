package images

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"

	"github.com/chai2010/webp"
	"github.com/pkg/errors"
)

// jpegQuality matches the quality the original app used when re-encoding
// redacted frames.
const jpegQuality = 90

// isWebP sniffs the RIFF/WEBP container header.
func isWebP(data []byte) bool {
	return len(data) >= 12 &&
		bytes.Equal(data[0:4], []byte("RIFF")) &&
		bytes.Equal(data[8:12], []byte("WEBP"))
}

// Decode decodes JPEG, PNG, or WebP bytes.
//
// Arguments:
// - data: The encoded image bytes.
//
// Returns:
// - image.Image: The decoded image.
// - ImageFormat: The detected source format.
// - error: An error if decoding fails.
func Decode(data []byte) (image.Image, ImageFormat, error) {
	if isWebP(data) {
		img, err := webp.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, "", errors.Wrap(err, "failed to decode webp")
		}
		return img, FormatWebP, nil
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", errors.Wrap(err, "failed to decode image")
	}
	switch ImageFormat(format) {
	case FormatJPEG, FormatPNG:
		return img, ImageFormat(format), nil
	default:
		return nil, "", errors.Errorf("unsupported image format: %s", format)
	}
}

// Encode encodes img in the given format.
//
// Arguments:
// - img: The image to encode.
// - format: The target format.
//
// Returns:
// - []byte: The encoded bytes.
// - error: An error if encoding fails or the format is unknown.
func Encode(img image.Image, format ImageFormat) ([]byte, error) {
	var buf bytes.Buffer
	switch format {
	case FormatJPEG:
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
			return nil, errors.Wrap(err, "failed to encode jpeg")
		}
	case FormatPNG:
		if err := png.Encode(&buf, img); err != nil {
			return nil, errors.Wrap(err, "failed to encode png")
		}
	case FormatWebP:
		if err := webp.Encode(&buf, img, &webp.Options{Quality: jpegQuality}); err != nil {
			return nil, errors.Wrap(err, "failed to encode webp")
		}
	default:
		return nil, fmt.Errorf("unsupported image format: %s", format)
	}
	return buf.Bytes(), nil
}
