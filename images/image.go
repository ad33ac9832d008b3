// Package images - decoding, encoding, and RGBA buffer plumbing between
// compressed frames and the filter engine's raw RGBA8888 layout.
package images

import (
	"bytes"
	"image"

	"github.com/chai2010/webp"
	"github.com/pkg/errors"
)

// ImageFormat represents supported image formats.
type ImageFormat string

const (
	// FormatJPEG is the JPEG image format.
	FormatJPEG ImageFormat = "jpeg"
	// FormatPNG is the PNG image format.
	FormatPNG ImageFormat = "png"
	// FormatWebP is the WebP image format.
	FormatWebP ImageFormat = "webp"
)

// Image represents an encoded image with a format, data, width, and height.
type Image struct {
	// The format of the image.
	Format ImageFormat `json:"format" yaml:"format"`
	// The data of the image.
	Data []byte `json:"data" yaml:"data"`
	// The width of the image.
	Width int `json:"width" yaml:"width"`
	// The height of the image.
	Height int `json:"height" yaml:"height"`
}

// NewImage builds an Image from encoded bytes, sniffing the format and
// dimensions from the stream header without a full decode.
//
// Arguments:
// - data: The encoded image bytes.
//
// Returns:
// - Image: The populated Image value.
// - error: An error if the bytes are not a supported format.
func NewImage(data []byte) (Image, error) {
	if isWebP(data) {
		cfg, err := webp.DecodeConfig(bytes.NewReader(data))
		if err != nil {
			return Image{}, errors.Wrap(err, "failed to sniff webp header")
		}
		return Image{Format: FormatWebP, Data: data, Width: cfg.Width, Height: cfg.Height}, nil
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return Image{}, errors.Wrap(err, "failed to sniff image header")
	}
	return Image{
		Format: ImageFormat(format),
		Data:   data,
		Width:  cfg.Width,
		Height: cfg.Height,
	}, nil
}
