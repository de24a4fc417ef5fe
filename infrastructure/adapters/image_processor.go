package adapters

import (
	"bytes"
	"image"
	"image/color"

	"github.com/Sukhman-Singh-Narula/STServer/application/ports/outbound"
	"github.com/Sukhman-Singh-Narula/STServer/domain"
	"github.com/disintegration/imaging"
)

// Scene placeholder backgrounds, picked by scene number.
var placeholderPalette = []color.NRGBA{
	{R: 0x7E, G: 0xB2, B: 0xDD, A: 0xFF},
	{R: 0xF4, G: 0xA2, B: 0x61, A: 0xFF},
	{R: 0x8F, G: 0xC9, B: 0x8F, A: 0xFF},
	{R: 0xC9, G: 0x8F, B: 0xC9, A: 0xFF},
	{R: 0xE7, G: 0xC5, B: 0x6A, A: 0xFF},
	{R: 0x9F, G: 0x8F, B: 0xC9, A: 0xFF},
}

type imagingProcessor struct {
	logger outbound.LoggerPort
}

func NewImagingProcessor(logger outbound.LoggerPort) outbound.ImageProcessorPort {
	return &imagingProcessor{logger: logger}
}

// Process resizes provider output to the target dimensions, derives the
// grayscale copy and re-encodes both as JPEG regardless of input format.
func (p *imagingProcessor) Process(data []byte, dims domain.Dimensions) ([]byte, []byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		p.logger.Error(err, "Failed to decode provider image")
		return nil, nil, err
	}

	resized := imaging.Resize(img, dims.Width, dims.Height, imaging.Lanczos)

	colored, err := encodeJPEG(resized)
	if err != nil {
		return nil, nil, err
	}
	grayscale, err := encodeJPEG(imaging.Grayscale(resized))
	if err != nil {
		return nil, nil, err
	}

	return colored, grayscale, nil
}

// Placeholder renders a solid-toned gradient keyed to the scene number, so a
// failed scene still carries a distinct, deterministic illustration.
func (p *imagingProcessor) Placeholder(sceneNumber int, dims domain.Dimensions) ([]byte, []byte, error) {
	base := placeholderPalette[((sceneNumber-1)%len(placeholderPalette)+len(placeholderPalette))%len(placeholderPalette)]

	img := image.NewNRGBA(image.Rect(0, 0, dims.Width, dims.Height))
	for y := 0; y < dims.Height; y++ {
		// Vertical fade towards white keeps the JPEG visibly a placeholder
		// rather than a flat color block.
		fade := uint8(40 * y / max(dims.Height, 1))
		row := color.NRGBA{
			R: saturatingAdd(base.R, fade),
			G: saturatingAdd(base.G, fade),
			B: saturatingAdd(base.B, fade),
			A: 0xFF,
		}
		for x := 0; x < dims.Width; x++ {
			img.SetNRGBA(x, y, row)
		}
	}

	colored, err := encodeJPEG(img)
	if err != nil {
		return nil, nil, err
	}
	grayscale, err := encodeJPEG(imaging.Grayscale(img))
	if err != nil {
		return nil, nil, err
	}

	return colored, grayscale, nil
}

func encodeJPEG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(85)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func saturatingAdd(v uint8, delta uint8) uint8 {
	sum := int(v) + int(delta)
	if sum > 0xFF {
		return 0xFF
	}
	return uint8(sum)
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
