package globalchat

import (
	"bytes"
	"fmt"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
)

// PreviewSize is the edge length in pixels of the color swatch
const PreviewSize = 250

const labelFontSize = 28

// RenderColorPreview draws a square swatch of color labelled with its hex
// value and returns it as PNG
func RenderColorPreview(color int) ([]byte, error) {
	if color < 0 || color > 0xFFFFFF {
		return nil, fmt.Errorf("color %d out of range", color)
	}

	r, g, b := (color>>16)&0xFF, (color>>8)&0xFF, color&0xFF

	dc := gg.NewContext(PreviewSize, PreviewSize)
	dc.SetRGB255(r, g, b)
	dc.Clear()

	face, err := loadFont(gomono.TTF, labelFontSize)
	if err != nil {
		return nil, fmt.Errorf("failed to load preview font: %w", err)
	}
	dc.SetFontFace(face)
	if isLight(r, g, b) {
		dc.SetRGB255(0, 0, 0)
	} else {
		dc.SetRGB255(255, 255, 255)
	}
	dc.DrawStringAnchored(fmt.Sprintf("#%06X", color), PreviewSize/2, PreviewSize-labelFontSize, 0.5, 0.5)

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode color preview: %w", err)
	}
	return buf.Bytes(), nil
}

// isLight uses the ITU-R BT.601 luma weights
func isLight(r, g, b int) bool {
	return 299*r+587*g+114*b > 128*1000
}

func loadFont(fontData []byte, size float64) (font.Face, error) {
	f, err := truetype.Parse(fontData)
	if err != nil {
		return nil, err
	}
	return truetype.NewFace(f, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	}), nil
}
