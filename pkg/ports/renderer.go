package ports

import (
	"image"
	"image/color"
)

// Renderer turns presented frames into still images.
type Renderer interface {
	CreateCanvas(width, height int, bg color.Color) Canvas

	// EncodeImage encodes img. Quality is only used for JPEG.
	EncodeImage(img image.Image, format ImageFormat, quality int) ([]byte, error)

	// ResizeImage returns img scaled to exactly width x height.
	ResizeImage(img image.Image, width, height int) image.Image
}

// Canvas is a drawing surface for one snapshot and its status bar.
type Canvas interface {
	DrawImage(img image.Image, x, y int)
	DrawRect(x, y, w, h int, c color.Color)

	// DrawText draws text vertically centred on y; x is the left edge, the
	// centre or the right edge depending on style.Align.
	DrawText(text string, x, y int, style TextStyle)
	MeasureText(text string, style TextStyle) (width, height float64)

	ToImage() image.Image
}

// TextStyle describes how status text is drawn. An empty FontPath keeps the
// renderer's built-in face.
type TextStyle struct {
	FontSize float64
	FontPath string
	Color    color.Color
	Align    TextAlign
}

type TextAlign int

const (
	AlignLeft TextAlign = iota
	AlignCenter
	AlignRight
)

type ImageFormat int

const (
	FormatPNG ImageFormat = iota
	FormatJPEG
)
