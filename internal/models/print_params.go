package models

// ColorMode selects color or grayscale rendering.
type ColorMode string

const (
	ColorModeColor      ColorMode = "COLOR"
	ColorModeMonochrome ColorMode = "MONOCHROME"
)

// IsValid checks if the ColorMode is a valid value.
func (m ColorMode) IsValid() bool {
	switch m {
	case ColorModeColor, ColorModeMonochrome:
		return true
	}
	return false
}

// Orientation selects the page orientation.
type Orientation string

const (
	OrientationPortrait  Orientation = "PORTRAIT"
	OrientationLandscape Orientation = "LANDSCAPE"
)

// IsValid checks if the Orientation is a valid value.
func (o Orientation) IsValid() bool {
	switch o {
	case OrientationPortrait, OrientationLandscape:
		return true
	}
	return false
}

// PaperSize represents a named physical paper size.
type PaperSize string

const (
	PaperSizeA4     PaperSize = "A4"     // 210mm x 297mm
	PaperSizeA5     PaperSize = "A5"     // 148mm x 210mm
	PaperSizeLetter PaperSize = "LETTER" // 216mm x 279mm
	PaperSizeLegal  PaperSize = "LEGAL"  // 216mm x 356mm
)

// IsValid checks if the PaperSize is a valid value.
func (p PaperSize) IsValid() bool {
	switch p {
	case PaperSizeA4, PaperSizeA5, PaperSizeLetter, PaperSizeLegal:
		return true
	}
	return false
}

// Dimensions returns the portrait paper dimensions in millimeters
// (width, height). Unknown sizes fall back to A4.
func (p PaperSize) Dimensions() (width, height int) {
	switch p {
	case PaperSizeA5:
		return 148, 210
	case PaperSizeLetter:
		return 216, 279
	case PaperSizeLegal:
		return 216, 356
	default:
		return 210, 297
	}
}

// PageDimensions returns the dimensions transposed for landscape output.
func (p PaperSize) PageDimensions(o Orientation) (width, height int) {
	w, h := p.Dimensions()
	if o == OrientationLandscape {
		return h, w
	}
	return w, h
}

// AllPaperSizes returns all valid PaperSize values.
func AllPaperSizes() []PaperSize {
	return []PaperSize{PaperSizeA4, PaperSizeA5, PaperSizeLetter, PaperSizeLegal}
}
