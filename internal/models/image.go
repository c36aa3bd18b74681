package models

// Image is a 2-D grid of non-negative samples stored in row-major order.
// Rows correspond to depth (the A-scan axis) and columns to lateral
// position. Depending on the processing stage the samples represent either
// linearized backscatter intensity or a derived coefficient.
type Image struct {
	// Data holds the samples in row-major order (y*Width + x)
	Data []float64

	// Width is the number of lateral positions (columns)
	Width int

	// Height is the number of depth bins (rows)
	Height int
}

// NewImage allocates a zero-filled image with the given dimensions
func NewImage(width, height int) *Image {
	return &Image{
		Data:   make([]float64, width*height),
		Width:  width,
		Height: height,
	}
}

// At returns the sample at column x, row y
func (im *Image) At(x, y int) float64 {
	return im.Data[y*im.Width+x]
}

// Set stores a sample at column x, row y
func (im *Image) Set(x, y int, v float64) {
	im.Data[y*im.Width+x] = v
}

// SameShape reports whether two images have identical dimensions.
// Pairwise comparisons require matching shapes.
func (im *Image) SameShape(other *Image) bool {
	return other != nil && im.Width == other.Width && im.Height == other.Height
}

// Clone returns a deep copy of the image
func (im *Image) Clone() *Image {
	out := &Image{
		Data:   make([]float64, len(im.Data)),
		Width:  im.Width,
		Height: im.Height,
	}
	copy(out.Data, im.Data)
	return out
}
