// Package octimage provides loading, saving and grid-level processing of
// OCT scan images. Scans are persisted as grayscale PNG files whose [0,1]
// pixel values map to a 0..40 dB log-intensity range; in memory they are
// carried as float64 grids.
package octimage

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"

	xdraw "golang.org/x/image/draw"

	"synthoct/internal/models"
)

// dbRange is the dynamic range encoded by the [0,1] PNG values. The
// linearization exponent is dbRange/10.
const dbRange = 40.0

const epsilon = 1e-10

// LoadGray reads a grayscale image file and returns its pixel values
// normalized to [0,1]. Color inputs are averaged across channels.
func LoadGray(path string) (*models.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", path, err)
	}

	return FromImage(img), nil
}

// FromImage converts a decoded image to a normalized float grid
func FromImage(img image.Image) *models.Image {
	bounds := img.Bounds()
	out := models.NewImage(bounds.Dx(), bounds.Dy())

	for y := 0; y < out.Height; y++ {
		for x := 0; x < out.Width; x++ {
			r, g, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			out.Set(x, y, float64(r+g+b)/3.0/65535.0)
		}
	}

	return out
}

// Linearize converts a [0,1] log-scaled image back to linear intensity:
// I = 10^((dbRange/10) * p). The result is strictly positive.
func Linearize(img *models.Image) *models.Image {
	out := models.NewImage(img.Width, img.Height)
	exp := dbRange / 10.0
	for i, v := range img.Data {
		out.Data[i] = math.Pow(10.0, v*exp)
	}
	return out
}

// LoadLinearized loads a scan file and restores linear intensity
func LoadLinearized(path string) (*models.Image, error) {
	img, err := LoadGray(path)
	if err != nil {
		return nil, err
	}
	return Linearize(img), nil
}

// Normalize rescales samples to [0,1] over the [vmin, vmax] display range,
// clipping values outside it.
func Normalize(img *models.Image, vmin, vmax float64) *models.Image {
	out := models.NewImage(img.Width, img.Height)
	scale := vmax - vmin + epsilon
	for i, v := range img.Data {
		n := (v - vmin) / scale
		if n < 0 {
			n = 0
		} else if n > 1 {
			n = 1
		}
		out.Data[i] = n
	}
	return out
}

// ToGray16 converts a [0,1] grid to a 16-bit grayscale image
func ToGray16(img *models.Image) *image.Gray16 {
	out := image.NewGray16(image.Rect(0, 0, img.Width, img.Height))
	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			v := img.At(x, y)
			if v < 0 {
				v = 0
			} else if v > 1 {
				v = 1
			}
			out.SetGray16(x, y, color.Gray16{Y: uint16(v * 65535.0)})
		}
	}
	return out
}

// SaveGray writes a [0,1] grid as a 16-bit grayscale PNG, creating the
// parent directory if needed.
func SaveGray(img *models.Image, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create image file: %w", err)
	}
	defer file.Close()

	if err := png.Encode(file, ToGray16(img)); err != nil {
		return fmt.Errorf("failed to encode image: %w", err)
	}
	return nil
}

// Resample rescales an image to the given dimensions with bilinear
// interpolation. Used when a comparison target must be brought to the
// reference shape.
func Resample(img *models.Image, width, height int) *models.Image {
	if img.Width == width && img.Height == height {
		return img.Clone()
	}

	src := ToGray16(img)
	dst := image.NewGray16(image.Rect(0, 0, width, height))
	xdraw.BiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)

	return FromImage(dst)
}
