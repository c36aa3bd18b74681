package octimage

import "synthoct/internal/models"

// reflectIndex mirrors an out-of-range index back into [0, n) with the
// edge sample duplicated, matching a symmetric boundary extension.
func reflectIndex(i, n int) int {
	for i < 0 || i >= n {
		if i < 0 {
			i = -i - 1
		}
		if i >= n {
			i = 2*n - i - 1
		}
	}
	return i
}

// UniformFilter applies a separable boxcar mean filter of the given window
// size with reflecting boundary handling. For even window sizes the window
// spans [i - size/2, i + size - size/2 - 1], so the extra sample falls
// before the center.
func UniformFilter(img *models.Image, size int) *models.Image {
	if size <= 1 {
		return img.Clone()
	}

	lo := -(size / 2)
	hi := size - size/2 - 1
	inv := 1.0 / float64(size)

	// horizontal pass
	tmp := models.NewImage(img.Width, img.Height)
	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			sum := 0.0
			for k := lo; k <= hi; k++ {
				sum += img.At(reflectIndex(x+k, img.Width), y)
			}
			tmp.Set(x, y, sum*inv)
		}
	}

	// vertical pass
	out := models.NewImage(img.Width, img.Height)
	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			sum := 0.0
			for k := lo; k <= hi; k++ {
				sum += tmp.At(x, reflectIndex(y+k, img.Height))
			}
			out.Set(x, y, sum*inv)
		}
	}

	return out
}

// SeparableFilter convolves the image with an odd-length 1-D kernel along
// both axes, using reflecting boundary handling. The kernel is assumed to
// be normalized.
func SeparableFilter(img *models.Image, kernel []float64) *models.Image {
	radius := len(kernel) / 2

	tmp := models.NewImage(img.Width, img.Height)
	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			sum := 0.0
			for k, w := range kernel {
				sum += w * img.At(reflectIndex(x+k-radius, img.Width), y)
			}
			tmp.Set(x, y, sum)
		}
	}

	out := models.NewImage(img.Width, img.Height)
	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			sum := 0.0
			for k, w := range kernel {
				sum += w * tmp.At(x, reflectIndex(y+k-radius, img.Height))
			}
			out.Set(x, y, sum)
		}
	}

	return out
}
