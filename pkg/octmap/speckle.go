package octmap

import (
	"math"

	"synthoct/internal/models"
	"synthoct/pkg/octimage"
)

// ContrastMap computes the windowed speckle-contrast map: the local
// coefficient of variation (standard deviation over mean) estimated with a
// square boxcar window of the given size.
//
// Local variance is derived as E[X^2] - E[X]^2 from two boxcar passes;
// small negative values produced by that subtraction are clamped to zero.
// Because the boxcar estimate is unreliable within window/2 pixels of any
// edge, that border is discarded and the cropped interior is re-padded
// outward by edge replication, keeping the output shape identical to the
// input so downstream pairwise comparisons stay shape-compatible. Border
// pixels of the result are therefore replicated, not independently
// estimated.
func ContrastMap(img *models.Image, window int) *models.Image {
	mean := octimage.UniformFilter(img, window)

	squared := models.NewImage(img.Width, img.Height)
	for i, v := range img.Data {
		squared.Data[i] = v * v
	}
	meanSq := octimage.UniformFilter(squared, window)

	sc := models.NewImage(img.Width, img.Height)
	for i := range sc.Data {
		variance := meanSq.Data[i] - mean.Data[i]*mean.Data[i]
		if variance < 0 {
			variance = 0
		}
		sc.Data[i] = math.Sqrt(variance) / (mean.Data[i] + epsilon)
	}

	return padCroppedBorder(sc, window/2)
}

// padCroppedBorder replaces a border band of the given width with
// edge-replicated copies of the nearest interior pixel.
func padCroppedBorder(img *models.Image, border int) *models.Image {
	if border <= 0 || img.Width <= 2*border || img.Height <= 2*border {
		return img
	}

	out := models.NewImage(img.Width, img.Height)
	loX, hiX := border, img.Width-border-1
	loY, hiY := border, img.Height-border-1

	for y := 0; y < img.Height; y++ {
		srcY := clamp(y, loY, hiY)
		for x := 0; x < img.Width; x++ {
			out.Set(x, y, img.At(clamp(x, loX, hiX), srcY))
		}
	}

	return out
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
