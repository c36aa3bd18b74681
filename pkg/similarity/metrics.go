// Package similarity scores pairs of same-shape images with a fixed set of
// full-reference quality metrics. MSE, PSNR and SSIM are always available;
// MS-SSIM, VIF and LPIPS are optional and controlled by a capability
// descriptor so no process-wide state decides what gets computed.
package similarity

import (
	"math"

	"synthoct/internal/models"
)

// MetricNames is the closed set of metric identifiers, in the column order
// used by the score tables.
var MetricNames = []string{"MSE", "PSNR", "SSIM", "MS-SSIM", "VIF", "LPIPS"}

// PairScores maps metric names to scalar scores for one image pair. A
// missing key marks that metric unavailable for the pair; a nil map means
// the whole pair could not be scored.
type PairScores map[string]float64

const epsilon = 1e-10

// MSE returns the mean squared error between two same-shape images
func MSE(a, b *models.Image) float64 {
	sum := 0.0
	for i := range a.Data {
		d := a.Data[i] - b.Data[i]
		sum += d * d
	}
	return sum / float64(len(a.Data))
}

// PSNR returns the peak signal-to-noise ratio in dB for the given data
// range. Identical images yield +Inf.
func PSNR(a, b *models.Image, dataRange float64) float64 {
	mse := MSE(a, b)
	if mse == 0 {
		return math.Inf(1)
	}
	return 10.0 * math.Log10(dataRange*dataRange/mse)
}

// Quantize converts a [0,1] image to 8-bit levels stored as float64
// samples in [0,255], rounding to the nearest level.
func Quantize(img *models.Image) *models.Image {
	out := models.NewImage(img.Width, img.Height)
	for i, v := range img.Data {
		q := math.Round(v * 255.0)
		if q < 0 {
			q = 0
		} else if q > 255 {
			q = 255
		}
		out.Data[i] = q
	}
	return out
}
