package similarity

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"synthoct/internal/models"
	"synthoct/pkg/octimage"
)

// SSIM stabilization constants, relative to the data range
const (
	ssimK1     = 0.01
	ssimK2     = 0.03
	ssimWindow = 7
)

// SSIM computes the mean structural similarity index over sliding uniform
// windows, following the standard windowed estimator: local means and
// unbiased local (co)variances from boxcar filters, combined per pixel as
//
//	S = (2*ux*uy + C1)(2*vxy + C2) / ((ux^2 + uy^2 + C1)(vx + vy + C2))
//
// and averaged over the interior region where the window fits entirely.
// Identical images score exactly 1. For images smaller than the default
// 7x7 window the window shrinks to the largest odd size that fits.
func SSIM(a, b *models.Image, dataRange float64) float64 {
	win := ssimWindow
	if m := minInt(a.Width, a.Height); m < win {
		win = m
		if win%2 == 0 {
			win--
		}
		if win < 1 {
			win = 1
		}
	}

	c1 := (ssimK1 * dataRange) * (ssimK1 * dataRange)
	c2 := (ssimK2 * dataRange) * (ssimK2 * dataRange)

	ux := octimage.UniformFilter(a, win)
	uy := octimage.UniformFilter(b, win)
	uxx := octimage.UniformFilter(mul(a, a), win)
	uyy := octimage.UniformFilter(mul(b, b), win)
	uxy := octimage.UniformFilter(mul(a, b), win)

	// unbiased local variance correction for the window sample count
	np := float64(win * win)
	covNorm := 1.0
	if np > 1 {
		covNorm = np / (np - 1)
	}

	pad := win / 2
	var values []float64
	for y := pad; y < a.Height-pad; y++ {
		for x := pad; x < a.Width-pad; x++ {
			mx, my := ux.At(x, y), uy.At(x, y)
			vx := covNorm * (uxx.At(x, y) - mx*mx)
			vy := covNorm * (uyy.At(x, y) - my*my)
			vxy := covNorm * (uxy.At(x, y) - mx*my)

			num := (2*mx*my + c1) * (2*vxy + c2)
			den := (mx*mx + my*my + c1) * (vx + vy + c2)
			values = append(values, num/den)
		}
	}

	if len(values) == 0 {
		// window covers the whole image, single estimate
		return globalSSIM(a, b, c1, c2)
	}
	return stat.Mean(values, nil)
}

// globalSSIM computes one SSIM estimate over the full image, used when the
// image is too small for any sliding window interior.
func globalSSIM(a, b *models.Image, c1, c2 float64) float64 {
	mx := stat.Mean(a.Data, nil)
	my := stat.Mean(b.Data, nil)
	vx := stat.Variance(a.Data, nil)
	vy := stat.Variance(b.Data, nil)
	vxy := stat.Covariance(a.Data, b.Data, nil)

	num := (2*mx*my + c1) * (2*vxy + c2)
	den := (mx*mx + my*my + c1) * (vx + vy + c2)
	if den == 0 {
		return 0
	}
	return num / den
}

func mul(a, b *models.Image) *models.Image {
	out := models.NewImage(a.Width, a.Height)
	for i := range a.Data {
		out.Data[i] = a.Data[i] * b.Data[i]
	}
	return out
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// luminanceContrast returns the mean luminance term and mean
// contrast-structure term of SSIM separately, as needed by the multi-scale
// variant. Gaussian windows of the given kernel are used.
func luminanceContrast(a, b *models.Image, kernel []float64, dataRange float64) (lum, cs float64) {
	c1 := (ssimK1 * dataRange) * (ssimK1 * dataRange)
	c2 := (ssimK2 * dataRange) * (ssimK2 * dataRange)

	ux := octimage.SeparableFilter(a, kernel)
	uy := octimage.SeparableFilter(b, kernel)
	uxx := octimage.SeparableFilter(mul(a, a), kernel)
	uyy := octimage.SeparableFilter(mul(b, b), kernel)
	uxy := octimage.SeparableFilter(mul(a, b), kernel)

	var lumSum, csSum float64
	n := float64(len(a.Data))
	for i := range a.Data {
		mx, my := ux.Data[i], uy.Data[i]
		vx := uxx.Data[i] - mx*mx
		vy := uyy.Data[i] - my*my
		vxy := uxy.Data[i] - mx*my

		lumSum += (2*mx*my + c1) / (mx*mx + my*my + c1)
		csSum += (2*vxy + c2) / (vx + vy + c2)
	}
	return lumSum / n, csSum / n
}

// gaussianKernel builds a normalized odd-length 1-D Gaussian kernel
func gaussianKernel(size int, sigma float64) []float64 {
	if size%2 == 0 {
		size++
	}
	kernel := make([]float64, size)
	radius := size / 2
	sum := 0.0
	for i := range kernel {
		d := float64(i - radius)
		kernel[i] = math.Exp(-d * d / (2 * sigma * sigma))
		sum += kernel[i]
	}
	for i := range kernel {
		kernel[i] /= sum
	}
	return kernel
}
