package similarity

import (
	"fmt"
	"math"

	"synthoct/internal/models"
)

// Multi-scale SSIM parameters: five dyadic scales with the standard
// per-scale weights, 11x11 Gaussian windows with sigma 1.5.
var msssimWeights = []float64{0.0448, 0.2856, 0.3001, 0.2363, 0.1333}

const (
	msssimWindow = 11
	msssimSigma  = 1.5
)

// MSSSIM computes the multi-scale structural similarity index of two
// 8-bit quantized images (values in [0,255]). The contrast-structure term
// is accumulated across all five scales and the luminance term is applied
// at the coarsest scale only.
//
// The image must survive four 2x downsamplings with the Gaussian window
// still fitting; smaller inputs return an error so the caller can mark the
// metric unavailable for the pair.
func MSSSIM(a, b *models.Image) (float64, error) {
	scales := len(msssimWeights)
	minDim := minInt(a.Width, a.Height)
	if need := msssimWindow << (scales - 1); minDim < need {
		return 0, fmt.Errorf("image %dx%d too small for %d-scale evaluation (need %d)", a.Width, a.Height, scales, need)
	}

	kernel := gaussianKernel(msssimWindow, msssimSigma)

	result := 1.0
	ca, cb := a, b
	for s := 0; s < scales; s++ {
		lum, cs := luminanceContrast(ca, cb, kernel, 255.0)
		if s == scales-1 {
			cs *= lum
		}
		if cs < 0 {
			cs = 0
		}
		result *= math.Pow(cs, msssimWeights[s])

		if s < scales-1 {
			ca = downsample2(ca)
			cb = downsample2(cb)
		}
	}

	return result, nil
}

// downsample2 halves both dimensions by averaging 2x2 blocks
func downsample2(img *models.Image) *models.Image {
	w, h := img.Width/2, img.Height/2
	out := models.NewImage(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			sum := img.At(2*x, 2*y) + img.At(2*x+1, 2*y) +
				img.At(2*x, 2*y+1) + img.At(2*x+1, 2*y+1)
			out.Set(x, y, sum/4.0)
		}
	}
	return out
}
