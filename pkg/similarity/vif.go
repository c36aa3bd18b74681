package similarity

import (
	"fmt"
	"math"

	"synthoct/internal/models"
	"synthoct/pkg/octimage"
)

// vifNoiseVariance is the visual noise variance of the pixel-domain VIF
// model, in 8-bit intensity units.
const vifNoiseVariance = 2.0

// VIF computes the pixel-domain visual information fidelity of a distorted
// image against a reference, both 8-bit quantized (values in [0,255]).
// Four dyadic scales are evaluated with Gaussian windows shrinking from
// 17x17 to 3x3; at each scale the images are low-pass filtered and
// decimated before the local gain and noise statistics are accumulated.
// Identical images score 1. Inputs too small for the coarsest scale return
// an error so the metric can be marked unavailable for the pair.
func VIF(reference, distorted *models.Image) (float64, error) {
	if minInt(reference.Width, reference.Height) < 32 {
		return 0, fmt.Errorf("image %dx%d too small for 4-scale evaluation", reference.Width, reference.Height)
	}

	ref := reference
	dist := distorted
	num, den := 0.0, 0.0

	for scale := 1; scale <= 4; scale++ {
		size := 1<<(5-scale) + 1 // 17, 9, 5, 3
		kernel := gaussianKernel(size, float64(size)/5.0)

		if scale > 1 {
			ref = decimate2(octimage.SeparableFilter(ref, kernel))
			dist = decimate2(octimage.SeparableFilter(dist, kernel))
		}

		mu1 := octimage.SeparableFilter(ref, kernel)
		mu2 := octimage.SeparableFilter(dist, kernel)
		refSq := octimage.SeparableFilter(mul(ref, ref), kernel)
		distSq := octimage.SeparableFilter(mul(dist, dist), kernel)
		refDist := octimage.SeparableFilter(mul(ref, dist), kernel)

		for i := range mu1.Data {
			m1, m2 := mu1.Data[i], mu2.Data[i]
			sigma1Sq := refSq.Data[i] - m1*m1
			sigma2Sq := distSq.Data[i] - m2*m2
			sigma12 := refDist.Data[i] - m1*m2
			if sigma1Sq < 0 {
				sigma1Sq = 0
			}
			if sigma2Sq < 0 {
				sigma2Sq = 0
			}

			g := sigma12 / (sigma1Sq + epsilon)
			svSq := sigma2Sq - g*sigma12

			if sigma1Sq < epsilon {
				g = 0
				svSq = sigma2Sq
				sigma1Sq = 0
			}
			if sigma2Sq < epsilon {
				g = 0
				svSq = 0
			}
			if g < 0 {
				svSq = sigma2Sq
				g = 0
			}
			if svSq < epsilon {
				svSq = epsilon
			}

			num += math.Log10(1 + g*g*sigma1Sq/(svSq+vifNoiseVariance))
			den += math.Log10(1 + sigma1Sq/vifNoiseVariance)
		}
	}

	if den == 0 {
		// reference carries no information at any scale
		return 1, nil
	}
	return num / den, nil
}

// decimate2 keeps every second sample along both axes
func decimate2(img *models.Image) *models.Image {
	w := (img.Width + 1) / 2
	h := (img.Height + 1) / 2
	out := models.NewImage(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			out.Set(x, y, img.At(2*x, 2*y))
		}
	}
	return out
}
