package similarity

import "synthoct/internal/models"

// psnrDataRange is the fixed PSNR data range; images are pre-normalized
// to [0,1] before comparison.
const psnrDataRange = 1.0

// Capabilities declares which optional metrics are enabled for a run.
// It replaces process-wide availability flags: the evaluator computes
// exactly what the descriptor enables and nothing probes global state.
type Capabilities struct {
	// MSSSIM enables the multi-scale structural similarity metric
	MSSSIM bool

	// VIF enables the visual information fidelity metric
	VIF bool

	// LPIPS is the learned perceptual distance collaborator; nil disables
	// the metric for every pair
	LPIPS PerceptualScorer
}

// Evaluator scores image pairs. It is a pure function of its inputs and
// capability descriptor: no side effects, safe for concurrent use.
type Evaluator struct {
	caps Capabilities
}

// NewEvaluator creates an evaluator with the given capability descriptor
func NewEvaluator(caps Capabilities) *Evaluator {
	return &Evaluator{caps: caps}
}

// Evaluate scores one pair of same-kind images and returns the metric
// scores that could be computed.
//
// A shape mismatch fails the whole pair (nil result, no partial scores).
// MSE, PSNR and SSIM are always computed for shape-matched pairs. Each
// optional metric is evaluated in isolation: a failure in one (an image
// too small for the multi-scale pyramid, an unreachable scorer service)
// leaves that metric out of the result without affecting the others.
func (e *Evaluator) Evaluate(a, b *models.Image) PairScores {
	if a == nil || b == nil || !a.SameShape(b) {
		return nil
	}

	scores := PairScores{
		"MSE":  MSE(a, b),
		"PSNR": PSNR(a, b, psnrDataRange),
		"SSIM": SSIM(a, b, psnrDataRange),
	}

	if e.caps.MSSSIM || e.caps.VIF {
		qa := Quantize(a)
		qb := Quantize(b)

		if e.caps.MSSSIM {
			if v, err := MSSSIM(qa, qb); err == nil {
				scores["MS-SSIM"] = v
			}
		}
		if e.caps.VIF {
			if v, err := VIF(qa, qb); err == nil {
				scores["VIF"] = v
			}
		}
	}

	if e.caps.LPIPS != nil {
		if d, err := e.caps.LPIPS.Score(a, b); err == nil {
			scores["LPIPS"] = d
		}
	}

	return scores
}
