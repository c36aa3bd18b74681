package phantom

import (
	"bufio"
	"fmt"
	"math/rand"
	"os"
)

// Scatterer is one point scatterer: physical coordinates in microns and a
// backscattering amplitude in percent of incident energy (0..100).
type Scatterer struct {
	X   float64
	Y   float64
	Z   float64
	Amp float64
}

// Generator synthesizes random scatterer fields within a scan geometry
type Generator struct {
	geom ScanGeometry
}

// NewGenerator creates a scatterer-field generator for the given geometry
func NewGenerator(geom ScanGeometry) *Generator {
	return &Generator{geom: geom}
}

// Uniform fills the scan volume with uniformly distributed scatterers of
// constant amplitude. The same seed always reproduces the same field.
// X is centered on the scan axis, Y spans the beam diameter and Z covers
// the full depth.
func (g *Generator) Uniform(seed int64, amp float64) []Scatterer {
	rng := rand.New(rand.NewSource(seed))
	count := g.geom.ScattererCount
	field := make([]Scatterer, count)

	for i := range field {
		field[i].X = (rng.Float64() - 0.5) * g.geom.XMax()
	}
	for i := range field {
		field[i].Y = (rng.Float64() - 0.5) * (2.0 * g.geom.BeamRadius())
	}
	for i := range field {
		field[i].Z = rng.Float64() * g.geom.ZMax()
	}
	for i := range field {
		field[i].Amp = amp
	}

	return field
}

// TwoLayers builds a uniform field whose amplitude switches from ampTop to
// ampBottom below the boundary depth, modeling a two-layer tissue phantom.
func (g *Generator) TwoLayers(seed int64, boundaryZ, ampTop, ampBottom float64) []Scatterer {
	field := g.Uniform(seed, ampTop)
	for i := range field {
		if field[i].Z > boundaryZ {
			field[i].Amp = ampBottom
		}
	}
	return field
}

// WriteScatterers persists a scatterer field as whitespace-separated
// scientific-notation rows (x, y, z, amplitude), the format the scanner
// executable consumes.
func WriteScatterers(path string, field []Scatterer) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create scatterer file: %w", err)
	}
	defer file.Close()

	w := bufio.NewWriter(file)
	for _, s := range field {
		if _, err := fmt.Fprintf(w, "%.4e %.4e %.4e %.4e\n", s.X, s.Y, s.Z, s.Amp); err != nil {
			return fmt.Errorf("failed to write scatterer file: %w", err)
		}
	}
	return w.Flush()
}
