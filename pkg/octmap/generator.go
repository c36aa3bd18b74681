package octmap

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"gonum.org/v1/gonum/stat"

	"synthoct/internal/models"
	"synthoct/pkg/octimage"
)

// Display normalization ranges used when persisting maps for metric
// comparison. Speckle-contrast maps use a fixed range so values are
// comparable across scans; the attenuation map is clipped at its 99th
// percentile to suppress the 1/h spike at the deepest bins.
const (
	scDisplayMin = 0.5
	scDisplayMax = 5.0
	oacClipQuant = 0.99
)

// Generator derives and persists the full set of quantitative maps for
// structural scan files.
type Generator struct {
	// PixelSize is the physical depth bin size in microns
	PixelSize float64

	// Window is the square window size for the speckle-contrast estimator
	Window int
}

// NewGenerator creates a map generator with the given estimator parameters
func NewGenerator(pixelSize float64, window int) *Generator {
	return &Generator{PixelSize: pixelSize, Window: window}
}

// MapPath returns the filename a derived map is persisted under for a
// structural scan file: the extension is replaced by "_<KIND>.<ext>".
// The structural map keeps the scan's own path.
func MapPath(scanPath string, kind models.MapKind) string {
	if kind == models.Struct {
		return scanPath
	}
	ext := filepath.Ext(scanPath)
	return strings.TrimSuffix(scanPath, ext) + kind.Suffix() + ext
}

// GenerateAll loads a structural scan, derives the OAC, SC and RSC maps
// and writes them next to the scan using the map suffix naming. It returns
// the file path of every map keyed by kind. Maps are derived once per scan
// and never modified afterwards.
func (g *Generator) GenerateAll(scanPath string) (map[models.MapKind]string, error) {
	intensity, err := octimage.LoadLinearized(scanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load scan %s: %w", scanPath, err)
	}

	paths := map[models.MapKind]string{models.Struct: scanPath}

	oac := AttenuationMap(intensity, g.PixelSize)
	oacPath := MapPath(scanPath, models.OAC)
	if err := octimage.SaveGray(normalizeOAC(oac), oacPath); err != nil {
		return nil, fmt.Errorf("failed to save OAC map: %w", err)
	}
	paths[models.OAC] = oacPath

	sc := ContrastMap(intensity, g.Window)
	scPath := MapPath(scanPath, models.SC)
	if err := octimage.SaveGray(octimage.Normalize(sc, scDisplayMin, scDisplayMax), scPath); err != nil {
		return nil, fmt.Errorf("failed to save SC map: %w", err)
	}
	paths[models.SC] = scPath

	rsc := ContrastMap(oac, g.Window)
	rscPath := MapPath(scanPath, models.RSC)
	if err := octimage.SaveGray(octimage.Normalize(rsc, scDisplayMin, scDisplayMax), rscPath); err != nil {
		return nil, fmt.Errorf("failed to save RSC map: %w", err)
	}
	paths[models.RSC] = rscPath

	return paths, nil
}

// normalizeOAC rescales an attenuation map to [0,1] between its minimum
// and its 99th percentile
func normalizeOAC(oac *models.Image) *models.Image {
	sorted := make([]float64, len(oac.Data))
	copy(sorted, oac.Data)
	sort.Float64s(sorted)

	vmin := sorted[0]
	vmax := stat.Quantile(oacClipQuant, stat.Empirical, sorted, nil)
	return octimage.Normalize(oac, vmin, vmax)
}
