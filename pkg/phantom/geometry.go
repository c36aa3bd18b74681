// Package phantom synthesizes scatterer fields for tissue phantoms and
// drives the external scan-simulation executable that turns them into
// structural OCT images.
package phantom

// ScanGeometry holds the scan-simulation parameters. The defaults follow
// the public dataset specification the phantoms are matched against.
type ScanGeometry struct {
	// DepthPixels is the number of pixels per A-scan
	DepthPixels int `yaml:"depthPixels"`

	// LateralPixels is the number of A-scans per B-scan
	LateralPixels int `yaml:"lateralPixels"`

	// PixelSizeZ and PixelSizeX are the pixel sizes in microns
	PixelSizeZ float64 `yaml:"pixelSizeZ"`
	PixelSizeX float64 `yaml:"pixelSizeX"`

	// Wavelength is the central wavelength in microns
	Wavelength float64 `yaml:"wavelength"`

	// BeamDiameter is the probe beam diameter in microns
	BeamDiameter float64 `yaml:"beamDiameter"`

	// BScanCount is the number of B-scans per acquisition
	BScanCount int `yaml:"bScanCount"`

	// ScattererCount is the number of point scatterers per B-scan
	ScattererCount int `yaml:"scattererCount"`
}

// DefaultGeometry returns the reference scan geometry
func DefaultGeometry() ScanGeometry {
	return ScanGeometry{
		DepthPixels:    256,
		LateralPixels:  512,
		PixelSizeZ:     6.0,
		PixelSizeX:     6.0,
		Wavelength:     1.3,
		BeamDiameter:   20.0,
		BScanCount:     1,
		ScattererCount: 300000,
	}
}

// ZMax returns the physical scan depth in microns
func (g ScanGeometry) ZMax() float64 {
	return float64(g.DepthPixels) * g.PixelSizeZ
}

// XMax returns the physical lateral extent in microns
func (g ScanGeometry) XMax() float64 {
	return float64(g.LateralPixels) * g.PixelSizeX
}

// BeamRadius returns the probe beam radius in microns
func (g ScanGeometry) BeamRadius() float64 {
	return g.BeamDiameter / 2.0
}
