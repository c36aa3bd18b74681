package phantom

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
)

// WriteConfigINI writes the scanner configuration file the external
// executable expects: a single [Parameters] section with the fixed key
// vocabulary. Ymax stays zero because phantoms are single-B-scan.
func WriteConfigINI(path string, geom ScanGeometry, scanFile, scattererFile string) error {
	var buf bytes.Buffer
	buf.WriteString("[Parameters]\n")
	fmt.Fprintf(&buf, "Scan Filename = %s\n", scanFile)
	fmt.Fprintf(&buf, "Scatterers coordinates File = %s\n", scattererFile)
	fmt.Fprintf(&buf, "A-scan pixel numbers = %d\n", geom.DepthPixels)
	fmt.Fprintf(&buf, "Vertical pixel size mcm = %g\n", geom.PixelSizeZ)
	fmt.Fprintf(&buf, "Central wavelength mcm = %g\n", geom.Wavelength)
	fmt.Fprintf(&buf, "Number of A-scans in B-scan = %d\n", geom.LateralPixels)
	fmt.Fprintf(&buf, "Xmax mcm = %g\n", geom.XMax())
	fmt.Fprintf(&buf, "Number of B-scans = %d\n", geom.BScanCount)
	fmt.Fprintf(&buf, "Ymax mcm = 0.0\n")
	fmt.Fprintf(&buf, "Beam Radius mcm = %g\n", geom.BeamRadius())
	fmt.Fprintf(&buf, "Number of scatterers in B-scan = %d\n", geom.ScattererCount)

	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write scanner config: %w", err)
	}
	return nil
}

// Scanner invokes the external scan-simulation executable. The executable
// consumes a configuration file and a scatterer file and emits a grayscale
// structural-image file.
type Scanner struct {
	// ExePath is the path of the scanner executable
	ExePath string
}

// Available checks that the scanner executable exists
func (s *Scanner) Available() error {
	if _, err := os.Stat(s.ExePath); err != nil {
		return fmt.Errorf("scanner executable %s not found: %w", s.ExePath, err)
	}
	return nil
}

// Scan runs the scanner on one scatterer file, producing the structural
// scan image at outputPath. The scanner's stderr is included in the error
// when it exits non-zero.
func (s *Scanner) Scan(configPath, scattererPath, outputPath string) error {
	cmd := exec.Command(s.ExePath, configPath, scattererPath, outputPath)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("scanner failed on %s: %w (stderr: %s)", scattererPath, err, stderr.String())
	}
	return nil
}
