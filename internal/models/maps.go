package models

// MapKind identifies which derived map a file or image represents.
// Each scan yields one map of every kind; maps are derived once and are
// immutable afterwards.
type MapKind int

const (
	// Struct is the source structural intensity image
	Struct MapKind = iota

	// OAC is the depth-resolved optical attenuation coefficient map,
	// computed from the structural image
	OAC

	// SC is the windowed speckle-contrast map of the structural image
	SC

	// RSC is the residual speckle-contrast map, i.e. the speckle-contrast
	// estimator applied to the OAC map
	RSC
)

// AllMapKinds lists every map kind in processing order
var AllMapKinds = []MapKind{Struct, OAC, SC, RSC}

// String returns the short map name used in filenames and report tables
func (k MapKind) String() string {
	switch k {
	case Struct:
		return "Struct"
	case OAC:
		return "OAC"
	case SC:
		return "SC"
	case RSC:
		return "RSC"
	}
	return "Unknown"
}

// Suffix returns the filename suffix inserted before the extension for
// derived maps. The structural scan keeps its original name.
func (k MapKind) Suffix() string {
	if k == Struct {
		return ""
	}
	return "_" + k.String()
}
