package options

import "github.com/iamNilotpal/lfsgo/internal/blockid"

const (
	// DefaultDataDir is the base directory lfsgo stores its disk image under
	// when no other directory is specified during initialization.
	DefaultDataDir = "/var/lib/lfsgo"

	// DefaultImageName is the filename used for the single flat disk image
	// described in spec §6 ("On-disk image").
	DefaultImageName = "disk.lfs"

	// DefaultImagePermissions is the mode the image file is created with.
	DefaultImagePermissions = 0600
)

// Holds the default configuration for an lfsgo mount.
var defaultOptions = Options{
	DataDir:     DefaultDataDir,
	ImageName:   DefaultImageName,
	Permissions: DefaultImagePermissions,
	Geometry:    blockid.DefaultGeometry,
}

// NewDefaultOptions returns a copy of the baseline configuration.
func NewDefaultOptions() Options {
	return defaultOptions
}
