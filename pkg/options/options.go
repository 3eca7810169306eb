// Package options provides data structures and functions for configuring an
// lfsgo mount. It defines the parameters that control where the disk image
// lives and how it is opened, plus the geometry that governs disk layout.
package options

import (
	"path/filepath"
	"strings"

	"github.com/iamNilotpal/lfsgo/internal/blockid"
	"github.com/iamNilotpal/lfsgo/pkg/errors"
)

// Options defines the configuration parameters for an lfsgo mount.
type Options struct {
	// Specifies the base directory the disk image file lives under.
	//
	// Default: "/var/lib/lfsgo"
	DataDir string `json:"dataDir"`

	// Specifies the filename of the disk image within DataDir.
	//
	// Default: "disk.lfs"
	ImageName string `json:"imageName"`

	// Specifies the file mode the image is created with if it doesn't exist.
	//
	// Default: 0600
	Permissions uint32 `json:"permissions"`

	// Geometry pins the disk's addressing scheme: segment count, blocks per
	// segment, bytes per block, and inode count. Mounting an existing image
	// with a different Geometry than the one it was formatted with produces
	// undefined results — this is not persisted in the image itself.
	//
	// Default: blockid.DefaultGeometry
	Geometry blockid.Geometry `json:"geometry"`
}

// OptionFunc is a function type that modifies an lfsgo mount's configuration.
type OptionFunc func(*Options)

// WithDefaultOptions applies the baseline configuration values to Options.
func WithDefaultOptions() OptionFunc {
	return func(o *Options) {
		opts := NewDefaultOptions()
		o.DataDir = opts.DataDir
		o.ImageName = opts.ImageName
		o.Permissions = opts.Permissions
		o.Geometry = opts.Geometry
	}
}

// WithDataDir sets the directory the disk image is stored under.
func WithDataDir(directory string) OptionFunc {
	return func(o *Options) {
		directory = strings.TrimSpace(directory)
		if directory != "" {
			o.DataDir = directory
		}
	}
}

// WithImageName sets the filename of the disk image within DataDir.
func WithImageName(name string) OptionFunc {
	return func(o *Options) {
		name = strings.TrimSpace(name)
		if name != "" {
			o.ImageName = name
		}
	}
}

// WithPermissions sets the file mode the image is created with.
func WithPermissions(perm uint32) OptionFunc {
	return func(o *Options) {
		if perm != 0 {
			o.Permissions = perm
		}
	}
}

// WithGeometry overrides the default disk geometry. Intended primarily for
// tests that need a disk small enough to format and map quickly; production
// mounts should use the default geometry unless the image was formatted
// with a different one.
func WithGeometry(g blockid.Geometry) OptionFunc {
	return func(o *Options) {
		o.Geometry = g
	}
}

// Validate reports whether o is fit to open a mount with: DataDir and
// ImageName must be set, ImageName must be a bare filename rather than a
// path, Permissions must be a valid unix file mode, and Geometry must fit
// the fixed-width on-disk encodings the storage layer assumes. Callers
// should invoke this once, after every OptionFunc has been applied.
func (o Options) Validate() error {
	if strings.TrimSpace(o.DataDir) == "" {
		return errors.NewRequiredFieldError("dataDir")
	}
	if strings.TrimSpace(o.ImageName) == "" {
		return errors.NewRequiredFieldError("imageName")
	}
	if filepath.Base(o.ImageName) != o.ImageName {
		return errors.NewFieldFormatError("imageName", o.ImageName, "a bare filename without path separators")
	}
	if o.Permissions > 0777 {
		return errors.NewFieldRangeError("permissions", o.Permissions, 0, 0777)
	}
	if err := o.Geometry.Validate(); err != nil {
		return errors.NewConfigurationValidationError("geometry", err.Error())
	}
	return nil
}
