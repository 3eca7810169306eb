package options

import (
	"testing"

	"github.com/iamNilotpal/lfsgo/internal/blockid"
	"github.com/iamNilotpal/lfsgo/pkg/errors"
)

func TestValidateAcceptsDefaultOptions(t *testing.T) {
	if err := NewDefaultOptions().Validate(); err != nil {
		t.Fatalf("expected default options to validate, got error: %v", err)
	}
}

func TestValidateRejectsEmptyDataDir(t *testing.T) {
	o := NewDefaultOptions()
	o.DataDir = "  "

	err := o.Validate()
	if err == nil {
		t.Fatalf("expected an error for an empty dataDir")
	}
	ve, ok := errors.AsValidationError(err)
	if !ok {
		t.Fatalf("expected a ValidationError, got %T", err)
	}
	if ve.Field() != "dataDir" || ve.Rule() != "required" {
		t.Fatalf("expected field=dataDir rule=required, got field=%s rule=%s", ve.Field(), ve.Rule())
	}
}

func TestValidateRejectsImageNameWithPathSeparator(t *testing.T) {
	o := NewDefaultOptions()
	o.ImageName = "sub/disk.lfs"

	err := o.Validate()
	if err == nil {
		t.Fatalf("expected an error for an imageName containing a path separator")
	}
	ve, ok := errors.AsValidationError(err)
	if !ok {
		t.Fatalf("expected a ValidationError, got %T", err)
	}
	if ve.Field() != "imageName" || ve.Rule() != "format" {
		t.Fatalf("expected field=imageName rule=format, got field=%s rule=%s", ve.Field(), ve.Rule())
	}
}

func TestValidateRejectsOutOfRangePermissions(t *testing.T) {
	o := NewDefaultOptions()
	o.Permissions = 0x1000

	if err := o.Validate(); err == nil {
		t.Fatalf("expected an error for out-of-range permissions")
	}
}

func TestValidateRejectsGeometryExceedingEncodingWidths(t *testing.T) {
	o := NewDefaultOptions()
	o.Geometry = blockid.Geometry{SegBits: 17, BlkBits: 10, OffsetBits: 12, InodeBits: 24}

	err := o.Validate()
	if err == nil {
		t.Fatalf("expected an error for a geometry wider than BlockAddr.Encode can pack")
	}
	if !errors.IsValidationError(err) {
		t.Fatalf("expected a ValidationError, got %T", err)
	}
}
