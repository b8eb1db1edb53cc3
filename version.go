package data3d

import (
	"github.com/Masterminds/semver/v3"
)

// FormatVersion is the meta version written to new documents.
const FormatVersion = "1"

// SupportedVersions is the constraint that the meta version of a decoded
// document is checked against.
const SupportedVersions = "^1"

var supportedVersions = func() *semver.Constraints {
	c, err := semver.NewConstraint(SupportedVersions)
	if err != nil {
		panic(err)
	}
	return c
}()

// CheckVersion returns a VersionError if version is not a version within
// SupportedVersions. An empty version is accepted.
func CheckVersion(version string) error {
	if version == "" {
		return nil
	}
	v, err := semver.NewVersion(version)
	if err != nil {
		return &VersionError{Version: version, Cause: err}
	}
	if !supportedVersions.Check(v) {
		return &VersionError{Version: version}
	}
	return nil
}
