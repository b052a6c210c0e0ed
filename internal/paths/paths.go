// Package paths provides path resolution for sitereport configuration
// and output files, wrapping github.com/adrg/xdg for cross-platform XDG
// Base Directory compliance.
package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/cockroachdb/errors"
)

// AppDir is the directory name used under the XDG config home.
const AppDir = "sitereport"

// DefaultDirPerm is the default permission for newly created directories (private).
const DefaultDirPerm = 0o700

// DefaultFilePerm is the default permission for rendered reports and
// generated config files.
const DefaultFilePerm = 0o644

// ErrInvalidPath indicates the provided path is malformed or invalid.
var ErrInvalidPath = errors.New("invalid path")

// ConfigHome returns the directory where sitereport looks for its config
// file. The SITEREPORT_CONFIG_DIR environment variable overrides the XDG
// default (~/.config/sitereport on Linux).
func ConfigHome() string {
	if dir := os.Getenv("SITEREPORT_CONFIG_DIR"); dir != "" {
		return dir
	}
	return filepath.Join(xdg.ConfigHome, AppDir)
}

// DataHome returns the directory where rendered reports are written when
// no explicit output path is configured.
func DataHome() string {
	return filepath.Join(xdg.DataHome, AppDir)
}

// EnsureDir creates the directory and any necessary parents with the given
// permissions. If perm is 0, DefaultDirPerm (0700) is used.
// This function is idempotent; it returns nil if the directory already exists.
func EnsureDir(path string, perm os.FileMode) error {
	if path == "" {
		return errors.Wrap(ErrInvalidPath, "empty directory path")
	}
	if perm == 0 {
		perm = DefaultDirPerm
	}
	if err := os.MkdirAll(path, perm); err != nil {
		return errors.Wrapf(err, "creating directory %s", path)
	}
	return nil
}
